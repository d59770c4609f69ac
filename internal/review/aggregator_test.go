package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tstore_backend/internal/models"
)

func TestAggregate_AddEditDelete(t *testing.T) {
	p := &models.Product{}
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	Upsert(p, alice, "Alice", 4, "good")
	assert.Equal(t, 4.0, p.Ratings)
	assert.Equal(t, 1, p.NumberOfReviews)

	Upsert(p, bob, "Bob", 2, "meh")
	assert.Equal(t, 3.0, p.Ratings)
	assert.Equal(t, 2, p.NumberOfReviews)

	// Editing overwrites in place: count and position stay.
	Upsert(p, alice, "Alice", 5, "even better")
	assert.Equal(t, 3.5, p.Ratings)
	assert.Equal(t, 2, p.NumberOfReviews)
	require.Len(t, p.Reviews, 2)
	assert.Equal(t, alice, p.Reviews[0].User)
	assert.Equal(t, 5, p.Reviews[0].Rating)
	assert.Equal(t, "even better", p.Reviews[0].Comment)

	require.True(t, Remove(p, alice))
	assert.Equal(t, 2.0, p.Ratings)
	assert.Equal(t, 1, p.NumberOfReviews)

	require.True(t, Remove(p, bob))
	assert.Equal(t, 0.0, p.Ratings)
	assert.Equal(t, 0, p.NumberOfReviews)
	assert.Empty(t, p.Reviews)
}

func TestRemove_AbsentAuthorIsNoop(t *testing.T) {
	p := &models.Product{}
	alice := primitive.NewObjectID()
	Upsert(p, alice, "Alice", 3, "ok")

	removed := Remove(p, primitive.NewObjectID())

	assert.False(t, removed)
	assert.Equal(t, 3.0, p.Ratings)
	assert.Equal(t, 1, p.NumberOfReviews)
}

func TestRemove_PreservesOrderOfRemaining(t *testing.T) {
	p := &models.Product{}
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	Upsert(p, a, "A", 1, "")
	Upsert(p, b, "B", 2, "")
	Upsert(p, c, "C", 3, "")

	require.True(t, Remove(p, b))

	require.Len(t, p.Reviews, 2)
	assert.Equal(t, a, p.Reviews[0].User)
	assert.Equal(t, c, p.Reviews[1].User)
	assert.Equal(t, 2.0, p.Ratings)
}
