package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseQuery_FoldsBracketKeys(t *testing.T) {
	values, err := url.ParseQuery("search=coder&page=2&category=shortsleeves&rating[gte]=4&price[lte]=999&price[gte]=199&limit=5")
	require.NoError(t, err)

	q := ParseQuery(values)

	assert.Equal(t, "coder", q["search"])
	assert.Equal(t, "2", q["page"])
	assert.Equal(t, "shortsleeves", q["category"])
	assert.Equal(t, map[string]any{"gte": "4"}, q["rating"])
	assert.Equal(t, map[string]any{"gte": "199", "lte": "999"}, q["price"])
}

func TestSearch_AddsCaseInsensitiveRegex(t *testing.T) {
	doc := NewWhereClause(map[string]any{"search": "hoodie"}).Search().Document()

	assert.Equal(t, bson.M{"name": bson.M{"$regex": "hoodie", "$options": "i"}}, doc)
}

func TestSearch_AbsentTermIsNoRestriction(t *testing.T) {
	doc := NewWhereClause(map[string]any{}).Search().Document()

	assert.Equal(t, bson.M{}, doc)
}

func TestFilter_UnknownKeysBecomeExactMatch(t *testing.T) {
	doc := NewWhereClause(map[string]any{"category": "hoodies"}).Filter().Document()

	assert.Equal(t, bson.M{"category": "hoodies"}, doc)
}

func TestFilter_ReservedKeysAreDropped(t *testing.T) {
	doc := NewWhereClause(map[string]any{
		"search": "x",
		"page":   "3",
		"limit":  "9",
	}).Filter().Document()

	assert.Equal(t, bson.M{}, doc)
}

func TestFilter_RangeKeysBecomeComparisons(t *testing.T) {
	doc := NewWhereClause(map[string]any{
		"rating": map[string]any{"gte": "4"},
		"price":  map[string]any{"gte": "199", "lte": "999"},
	}).Filter().Document()

	and, ok := doc["$and"].([]bson.M)
	require.True(t, ok, "two filter conditions compose under $and, got %v", doc)
	assert.ElementsMatch(t, []bson.M{
		{"rating": bson.M{"$gte": float64(4)}},
		{"price": bson.M{"$gte": float64(199), "$lte": float64(999)}},
	}, and)
}

func TestSearchAndFilter_ComposeAsConjunction(t *testing.T) {
	clause := NewWhereClause(map[string]any{
		"search":   "shirt",
		"category": "tops",
	})

	a := clause.Search().Filter().Document()
	b := clause.Filter().Search().Document()

	want := []bson.M{
		{"name": bson.M{"$regex": "shirt", "$options": "i"}},
		{"category": "tops"},
	}
	assert.ElementsMatch(t, want, a["$and"].([]bson.M))
	assert.ElementsMatch(t, want, b["$and"].([]bson.M))
}

func TestPager_SkipsAndLimits(t *testing.T) {
	opts := NewWhereClause(map[string]any{"page": "2"}).Pager(6).FindOptions()

	require.NotNil(t, opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(6), *opts.Skip)
	assert.Equal(t, int64(6), *opts.Limit)
}

func TestPager_MalformedPageMeansPageOne(t *testing.T) {
	for _, page := range []any{"abc", "", "-2", nil} {
		q := map[string]any{}
		if page != nil {
			q["page"] = page
		}
		opts := NewWhereClause(q).Pager(6).FindOptions()
		require.NotNil(t, opts.Skip)
		assert.Equal(t, int64(0), *opts.Skip, "page=%v", page)
	}
}

func TestPager_DoesNotTouchTheFilterDocument(t *testing.T) {
	clause := NewWhereClause(map[string]any{"category": "tops", "page": "2"}).Filter()

	before := clause.Document()
	after := clause.Pager(6).Document()

	assert.Equal(t, before, after)
}

func TestFindOptions_NoPagerMeansNoWindow(t *testing.T) {
	opts := NewWhereClause(map[string]any{}).FindOptions()

	assert.Nil(t, opts.Skip)
	assert.Nil(t, opts.Limit)
}

func TestPerPage(t *testing.T) {
	assert.Equal(t, int64(5), NewWhereClause(map[string]any{"limit": "5"}).PerPage(6))
	assert.Equal(t, int64(6), NewWhereClause(map[string]any{"limit": "zero"}).PerPage(6))
	assert.Equal(t, int64(6), NewWhereClause(map[string]any{}).PerPage(6))
}

func TestStagesDoNotMutateTheReceiver(t *testing.T) {
	base := NewWhereClause(map[string]any{"search": "a", "category": "b"})

	searched := base.Search()
	_ = searched.Filter()

	assert.Equal(t, bson.M{}, base.Document())
	assert.Equal(t, bson.M{"name": bson.M{"$regex": "a", "$options": "i"}}, searched.Document())
}
