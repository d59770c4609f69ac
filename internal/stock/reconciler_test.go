package stock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tstore_backend/internal/models"
)

type fakeProducts struct {
	stocks  map[primitive.ObjectID]int
	missing map[primitive.ObjectID]bool
	sets    int
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{
		stocks:  map[primitive.ObjectID]int{},
		missing: map[primitive.ObjectID]bool{},
	}
}

func (f *fakeProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	if f.missing[id] {
		return nil, errors.New("product not found")
	}
	return &models.Product{ID: id, Stock: f.stocks[id]}, nil
}

func (f *fakeProducts) SetStock(_ context.Context, id primitive.ObjectID, stock int) error {
	f.sets++
	f.stocks[id] = stock
	return nil
}

func TestApply_PaymentReceivedDecrements(t *testing.T) {
	products := newFakeProducts()
	id := primitive.NewObjectID()
	products.stocks[id] = 10

	results := NewReconciler(products).Apply(context.Background(),
		[]models.LineItem{{Product: id, Quantity: 3}}, models.StatusPaymentReceived)

	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, 7, products.stocks[id])
}

func TestApply_ReturnCompletedIncrements(t *testing.T) {
	products := newFakeProducts()
	id := primitive.NewObjectID()
	products.stocks[id] = 10

	NewReconciler(products).Apply(context.Background(),
		[]models.LineItem{{Product: id, Quantity: 4}}, models.StatusReturnCompleted)

	assert.Equal(t, 14, products.stocks[id])
}

func TestApply_OtherStatusesLeaveStockUnchanged(t *testing.T) {
	for _, status := range []models.OrderStatus{
		models.StatusAwaitingPayment,
		models.StatusInTransit,
		models.StatusCancelled,
		models.StatusDelivered,
		models.StatusReturnInProgress,
		models.StatusRefundInProgress,
	} {
		products := newFakeProducts()
		id := primitive.NewObjectID()
		products.stocks[id] = 10

		results := NewReconciler(products).Apply(context.Background(),
			[]models.LineItem{{Product: id, Quantity: 2}}, status)

		assert.Nil(t, results, "status %s", status)
		assert.Equal(t, 10, products.stocks[id], "status %s", status)
		assert.Zero(t, products.sets, "status %s", status)
	}
}

func TestApply_FailedItemDoesNotBlockSiblings(t *testing.T) {
	products := newFakeProducts()
	missing := primitive.NewObjectID()
	ok := primitive.NewObjectID()
	products.missing[missing] = true
	products.stocks[ok] = 5

	results := NewReconciler(products).Apply(context.Background(), []models.LineItem{
		{Product: missing, Quantity: 1},
		{Product: ok, Quantity: 2},
	}, models.StatusPaymentReceived)

	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, 3, products.stocks[ok])
}
