package order

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tstore_backend/internal/models"
	"tstore_backend/internal/stock"
)

type fakeOrders struct {
	orders  map[primitive.ObjectID]*models.Order
	updates int
}

func (f *fakeOrders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, errors.New("order not found")
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	f.updates++
	f.orders[id].OrderStatus = status
	return nil
}

type fakeProducts struct {
	stocks map[primitive.ObjectID]int
	sets   int
}

func (f *fakeProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	return &models.Product{ID: id, Stock: f.stocks[id]}, nil
}

func (f *fakeProducts) SetStock(_ context.Context, id primitive.ObjectID, s int) error {
	f.sets++
	f.stocks[id] = s
	return nil
}

func newWorkflowFixture(status models.OrderStatus) (*Workflow, *fakeOrders, *fakeProducts, primitive.ObjectID, primitive.ObjectID) {
	orderID := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	orders := &fakeOrders{orders: map[primitive.ObjectID]*models.Order{
		orderID: {
			ID:          orderID,
			OrderStatus: status,
			OrderItems:  []models.LineItem{{Product: productID, Quantity: 2}},
		},
	}}
	products := &fakeProducts{stocks: map[primitive.ObjectID]int{productID: 10}}
	return NewWorkflow(orders, stock.NewReconciler(products)), orders, products, orderID, productID
}

func TestTransition_TerminalStatesReject(t *testing.T) {
	for _, terminal := range []models.OrderStatus{
		models.StatusFailed,
		models.StatusExpired,
		models.StatusRefundCompleted,
	} {
		w, orders, products, orderID, _ := newWorkflowFixture(terminal)

		_, _, err := w.Transition(context.Background(), orderID, models.StatusDelivered)

		var terr *TerminalStateError
		require.ErrorAs(t, err, &terr, "status %s", terminal)
		assert.Equal(t, terminal, terr.Status)
		assert.Zero(t, orders.updates, "status %s", terminal)
		assert.Zero(t, products.sets, "no stock update from terminal state %s", terminal)
	}
}

func TestTransition_PersistsStatusAndReconcilesStock(t *testing.T) {
	w, orders, products, orderID, productID := newWorkflowFixture(models.StatusAwaitingPayment)

	o, results, err := w.Transition(context.Background(), orderID, models.StatusPaymentReceived)

	require.NoError(t, err)
	assert.Equal(t, models.StatusPaymentReceived, o.OrderStatus)
	assert.Equal(t, models.StatusPaymentReceived, orders.orders[orderID].OrderStatus)
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, 8, products.stocks[productID])
}

func TestTransition_NonStockStatusReturnsNoResults(t *testing.T) {
	w, _, products, orderID, _ := newWorkflowFixture(models.StatusPaymentReceived)

	_, results, err := w.Transition(context.Background(), orderID, models.StatusInTransit)

	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Zero(t, products.sets)
}

func TestTransition_MissingOrder(t *testing.T) {
	w, _, _, _, _ := newWorkflowFixture(models.StatusAwaitingPayment)

	_, _, err := w.Transition(context.Background(), primitive.NewObjectID(), models.StatusDelivered)

	assert.Error(t, err)
}
