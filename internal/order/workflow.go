// Package order drives order status transitions.
package order

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tstore_backend/internal/models"
	"tstore_backend/internal/stock"
)

// OrderStore is the slice of the order repository the workflow needs.
type OrderStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error
}

// TerminalStateError rejects a transition out of failed, expired or
// refund-completed.
type TerminalStateError struct {
	Status models.OrderStatus
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("order is already marked for %s", e.Status)
}

type Workflow struct {
	orders     OrderStore
	reconciler *stock.Reconciler
}

func NewWorkflow(orders OrderStore, reconciler *stock.Reconciler) *Workflow {
	return &Workflow{orders: orders, reconciler: reconciler}
}

// Transition moves an order to next, then reconciles stock once per line
// item. The status is persisted before stock adjustment; per-item stock
// failures are reported in the results, not rolled back.
func (w *Workflow) Transition(ctx context.Context, id primitive.ObjectID, next models.OrderStatus) (*models.Order, []stock.Result, error) {
	o, err := w.orders.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if o.OrderStatus.IsTerminal() {
		return nil, nil, &TerminalStateError{Status: o.OrderStatus}
	}

	if err := w.orders.UpdateStatus(ctx, id, next); err != nil {
		return nil, nil, err
	}
	o.OrderStatus = next

	results := w.reconciler.Apply(ctx, o.OrderItems, next)
	return o, results, nil
}
