// Package stock adjusts product inventory as orders move through their
// lifecycle.
package stock

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tstore_backend/internal/models"
)

// ProductStore is the slice of the product repository the reconciler needs.
type ProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	SetStock(ctx context.Context, id primitive.ObjectID, stock int) error
}

// Result reports the outcome of one line-item adjustment. A failed item
// never blocks its siblings.
type Result struct {
	Product  primitive.ObjectID `json:"product"`
	Quantity int                `json:"quantity"`
	Err      error              `json:"-"`
}

type Reconciler struct {
	products ProductStore
}

func NewReconciler(products ProductStore) *Reconciler {
	return &Reconciler{products: products}
}

// Apply adjusts stock for every line item: payment received consumes
// inventory, a completed return restores it, every other status is a no-op
// and returns no results.
//
// The read-modify-write per product is not atomic and there is no
// compensation if a later order save fails; concurrent reconciliations for
// the same product may interleave.
func (r *Reconciler) Apply(ctx context.Context, items []models.LineItem, status models.OrderStatus) []Result {
	var delta int
	switch status {
	case models.StatusPaymentReceived:
		delta = -1
	case models.StatusReturnCompleted:
		delta = 1
	default:
		return nil
	}

	results := make([]Result, 0, len(items))
	for _, item := range items {
		res := Result{Product: item.Product, Quantity: item.Quantity}
		product, err := r.products.FindByID(ctx, item.Product)
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}
		res.Err = r.products.SetStock(ctx, item.Product, product.Stock+delta*item.Quantity)
		results = append(results, res)
	}
	return results
}
