// Package order serves order creation, lookup and the admin status
// transitions.
package order

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tstore_backend/internal/httpx"
	"tstore_backend/internal/middleware"
	"tstore_backend/internal/models"
	orderflow "tstore_backend/internal/order"
	"tstore_backend/internal/repository"
)

type Handler struct {
	orders   *repository.OrderRepo
	workflow *orderflow.Workflow
}

func NewHandler(orders *repository.OrderRepo, workflow *orderflow.Workflow) *Handler {
	return &Handler{orders: orders, workflow: workflow}
}

// CreateOrder stores a new order for the logged-in user. Amounts arrive
// computed from the client, as the checkout flow owns pricing.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req struct {
		ShippingInfo   models.ShippingInfo `json:"shippingInfo" binding:"required"`
		OrderItems     []models.LineItem   `json:"orderItems" binding:"required,min=1"`
		PaymentInfo    models.PaymentInfo  `json:"paymentInfo"`
		TaxAmount      float64             `json:"taxAmount"`
		ShippingAmount float64             `json:"shippingAmount"`
		TotalAmount    float64             `json:"totalAmount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, httpx.BadRequest("shippingInfo and orderItems are required"))
		return
	}

	now := time.Now()
	o := &models.Order{
		ShippingInfo:   req.ShippingInfo,
		OrderItems:     req.OrderItems,
		PaymentInfo:    req.PaymentInfo,
		TaxAmount:      req.TaxAmount,
		ShippingAmount: req.ShippingAmount,
		TotalAmount:    req.TotalAmount,
		User:           middleware.CurrentUser(c).ID,
		OrderStatus:    models.StatusAwaitingPayment,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.orders.Create(c.Request.Context(), o); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, gin.H{"order": o})
}

// GetOneOrder returns one order, only to its owner, with the owner's name
// and email attached.
func (h *Handler) GetOneOrder(c *gin.Context) {
	o, err := h.findOrder(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	if o.User != user.ID {
		httpx.Error(c, httpx.BadRequest("this order is not associated to you"))
		return
	}

	httpx.JSON(c, http.StatusOK, gin.H{
		"order": o,
		"user":  gin.H{"name": user.Name, "email": user.Email},
	})
}

// GetMyOrders lists the logged-in user's orders.
func (h *Handler) GetMyOrders(c *gin.Context) {
	orders, err := h.orders.FindByUser(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, gin.H{"orders": orders})
}

// AdminGetOrders lists all orders.
func (h *Handler) AdminGetOrders(c *gin.Context) {
	orders, err := h.orders.FindAll(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, gin.H{"orders": orders})
}

// AdminUpdateOrder drives the status workflow: terminal orders reject the
// change, accepted changes reconcile stock per line item and the per-item
// outcomes are reported.
func (h *Handler) AdminUpdateOrder(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		httpx.Error(c, httpx.BadRequest("invalid order id"))
		return
	}

	var req struct {
		OrderStatus string `json:"orderStatus" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, httpx.BadRequest("orderStatus is required"))
		return
	}
	status, ok := models.ParseOrderStatus(req.OrderStatus)
	if !ok {
		httpx.Error(c, httpx.BadRequest("unknown order status: "+req.OrderStatus))
		return
	}

	o, results, err := h.workflow.Transition(c.Request.Context(), id, status)
	var terminal *orderflow.TerminalStateError
	switch {
	case errors.As(err, &terminal):
		httpx.Error(c, httpx.NewAppError(http.StatusConflict, terminal.Error()))
		return
	case errors.Is(err, repository.ErrNotFound):
		httpx.Error(c, httpx.NotFound("order not found"))
		return
	case err != nil:
		httpx.Error(c, err)
		return
	}

	stockErrors := []gin.H{}
	for _, res := range results {
		if res.Err != nil {
			stockErrors = append(stockErrors, gin.H{
				"product": res.Product.Hex(),
				"error":   res.Err.Error(),
			})
		}
	}
	httpx.JSON(c, http.StatusOK, gin.H{
		"order":       o,
		"stockErrors": stockErrors,
	})
}

// AdminDeleteOrder removes an order.
func (h *Handler) AdminDeleteOrder(c *gin.Context) {
	o, err := h.findOrder(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	if err := h.orders.Delete(c.Request.Context(), o.ID); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, gin.H{"order": o})
}

func (h *Handler) findOrder(c *gin.Context) (*models.Order, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return nil, httpx.BadRequest("invalid order id")
	}
	o, err := h.orders.FindByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, httpx.NotFound("please check order id")
	}
	return o, err
}
