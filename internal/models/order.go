package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the wire value stored on an order. The spellings are kept
// as-is for compatibility with existing clients and stored documents.
type OrderStatus string

const (
	StatusAwaitingPayment  OrderStatus = "awaitingPayment"
	StatusFailed           OrderStatus = "failed"
	StatusExpired          OrderStatus = "expired"
	StatusPaymentReceived  OrderStatus = "paymentRecieved"
	StatusInTransit        OrderStatus = "inTransist"
	StatusCancelled        OrderStatus = "cancelled"
	StatusDelivered        OrderStatus = "delivered"
	StatusReturnInProgress OrderStatus = "returnInProgress"
	StatusReturnCompleted  OrderStatus = "returnCompleted"
	StatusRefundInProgress OrderStatus = "refundInProgress"
	StatusRefundCompleted  OrderStatus = "refundedCompleted"
)

var orderStatuses = map[OrderStatus]bool{
	StatusAwaitingPayment:  true,
	StatusFailed:           true,
	StatusExpired:          true,
	StatusPaymentReceived:  true,
	StatusInTransit:        true,
	StatusCancelled:        true,
	StatusDelivered:        true,
	StatusReturnInProgress: true,
	StatusReturnCompleted:  true,
	StatusRefundInProgress: true,
	StatusRefundCompleted:  true,
}

// ParseOrderStatus reports whether s names a known status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(s)
	return status, orderStatuses[status]
}

// IsTerminal reports whether no further transition is permitted from s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusFailed || s == StatusExpired || s == StatusRefundCompleted
}

type ShippingInfo struct {
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	Country    string `bson:"country" json:"country"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	PhoneNo    string `bson:"phoneNo" json:"phoneNo"`
}

// LineItem is one (product, quantity) pair within an order. Name, image and
// price are denormalized at order time.
type LineItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Name     string             `bson:"name" json:"name"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Image    string             `bson:"image" json:"image"`
	Price    float64            `bson:"price" json:"price"`
}

// PaymentInfo is opaque pass-through data from the payment provider.
type PaymentInfo struct {
	ID string `bson:"id" json:"id"`
}

type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ShippingInfo   ShippingInfo       `bson:"shippingInfo" json:"shippingInfo"`
	User           primitive.ObjectID `bson:"user" json:"user"`
	OrderItems     []LineItem         `bson:"orderItems" json:"orderItems"`
	PaymentInfo    PaymentInfo        `bson:"paymentInfo" json:"paymentInfo"`
	TaxAmount      float64            `bson:"taxAmount" json:"taxAmount"`
	ShippingAmount float64            `bson:"shippingAmount" json:"shippingAmount"`
	TotalAmount    float64            `bson:"totalAmount" json:"totalAmount"`
	OrderStatus    OrderStatus        `bson:"orderStatus" json:"orderStatus"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
