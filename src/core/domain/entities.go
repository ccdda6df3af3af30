package domain

import (
	"strings"
	"time"
)

// OrderStatus represents the lifecycle of an order.
type OrderStatus string

const (
	OrderStatusOrder  OrderStatus = "ORDER"
	OrderStatusCancel OrderStatus = "CANCEL"
)

// ParseOrderStatus converts a user supplied status name into an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case OrderStatusOrder:
		return OrderStatusOrder, nil
	case OrderStatusCancel:
		return OrderStatusCancel, nil
	default:
		return "", NewValidationError("status", "must be ORDER or CANCEL")
	}
}

// DeliveryStatus represents shipping state.
type DeliveryStatus string

const (
	DeliveryReady    DeliveryStatus = "READY"
	DeliveryComplete DeliveryStatus = "COMP"
)

// Address is an immutable postal address.
type Address struct {
	City    string
	Street  string
	Zipcode string
}

// Member is a registered customer.
type Member struct {
	ID      int64
	Name    string
	Address Address
}

// Item is a product with a price and stock on hand.
type Item struct {
	ID            int64
	Name          string
	Price         int
	StockQuantity int
}

// Delivery holds the shipping destination of one order.
type Delivery struct {
	ID      int64
	Address Address
	Status  DeliveryStatus
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID         int64
	OrderID    int64
	Item       Item
	OrderPrice int
	Count      int
}

// Order is the aggregate root tying a member, a delivery and its lines together.
type Order struct {
	ID         int64
	Member     Member
	Delivery   Delivery
	OrderItems []OrderItem
	OrderDate  time.Time
	Status     OrderStatus
}
