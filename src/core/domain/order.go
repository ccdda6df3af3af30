package domain

import (
	"strings"
	"time"
)

// RemoveStock takes n units out of stock.
func (i *Item) RemoveStock(n int) error {
	rest := i.StockQuantity - n
	if rest < 0 {
		return NewConflictError("need more stock")
	}
	i.StockQuantity = rest
	return nil
}

// AddStock puts n units back into stock.
func (i *Item) AddStock(n int) {
	i.StockQuantity += n
}

// Validate checks the fields an item must always satisfy.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return NewValidationError("name", "cannot be empty")
	}
	if i.Price < 0 {
		return NewValidationError("price", "cannot be negative")
	}
	if i.StockQuantity < 0 {
		return NewValidationError("stock_quantity", "cannot be negative")
	}
	return nil
}

// NewDelivery creates a delivery that is ready to ship to addr.
func NewDelivery(addr Address) Delivery {
	return Delivery{Address: addr, Status: DeliveryReady}
}

// NewOrderItem builds an order line and removes the ordered quantity from item.
func NewOrderItem(item *Item, orderPrice, count int) (OrderItem, error) {
	if count <= 0 {
		return OrderItem{}, NewValidationError("count", "must be positive")
	}
	if err := item.RemoveStock(count); err != nil {
		return OrderItem{}, err
	}
	return OrderItem{
		Item:       *item,
		OrderPrice: orderPrice,
		Count:      count,
	}, nil
}

// TotalPrice is the price of the whole line.
func (oi OrderItem) TotalPrice() int {
	return oi.OrderPrice * oi.Count
}

// NewOrder creates an order in ORDER status dated now.
func NewOrder(member Member, delivery Delivery, items ...OrderItem) (*Order, error) {
	if len(items) == 0 {
		return nil, NewValidationError("lines", "at least one order line required")
	}
	return &Order{
		Member:     member,
		Delivery:   delivery,
		OrderItems: items,
		OrderDate:  time.Now(),
		Status:     OrderStatusOrder,
	}, nil
}

// Cancel moves the order to CANCEL and returns every line's quantity to stock.
// Orders whose delivery already completed cannot be canceled.
func (o *Order) Cancel() error {
	if o.Delivery.Status == DeliveryComplete {
		return NewConflictError("already delivered order cannot be canceled")
	}
	if o.Status == OrderStatusCancel {
		return NewConflictError("order already canceled")
	}
	o.Status = OrderStatusCancel
	for i := range o.OrderItems {
		o.OrderItems[i].Item.AddStock(o.OrderItems[i].Count)
	}
	return nil
}

// TotalPrice sums the totals of all lines.
func (o *Order) TotalPrice() int {
	total := 0
	for _, oi := range o.OrderItems {
		total += oi.TotalPrice()
	}
	return total
}
