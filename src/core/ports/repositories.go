// Package ports defines interfaces (ports) that connect core domain to infrastructure.
// These interfaces follow the ports and adapters (hexagonal) architecture pattern.
//
// Ports are defined here in the core layer, while implementations (adapters)
// live in src/infra/repo. This ensures the core has no dependency on infrastructure.
package ports

import (
	"context"
	"time"

	"jpashop/src/core/domain"
)

// Repository is the base interface for all repositories.
type Repository interface {
	// Health checks if the underlying storage is reachable.
	Health(ctx context.Context) error
}

// OrderSearch filters orders. Zero values mean "any".
type OrderSearch struct {
	Status     domain.OrderStatus
	MemberName string // substring of the member name
}

// Window is an offset/limit pagination window over parent orders.
// A zero Limit means no explicit window was requested.
type Window struct {
	Offset int
	Limit  int
}

// OrderSummary is the to-one projection of an order: the order row joined
// with its member and delivery, without lines.
type OrderSummary struct {
	OrderID         int64
	OrderDate       time.Time
	Status          domain.OrderStatus
	MemberID        int64
	MemberName      string
	MemberAddress   domain.Address
	DeliveryID      int64
	DeliveryStatus  domain.DeliveryStatus
	DeliveryAddress domain.Address
}

// OrderFlatRow is one row of the fully flattened order graph: the summary
// repeated for every order line. OrderItemID is zero for an order without lines.
type OrderFlatRow struct {
	OrderSummary
	OrderItemID int64
	ItemID      int64
	ItemName    string
	ItemPrice   int
	ItemStock   int
	OrderPrice  int
	Count       int
}

// OrderStore is the read side used to assemble order aggregates.
// Every method is exactly one round trip to the store. Results are ordered by
// order id, then order item id.
type OrderStore interface {
	Repository

	// FindOrders returns root rows only. Member and Delivery carry just their ids.
	FindOrders(ctx context.Context, search OrderSearch, window Window) ([]domain.Order, error)
	FindMember(ctx context.Context, memberID int64) (*domain.Member, error)
	FindDelivery(ctx context.Context, deliveryID int64) (*domain.Delivery, error)
	// FindOrderItems returns the lines of one order. Item carries just its id.
	FindOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	FindItem(ctx context.Context, itemID int64) (*domain.Item, error)

	// FindOrdersWithMemberDelivery joins the to-one associations; lines are not loaded.
	FindOrdersWithMemberDelivery(ctx context.Context, search OrderSearch, window Window) ([]domain.Order, error)
	// FindOrderItemsByOrderIDs loads the lines of many orders with their items joined.
	FindOrderItemsByOrderIDs(ctx context.Context, orderIDs []int64) ([]domain.OrderItem, error)
	// FindOrdersWithItems joins the whole graph. One Order is returned per
	// line, each holding that single line, so parents repeat. Unpaged.
	FindOrdersWithItems(ctx context.Context, search OrderSearch) ([]domain.Order, error)

	FindOrderSummaries(ctx context.Context, search OrderSearch, window Window) ([]OrderSummary, error)
	// FindOrderFlatRows returns the flattened graph. Unpaged.
	FindOrderFlatRows(ctx context.Context, search OrderSearch) ([]OrderFlatRow, error)
}

// MemberRepository persists members.
type MemberRepository interface {
	Save(ctx context.Context, member *domain.Member) error
	FindByID(ctx context.Context, memberID int64) (*domain.Member, error)
	FindAll(ctx context.Context) ([]domain.Member, error)
	FindByName(ctx context.Context, name string) ([]domain.Member, error)
	UpdateName(ctx context.Context, memberID int64, name string) (*domain.Member, error)
}

// ItemRepository persists items.
type ItemRepository interface {
	Save(ctx context.Context, item *domain.Item) error
	FindByID(ctx context.Context, itemID int64) (*domain.Item, error)
	FindAll(ctx context.Context) ([]domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
}

// OrderRepository persists orders.
type OrderRepository interface {
	// Save inserts the delivery, the order and its lines, and decrements each
	// item's stock by the line count, atomically. A stock shortfall is a conflict.
	Save(ctx context.Context, order *domain.Order) error
	// FindByID returns the full order graph.
	FindByID(ctx context.Context, orderID int64) (*domain.Order, error)
	// Cancel marks an ORDER as CANCEL and restores stock, atomically.
	Cancel(ctx context.Context, order *domain.Order) error
}
