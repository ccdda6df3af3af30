package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"jpashop/src/core/domain"
	"jpashop/src/core/ports"
)

// OrderLine is one requested line of a new order.
type OrderLine struct {
	ItemID int64
	Count  int
}

// OrderService handles order placement, cancellation and queries.
type OrderService struct {
	orders  ports.OrderRepository
	members ports.MemberRepository
	items   ports.ItemRepository
	loader  *OrderLoader
	log     *slog.Logger
}

func NewOrderService(orders ports.OrderRepository, members ports.MemberRepository, items ports.ItemRepository, loader *OrderLoader, log *slog.Logger) *OrderService {
	return &OrderService{
		orders:  orders,
		members: members,
		items:   items,
		loader:  loader,
		log:     log,
	}
}

// Place creates an order for memberID. Stock is reserved per line; lines that
// repeat an item draw from the same stock.
func (s *OrderService) Place(ctx context.Context, memberID int64, lines []OrderLine) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, domain.NewValidationError("lines", "at least one order line required")
	}

	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	loaded := make(map[int64]*domain.Item, len(lines))
	orderItems := make([]domain.OrderItem, 0, len(lines))
	for i, line := range lines {
		if line.ItemID <= 0 {
			return nil, domain.NewValidationError(fmt.Sprintf("lines[%d].item_id", i), "must be positive")
		}
		item, ok := loaded[line.ItemID]
		if !ok {
			item, err = s.items.FindByID(ctx, line.ItemID)
			if err != nil {
				return nil, err
			}
			loaded[line.ItemID] = item
		}
		oi, err := domain.NewOrderItem(item, item.Price, line.Count)
		if err != nil {
			return nil, err
		}
		orderItems = append(orderItems, oi)
	}

	order, err := domain.NewOrder(*member, domain.NewDelivery(member.Address), orderItems...)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	s.log.Info("order placed",
		"order_id", order.ID,
		"member_id", member.ID,
		"lines", len(order.OrderItems),
		"total_price", order.TotalPrice(),
	)
	return order, nil
}

// Cancel cancels an order and returns its stock.
func (s *OrderService) Cancel(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(); err != nil {
		return nil, err
	}
	if err := s.orders.Cancel(ctx, order); err != nil {
		return nil, err
	}
	s.log.Info("order canceled", "order_id", order.ID)
	return order, nil
}

// Get returns one order with its full graph.
func (s *OrderService) Get(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.orders.FindByID(ctx, orderID)
}

// Search loads matching order aggregates using the named policy
// (empty selects the configured default).
func (s *OrderService) Search(ctx context.Context, policy string, search ports.OrderSearch, window ports.Window) (*LoadResult, error) {
	p, err := s.loader.ParsePolicy(policy)
	if err != nil {
		return nil, err
	}
	return s.loader.Load(ctx, p, search, window)
}

// SimpleOrders returns the lightweight list view: orders with member and
// delivery, no lines.
func (s *OrderService) SimpleOrders(ctx context.Context, search ports.OrderSearch, window ports.Window) ([]ports.OrderSummary, error) {
	return s.loader.Summaries(ctx, search, window)
}
