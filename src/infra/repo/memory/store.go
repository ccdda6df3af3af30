// Package memory implements the repository ports on in-process tables.
//
// It mirrors the relational layout of the Postgres schema (members, items,
// deliveries, orders, order_items) so every OrderStore method behaves like
// its SQL counterpart, including the duplicated parents of a collection join.
// It backs APP_QUERY_ENGINE=memory and the service and handler tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"jpashop/src/core/domain"
	"jpashop/src/core/ports"
)

type orderRow struct {
	ID         int64
	MemberID   int64
	DeliveryID int64
	OrderDate  time.Time
	Status     domain.OrderStatus
}

type orderItemRow struct {
	ID         int64
	OrderID    int64
	ItemID     int64
	OrderPrice int
	Count      int
}

// Store holds the tables. It is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	members    map[int64]domain.Member
	items      map[int64]domain.Item
	deliveries map[int64]domain.Delivery
	orders     map[int64]orderRow
	orderItems map[int64]orderItemRow
	seq        int64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		members:    make(map[int64]domain.Member),
		items:      make(map[int64]domain.Item),
		deliveries: make(map[int64]domain.Delivery),
		orders:     make(map[int64]orderRow),
		orderItems: make(map[int64]orderItemRow),
	}
}

// Health always succeeds.
func (s *Store) Health(ctx context.Context) error {
	return ctx.Err()
}

// nextID hands out ids from one sequence shared by all tables. Callers hold mu.
func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// SetDeliveryStatus changes a delivery's status. There is no shipping
// workflow in the API; this lets callers simulate a completed delivery.
func (s *Store) SetDeliveryStatus(deliveryID int64, status domain.DeliveryStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deliveries[deliveryID]
	if !ok {
		return domain.NewNotFoundError("delivery")
	}
	d.Status = status
	s.deliveries[deliveryID] = d
	return nil
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// matchingOrders returns the order rows accepted by search, ascending by id.
// Callers hold mu.
func (s *Store) matchingOrders(search ports.OrderSearch) []orderRow {
	var out []orderRow
	for _, id := range sortedKeys(s.orders) {
		o := s.orders[id]
		if search.Status != "" && o.Status != search.Status {
			continue
		}
		if search.MemberName != "" && !strings.Contains(s.members[o.MemberID].Name, search.MemberName) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func window(rows []orderRow, w ports.Window) []orderRow {
	if w.Offset >= len(rows) {
		return nil
	}
	end := len(rows)
	if w.Limit > 0 {
		end = min(w.Offset+w.Limit, len(rows))
	}
	return rows[w.Offset:end]
}

// linesOf returns the order item rows of orderID ascending by id. Callers hold mu.
func (s *Store) linesOf(orderID int64) []orderItemRow {
	var out []orderItemRow
	for _, oi := range s.orderItems {
		if oi.OrderID == orderID {
			out = append(out, oi)
		}
	}
	slices.SortFunc(out, func(a, b orderItemRow) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// graph assembles the full aggregate for one order row. Callers hold mu.
func (s *Store) graph(o orderRow) domain.Order {
	order := domain.Order{
		ID:         o.ID,
		Member:     s.members[o.MemberID],
		Delivery:   s.deliveries[o.DeliveryID],
		OrderDate:  o.OrderDate,
		Status:     o.Status,
		OrderItems: []domain.OrderItem{},
	}
	for _, oi := range s.linesOf(o.ID) {
		order.OrderItems = append(order.OrderItems, s.line(oi))
	}
	return order
}

// line converts a row with its item joined. Callers hold mu.
func (s *Store) line(oi orderItemRow) domain.OrderItem {
	return domain.OrderItem{
		ID:         oi.ID,
		OrderID:    oi.OrderID,
		Item:       s.items[oi.ItemID],
		OrderPrice: oi.OrderPrice,
		Count:      oi.Count,
	}
}

// summary converts an order row with member and delivery joined. Callers hold mu.
func (s *Store) summary(o orderRow) ports.OrderSummary {
	m := s.members[o.MemberID]
	d := s.deliveries[o.DeliveryID]
	return ports.OrderSummary{
		OrderID:         o.ID,
		OrderDate:       o.OrderDate,
		Status:          o.Status,
		MemberID:        m.ID,
		MemberName:      m.Name,
		MemberAddress:   m.Address,
		DeliveryID:      d.ID,
		DeliveryStatus:  d.Status,
		DeliveryAddress: d.Address,
	}
}
