package memory

import (
	"context"
	"time"

	"jpashop/src/core/domain"
	"jpashop/src/core/ports"
)

// Compile-time interface checks.
var (
	_ ports.MemberRepository = (*MemberRepository)(nil)
	_ ports.ItemRepository   = (*ItemRepository)(nil)
	_ ports.OrderRepository  = (*OrderRepository)(nil)
	_ ports.OrderStore       = (*OrderQueryRepository)(nil)
)

// MemberRepository stores members in a Store.
type MemberRepository struct{ s *Store }

func NewMemberRepository(s *Store) *MemberRepository { return &MemberRepository{s: s} }

func (r *MemberRepository) Save(ctx context.Context, member *domain.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.members {
		if m.Name == member.Name {
			return domain.NewConflictError("member already exists")
		}
	}
	member.ID = r.s.nextID()
	r.s.members[member.ID] = *member
	return nil
}

func (r *MemberRepository) FindByID(ctx context.Context, memberID int64) (*domain.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.members[memberID]
	if !ok {
		return nil, domain.NewNotFoundError("member")
	}
	return &m, nil
}

func (r *MemberRepository) FindAll(ctx context.Context) ([]domain.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Member, 0, len(r.s.members))
	for _, id := range sortedKeys(r.s.members) {
		out = append(out, r.s.members[id])
	}
	return out, nil
}

func (r *MemberRepository) FindByName(ctx context.Context, name string) ([]domain.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Member{}
	for _, id := range sortedKeys(r.s.members) {
		if m := r.s.members[id]; m.Name == name {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MemberRepository) UpdateName(ctx context.Context, memberID int64, name string) (*domain.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[memberID]
	if !ok {
		return nil, domain.NewNotFoundError("member")
	}
	for id, other := range r.s.members {
		if id != memberID && other.Name == name {
			return nil, domain.NewConflictError("member already exists")
		}
	}
	m.Name = name
	r.s.members[memberID] = m
	return &m, nil
}

// ItemRepository stores items in a Store.
type ItemRepository struct{ s *Store }

func NewItemRepository(s *Store) *ItemRepository { return &ItemRepository{s: s} }

func (r *ItemRepository) Save(ctx context.Context, item *domain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item.ID = r.s.nextID()
	r.s.items[item.ID] = *item
	return nil
}

func (r *ItemRepository) FindByID(ctx context.Context, itemID int64) (*domain.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.items[itemID]
	if !ok {
		return nil, domain.NewNotFoundError("item")
	}
	return &it, nil
}

func (r *ItemRepository) FindAll(ctx context.Context) ([]domain.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Item, 0, len(r.s.items))
	for _, id := range sortedKeys(r.s.items) {
		out = append(out, r.s.items[id])
	}
	return out, nil
}

func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[item.ID]; !ok {
		return domain.NewNotFoundError("item")
	}
	r.s.items[item.ID] = *item
	return nil
}

// OrderRepository stores orders in a Store.
type OrderRepository struct{ s *Store }

func NewOrderRepository(s *Store) *OrderRepository { return &OrderRepository{s: s} }

// Save checks every stock decrement before applying any, so a shortfall
// leaves the store untouched.
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.members[order.Member.ID]; !ok {
		return domain.NewNotFoundError("member")
	}
	need := make(map[int64]int)
	for _, oi := range order.OrderItems {
		need[oi.Item.ID] += oi.Count
	}
	for itemID, n := range need {
		it, ok := r.s.items[itemID]
		if !ok {
			return domain.NewNotFoundError("item")
		}
		if it.StockQuantity < n {
			return domain.NewConflictError("need more stock")
		}
	}
	for itemID, n := range need {
		it := r.s.items[itemID]
		it.StockQuantity -= n
		r.s.items[itemID] = it
	}

	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now().UTC()
	}
	order.Delivery.ID = r.s.nextID()
	r.s.deliveries[order.Delivery.ID] = order.Delivery
	order.ID = r.s.nextID()
	r.s.orders[order.ID] = orderRow{
		ID:         order.ID,
		MemberID:   order.Member.ID,
		DeliveryID: order.Delivery.ID,
		OrderDate:  order.OrderDate,
		Status:     order.Status,
	}
	for i := range order.OrderItems {
		oi := &order.OrderItems[i]
		oi.ID = r.s.nextID()
		oi.OrderID = order.ID
		oi.Item.StockQuantity = r.s.items[oi.Item.ID].StockQuantity
		r.s.orderItems[oi.ID] = orderItemRow{
			ID:         oi.ID,
			OrderID:    order.ID,
			ItemID:     oi.Item.ID,
			OrderPrice: oi.OrderPrice,
			Count:      oi.Count,
		}
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[orderID]
	if !ok {
		return nil, domain.NewNotFoundError("order")
	}
	order := r.s.graph(o)
	return &order, nil
}

func (r *OrderRepository) Cancel(ctx context.Context, order *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[order.ID]
	if !ok {
		return domain.NewNotFoundError("order")
	}
	if o.Status != domain.OrderStatusOrder {
		return domain.NewConflictError("order already canceled")
	}
	if r.s.deliveries[o.DeliveryID].Status == domain.DeliveryComplete {
		return domain.NewConflictError("delivery already completed")
	}
	o.Status = domain.OrderStatusCancel
	r.s.orders[o.ID] = o
	for _, oi := range r.s.linesOf(o.ID) {
		it := r.s.items[oi.ItemID]
		it.StockQuantity += oi.Count
		r.s.items[oi.ItemID] = it
	}
	return nil
}

// OrderQueryRepository is the OrderStore over a Store.
type OrderQueryRepository struct{ s *Store }

func NewOrderQueryRepository(s *Store) *OrderQueryRepository { return &OrderQueryRepository{s: s} }

func (r *OrderQueryRepository) Health(ctx context.Context) error {
	return r.s.Health(ctx)
}

func (r *OrderQueryRepository) FindOrders(ctx context.Context, search ports.OrderSearch, w ports.Window) ([]domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Order{}
	for _, o := range window(r.s.matchingOrders(search), w) {
		out = append(out, domain.Order{
			ID:        o.ID,
			Member:    domain.Member{ID: o.MemberID},
			Delivery:  domain.Delivery{ID: o.DeliveryID},
			OrderDate: o.OrderDate,
			Status:    o.Status,
		})
	}
	return out, nil
}

func (r *OrderQueryRepository) FindMember(ctx context.Context, memberID int64) (*domain.Member, error) {
	return NewMemberRepository(r.s).FindByID(ctx, memberID)
}

func (r *OrderQueryRepository) FindDelivery(ctx context.Context, deliveryID int64) (*domain.Delivery, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.deliveries[deliveryID]
	if !ok {
		return nil, domain.NewNotFoundError("delivery")
	}
	return &d, nil
}

func (r *OrderQueryRepository) FindOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.OrderItem{}
	for _, oi := range r.s.linesOf(orderID) {
		out = append(out, domain.OrderItem{
			ID:         oi.ID,
			OrderID:    oi.OrderID,
			Item:       domain.Item{ID: oi.ItemID},
			OrderPrice: oi.OrderPrice,
			Count:      oi.Count,
		})
	}
	return out, nil
}

func (r *OrderQueryRepository) FindItem(ctx context.Context, itemID int64) (*domain.Item, error) {
	return NewItemRepository(r.s).FindByID(ctx, itemID)
}

func (r *OrderQueryRepository) FindOrdersWithMemberDelivery(ctx context.Context, search ports.OrderSearch, w ports.Window) ([]domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Order{}
	for _, o := range window(r.s.matchingOrders(search), w) {
		out = append(out, domain.Order{
			ID:        o.ID,
			Member:    r.s.members[o.MemberID],
			Delivery:  r.s.deliveries[o.DeliveryID],
			OrderDate: o.OrderDate,
			Status:    o.Status,
		})
	}
	return out, nil
}

func (r *OrderQueryRepository) FindOrderItemsByOrderIDs(ctx context.Context, orderIDs []int64) ([]domain.OrderItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.OrderItem{}
	for _, id := range orderIDs {
		for _, oi := range r.s.linesOf(id) {
			out = append(out, r.s.line(oi))
		}
	}
	return out, nil
}

func (r *OrderQueryRepository) FindOrdersWithItems(ctx context.Context, search ports.OrderSearch) ([]domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Order{}
	for _, o := range r.s.matchingOrders(search) {
		full := r.s.graph(o)
		if len(full.OrderItems) == 0 {
			out = append(out, full)
			continue
		}
		for _, oi := range full.OrderItems {
			row := full
			row.OrderItems = []domain.OrderItem{oi}
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *OrderQueryRepository) FindOrderSummaries(ctx context.Context, search ports.OrderSearch, w ports.Window) ([]ports.OrderSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []ports.OrderSummary{}
	for _, o := range window(r.s.matchingOrders(search), w) {
		out = append(out, r.s.summary(o))
	}
	return out, nil
}

func (r *OrderQueryRepository) FindOrderFlatRows(ctx context.Context, search ports.OrderSearch) ([]ports.OrderFlatRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []ports.OrderFlatRow{}
	for _, o := range r.s.matchingOrders(search) {
		summary := r.s.summary(o)
		lines := r.s.linesOf(o.ID)
		if len(lines) == 0 {
			out = append(out, ports.OrderFlatRow{OrderSummary: summary})
			continue
		}
		for _, oi := range lines {
			it := r.s.items[oi.ItemID]
			out = append(out, ports.OrderFlatRow{
				OrderSummary: summary,
				OrderItemID:  oi.ID,
				ItemID:       it.ID,
				ItemName:     it.Name,
				ItemPrice:    it.Price,
				ItemStock:    it.StockQuantity,
				OrderPrice:   oi.OrderPrice,
				Count:        oi.Count,
			})
		}
	}
	return out, nil
}
