package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"jpashop/src/core/domain"
	"jpashop/src/core/ports"
	"jpashop/src/infra/repo/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingStore wraps an OrderStore and records every round trip.
type countingStore struct {
	ports.OrderStore
	calls map[string]int
}

func newCountingStore(inner ports.OrderStore) *countingStore {
	return &countingStore{OrderStore: inner, calls: make(map[string]int)}
}

func (c *countingStore) total() int {
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

func (c *countingStore) reset() {
	c.calls = make(map[string]int)
}

func (c *countingStore) FindOrders(ctx context.Context, s ports.OrderSearch, w ports.Window) ([]domain.Order, error) {
	c.calls["FindOrders"]++
	return c.OrderStore.FindOrders(ctx, s, w)
}

func (c *countingStore) FindMember(ctx context.Context, id int64) (*domain.Member, error) {
	c.calls["FindMember"]++
	return c.OrderStore.FindMember(ctx, id)
}

func (c *countingStore) FindDelivery(ctx context.Context, id int64) (*domain.Delivery, error) {
	c.calls["FindDelivery"]++
	return c.OrderStore.FindDelivery(ctx, id)
}

func (c *countingStore) FindOrderItems(ctx context.Context, id int64) ([]domain.OrderItem, error) {
	c.calls["FindOrderItems"]++
	return c.OrderStore.FindOrderItems(ctx, id)
}

func (c *countingStore) FindItem(ctx context.Context, id int64) (*domain.Item, error) {
	c.calls["FindItem"]++
	return c.OrderStore.FindItem(ctx, id)
}

func (c *countingStore) FindOrdersWithMemberDelivery(ctx context.Context, s ports.OrderSearch, w ports.Window) ([]domain.Order, error) {
	c.calls["FindOrdersWithMemberDelivery"]++
	return c.OrderStore.FindOrdersWithMemberDelivery(ctx, s, w)
}

func (c *countingStore) FindOrderItemsByOrderIDs(ctx context.Context, ids []int64) ([]domain.OrderItem, error) {
	c.calls["FindOrderItemsByOrderIDs"]++
	return c.OrderStore.FindOrderItemsByOrderIDs(ctx, ids)
}

func (c *countingStore) FindOrdersWithItems(ctx context.Context, s ports.OrderSearch) ([]domain.Order, error) {
	c.calls["FindOrdersWithItems"]++
	return c.OrderStore.FindOrdersWithItems(ctx, s)
}

func (c *countingStore) FindOrderSummaries(ctx context.Context, s ports.OrderSearch, w ports.Window) ([]ports.OrderSummary, error) {
	c.calls["FindOrderSummaries"]++
	return c.OrderStore.FindOrderSummaries(ctx, s, w)
}

func (c *countingStore) FindOrderFlatRows(ctx context.Context, s ports.OrderSearch) ([]ports.OrderFlatRow, error) {
	c.calls["FindOrderFlatRows"]++
	return c.OrderStore.FindOrderFlatRows(ctx, s)
}

type fixture struct {
	store   *memory.Store
	query   *countingStore
	loader  *OrderLoader
	members *MemberService
	items   *ItemService
	orders  *OrderService
}

func newFixture(t *testing.T, cfg LoaderConfig) *fixture {
	t.Helper()
	log := discardLogger()
	store := memory.New()
	query := newCountingStore(memory.NewOrderQueryRepository(store))
	loader := NewOrderLoader(query, log, cfg)
	memberRepo := memory.NewMemberRepository(store)
	itemRepo := memory.NewItemRepository(store)
	return &fixture{
		store:   store,
		query:   query,
		loader:  loader,
		members: NewMemberService(memberRepo, log),
		items:   NewItemService(itemRepo, log),
		orders:  NewOrderService(memory.NewOrderRepository(store), memberRepo, itemRepo, loader, log),
	}
}

// shop holds the ids created by populate.
type shop struct {
	userA, userB, carol        *domain.Member
	book1, book2, book3, book4 *domain.Item
	orders                     []*domain.Order // ascending by id
}

// populate creates four orders:
//
//	#0 userA: book1 x1, book2 x2
//	#1 userB: book3 x3, book4 x4
//	#2 userA: book1 x1 (canceled)
//	#3 carol: book2 x1
func (f *fixture) populate(t *testing.T) *shop {
	t.Helper()
	ctx := context.Background()
	var s shop
	var err error

	s.userA, err = f.members.Join(ctx, "userA", domain.Address{City: "Seoul", Street: "1", Zipcode: "1111"})
	require.NoError(t, err)
	s.userB, err = f.members.Join(ctx, "userB", domain.Address{City: "Busan", Street: "2", Zipcode: "2222"})
	require.NoError(t, err)
	s.carol, err = f.members.Join(ctx, "carol", domain.Address{City: "Daegu", Street: "3", Zipcode: "3333"})
	require.NoError(t, err)

	s.book1, err = f.items.Create(ctx, "JPA1 BOOK", 10000, 100)
	require.NoError(t, err)
	s.book2, err = f.items.Create(ctx, "JPA2 BOOK", 20000, 100)
	require.NoError(t, err)
	s.book3, err = f.items.Create(ctx, "SPRING1 BOOK", 20000, 200)
	require.NoError(t, err)
	s.book4, err = f.items.Create(ctx, "SPRING2 BOOK", 40000, 300)
	require.NoError(t, err)

	place := func(member *domain.Member, lines ...OrderLine) *domain.Order {
		o, err := f.orders.Place(ctx, member.ID, lines)
		require.NoError(t, err)
		return o
	}
	s.orders = append(s.orders,
		place(s.userA, OrderLine{ItemID: s.book1.ID, Count: 1}, OrderLine{ItemID: s.book2.ID, Count: 2}),
		place(s.userB, OrderLine{ItemID: s.book3.ID, Count: 3}, OrderLine{ItemID: s.book4.ID, Count: 4}),
		place(s.userA, OrderLine{ItemID: s.book1.ID, Count: 1}),
		place(s.carol, OrderLine{ItemID: s.book2.ID, Count: 1}),
	)
	_, err = f.orders.Cancel(ctx, s.orders[2].ID)
	require.NoError(t, err)

	f.query.reset()
	return &s
}
