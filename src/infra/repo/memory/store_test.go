package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jpashop/src/core/domain"
)

func newOrder(t *testing.T, member domain.Member, lines ...domain.OrderItem) *domain.Order {
	t.Helper()
	o, err := domain.NewOrder(member, domain.NewDelivery(member.Address), lines...)
	require.NoError(t, err)
	return o
}

func TestSaveShortfallLeavesStockUntouched(t *testing.T) {
	ctx := context.Background()
	s := New()
	member := &domain.Member{Name: "userA"}
	require.NoError(t, NewMemberRepository(s).Save(ctx, member))
	items := NewItemRepository(s)
	plenty := &domain.Item{Name: "JPA1 BOOK", Price: 10000, StockQuantity: 10}
	scarce := &domain.Item{Name: "JPA2 BOOK", Price: 20000, StockQuantity: 1}
	require.NoError(t, items.Save(ctx, plenty))
	require.NoError(t, items.Save(ctx, scarce))

	order := newOrder(t, *member,
		domain.OrderItem{Item: *plenty, OrderPrice: 10000, Count: 3},
		domain.OrderItem{Item: *scarce, OrderPrice: 20000, Count: 2},
	)
	err := NewOrderRepository(s).Save(ctx, order)
	assert.True(t, domain.IsConflict(err))
	assert.Zero(t, order.ID)

	got, err := items.FindByID(ctx, plenty.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.StockQuantity)
}

func TestConcurrentOrdersNeverOversell(t *testing.T) {
	ctx := context.Background()
	s := New()
	member := &domain.Member{Name: "userA"}
	require.NoError(t, NewMemberRepository(s).Save(ctx, member))
	book := &domain.Item{Name: "JPA1 BOOK", Price: 10000, StockQuantity: 5}
	require.NoError(t, NewItemRepository(s).Save(ctx, book))

	orders := NewOrderRepository(s)
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		placed int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := newOrder(t, *member, domain.OrderItem{Item: *book, OrderPrice: 10000, Count: 1})
			if orders.Save(ctx, o) == nil {
				mu.Lock()
				placed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, placed)
	got, err := NewItemRepository(s).FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Zero(t, got.StockQuantity)
}

func TestCancelTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	s := New()
	member := &domain.Member{Name: "userA"}
	require.NoError(t, NewMemberRepository(s).Save(ctx, member))
	book := &domain.Item{Name: "JPA1 BOOK", Price: 10000, StockQuantity: 5}
	require.NoError(t, NewItemRepository(s).Save(ctx, book))

	orders := NewOrderRepository(s)
	o := newOrder(t, *member, domain.OrderItem{Item: *book, OrderPrice: 10000, Count: 2})
	require.NoError(t, orders.Save(ctx, o))

	require.NoError(t, orders.Cancel(ctx, o))
	assert.True(t, domain.IsConflict(orders.Cancel(ctx, o)))

	got, err := NewItemRepository(s).FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.StockQuantity, "stock restored exactly once")
}
