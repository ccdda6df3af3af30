package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jpashop/src/core/ports"
)

func TestSeedIsIdempotent(t *testing.T) {
	f := newFixture(t, LoaderConfig{})
	seed := NewSeedService(f.members, f.items, f.orders, discardLogger())
	ctx := context.Background()

	require.NoError(t, seed.Seed(ctx))
	require.NoError(t, seed.Seed(ctx))

	members, err := f.members.List(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	items, err := f.items.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 4)
	assert.Equal(t, 100-1, items[0].StockQuantity)

	res, err := f.orders.Search(ctx, string(PolicyFlat), ports.OrderSearch{}, ports.Window{})
	require.NoError(t, err)
	require.Len(t, res.Orders, 2)
	assert.Equal(t, 10000+2*20000, res.Orders[0].TotalPrice())
	assert.Equal(t, 3*20000+4*40000, res.Orders[1].TotalPrice())
}

func TestHealthCheck(t *testing.T) {
	ctx := context.Background()

	ok := NewHealthService(fakeHealth{}, discardLogger()).Check(ctx)
	assert.Equal(t, "ok", ok.Status)
	assert.Equal(t, "healthy", ok.Components["database"].Status)

	bad := NewHealthService(fakeHealth{err: errors.New("connection refused")}, discardLogger()).Check(ctx)
	assert.Equal(t, "degraded", bad.Status)
	assert.Equal(t, "connection refused", bad.Components["database"].Message)

	none := NewHealthService(nil, discardLogger()).Check(ctx)
	assert.Equal(t, "ok", none.Status)
	assert.Empty(t, none.Components)
}

type fakeHealth struct{ err error }

func (f fakeHealth) Health(context.Context) error { return f.err }
