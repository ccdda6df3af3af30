package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jpashop/src/core/domain"
	"jpashop/src/core/ports"
)

func TestLoadPoliciesReturnSameAggregates(t *testing.T) {
	f := newFixture(t, LoaderConfig{BatchFetchSize: 3})
	f.populate(t)
	ctx := context.Background()

	searches := []ports.OrderSearch{
		{},
		{Status: domain.OrderStatusOrder},
		{Status: domain.OrderStatusCancel},
		{MemberName: "user"},
		{MemberName: "A", Status: domain.OrderStatusOrder},
		{MemberName: "nobody"},
	}
	windows := []ports.Window{
		{},
		{Offset: 0, Limit: 1},
		{Offset: 1, Limit: 2},
		{Offset: 3, Limit: 10},
		{Offset: 10, Limit: 5},
	}

	for _, search := range searches {
		for _, w := range windows {
			name := fmt.Sprintf("%+v/%+v", search, w)
			want, err := f.loader.Load(ctx, PolicyBatched, search, w)
			require.NoError(t, err, name)

			for _, p := range LoadPolicies() {
				f.query.reset()
				got, err := f.loader.Load(ctx, p, search, w)
				require.NoError(t, err, "%s %s", p, name)
				assert.Equal(t, want.Orders, got.Orders, "%s %s", p, name)
				assert.Equal(t, f.query.total(), got.Stats.Queries, "%s %s: reported queries", p, name)
				assert.Equal(t, p, got.Stats.Policy)
			}
		}
	}
}

func TestLoadAssemblesFullGraph(t *testing.T) {
	f := newFixture(t, LoaderConfig{})
	s := f.populate(t)

	for _, p := range LoadPolicies() {
		res, err := f.loader.Load(context.Background(), p, ports.OrderSearch{}, ports.Window{})
		require.NoError(t, err, p)
		require.Len(t, res.Orders, 4, p)

		first := res.Orders[0]
		assert.Equal(t, s.orders[0].ID, first.ID, p)
		assert.Equal(t, "userA", first.Member.Name, p)
		assert.Equal(t, "Seoul", first.Delivery.Address.City, p)
		assert.Equal(t, domain.DeliveryReady, first.Delivery.Status, p)
		require.Len(t, first.OrderItems, 2, p)
		assert.Equal(t, "JPA1 BOOK", first.OrderItems[0].Item.Name, p)
		assert.Equal(t, "JPA2 BOOK", first.OrderItems[1].Item.Name, p)
		assert.Equal(t, 50000, first.TotalPrice(), p)

		assert.Equal(t, domain.OrderStatusCancel, res.Orders[2].Status, p)
	}
}

func TestLoadQueryCounts(t *testing.T) {
	f := newFixture(t, LoaderConfig{BatchFetchSize: 3})
	f.populate(t)

	tests := []struct {
		policy  LoadPolicy
		queries int
		rows    int
		paged   bool
	}{
		// 1 root query, 3 distinct members, 4 deliveries, 4 line queries, 4 distinct items.
		{PolicyLazy, 16, 4 + 3 + 4 + 6 + 4, false},
		{PolicyJoinFetch, 1, 6, true},
		// 4 orders in batches of 3.
		{PolicyToOneJoin, 3, 4 + 6, false},
		{PolicyBatched, 2, 4 + 6, false},
		{PolicyFlat, 1, 6, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			f.query.reset()
			res, err := f.loader.Load(context.Background(), tt.policy, ports.OrderSearch{}, ports.Window{})
			require.NoError(t, err)
			assert.Equal(t, tt.queries, res.Stats.Queries)
			assert.Equal(t, tt.queries, f.query.total())
			assert.Equal(t, tt.rows, res.Stats.Rows)
			assert.Equal(t, tt.paged, res.Stats.PagedInMemory)
		})
	}
}

func TestLoadEmptyResultIsOneQuery(t *testing.T) {
	f := newFixture(t, LoaderConfig{})
	f.populate(t)

	for _, p := range LoadPolicies() {
		f.query.reset()
		res, err := f.loader.Load(context.Background(), p, ports.OrderSearch{MemberName: "nobody"}, ports.Window{})
		require.NoError(t, err, p)
		assert.NotNil(t, res.Orders, p)
		assert.Empty(t, res.Orders, p)
		assert.Equal(t, 1, res.Stats.Queries, p)
	}
}

func TestLoadWindow(t *testing.T) {
	f := newFixture(t, LoaderConfig{})
	s := f.populate(t)

	for _, p := range LoadPolicies() {
		res, err := f.loader.Load(context.Background(), p, ports.OrderSearch{}, ports.Window{Offset: 1, Limit: 2})
		require.NoError(t, err, p)
		require.Len(t, res.Orders, 2, p)
		assert.Equal(t, s.orders[1].ID, res.Orders[0].ID, p)
		assert.Equal(t, s.orders[2].ID, res.Orders[1].ID, p)
	}
}

func TestLoadMaxResultsCapsWindow(t *testing.T) {
	f := newFixture(t, LoaderConfig{MaxResults: 2})
	f.populate(t)

	for _, p := range LoadPolicies() {
		res, err := f.loader.Load(context.Background(), p, ports.OrderSearch{}, ports.Window{Limit: 50})
		require.NoError(t, err, p)
		assert.Len(t, res.Orders, 2, p)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	f := newFixture(t, LoaderConfig{})
	ctx := context.Background()

	_, err := f.loader.Load(ctx, PolicyBatched, ports.OrderSearch{}, ports.Window{Offset: -1})
	assert.True(t, domain.IsValidationError(err))

	_, err = f.loader.Load(ctx, PolicyBatched, ports.OrderSearch{}, ports.Window{Limit: -1})
	assert.True(t, domain.IsValidationError(err))

	_, err = f.loader.Load(ctx, LoadPolicy("eager"), ports.OrderSearch{}, ports.Window{})
	assert.True(t, domain.IsValidationError(err))
	assert.Zero(t, f.query.total())
}

func TestParsePolicy(t *testing.T) {
	l := NewOrderLoader(nil, discardLogger(), LoaderConfig{DefaultPolicy: PolicyFlat})

	p, err := l.ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyFlat, p)

	p, err = l.ParsePolicy(" Join_Fetch ")
	require.NoError(t, err)
	assert.Equal(t, PolicyJoinFetch, p)

	_, err = l.ParsePolicy("eager")
	assert.True(t, domain.IsValidationError(err))
}

func TestNewOrderLoaderDefaults(t *testing.T) {
	l := NewOrderLoader(nil, discardLogger(), LoaderConfig{DefaultPolicy: "bogus", MaxResults: 5000})
	assert.Equal(t, PolicyBatched, l.cfg.DefaultPolicy)
	assert.Equal(t, domain.DefaultBatchFetchSize, l.cfg.BatchFetchSize)
	assert.Equal(t, domain.MaxResults, l.cfg.MaxResults)

	w, err := l.NormalizeWindow(ports.Window{Offset: 3})
	require.NoError(t, err)
	assert.Equal(t, ports.Window{Offset: 3, Limit: domain.MaxResults}, w)
}
