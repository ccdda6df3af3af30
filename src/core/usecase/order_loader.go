package usecase

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"jpashop/src/core/domain"
	"jpashop/src/core/ports"
)

// LoadPolicy selects how order aggregates are fetched from the store.
type LoadPolicy string

const (
	// PolicyLazy loads roots, then every association one row at a time (1 + N).
	PolicyLazy LoadPolicy = "lazy"
	// PolicyJoinFetch joins the whole graph in one query. Parents repeat once
	// per line, so pagination can only happen in memory.
	PolicyJoinFetch LoadPolicy = "join_fetch"
	// PolicyToOneJoin joins member and delivery, pages in SQL, then loads lines
	// in IN-list batches of BatchFetchSize.
	PolicyToOneJoin LoadPolicy = "to_one_join"
	// PolicyBatched projects the to-one rows, then loads every line with a
	// single IN-list query: exactly two round trips.
	PolicyBatched LoadPolicy = "batched"
	// PolicyFlat projects the whole graph into flat rows in one query and
	// regroups them in memory.
	PolicyFlat LoadPolicy = "flat"
)

var loadPolicies = []LoadPolicy{PolicyLazy, PolicyJoinFetch, PolicyToOneJoin, PolicyBatched, PolicyFlat}

// LoadPolicies lists every supported policy.
func LoadPolicies() []LoadPolicy {
	return slices.Clone(loadPolicies)
}

// Valid reports whether p is a known policy.
func (p LoadPolicy) Valid() bool {
	return slices.Contains(loadPolicies, p)
}

// LoadStats describes the cost of one Load call.
type LoadStats struct {
	Policy        LoadPolicy `json:"policy"`
	Queries       int        `json:"queries"`
	Rows          int        `json:"rows"`
	PagedInMemory bool       `json:"paged_in_memory"`
}

// LoadResult holds the assembled aggregates and what it took to build them.
type LoadResult struct {
	Orders []domain.Order
	Stats  LoadStats
}

// LoaderConfig tunes the loader.
type LoaderConfig struct {
	DefaultPolicy  LoadPolicy
	BatchFetchSize int
	MaxResults     int
}

// OrderLoader assembles Order aggregates (member, delivery, lines, items)
// under a chosen LoadPolicy. Every policy returns the same aggregates for the
// same search and window; they differ only in round trips and rows moved.
type OrderLoader struct {
	store ports.OrderStore
	log   *slog.Logger
	cfg   LoaderConfig
}

// NewOrderLoader creates an OrderLoader. Zero config values fall back to defaults.
func NewOrderLoader(store ports.OrderStore, log *slog.Logger, cfg LoaderConfig) *OrderLoader {
	if !cfg.DefaultPolicy.Valid() {
		cfg.DefaultPolicy = PolicyBatched
	}
	if cfg.BatchFetchSize <= 0 {
		cfg.BatchFetchSize = domain.DefaultBatchFetchSize
	}
	if cfg.MaxResults <= 0 || cfg.MaxResults > domain.MaxResults {
		cfg.MaxResults = domain.MaxResults
	}
	return &OrderLoader{store: store, log: log, cfg: cfg}
}

// ParsePolicy resolves a policy name. An empty name selects the default policy.
func (l *OrderLoader) ParsePolicy(name string) (LoadPolicy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return l.cfg.DefaultPolicy, nil
	}
	p := LoadPolicy(name)
	if !p.Valid() {
		return "", domain.NewValidationError("policy", "must be one of lazy, join_fetch, to_one_join, batched, flat")
	}
	return p, nil
}

// NormalizeWindow validates w and caps its limit at MaxResults.
func (l *OrderLoader) NormalizeWindow(w ports.Window) (ports.Window, error) {
	if w.Offset < 0 {
		return ports.Window{}, domain.NewValidationError("offset", "cannot be negative")
	}
	if w.Limit < 0 {
		return ports.Window{}, domain.NewValidationError("limit", "cannot be negative")
	}
	if w.Limit == 0 || w.Limit > l.cfg.MaxResults {
		w.Limit = l.cfg.MaxResults
	}
	return w, nil
}

// Load returns the orders matching search inside window, fully populated.
func (l *OrderLoader) Load(ctx context.Context, policy LoadPolicy, search ports.OrderSearch, window ports.Window) (*LoadResult, error) {
	if !policy.Valid() {
		return nil, domain.NewValidationError("policy", fmt.Sprintf("unknown policy %q", policy))
	}
	w, err := l.NormalizeWindow(window)
	if err != nil {
		return nil, err
	}
	requested := window.Offset > 0 || window.Limit > 0

	run := &loadRun{stats: LoadStats{Policy: policy}}
	var orders []domain.Order
	switch policy {
	case PolicyLazy:
		orders, err = l.loadLazy(ctx, run, search, w)
	case PolicyJoinFetch:
		orders, err = l.loadJoinFetch(ctx, run, search, w, requested)
	case PolicyToOneJoin:
		orders, err = l.loadToOneJoin(ctx, run, search, w)
	case PolicyBatched:
		orders, err = l.loadBatched(ctx, run, search, w)
	case PolicyFlat:
		orders, err = l.loadFlat(ctx, run, search, w)
	}
	if err != nil {
		return nil, fmt.Errorf("load orders (%s): %w", policy, err)
	}

	orders = normalizeOrders(orders)
	l.log.Debug("orders loaded",
		"policy", policy,
		"orders", len(orders),
		"queries", run.stats.Queries,
		"rows", run.stats.Rows,
		"paged_in_memory", run.stats.PagedInMemory,
	)
	return &LoadResult{Orders: orders, Stats: run.stats}, nil
}

// Summaries returns the to-one projection of matching orders, paged in SQL.
func (l *OrderLoader) Summaries(ctx context.Context, search ports.OrderSearch, window ports.Window) ([]ports.OrderSummary, error) {
	w, err := l.NormalizeWindow(window)
	if err != nil {
		return nil, err
	}
	return l.store.FindOrderSummaries(ctx, search, w)
}

type loadRun struct {
	stats LoadStats
}

func (r *loadRun) count(rows int) {
	r.stats.Queries++
	r.stats.Rows += rows
}

func (l *OrderLoader) loadLazy(ctx context.Context, run *loadRun, search ports.OrderSearch, w ports.Window) ([]domain.Order, error) {
	orders, err := l.store.FindOrders(ctx, search, w)
	if err != nil {
		return nil, err
	}
	run.count(len(orders))

	// Identity maps: an entity already loaded in this run is not fetched again.
	members := make(map[int64]domain.Member)
	items := make(map[int64]domain.Item)

	for i := range orders {
		o := &orders[i]

		member, ok := members[o.Member.ID]
		if !ok {
			m, err := l.store.FindMember(ctx, o.Member.ID)
			if err != nil {
				return nil, err
			}
			run.count(1)
			member = *m
			members[member.ID] = member
		}
		o.Member = member

		d, err := l.store.FindDelivery(ctx, o.Delivery.ID)
		if err != nil {
			return nil, err
		}
		run.count(1)
		o.Delivery = *d

		lines, err := l.store.FindOrderItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		run.count(len(lines))
		for j := range lines {
			item, ok := items[lines[j].Item.ID]
			if !ok {
				it, err := l.store.FindItem(ctx, lines[j].Item.ID)
				if err != nil {
					return nil, err
				}
				run.count(1)
				item = *it
				items[item.ID] = item
			}
			lines[j].Item = item
		}
		o.OrderItems = lines
	}
	return orders, nil
}

func (l *OrderLoader) loadJoinFetch(ctx context.Context, run *loadRun, search ports.OrderSearch, w ports.Window, requested bool) ([]domain.Order, error) {
	rows, err := l.store.FindOrdersWithItems(ctx, search)
	if err != nil {
		return nil, err
	}
	run.count(len(rows))

	orders := distinctOrders(rows)
	if requested {
		l.log.Warn("collection join fetch with pagination, applying window in memory",
			"offset", w.Offset,
			"limit", w.Limit,
			"orders", len(orders),
		)
	}
	return pageInMemory(run, orders, w), nil
}

func (l *OrderLoader) loadToOneJoin(ctx context.Context, run *loadRun, search ports.OrderSearch, w ports.Window) ([]domain.Order, error) {
	orders, err := l.store.FindOrdersWithMemberDelivery(ctx, search, w)
	if err != nil {
		return nil, err
	}
	run.count(len(orders))
	if len(orders) == 0 {
		return orders, nil
	}

	ids := orderIDs(orders)
	lines := make(map[int64][]domain.OrderItem, len(ids))
	for start := 0; start < len(ids); start += l.cfg.BatchFetchSize {
		end := min(start+l.cfg.BatchFetchSize, len(ids))
		batch, err := l.store.FindOrderItemsByOrderIDs(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		run.count(len(batch))
		for _, oi := range batch {
			lines[oi.OrderID] = append(lines[oi.OrderID], oi)
		}
	}
	for i := range orders {
		orders[i].OrderItems = lines[orders[i].ID]
	}
	return orders, nil
}

func (l *OrderLoader) loadBatched(ctx context.Context, run *loadRun, search ports.OrderSearch, w ports.Window) ([]domain.Order, error) {
	summaries, err := l.store.FindOrderSummaries(ctx, search, w)
	if err != nil {
		return nil, err
	}
	run.count(len(summaries))
	if len(summaries) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(summaries))
	for i, s := range summaries {
		ids[i] = s.OrderID
	}
	items, err := l.store.FindOrderItemsByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	run.count(len(items))

	lines := make(map[int64][]domain.OrderItem, len(ids))
	for _, oi := range items {
		lines[oi.OrderID] = append(lines[oi.OrderID], oi)
	}

	orders := make([]domain.Order, len(summaries))
	for i, s := range summaries {
		orders[i] = orderFromSummary(s)
		orders[i].OrderItems = lines[s.OrderID]
	}
	return orders, nil
}

func (l *OrderLoader) loadFlat(ctx context.Context, run *loadRun, search ports.OrderSearch, w ports.Window) ([]domain.Order, error) {
	rows, err := l.store.FindOrderFlatRows(ctx, search)
	if err != nil {
		return nil, err
	}
	run.count(len(rows))

	index := make(map[int64]int)
	var orders []domain.Order
	for _, r := range rows {
		pos, ok := index[r.OrderID]
		if !ok {
			pos = len(orders)
			index[r.OrderID] = pos
			orders = append(orders, orderFromSummary(r.OrderSummary))
		}
		if r.OrderItemID == 0 {
			continue
		}
		orders[pos].OrderItems = append(orders[pos].OrderItems, domain.OrderItem{
			ID:      r.OrderItemID,
			OrderID: r.OrderID,
			Item: domain.Item{
				ID:            r.ItemID,
				Name:          r.ItemName,
				Price:         r.ItemPrice,
				StockQuantity: r.ItemStock,
			},
			OrderPrice: r.OrderPrice,
			Count:      r.Count,
		})
	}
	return pageInMemory(run, orders, w), nil
}

// distinctOrders collapses join-fetched rows into one order per id, merging lines.
func distinctOrders(rows []domain.Order) []domain.Order {
	index := make(map[int64]int, len(rows))
	var out []domain.Order
	for _, row := range rows {
		pos, ok := index[row.ID]
		if !ok {
			pos = len(out)
			index[row.ID] = pos
			o := row
			o.OrderItems = nil
			out = append(out, o)
		}
		out[pos].OrderItems = append(out[pos].OrderItems, row.OrderItems...)
	}
	return out
}

func pageInMemory(run *loadRun, orders []domain.Order, w ports.Window) []domain.Order {
	run.stats.PagedInMemory = true
	sortOrders(orders)
	if w.Offset >= len(orders) {
		return nil
	}
	end := min(w.Offset+w.Limit, len(orders))
	return orders[w.Offset:end]
}

func orderIDs(orders []domain.Order) []int64 {
	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}

func orderFromSummary(s ports.OrderSummary) domain.Order {
	return domain.Order{
		ID: s.OrderID,
		Member: domain.Member{
			ID:      s.MemberID,
			Name:    s.MemberName,
			Address: s.MemberAddress,
		},
		Delivery: domain.Delivery{
			ID:      s.DeliveryID,
			Address: s.DeliveryAddress,
			Status:  s.DeliveryStatus,
		},
		OrderDate: s.OrderDate,
		Status:    s.Status,
	}
}

func sortOrders(orders []domain.Order) {
	slices.SortFunc(orders, func(a, b domain.Order) int {
		return cmp.Compare(a.ID, b.ID)
	})
}

// normalizeOrders gives every policy the same output shape: ascending ids,
// lines ascending by id, non-nil slices.
func normalizeOrders(orders []domain.Order) []domain.Order {
	if orders == nil {
		orders = []domain.Order{}
	}
	sortOrders(orders)
	for i := range orders {
		if orders[i].OrderItems == nil {
			orders[i].OrderItems = []domain.OrderItem{}
		}
		slices.SortFunc(orders[i].OrderItems, func(a, b domain.OrderItem) int {
			return cmp.Compare(a.ID, b.ID)
		})
	}
	return orders
}
