package repo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"jpashop/src/core/domain"
	"jpashop/src/core/ports"
	"jpashop/src/infra/db"
)

var _ ports.OrderStore = (*OrderQueryRepository)(nil)

// OrderQueryRepository implements ports.OrderStore using hand-written SQL.
type OrderQueryRepository struct {
	pgRepository
}

func NewOrderQueryRepository(pg *db.Postgres, log *slog.Logger) *OrderQueryRepository {
	return &OrderQueryRepository{newPgRepository(pg, log)}
}

const (
	summaryColumns = `
		o.order_id, o.order_date, o.status,
		m.member_id, m.name, m.city, m.street, m.zipcode,
		d.delivery_id, d.status, d.city, d.street, d.zipcode`

	summaryFrom = `
		FROM orders o
		JOIN members m ON m.member_id = o.member_id
		JOIN deliveries d ON d.delivery_id = o.delivery_id`

	lineColumns = `
		oi.order_item_id, i.item_id, i.name, i.price, i.stock_quantity, oi.order_price, oi.count`

	graphFrom = summaryFrom + `
		LEFT JOIN order_items oi ON oi.order_id = o.order_id
		LEFT JOIN items i ON i.item_id = oi.item_id`
)

func summaryDest(s *ports.OrderSummary) []any {
	return []any{
		&s.OrderID, &s.OrderDate, &s.Status,
		&s.MemberID, &s.MemberName, &s.MemberAddress.City, &s.MemberAddress.Street, &s.MemberAddress.Zipcode,
		&s.DeliveryID, &s.DeliveryStatus, &s.DeliveryAddress.City, &s.DeliveryAddress.Street, &s.DeliveryAddress.Zipcode,
	}
}

func (r *OrderQueryRepository) FindOrders(ctx context.Context, search ports.OrderSearch, w ports.Window) ([]domain.Order, error) {
	var args sqlArgs
	q := `SELECT o.order_id, o.member_id, o.delivery_id, o.order_date, o.status FROM orders o ` +
		orderWhere(search, &args) + ` ` + orderPage(w, &args)

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.Member.ID, &o.Delivery.ID, &o.OrderDate, &o.Status); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *OrderQueryRepository) FindMember(ctx context.Context, memberID int64) (*domain.Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members WHERE member_id = $1`
	return scanMember(r.pool.QueryRow(ctx, q, memberID))
}

func (r *OrderQueryRepository) FindDelivery(ctx context.Context, deliveryID int64) (*domain.Delivery, error) {
	const q = `SELECT delivery_id, city, street, zipcode, status FROM deliveries WHERE delivery_id = $1`
	var d domain.Delivery
	if err := r.pool.QueryRow(ctx, q, deliveryID).Scan(&d.ID, &d.Address.City, &d.Address.Street, &d.Address.Zipcode, &d.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("delivery")
		}
		return nil, err
	}
	return &d, nil
}

func (r *OrderQueryRepository) FindOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	const q = `
		SELECT order_item_id, order_id, item_id, order_price, count
		FROM order_items
		WHERE order_id = $1
		ORDER BY order_item_id
	`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []domain.OrderItem{}
	for rows.Next() {
		var oi domain.OrderItem
		if err := rows.Scan(&oi.ID, &oi.OrderID, &oi.Item.ID, &oi.OrderPrice, &oi.Count); err != nil {
			return nil, err
		}
		lines = append(lines, oi)
	}
	return lines, rows.Err()
}

func (r *OrderQueryRepository) FindItem(ctx context.Context, itemID int64) (*domain.Item, error) {
	const q = `SELECT ` + itemColumns + ` FROM items WHERE item_id = $1`
	return scanItem(r.pool.QueryRow(ctx, q, itemID))
}

func (r *OrderQueryRepository) FindOrdersWithMemberDelivery(ctx context.Context, search ports.OrderSearch, w ports.Window) ([]domain.Order, error) {
	summaries, err := r.FindOrderSummaries(ctx, search, w)
	if err != nil {
		return nil, err
	}
	orders := make([]domain.Order, len(summaries))
	for i, s := range summaries {
		orders[i] = orderFromSummary(s)
	}
	return orders, nil
}

func (r *OrderQueryRepository) FindOrderItemsByOrderIDs(ctx context.Context, orderIDs []int64) ([]domain.OrderItem, error) {
	if len(orderIDs) == 0 {
		return []domain.OrderItem{}, nil
	}
	const q = `
		SELECT oi.order_item_id, oi.order_id, oi.order_price, oi.count,
		       i.item_id, i.name, i.price, i.stock_quantity
		FROM order_items oi
		JOIN items i ON i.item_id = oi.item_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.order_item_id
	`
	rows, err := r.pool.Query(ctx, q, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []domain.OrderItem{}
	for rows.Next() {
		var oi domain.OrderItem
		if err := rows.Scan(&oi.ID, &oi.OrderID, &oi.OrderPrice, &oi.Count,
			&oi.Item.ID, &oi.Item.Name, &oi.Item.Price, &oi.Item.StockQuantity); err != nil {
			return nil, err
		}
		lines = append(lines, oi)
	}
	return lines, rows.Err()
}

func (r *OrderQueryRepository) FindOrdersWithItems(ctx context.Context, search ports.OrderSearch) ([]domain.Order, error) {
	var args sqlArgs
	where := orderWhere(search, &args)
	flat, err := queryGraph(ctx, r.pool, where, args)
	if err != nil {
		return nil, err
	}
	orders := make([]domain.Order, len(flat))
	for i, row := range flat {
		orders[i] = orderFromSummary(row.OrderSummary)
		orders[i].OrderItems = []domain.OrderItem{}
		if line, ok := lineFromFlat(row); ok {
			orders[i].OrderItems = append(orders[i].OrderItems, line)
		}
	}
	return orders, nil
}

func (r *OrderQueryRepository) FindOrderSummaries(ctx context.Context, search ports.OrderSearch, w ports.Window) ([]ports.OrderSummary, error) {
	var args sqlArgs
	q := `SELECT ` + summaryColumns + summaryFrom + ` ` + orderWhere(search, &args) + ` ` + orderPage(w, &args)

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []ports.OrderSummary{}
	for rows.Next() {
		var s ports.OrderSummary
		if err := rows.Scan(summaryDest(&s)...); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *OrderQueryRepository) FindOrderFlatRows(ctx context.Context, search ports.OrderSearch) ([]ports.OrderFlatRow, error) {
	var args sqlArgs
	return queryGraph(ctx, r.pool, orderWhere(search, &args), args)
}

// queryGraph selects the whole order graph, one row per line, orders without
// lines included once with zero line columns.
func queryGraph(ctx context.Context, q querier, where string, args sqlArgs) ([]ports.OrderFlatRow, error) {
	stmt := `SELECT ` + summaryColumns + `,` + lineColumns + graphFrom + ` ` + where +
		` ORDER BY o.order_id, oi.order_item_id`

	rows, err := q.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ports.OrderFlatRow{}
	for rows.Next() {
		var (
			row        ports.OrderFlatRow
			lineID     *int64
			itemID     *int64
			itemName   *string
			itemPrice  *int
			itemStock  *int
			orderPrice *int
			count      *int
		)
		dest := append(summaryDest(&row.OrderSummary), &lineID, &itemID, &itemName, &itemPrice, &itemStock, &orderPrice, &count)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if lineID != nil {
			row.OrderItemID = *lineID
			row.ItemID = *itemID
			row.ItemName = *itemName
			row.ItemPrice = *itemPrice
			row.ItemStock = *itemStock
			row.OrderPrice = *orderPrice
			row.Count = *count
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func lineFromFlat(row ports.OrderFlatRow) (domain.OrderItem, bool) {
	if row.OrderItemID == 0 {
		return domain.OrderItem{}, false
	}
	return domain.OrderItem{
		ID:      row.OrderItemID,
		OrderID: row.OrderID,
		Item: domain.Item{
			ID:            row.ItemID,
			Name:          row.ItemName,
			Price:         row.ItemPrice,
			StockQuantity: row.ItemStock,
		},
		OrderPrice: row.OrderPrice,
		Count:      row.Count,
	}, true
}

func orderFromSummary(s ports.OrderSummary) domain.Order {
	return domain.Order{
		ID:        s.OrderID,
		Member:    domain.Member{ID: s.MemberID, Name: s.MemberName, Address: s.MemberAddress},
		Delivery:  domain.Delivery{ID: s.DeliveryID, Address: s.DeliveryAddress, Status: s.DeliveryStatus},
		OrderDate: s.OrderDate,
		Status:    s.Status,
	}
}
