package repo

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/jackc/pgx/v5"

	"jpashop/src/core/domain"
	"jpashop/src/core/ports"
	"jpashop/src/infra/db"
)

var _ ports.OrderRepository = (*OrderRepository)(nil)

// OrderRepository implements ports.OrderRepository using pgx.
type OrderRepository struct {
	pgRepository
}

func NewOrderRepository(pg *db.Postgres, log *slog.Logger) *OrderRepository {
	return &OrderRepository{newPgRepository(pg, log)}
}

// Save reserves stock with conditional decrements, then inserts the delivery,
// the order and its lines, all in one transaction.
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := reserveStock(ctx, tx, order.OrderItems); err != nil {
			return err
		}

		const deliveryQ = `
			INSERT INTO deliveries (city, street, zipcode, status)
			VALUES ($1, $2, $3, $4)
			RETURNING delivery_id
		`
		d := &order.Delivery
		if err := tx.QueryRow(ctx, deliveryQ, d.Address.City, d.Address.Street, d.Address.Zipcode, string(d.Status)).Scan(&d.ID); err != nil {
			return err
		}

		const orderQ = `
			INSERT INTO orders (member_id, delivery_id, order_date, status)
			VALUES ($1, $2, $3, $4)
			RETURNING order_id, order_date
		`
		if err := tx.QueryRow(ctx, orderQ, order.Member.ID, d.ID, order.OrderDate, string(order.Status)).Scan(&order.ID, &order.OrderDate); err != nil {
			if isForeignKeyViolation(err) {
				return domain.NewNotFoundError("member")
			}
			return err
		}

		const lineQ = `
			INSERT INTO order_items (order_id, item_id, order_price, count)
			VALUES ($1, $2, $3, $4)
			RETURNING order_item_id
		`
		batch := &pgx.Batch{}
		for _, oi := range order.OrderItems {
			batch.Queue(lineQ, order.ID, oi.Item.ID, oi.OrderPrice, oi.Count)
		}
		br := tx.SendBatch(ctx, batch)
		for i := range order.OrderItems {
			oi := &order.OrderItems[i]
			if err := br.QueryRow().Scan(&oi.ID); err != nil {
				br.Close()
				return err
			}
			oi.OrderID = order.ID
		}
		return br.Close()
	})
}

// reserveStock decrements stock for every item in lines, in item id order.
// A decrement that would go negative matches no row and becomes a conflict.
func reserveStock(ctx context.Context, tx pgx.Tx, lines []domain.OrderItem) error {
	need := make(map[int64]int)
	for _, oi := range lines {
		need[oi.Item.ID] += oi.Count
	}
	ids := make([]int64, 0, len(need))
	for id := range need {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	const q = `
		UPDATE items
		SET stock_quantity = stock_quantity - $2
		WHERE item_id = $1 AND stock_quantity >= $2
		RETURNING stock_quantity
	`
	left := make(map[int64]int, len(ids))
	for _, id := range ids {
		var stock int
		err := tx.QueryRow(ctx, q, id, need[id]).Scan(&stock)
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM items WHERE item_id = $1)`, id).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return domain.NewNotFoundError("item")
			}
			return domain.NewConflictError("need more stock")
		}
		if err != nil {
			return err
		}
		left[id] = stock
	}
	for i := range lines {
		lines[i].Item.StockQuantity = left[lines[i].Item.ID]
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	args := sqlArgs{orderID}
	rows, err := queryGraph(ctx, r.pool, "WHERE o.order_id = $1", args)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.NewNotFoundError("order")
	}
	order := orderFromSummary(rows[0].OrderSummary)
	order.OrderItems = []domain.OrderItem{}
	for _, row := range rows {
		if line, ok := lineFromFlat(row); ok {
			order.OrderItems = append(order.OrderItems, line)
		}
	}
	return &order, nil
}

// Cancel flips the order to CANCEL only while it is still ORDER and its
// delivery has not completed, then returns every line's count to stock.
func (r *OrderRepository) Cancel(ctx context.Context, order *domain.Order) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		const cancelQ = `
			UPDATE orders o
			SET status = 'CANCEL'
			FROM deliveries d
			WHERE o.order_id = $1
			  AND o.status = 'ORDER'
			  AND d.delivery_id = o.delivery_id
			  AND d.status <> 'COMP'
		`
		res, err := tx.Exec(ctx, cancelQ, order.ID)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return domain.NewConflictError("order cannot be canceled")
		}

		const restoreQ = `
			UPDATE items i
			SET stock_quantity = i.stock_quantity + l.total
			FROM (
				SELECT item_id, SUM(count) AS total
				FROM order_items
				WHERE order_id = $1
				GROUP BY item_id
			) l
			WHERE i.item_id = l.item_id
		`
		if _, err := tx.Exec(ctx, restoreQ, order.ID); err != nil {
			return err
		}
		r.log.Debug("order canceled in store", "order_id", order.ID)
		return nil
	})
}
