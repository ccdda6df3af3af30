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

var _ ports.ItemRepository = (*ItemRepository)(nil)

// ItemRepository implements ports.ItemRepository using pgx.
type ItemRepository struct {
	pgRepository
}

func NewItemRepository(pg *db.Postgres, log *slog.Logger) *ItemRepository {
	return &ItemRepository{newPgRepository(pg, log)}
}

const itemColumns = `item_id, name, price, stock_quantity`

func scanItem(row pgx.Row) (*domain.Item, error) {
	var it domain.Item
	if err := row.Scan(&it.ID, &it.Name, &it.Price, &it.StockQuantity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("item")
		}
		return nil, err
	}
	return &it, nil
}

func (r *ItemRepository) Save(ctx context.Context, item *domain.Item) error {
	const q = `
		INSERT INTO items (name, price, stock_quantity)
		VALUES ($1, $2, $3)
		RETURNING item_id
	`
	if err := r.pool.QueryRow(ctx, q, item.Name, item.Price, item.StockQuantity).Scan(&item.ID); err != nil {
		if isCheckViolation(err) {
			return domain.NewValidationError("item", "price and stock_quantity cannot be negative")
		}
		return err
	}
	return nil
}

func (r *ItemRepository) FindByID(ctx context.Context, itemID int64) (*domain.Item, error) {
	const q = `SELECT ` + itemColumns + ` FROM items WHERE item_id = $1`
	return scanItem(r.pool.QueryRow(ctx, q, itemID))
}

func (r *ItemRepository) FindAll(ctx context.Context) ([]domain.Item, error) {
	const q = `SELECT ` + itemColumns + ` FROM items ORDER BY item_id`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	const q = `
		UPDATE items
		SET name = $2, price = $3, stock_quantity = $4
		WHERE item_id = $1
	`
	res, err := r.pool.Exec(ctx, q, item.ID, item.Name, item.Price, item.StockQuantity)
	if err != nil {
		if isCheckViolation(err) {
			return domain.NewValidationError("item", "price and stock_quantity cannot be negative")
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.NewNotFoundError("item")
	}
	return nil
}
