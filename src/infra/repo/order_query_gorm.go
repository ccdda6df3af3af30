package repo

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"jpashop/src/core/domain"
	"jpashop/src/core/ports"
)

var _ ports.OrderStore = (*GormOrderQueryRepository)(nil)

// GormOrderQueryRepository implements ports.OrderStore with GORM. Each method
// issues exactly one statement; associations are pulled with Joins, never
// Preload, so the round-trip count stays under the loader's control.
type GormOrderQueryRepository struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewGormOrderQueryRepository(db *gorm.DB, log *slog.Logger) *GormOrderQueryRepository {
	return &GormOrderQueryRepository{db: db, log: log}
}

func (r *GormOrderQueryRepository) Health(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// matching filters orders by search.
func (r *GormOrderQueryRepository) matching(search ports.OrderSearch) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if search.Status != "" {
			tx = tx.Where("orders.status = ?", string(search.Status))
		}
		if search.MemberName != "" {
			names := r.db.Session(&gorm.Session{NewDB: true}).
				Table("members").
				Select("member_id").
				Where(`name LIKE ? ESCAPE '\'`, containsPattern(search.MemberName))
			tx = tx.Where("orders.member_id IN (?)", names)
		}
		return tx
	}
}

// paged orders by id and applies w.
func paged(w ports.Window) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		tx = tx.Order("orders.order_id")
		if w.Limit > 0 {
			tx = tx.Limit(w.Limit)
		}
		if w.Offset > 0 {
			tx = tx.Offset(w.Offset)
		}
		return tx
	}
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewNotFoundError(what)
	}
	return err
}

func (r *GormOrderQueryRepository) FindOrders(ctx context.Context, search ports.OrderSearch, w ports.Window) ([]domain.Order, error) {
	var records []orderRecord
	err := r.db.WithContext(ctx).
		Scopes(r.matching(search), paged(w)).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	orders := make([]domain.Order, len(records))
	for i, rec := range records {
		orders[i] = domain.Order{
			ID:        rec.ID,
			Member:    domain.Member{ID: rec.MemberID},
			Delivery:  domain.Delivery{ID: rec.DeliveryID},
			OrderDate: rec.OrderDate,
			Status:    domain.OrderStatus(rec.Status),
		}
	}
	return orders, nil
}

func (r *GormOrderQueryRepository) FindMember(ctx context.Context, memberID int64) (*domain.Member, error) {
	var rec memberRecord
	if err := r.db.WithContext(ctx).First(&rec, memberID).Error; err != nil {
		return nil, notFound(err, "member")
	}
	m := rec.toDomain()
	return &m, nil
}

func (r *GormOrderQueryRepository) FindDelivery(ctx context.Context, deliveryID int64) (*domain.Delivery, error) {
	var rec deliveryRecord
	if err := r.db.WithContext(ctx).First(&rec, deliveryID).Error; err != nil {
		return nil, notFound(err, "delivery")
	}
	d := rec.toDomain()
	return &d, nil
}

func (r *GormOrderQueryRepository) FindOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	var records []orderItemRecord
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("order_item_id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	lines := make([]domain.OrderItem, len(records))
	for i, rec := range records {
		lines[i] = rec.toDomain()
		lines[i].Item = domain.Item{ID: rec.ItemID}
	}
	return lines, nil
}

func (r *GormOrderQueryRepository) FindItem(ctx context.Context, itemID int64) (*domain.Item, error) {
	var rec itemRecord
	if err := r.db.WithContext(ctx).First(&rec, itemID).Error; err != nil {
		return nil, notFound(err, "item")
	}
	it := rec.toDomain()
	return &it, nil
}

func (r *GormOrderQueryRepository) FindOrdersWithMemberDelivery(ctx context.Context, search ports.OrderSearch, w ports.Window) ([]domain.Order, error) {
	records, err := r.findWithToOne(ctx, search, w)
	if err != nil {
		return nil, err
	}
	orders := make([]domain.Order, len(records))
	for i, rec := range records {
		orders[i] = rec.toDomain()
	}
	return orders, nil
}

func (r *GormOrderQueryRepository) FindOrderSummaries(ctx context.Context, search ports.OrderSearch, w ports.Window) ([]ports.OrderSummary, error) {
	records, err := r.findWithToOne(ctx, search, w)
	if err != nil {
		return nil, err
	}
	summaries := make([]ports.OrderSummary, len(records))
	for i, rec := range records {
		o := rec.toDomain()
		summaries[i] = ports.OrderSummary{
			OrderID:         o.ID,
			OrderDate:       o.OrderDate,
			Status:          o.Status,
			MemberID:        o.Member.ID,
			MemberName:      o.Member.Name,
			MemberAddress:   o.Member.Address,
			DeliveryID:      o.Delivery.ID,
			DeliveryStatus:  o.Delivery.Status,
			DeliveryAddress: o.Delivery.Address,
		}
	}
	return summaries, nil
}

func (r *GormOrderQueryRepository) findWithToOne(ctx context.Context, search ports.OrderSearch, w ports.Window) ([]orderRecord, error) {
	var records []orderRecord
	err := r.db.WithContext(ctx).
		Joins("Member").
		Joins("Delivery").
		Scopes(r.matching(search), paged(w)).
		Find(&records).Error
	return records, err
}

func (r *GormOrderQueryRepository) FindOrderItemsByOrderIDs(ctx context.Context, orderIDs []int64) ([]domain.OrderItem, error) {
	if len(orderIDs) == 0 {
		return []domain.OrderItem{}, nil
	}
	var records []orderItemRecord
	err := r.db.WithContext(ctx).
		Joins("Item").
		Where("order_items.order_id IN ?", orderIDs).
		Order("order_items.order_id, order_items.order_item_id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	lines := make([]domain.OrderItem, len(records))
	for i, rec := range records {
		lines[i] = rec.toDomain()
	}
	return lines, nil
}

func (r *GormOrderQueryRepository) FindOrdersWithItems(ctx context.Context, search ports.OrderSearch) ([]domain.Order, error) {
	flat, err := r.FindOrderFlatRows(ctx, search)
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

func (r *GormOrderQueryRepository) FindOrderFlatRows(ctx context.Context, search ports.OrderSearch) ([]ports.OrderFlatRow, error) {
	var records []flatRecord
	err := r.db.WithContext(ctx).
		Table("orders").
		Select(`orders.order_id, orders.order_date, orders.status,
			m.member_id, m.name AS member_name, m.city AS member_city, m.street AS member_street, m.zipcode AS member_zipcode,
			d.delivery_id, d.status AS delivery_status, d.city AS delivery_city, d.street AS delivery_street, d.zipcode AS delivery_zipcode,
			oi.order_item_id, i.item_id, i.name AS item_name, i.price AS item_price, i.stock_quantity AS item_stock,
			oi.order_price, oi.count`).
		Joins("JOIN members m ON m.member_id = orders.member_id").
		Joins("JOIN deliveries d ON d.delivery_id = orders.delivery_id").
		Joins("LEFT JOIN order_items oi ON oi.order_id = orders.order_id").
		Joins("LEFT JOIN items i ON i.item_id = oi.item_id").
		Scopes(r.matching(search)).
		Order("orders.order_id, oi.order_item_id").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	rows := make([]ports.OrderFlatRow, len(records))
	for i, rec := range records {
		rows[i] = rec.toPort()
	}
	return rows, nil
}

func (rec memberRecord) toDomain() domain.Member {
	return domain.Member{
		ID:      rec.ID,
		Name:    rec.Name,
		Address: domain.Address{City: rec.City, Street: rec.Street, Zipcode: rec.Zipcode},
	}
}

func (rec itemRecord) toDomain() domain.Item {
	return domain.Item{ID: rec.ID, Name: rec.Name, Price: rec.Price, StockQuantity: rec.StockQuantity}
}

func (rec deliveryRecord) toDomain() domain.Delivery {
	return domain.Delivery{
		ID:      rec.ID,
		Address: domain.Address{City: rec.City, Street: rec.Street, Zipcode: rec.Zipcode},
		Status:  domain.DeliveryStatus(rec.Status),
	}
}

func (rec orderRecord) toDomain() domain.Order {
	return domain.Order{
		ID:        rec.ID,
		Member:    rec.Member.toDomain(),
		Delivery:  rec.Delivery.toDomain(),
		OrderDate: rec.OrderDate,
		Status:    domain.OrderStatus(rec.Status),
	}
}

func (rec orderItemRecord) toDomain() domain.OrderItem {
	return domain.OrderItem{
		ID:         rec.ID,
		OrderID:    rec.OrderID,
		Item:       rec.Item.toDomain(),
		OrderPrice: rec.OrderPrice,
		Count:      rec.Count,
	}
}

func (rec flatRecord) toPort() ports.OrderFlatRow {
	row := ports.OrderFlatRow{
		OrderSummary: ports.OrderSummary{
			OrderID:         rec.OrderID,
			OrderDate:       rec.OrderDate,
			Status:          domain.OrderStatus(rec.Status),
			MemberID:        rec.MemberID,
			MemberName:      rec.MemberName,
			MemberAddress:   domain.Address{City: rec.MemberCity, Street: rec.MemberStreet, Zipcode: rec.MemberZipcode},
			DeliveryID:      rec.DeliveryID,
			DeliveryStatus:  domain.DeliveryStatus(rec.DeliveryStatus),
			DeliveryAddress: domain.Address{City: rec.DeliveryCity, Street: rec.DeliveryStreet, Zipcode: rec.DeliveryZipcode},
		},
	}
	if rec.OrderItemID != nil {
		row.OrderItemID = *rec.OrderItemID
		row.ItemID = *rec.ItemID
		row.ItemName = *rec.ItemName
		row.ItemPrice = *rec.ItemPrice
		row.ItemStock = *rec.ItemStock
		row.OrderPrice = *rec.OrderPrice
		row.Count = *rec.Count
	}
	return row
}
