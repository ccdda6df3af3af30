package repo

import "time"

// GORM records mirroring the migrated schema. Column names follow the
// <table>_id primary key convention of the SQL migrations.

type memberRecord struct {
	ID      int64  `gorm:"column:member_id;primaryKey"`
	Name    string `gorm:"uniqueIndex;not null"`
	City    string
	Street  string
	Zipcode string
}

func (memberRecord) TableName() string { return "members" }

type itemRecord struct {
	ID            int64 `gorm:"column:item_id;primaryKey"`
	Name          string
	Price         int
	StockQuantity int
}

func (itemRecord) TableName() string { return "items" }

type deliveryRecord struct {
	ID      int64 `gorm:"column:delivery_id;primaryKey"`
	City    string
	Street  string
	Zipcode string
	Status  string
}

func (deliveryRecord) TableName() string { return "deliveries" }

type orderRecord struct {
	ID         int64 `gorm:"column:order_id;primaryKey"`
	MemberID   int64 `gorm:"index"`
	Member     memberRecord
	DeliveryID int64 `gorm:"uniqueIndex"`
	Delivery   deliveryRecord
	OrderDate  time.Time
	Status     string            `gorm:"index"`
	OrderItems []orderItemRecord `gorm:"foreignKey:OrderID"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID         int64 `gorm:"column:order_item_id;primaryKey"`
	OrderID    int64 `gorm:"index"`
	ItemID     int64
	Item       itemRecord
	OrderPrice int
	Count      int
}

func (orderItemRecord) TableName() string { return "order_items" }

// flatRecord is one row of the whole-graph projection. Line columns are
// NULL for an order without lines.
type flatRecord struct {
	OrderID         int64
	OrderDate       time.Time
	Status          string
	MemberID        int64
	MemberName      string
	MemberCity      string
	MemberStreet    string
	MemberZipcode   string
	DeliveryID      int64
	DeliveryStatus  string
	DeliveryCity    string
	DeliveryStreet  string
	DeliveryZipcode string
	OrderItemID     *int64
	ItemID          *int64
	ItemName        *string
	ItemPrice       *int
	ItemStock       *int
	OrderPrice      *int
	Count           *int
}
