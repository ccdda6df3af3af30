package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"jpashop/src/core/domain"
	"jpashop/src/core/ports"
	"jpashop/src/core/usecase"
	"jpashop/src/infra/logger"
	"jpashop/src/infra/orm"
)

type GormOrderQuerySuite struct {
	suite.Suite
	db     *gorm.DB
	store  *GormOrderQueryRepository
	loader *usecase.OrderLoader

	orderIDs []int64
}

func TestGormOrderQuerySuite(t *testing.T) {
	suite.Run(t, new(GormOrderQuerySuite))
}

func (s *GormOrderQuerySuite) SetupTest() {
	log := logger.Discard()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: orm.NewLogger(log, gormlogger.Silent),
	})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(db.AutoMigrate(&memberRecord{}, &itemRecord{}, &deliveryRecord{}, &orderRecord{}, &orderItemRecord{}))
	s.db = db
	s.store = NewGormOrderQueryRepository(db, log)
	s.loader = usecase.NewOrderLoader(s.store, log, usecase.LoaderConfig{BatchFetchSize: 2})
	s.seed()
}

func (s *GormOrderQuerySuite) create(v any) {
	s.Require().NoError(s.db.Omit(clause.Associations).Create(v).Error)
}

// seed inserts three orders; the third has no lines and is canceled.
func (s *GormOrderQuerySuite) seed() {
	userA := &memberRecord{Name: "userA", City: "Seoul", Street: "1", Zipcode: "1111"}
	userB := &memberRecord{Name: "userB", City: "Busan", Street: "2", Zipcode: "2222"}
	s.create(userA)
	s.create(userB)

	book1 := &itemRecord{Name: "JPA1 BOOK", Price: 10000, StockQuantity: 99}
	book2 := &itemRecord{Name: "JPA2 BOOK", Price: 20000, StockQuantity: 98}
	book3 := &itemRecord{Name: "SPRING1 BOOK", Price: 20000, StockQuantity: 197}
	s.create(book1)
	s.create(book2)
	s.create(book3)

	date := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	order := func(m *memberRecord, status string, lines ...orderItemRecord) {
		d := &deliveryRecord{City: m.City, Street: m.Street, Zipcode: m.Zipcode, Status: string(domain.DeliveryReady)}
		s.create(d)
		o := &orderRecord{MemberID: m.ID, DeliveryID: d.ID, OrderDate: date, Status: status}
		s.create(o)
		for i := range lines {
			lines[i].OrderID = o.ID
			s.create(&lines[i])
		}
		s.orderIDs = append(s.orderIDs, o.ID)
	}
	order(userA, "ORDER",
		orderItemRecord{ItemID: book1.ID, OrderPrice: 10000, Count: 1},
		orderItemRecord{ItemID: book2.ID, OrderPrice: 20000, Count: 2},
	)
	order(userB, "ORDER", orderItemRecord{ItemID: book3.ID, OrderPrice: 20000, Count: 3})
	order(userA, "CANCEL")
}

func (s *GormOrderQuerySuite) TestPoliciesAgree() {
	ctx := context.Background()
	searches := []ports.OrderSearch{
		{},
		{Status: domain.OrderStatusCancel},
		{MemberName: "A"},
		{MemberName: "user%"},
	}
	windows := []ports.Window{{}, {Offset: 1, Limit: 1}, {Offset: 2, Limit: 5}}

	for _, search := range searches {
		for _, w := range windows {
			want, err := s.loader.Load(ctx, usecase.PolicyBatched, search, w)
			s.Require().NoError(err)
			for _, p := range usecase.LoadPolicies() {
				got, err := s.loader.Load(ctx, p, search, w)
				s.Require().NoError(err, p)
				s.Equal(want.Orders, got.Orders, "%s %+v %+v", p, search, w)
			}
		}
	}
}

func (s *GormOrderQuerySuite) TestFullGraph() {
	res, err := s.loader.Load(context.Background(), usecase.PolicyFlat, ports.OrderSearch{}, ports.Window{})
	s.Require().NoError(err)
	s.Require().Len(res.Orders, 3)

	first := res.Orders[0]
	s.Equal("userA", first.Member.Name)
	s.Equal("Seoul", first.Delivery.Address.City)
	s.Equal(domain.DeliveryReady, first.Delivery.Status)
	s.Require().Len(first.OrderItems, 2)
	s.Equal("JPA2 BOOK", first.OrderItems[1].Item.Name)
	s.Equal(50000, first.TotalPrice())

	empty := res.Orders[2]
	s.Equal(domain.OrderStatusCancel, empty.Status)
	s.NotNil(empty.OrderItems)
	s.Empty(empty.OrderItems)
}

func (s *GormOrderQuerySuite) TestFilters() {
	ctx := context.Background()

	byName, err := s.store.FindOrderSummaries(ctx, ports.OrderSearch{MemberName: "A"}, ports.Window{})
	s.Require().NoError(err)
	s.Require().Len(byName, 2)
	s.Equal(s.orderIDs[0], byName[0].OrderID)
	s.Equal(s.orderIDs[2], byName[1].OrderID)

	literal, err := s.store.FindOrders(ctx, ports.OrderSearch{MemberName: "user%"}, ports.Window{})
	s.Require().NoError(err)
	s.Empty(literal, "wildcards in the name match literally")

	canceled, err := s.store.FindOrdersWithMemberDelivery(ctx, ports.OrderSearch{Status: domain.OrderStatusCancel}, ports.Window{})
	s.Require().NoError(err)
	s.Require().Len(canceled, 1)
	s.Equal("userA", canceled[0].Member.Name)

	paged, err := s.store.FindOrders(ctx, ports.OrderSearch{}, ports.Window{Offset: 1, Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(paged, 1)
	s.Equal(s.orderIDs[1], paged[0].ID)
}

func (s *GormOrderQuerySuite) TestJoinFetchRepeatsParents() {
	rows, err := s.store.FindOrdersWithItems(context.Background(), ports.OrderSearch{})
	s.Require().NoError(err)
	// 2 lines + 1 line + 1 order without lines.
	s.Require().Len(rows, 4)
	s.Equal(rows[0].ID, rows[1].ID)
	s.Empty(rows[3].OrderItems)
}

func (s *GormOrderQuerySuite) TestLookups() {
	ctx := context.Background()

	_, err := s.store.FindMember(ctx, 9999)
	s.True(domain.IsNotFound(err))
	_, err = s.store.FindDelivery(ctx, 9999)
	s.True(domain.IsNotFound(err))
	_, err = s.store.FindItem(ctx, 9999)
	s.True(domain.IsNotFound(err))

	lines, err := s.store.FindOrderItems(ctx, s.orderIDs[0])
	s.Require().NoError(err)
	s.Require().Len(lines, 2)
	s.Zero(lines[0].Item.Name, "lazy lines carry only the item id")

	batch, err := s.store.FindOrderItemsByOrderIDs(ctx, []int64{s.orderIDs[1], s.orderIDs[0]})
	s.Require().NoError(err)
	s.Len(batch, 3)
	s.Equal("JPA1 BOOK", batch[0].Item.Name)

	none, err := s.store.FindOrderItemsByOrderIDs(ctx, nil)
	s.Require().NoError(err)
	s.Empty(none)

	s.NoError(s.store.Health(ctx))
}
