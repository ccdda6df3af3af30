package usecase

import (
	"context"
	"log/slog"

	"jpashop/src/core/domain"
)

// SeedService inserts the demo members, items and orders.
type SeedService struct {
	members *MemberService
	items   *ItemService
	orders  *OrderService
	log     *slog.Logger
}

func NewSeedService(members *MemberService, items *ItemService, orders *OrderService, log *slog.Logger) *SeedService {
	return &SeedService{members: members, items: items, orders: orders, log: log}
}

type seedItem struct {
	name  string
	price int
	stock int
	count int
}

type seedOrder struct {
	member  string
	address domain.Address
	items   []seedItem
}

var seedOrders = []seedOrder{
	{
		member:  "userA",
		address: domain.Address{City: "Seoul", Street: "1", Zipcode: "1111"},
		items: []seedItem{
			{name: "JPA1 BOOK", price: 10000, stock: 100, count: 1},
			{name: "JPA2 BOOK", price: 20000, stock: 100, count: 2},
		},
	},
	{
		member:  "userB",
		address: domain.Address{City: "Busan", Street: "2", Zipcode: "2222"},
		items: []seedItem{
			{name: "SPRING1 BOOK", price: 20000, stock: 200, count: 3},
			{name: "SPRING2 BOOK", price: 40000, stock: 300, count: 4},
		},
	},
}

// Seed inserts the demo data unless the first demo member already exists.
func (s *SeedService) Seed(ctx context.Context) error {
	existing, err := s.members.FindByName(ctx, seedOrders[0].member)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.log.Info("seed data already present, skipping")
		return nil
	}

	for _, so := range seedOrders {
		member, err := s.members.Join(ctx, so.member, so.address)
		if err != nil {
			return err
		}
		lines := make([]OrderLine, 0, len(so.items))
		for _, si := range so.items {
			item, err := s.items.Create(ctx, si.name, si.price, si.stock)
			if err != nil {
				return err
			}
			lines = append(lines, OrderLine{ItemID: item.ID, Count: si.count})
		}
		if _, err := s.orders.Place(ctx, member.ID, lines); err != nil {
			return err
		}
	}

	s.log.Info("seed data inserted", "members", len(seedOrders))
	return nil
}
