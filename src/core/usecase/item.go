package usecase

import (
	"context"
	"log/slog"
	"strings"

	"jpashop/src/core/domain"
	"jpashop/src/core/ports"
)

// ItemService handles the item catalogue.
type ItemService struct {
	repo ports.ItemRepository
	log  *slog.Logger
}

func NewItemService(repo ports.ItemRepository, log *slog.Logger) *ItemService {
	return &ItemService{repo: repo, log: log}
}

func (s *ItemService) Create(ctx context.Context, name string, price, stock int) (*domain.Item, error) {
	item := &domain.Item{Name: strings.TrimSpace(name), Price: price, StockQuantity: stock}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.log.Info("item created", "item_id", item.ID)
	return item, nil
}

func (s *ItemService) Get(ctx context.Context, itemID int64) (*domain.Item, error) {
	return s.repo.FindByID(ctx, itemID)
}

func (s *ItemService) List(ctx context.Context) ([]domain.Item, error) {
	return s.repo.FindAll(ctx)
}

// Update overwrites name, price and stock of an existing item.
func (s *ItemService) Update(ctx context.Context, itemID int64, name string, price, stock int) (*domain.Item, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	item.Name = strings.TrimSpace(name)
	item.Price = price
	item.StockQuantity = stock
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}
