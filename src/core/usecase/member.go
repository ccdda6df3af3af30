package usecase

import (
	"context"
	"log/slog"
	"strings"

	"jpashop/src/core/domain"
	"jpashop/src/core/ports"
)

// MemberService handles member registration and lookup.
type MemberService struct {
	repo ports.MemberRepository
	log  *slog.Logger
}

func NewMemberService(repo ports.MemberRepository, log *slog.Logger) *MemberService {
	return &MemberService{repo: repo, log: log}
}

// Join registers a new member. Names are unique.
func (s *MemberService) Join(ctx context.Context, name string, addr domain.Address) (*domain.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "cannot be empty")
	}
	if err := s.validateDuplicate(ctx, name); err != nil {
		return nil, err
	}

	m := &domain.Member{Name: name, Address: addr}
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, err
	}
	s.log.Info("member joined", "member_id", m.ID)
	return m, nil
}

func (s *MemberService) Get(ctx context.Context, memberID int64) (*domain.Member, error) {
	return s.repo.FindByID(ctx, memberID)
}

func (s *MemberService) List(ctx context.Context) ([]domain.Member, error) {
	return s.repo.FindAll(ctx)
}

func (s *MemberService) FindByName(ctx context.Context, name string) ([]domain.Member, error) {
	return s.repo.FindByName(ctx, strings.TrimSpace(name))
}

// UpdateName renames a member, keeping names unique.
func (s *MemberService) UpdateName(ctx context.Context, memberID int64, name string) (*domain.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "cannot be empty")
	}
	current, err := s.repo.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if current.Name == name {
		return current, nil
	}
	if err := s.validateDuplicate(ctx, name); err != nil {
		return nil, err
	}
	return s.repo.UpdateName(ctx, memberID, name)
}

// validateDuplicate is a fast path; the unique index on members.name is the
// real guard under concurrent joins.
func (s *MemberService) validateDuplicate(ctx context.Context, name string) error {
	found, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if len(found) > 0 {
		return domain.NewConflictError("member already exists")
	}
	return nil
}
