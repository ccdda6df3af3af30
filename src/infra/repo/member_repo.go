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

var _ ports.MemberRepository = (*MemberRepository)(nil)

// MemberRepository implements ports.MemberRepository using pgx.
type MemberRepository struct {
	pgRepository
}

func NewMemberRepository(pg *db.Postgres, log *slog.Logger) *MemberRepository {
	return &MemberRepository{newPgRepository(pg, log)}
}

const memberColumns = `member_id, name, city, street, zipcode`

func scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	if err := row.Scan(&m.ID, &m.Name, &m.Address.City, &m.Address.Street, &m.Address.Zipcode); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("member")
		}
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) Save(ctx context.Context, member *domain.Member) error {
	const q = `
		INSERT INTO members (name, city, street, zipcode)
		VALUES ($1, $2, $3, $4)
		RETURNING member_id
	`
	a := member.Address
	if err := r.pool.QueryRow(ctx, q, member.Name, a.City, a.Street, a.Zipcode).Scan(&member.ID); err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("member already exists")
		}
		return err
	}
	return nil
}

func (r *MemberRepository) FindByID(ctx context.Context, memberID int64) (*domain.Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members WHERE member_id = $1`
	return scanMember(r.pool.QueryRow(ctx, q, memberID))
}

func (r *MemberRepository) FindAll(ctx context.Context) ([]domain.Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members ORDER BY member_id`
	return r.list(ctx, q)
}

func (r *MemberRepository) FindByName(ctx context.Context, name string) ([]domain.Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members WHERE name = $1 ORDER BY member_id`
	return r.list(ctx, q, name)
}

func (r *MemberRepository) UpdateName(ctx context.Context, memberID int64, name string) (*domain.Member, error) {
	const q = `
		UPDATE members
		SET name = $2
		WHERE member_id = $1
		RETURNING ` + memberColumns
	m, err := scanMember(r.pool.QueryRow(ctx, q, memberID, name))
	if err != nil && isUniqueViolation(err) {
		return nil, domain.NewConflictError("member already exists")
	}
	return m, err
}

func (r *MemberRepository) list(ctx context.Context, q string, args ...any) ([]domain.Member, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}
