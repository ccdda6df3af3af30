package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jpashop/src/core/domain"
)

func TestMemberJoin(t *testing.T) {
	f := newFixture(t, LoaderConfig{})
	ctx := context.Background()

	m, err := f.members.Join(ctx, "  kim ", domain.Address{City: "Seoul", Street: "river", Zipcode: "123"})
	require.NoError(t, err)
	assert.NotZero(t, m.ID)
	assert.Equal(t, "kim", m.Name)

	found, err := f.members.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m, found)

	_, err = f.members.Join(ctx, "kim", domain.Address{})
	assert.True(t, domain.IsConflict(err))

	_, err = f.members.Join(ctx, "   ", domain.Address{})
	assert.True(t, domain.IsValidationError(err))

	_, err = f.members.Get(ctx, 9999)
	assert.True(t, domain.IsNotFound(err))
}

func TestMemberListAndFindByName(t *testing.T) {
	f := newFixture(t, LoaderConfig{})
	f.populate(t)
	ctx := context.Background()

	all, err := f.members.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "userA", all[0].Name)

	byName, err := f.members.FindByName(ctx, "userB")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Busan", byName[0].Address.City)

	none, err := f.members.FindByName(ctx, "user")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemberUpdateName(t *testing.T) {
	f := newFixture(t, LoaderConfig{})
	s := f.populate(t)
	ctx := context.Background()

	m, err := f.members.UpdateName(ctx, s.carol.ID, "dave")
	require.NoError(t, err)
	assert.Equal(t, "dave", m.Name)

	same, err := f.members.UpdateName(ctx, s.userA.ID, "userA")
	require.NoError(t, err)
	assert.Equal(t, s.userA.ID, same.ID)

	_, err = f.members.UpdateName(ctx, s.userA.ID, "userB")
	assert.True(t, domain.IsConflict(err))

	_, err = f.members.UpdateName(ctx, 9999, "zed")
	assert.True(t, domain.IsNotFound(err))

	_, err = f.members.UpdateName(ctx, s.userA.ID, "")
	assert.True(t, domain.IsValidationError(err))
}
