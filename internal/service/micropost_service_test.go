package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/internal/repository"
)

func TestMicropostCreateValidation(t *testing.T) {
	db := setupDB(t)
	svc := NewMicropostService(repository.NewMicropostRepository(db))
	ctx := context.Background()
	u := seedUser(t, db, "alice")

	_, err := svc.Create(ctx, u.ID, "")
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = svc.Create(ctx, u.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = svc.Create(ctx, u.ID, strings.Repeat("x", 141))
	assert.ErrorIs(t, err, ErrContentTooLong)

	post, err := svc.Create(ctx, u.ID, strings.Repeat("x", 140))
	require.NoError(t, err)
	assert.Equal(t, u.ID, post.UserID)
	assert.NotEmpty(t, post.ID)
	assert.False(t, post.CreatedAt.IsZero())
}

func TestMicropostContentLimitIsRunes(t *testing.T) {
	db := setupDB(t)
	svc := NewMicropostService(repository.NewMicropostRepository(db))
	ctx := context.Background()
	u := seedUser(t, db, "alice")

	// 140 个多字节字符也应通过
	_, err := svc.Create(ctx, u.ID, strings.Repeat("短", 140))
	assert.NoError(t, err)

	_, err = svc.Create(ctx, u.ID, strings.Repeat("短", 141))
	assert.ErrorIs(t, err, ErrContentTooLong)
}

func TestMicropostDeleteOwnerOnly(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewMicropostRepository(db)
	svc := NewMicropostService(repo)
	ctx := context.Background()
	owner := seedUser(t, db, "alice")
	other := seedUser(t, db, "bob")

	post, err := svc.Create(ctx, owner.ID, "hello")
	require.NoError(t, err)

	err = svc.Delete(ctx, post.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, svc.Delete(ctx, post.ID, owner.ID))

	_, err = repo.Get(ctx, post.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMicropostDeleteMissing(t *testing.T) {
	db := setupDB(t)
	svc := NewMicropostService(repository.NewMicropostRepository(db))

	err := svc.Delete(context.Background(), "no-such-post", "anyone")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
