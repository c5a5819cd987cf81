package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/internal/repository"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Follow{}, &model.Fan{}, &model.Micropost{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *model.User {
	u := &model.User{ID: uuid.New().String(), Name: name, Email: name + "@example.com", PasswordHash: "p"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func newRelService(db *gorm.DB) RelationshipService {
	return NewRelationshipService(db,
		repository.NewUserRepository(db),
		repository.NewFollowRepository(db),
		repository.NewFanRepository(db),
		nil)
}

func TestFollowAndQueries(t *testing.T) {
	db := setupDB(t)
	svc := newRelService(db)
	ctx := context.Background()
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")

	require.NoError(t, svc.Follow(ctx, a.ID, b.ID))

	ok, err := svc.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	followed, err := svc.FollowedIDs(ctx, a.ID)
	require.NoError(t, err)
	assert.Contains(t, followed, b.ID)

	followers, err := svc.FollowerIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.Contains(t, followers, a.ID)
}

func TestFollowSelfRejected(t *testing.T) {
	db := setupDB(t)
	svc := newRelService(db)
	ctx := context.Background()
	a := seedUser(t, db, "alice")

	err := svc.Follow(ctx, a.ID, a.ID)
	assert.ErrorIs(t, err, ErrFollowSelf)

	var cnt int64
	require.NoError(t, db.Model(&model.Follow{}).Count(&cnt).Error)
	assert.Zero(t, cnt, "no edge written")
}

func TestFollowIdempotent(t *testing.T) {
	db := setupDB(t)
	svc := newRelService(db)
	ctx := context.Background()
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")

	require.NoError(t, svc.Follow(ctx, a.ID, b.ID))
	require.NoError(t, svc.Follow(ctx, a.ID, b.ID))

	var cnt int64
	require.NoError(t, db.Model(&model.Follow{}).Count(&cnt).Error)
	assert.Equal(t, int64(1), cnt)
	require.NoError(t, db.Model(&model.Fan{}).Count(&cnt).Error)
	assert.Equal(t, int64(1), cnt)
}

func TestFollowMissingFollowee(t *testing.T) {
	db := setupDB(t)
	svc := newRelService(db)
	ctx := context.Background()
	a := seedUser(t, db, "alice")

	err := svc.Follow(ctx, a.ID, "no-such-user")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUnfollow(t *testing.T) {
	db := setupDB(t)
	svc := newRelService(db)
	ctx := context.Background()
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")

	require.NoError(t, svc.Follow(ctx, a.ID, b.ID))
	require.NoError(t, svc.Unfollow(ctx, a.ID, b.ID))

	ok, err := svc.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	followers, err := svc.FollowerIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.NotContains(t, followers, a.ID)

	// unfollow again is a no-op
	require.NoError(t, svc.Unfollow(ctx, a.ID, b.ID))
}

func TestListFollowingPaged(t *testing.T) {
	db := setupDB(t)
	svc := newRelService(db)
	ctx := context.Background()
	a := seedUser(t, db, "alice")
	for i := 0; i < 5; i++ {
		u := seedUser(t, db, "user"+string(rune('a'+i)))
		require.NoError(t, svc.Follow(ctx, a.ID, u.ID))
	}

	list, total, err := svc.ListFollowing(ctx, a.ID, 1, 3)
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.Equal(t, int64(5), total)

	list, _, err = svc.ListFollowing(ctx, a.ID, 2, 3)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, _, err = svc.ListFollowing(ctx, a.ID, 99, 3)
	require.NoError(t, err)
	assert.Empty(t, list)
}
