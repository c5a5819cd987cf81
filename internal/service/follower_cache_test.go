package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/internal/repository"
)

func setupFollowerCache(t *testing.T) (*FollowerCache, RelationshipService, *miniredis.Miniredis, func() []*model.User) {
	db := setupDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	fanRepo := repository.NewFanRepository(db)
	userRepo := repository.NewUserRepository(db)
	cache := NewFollowerCache(fanRepo, userRepo, rdb, time.Minute)
	relSvc := NewRelationshipService(db, userRepo,
		repository.NewFollowRepository(db), fanRepo, nil)

	seed := func() []*model.User {
		star := seedUser(t, db, "star")
		fans := []*model.User{star}
		for _, n := range []string{"f1", "f2", "f3"} {
			f := seedUser(t, db, n)
			require.NoError(t, relSvc.Follow(context.Background(), f.ID, star.ID))
			fans = append(fans, f)
		}
		return fans
	}
	return cache, relSvc, mr, seed
}

func TestFollowerCacheFetch(t *testing.T) {
	cache, _, mr, seed := setupFollowerCache(t)
	users := seed()
	star := users[0]
	ctx := context.Background()

	snaps, err := cache.FetchFollowers(ctx, star.ID, 1, 30)
	require.NoError(t, err)
	assert.Len(t, snaps, 3)
	for _, s := range snaps {
		assert.NotEmpty(t, s.Name)
		assert.Contains(t, s.GravatarURL, "gravatar.com")
	}

	// 索引与快照均已写入 redis
	assert.True(t, mr.Exists("followers:index:"+star.ID))
	assert.True(t, mr.Exists("user:"+users[1].ID))

	// 第二次读取命中缓存
	snaps, err = cache.FetchFollowers(ctx, star.ID, 1, 30)
	require.NoError(t, err)
	assert.Len(t, snaps, 3)
}

func TestFollowerCachePaging(t *testing.T) {
	cache, _, _, seed := setupFollowerCache(t)
	star := seed()[0]
	ctx := context.Background()

	page1, err := cache.FetchFollowers(ctx, star.ID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page1, 2)

	page2, err := cache.FetchFollowers(ctx, star.ID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page2, 1)

	// 越界页为空
	page9, err := cache.FetchFollowers(ctx, star.ID, 9, 2)
	require.NoError(t, err)
	assert.Empty(t, page9)
}

func TestFollowerCacheInvalidate(t *testing.T) {
	cache, relSvc, mr, seed := setupFollowerCache(t)
	users := seed()
	star, f1 := users[0], users[1]
	ctx := context.Background()

	_, err := cache.FetchFollowers(ctx, star.ID, 1, 30)
	require.NoError(t, err)
	require.True(t, mr.Exists("followers:index:"+star.ID))

	// 取关后索引失效，重查反映新状态
	require.NoError(t, relSvc.Unfollow(ctx, f1.ID, star.ID))
	require.NoError(t, cache.Invalidate(ctx, star.ID))
	assert.False(t, mr.Exists("followers:index:"+star.ID))

	snaps, err := cache.FetchFollowers(ctx, star.ID, 1, 30)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}

func TestDestroyForgetsCachedFollower(t *testing.T) {
	db := setupDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	fanRepo := repository.NewFanRepository(db)
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	cache := NewFollowerCache(fanRepo, userRepo, rdb, time.Minute)
	inv := NewCacheInvalidator(cache, 16)
	stop := inv.Start(1)
	relSvc := NewRelationshipService(db, userRepo, followRepo, fanRepo, nil)
	userSvc := NewUserService(userRepo, followRepo, inv)
	ctx := context.Background()

	admin := seedUser(t, db, "admin")
	require.NoError(t, db.Model(admin).Update("admin", true).Error)
	star := seedUser(t, db, "star")
	fan := seedUser(t, db, "fan")
	require.NoError(t, relSvc.Follow(ctx, fan.ID, star.ID))

	// 预热：star 的粉丝索引和 fan 的快照进入缓存
	_, err := cache.FetchFollowers(ctx, star.ID, 1, 30)
	require.NoError(t, err)
	require.True(t, mr.Exists("followers:index:"+star.ID))
	require.True(t, mr.Exists("user:"+fan.ID))

	// 注销 fan 后，其所关注用户的索引与本人快照都不再可用
	require.NoError(t, userSvc.Destroy(ctx, fan.ID, admin.ID))
	require.Eventually(t, func() bool {
		return !mr.Exists("followers:index:"+star.ID) && !mr.Exists("user:"+fan.ID)
	}, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, stop(ctx))
}

func TestCacheInvalidatorWorker(t *testing.T) {
	cache, _, mr, seed := setupFollowerCache(t)
	star := seed()[0]
	ctx := context.Background()

	_, err := cache.FetchFollowers(ctx, star.ID, 1, 30)
	require.NoError(t, err)
	require.True(t, mr.Exists("followers:index:"+star.ID))

	inv := NewCacheInvalidator(cache, 16)
	stop := inv.Start(1)
	inv.Enqueue(star.ID)

	require.Eventually(t, func() bool {
		return !mr.Exists("followers:index:" + star.ID)
	}, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, stop(ctx))
}
