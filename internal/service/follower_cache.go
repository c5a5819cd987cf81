package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/microblog/internal/repository"
	"github.com/d60-Lab/microblog/pkg/pagination"
)

// FollowerSnapshot contains the minimal user info follower pages render.
type FollowerSnapshot struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	GravatarURL string `json:"gravatar_url"`
}

// FollowerCache serves follower pages from a Redis id index plus per-user
// snapshots, falling back to the primary store on misses.
type FollowerCache struct {
	fanRepo  repository.FanRepository
	userRepo repository.UserRepository
	cache    *redis.Client
	ttl      time.Duration
}

func NewFollowerCache(fanRepo repository.FanRepository, userRepo repository.UserRepository, cache *redis.Client, ttl time.Duration) *FollowerCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &FollowerCache{fanRepo: fanRepo, userRepo: userRepo, cache: cache, ttl: ttl}
}

func indexKey(userID string) string { return fmt.Sprintf("followers:index:%s", userID) }
func userKey(id string) string      { return fmt.Sprintf("user:%s", id) }

// FetchFollowers returns one page of follower snapshots for userID.
func (s *FollowerCache) FetchFollowers(ctx context.Context, userID string, page, size int) ([]FollowerSnapshot, error) {
	page, size = pagination.Normalize(page, size)
	key := indexKey(userID)

	start := pagination.Offset(page, size)
	end := start + size - 1

	var ids []string
	if exists, _ := s.cache.Exists(ctx, key).Result(); exists > 0 {
		// LRANGE fetches only the requested page of ids
		ids, _ = s.cache.LRange(ctx, key, int64(start), int64(end)).Result()
	}

	if len(ids) == 0 {
		allIDs, err := s.loadFanIDsAndCache(ctx, userID)
		if err != nil {
			return nil, err
		}
		ids = pagination.Slice(allIDs, page, size)
		if len(ids) == 0 {
			return []FollowerSnapshot{}, nil
		}
	}

	return s.loadUsers(ctx, ids)
}

// Invalidate drops the id index; snapshots keep their TTL.
func (s *FollowerCache) Invalidate(ctx context.Context, userID string) error {
	return s.cache.Del(ctx, indexKey(userID)).Err()
}

// Forget drops both the id index and the user's own snapshot.
// Used when the user is destroyed so the cache cannot serve them afterwards.
func (s *FollowerCache) Forget(ctx context.Context, userID string) error {
	return s.cache.Del(ctx, indexKey(userID), userKey(userID)).Err()
}

func (s *FollowerCache) loadFanIDsAndCache(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.fanRepo.ListFanIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		pipe := s.cache.Pipeline()
		pipe.Del(ctx, indexKey(userID))
		pipe.RPush(ctx, indexKey(userID), interfaceSlice(ids)...)
		pipe.Expire(ctx, indexKey(userID), s.ttl)
		_, _ = pipe.Exec(ctx)
	}
	return ids, nil
}

func (s *FollowerCache) loadUsers(ctx context.Context, ids []string) ([]FollowerSnapshot, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(id)
	}

	cached := make(map[string]FollowerSnapshot, len(ids))
	if vals, err := s.cache.MGet(ctx, keys...).Result(); err == nil {
		for i, v := range vals {
			str, ok := v.(string)
			if !ok {
				continue
			}
			var snap FollowerSnapshot
			if uErr := json.Unmarshal([]byte(str), &snap); uErr == nil {
				cached[ids[i]] = snap
			}
		}
	}

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := cached[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		users, err := s.userRepo.ListByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			snap := FollowerSnapshot{ID: u.ID, Name: u.Name, Email: u.Email, GravatarURL: u.GravatarURL(50)}
			cached[u.ID] = snap
			if payload, err := json.Marshal(snap); err == nil {
				_ = s.cache.Set(ctx, userKey(u.ID), payload, s.ttl).Err()
			}
		}
	}

	result := make([]FollowerSnapshot, 0, len(ids))
	for _, id := range ids {
		if snap, ok := cached[id]; ok {
			result = append(result, snap)
		}
	}
	return result, nil
}

func interfaceSlice(strs []string) []interface{} {
	result := make([]interface{}, len(strs))
	for i, s := range strs {
		result[i] = s
	}
	return result
}
