package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/internal/repository"
)

var (
	ErrFollowSelf = errors.New("cannot follow self")
)

// RelationshipService 关系链服务。
// 关注边和粉丝冗余边同一事务写入，保证关注后立刻能从两个方向查到。
type RelationshipService interface {
	Follow(ctx context.Context, fromUserID, toUserID string) error
	Unfollow(ctx context.Context, fromUserID, toUserID string) error
	IsFollowing(ctx context.Context, fromUserID, toUserID string) (bool, error)
	FollowedIDs(ctx context.Context, userID string) ([]string, error)
	FollowerIDs(ctx context.Context, userID string) ([]string, error)
	ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]string, int64, error)
	ListFans(ctx context.Context, userID string, page, pageSize int) ([]string, int64, error)
}

type relationshipService struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
	fanRepo     repository.FanRepository
	invalidator *CacheInvalidator
}

func NewRelationshipService(db *gorm.DB, userRepo repository.UserRepository, followRepo repository.FollowRepository, fanRepo repository.FanRepository, invalidator *CacheInvalidator) RelationshipService {
	return &relationshipService{db: db, userRepo: userRepo, followRepo: followRepo, fanRepo: fanRepo, invalidator: invalidator}
}

func (s *relationshipService) Follow(ctx context.Context, fromUserID, toUserID string) error {
	if fromUserID == toUserID {
		return ErrFollowSelf
	}
	// 被关注方必须存在，不存在按 NotFound 处理
	if _, err := s.userRepo.GetByID(ctx, toUserID); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewFollowRepository(tx).Create(ctx, fromUserID, toUserID); err != nil {
			return err
		}
		return repository.NewFanRepository(tx).Create(ctx, toUserID, fromUserID)
	})
	if err != nil {
		return err
	}
	if s.invalidator != nil {
		s.invalidator.Enqueue(toUserID)
	}
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, fromUserID, toUserID string) error {
	// 边不存在时是 no-op
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewFollowRepository(tx).Delete(ctx, fromUserID, toUserID); err != nil {
			return err
		}
		return repository.NewFanRepository(tx).Delete(ctx, toUserID, fromUserID)
	})
	if err != nil {
		return err
	}
	if s.invalidator != nil {
		s.invalidator.Enqueue(toUserID)
	}
	return nil
}

func (s *relationshipService) IsFollowing(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	return s.followRepo.Exists(ctx, fromUserID, toUserID)
}

func (s *relationshipService) FollowedIDs(ctx context.Context, userID string) ([]string, error) {
	return s.followRepo.ListFollowingIDs(ctx, userID)
}

func (s *relationshipService) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	return s.fanRepo.ListFanIDs(ctx, userID)
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]string, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize
	items, err := s.followRepo.ListFollowings(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.followRepo.CountFollowings(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	res := make([]string, len(items))
	for i, it := range items {
		res[i] = it.FolloweeID
	}
	return res, total, nil
}

func (s *relationshipService) ListFans(ctx context.Context, userID string, page, pageSize int) ([]string, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize
	items, err := s.fanRepo.ListFans(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.fanRepo.CountFans(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	res := make([]string, len(items))
	for i, it := range items {
		res[i] = it.FanID
	}
	return res, total, nil
}
