package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/internal/model"
)

type MicropostRepository interface {
	Create(ctx context.Context, userID, content string) (*model.Micropost, error)
	Get(ctx context.Context, id string) (*model.Micropost, error)
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Micropost, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	ListFeed(ctx context.Context, userID string, offset, limit int) ([]*model.Micropost, error)
	CountFeed(ctx context.Context, userID string) (int64, error)
	DeleteAllFor(ctx context.Context, userID string) error
}

type micropostRepository struct{ db *gorm.DB }

func NewMicropostRepository(db *gorm.DB) MicropostRepository { return &micropostRepository{db: db} }

func (r *micropostRepository) Create(ctx context.Context, userID, content string) (*model.Micropost, error) {
	m := &model.Micropost{
		ID:        uuid.New().String(),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (r *micropostRepository) Get(ctx context.Context, id string) (*model.Micropost, error) {
	var m model.Micropost
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *micropostRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Micropost{}, "id = ?", id).Error
}

func (r *micropostRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Micropost, error) {
	var res []*model.Micropost
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *micropostRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Micropost{}).
		Where("user_id = ?", userID).
		Count(&cnt).Error
	return cnt, err
}

// feedScope 限定为本人 + 所关注用户的短文。
// 用子查询下推到数据库执行，不在内存里合并。
func (r *micropostRepository) feedScope(ctx context.Context, userID string) *gorm.DB {
	followed := r.db.Model(&model.Follow{}).
		Select("followee_id").
		Where("follower_id = ?", userID)
	return r.db.WithContext(ctx).
		Model(&model.Micropost{}).
		Where("user_id = ? OR user_id IN (?)", userID, followed)
}

func (r *micropostRepository) ListFeed(ctx context.Context, userID string, offset, limit int) ([]*model.Micropost, error) {
	var res []*model.Micropost
	err := r.feedScope(ctx, userID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *micropostRepository) CountFeed(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.feedScope(ctx, userID).Count(&cnt).Error
	return cnt, err
}

func (r *micropostRepository) DeleteAllFor(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Micropost{}).Error
}
