package service

import (
	"context"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/internal/repository"
	"github.com/d60-Lab/microblog/pkg/pagination"
)

// FeedService 动态流：本人 + 所关注用户的短文，按时间倒序。
// 结果是查询时视图，关注关系变化立刻反映在下一次查询里。
type FeedService interface {
	Feed(ctx context.Context, userID string, page, pageSize int) ([]*model.Micropost, int, error)
}

type feedService struct {
	postRepo repository.MicropostRepository
}

func NewFeedService(postRepo repository.MicropostRepository) FeedService {
	return &feedService{postRepo: postRepo}
}

// Feed 返回一页动态和总页数。越界页码返回空列表。
func (s *feedService) Feed(ctx context.Context, userID string, page, pageSize int) ([]*model.Micropost, int, error) {
	page, pageSize = pagination.Normalize(page, pageSize)
	items, err := s.postRepo.ListFeed(ctx, userID, pagination.Offset(page, pageSize), pageSize)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.postRepo.CountFeed(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return items, pagination.PageCount(total, pageSize), nil
}
