package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/internal/repository"
)

var (
	ErrEmptyContent   = errors.New("content can't be blank")
	ErrContentTooLong = errors.New("content is too long (maximum is 140 characters)")
	ErrNotOwner       = errors.New("not the owner of this micropost")
)

// MicropostService 短文服务。内容按字符数（非字节数）限长，创建后不可修改。
type MicropostService interface {
	Create(ctx context.Context, userID, content string) (*model.Micropost, error)
	Delete(ctx context.Context, postID, requesterID string) error
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]*model.Micropost, int64, error)
}

type micropostService struct {
	postRepo repository.MicropostRepository
}

func NewMicropostService(postRepo repository.MicropostRepository) MicropostService {
	return &micropostService{postRepo: postRepo}
}

func (s *micropostService) Create(ctx context.Context, userID, content string) (*model.Micropost, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > model.MaxContentLen {
		return nil, ErrContentTooLong
	}
	return s.postRepo.Create(ctx, userID, content)
}

func (s *micropostService) Delete(ctx context.Context, postID, requesterID string) error {
	post, err := s.postRepo.Get(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != requesterID {
		return ErrNotOwner
	}
	return s.postRepo.Delete(ctx, postID)
}

func (s *micropostService) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]*model.Micropost, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize
	items, err := s.postRepo.ListByUser(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.postRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
