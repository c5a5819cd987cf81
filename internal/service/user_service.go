package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/internal/repository"
)

var (
	ErrInvalidName        = errors.New("name must be 1-50 characters")
	ErrInvalidEmail       = errors.New("email is not a valid address")
	ErrEmailTaken         = errors.New("email has already been taken")
	ErrInvalidPassword    = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAdmin           = errors.New("admin privilege required")
	ErrDestroySelf        = errors.New("cannot destroy yourself")
	ErrNotSelf            = errors.New("can only edit your own profile")
)

var validate = validator.New()

// UserService 用户服务：注册、认证、资料编辑、注销（级联删除）。
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, page, pageSize int) ([]*model.User, int64, error)
	Update(ctx context.Context, targetID, requesterID, name, email, password string) (*model.User, error)
	Destroy(ctx context.Context, targetID, requesterID string) error
}

type userService struct {
	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
	invalidator *CacheInvalidator
}

func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository, invalidator *CacheInvalidator) UserService {
	return &userService{userRepo: userRepo, followRepo: followRepo, invalidator: invalidator}
}

// Register 创建用户。邮箱小写存储，大小写不同视为同一地址。
func (s *userService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > model.MaxNameLen {
		return nil, ErrInvalidName
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(password) < 6 {
		return nil, ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context, page, pageSize int) ([]*model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize
	items, err := s.userRepo.List(ctx, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update 编辑资料，仅限本人。密码留空表示不修改。
func (s *userService) Update(ctx context.Context, targetID, requesterID, name, email, password string) (*model.User, error) {
	if targetID != requesterID {
		return nil, ErrNotSelf
	}
	u, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > model.MaxNameLen {
		return nil, ErrInvalidName
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, ErrInvalidEmail
	}
	u.Name = name
	u.Email = email
	if password != "" {
		if len(password) < 6 {
			return nil, ErrInvalidPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	// 资料变了，缓存的快照作废
	if s.invalidator != nil {
		s.invalidator.EnqueueForget(targetID)
	}
	return u, nil
}

// Destroy 管理员注销用户。管理员不能注销自己；
// 用户行、双向关注边、粉丝冗余边、全部短文在一个事务里删除。
func (s *userService) Destroy(ctx context.Context, targetID, requesterID string) error {
	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return err
	}
	if !requester.Admin {
		return ErrNotAdmin
	}
	if targetID == requesterID {
		return ErrDestroySelf
	}

	// 删除前取所关注的用户：他们的粉丝索引里还有 target
	followedIDs, err := s.followRepo.ListFollowingIDs(ctx, targetID)
	if err != nil {
		return err
	}
	if err := s.userRepo.Destroy(ctx, targetID); err != nil {
		return err
	}
	if s.invalidator != nil {
		s.invalidator.EnqueueForget(targetID)
		for _, id := range followedIDs {
			s.invalidator.Enqueue(id)
		}
	}
	return nil
}
