package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/microblog/pkg/logger"
)

type invalidateAction int

const (
	actionInvalidate invalidateAction = iota + 1
	actionForget
)

type invalidateJob struct {
	action invalidateAction
	userID string
}

// CacheInvalidator 本地异步缓存失效执行器：关注/取关后清掉粉丝索引。
// 队列满时丢弃并告警，索引会在 TTL 到期后自愈。
type CacheInvalidator struct {
	cache *FollowerCache
	ch    chan invalidateJob
}

func NewCacheInvalidator(cache *FollowerCache, queueSize int) *CacheInvalidator {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &CacheInvalidator{cache: cache, ch: make(chan invalidateJob, queueSize)}
}

func (r *CacheInvalidator) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case job := <-r.ch:
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					var err error
					switch job.action {
					case actionForget:
						err = r.cache.Forget(ctx, job.userID)
					default:
						err = r.cache.Invalidate(ctx, job.userID)
					}
					if err != nil {
						logger.Warn("invalidate follower cache failed",
							zap.String("user", job.userID), zap.Error(err))
					}
					cancel()
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		// 等待队列自然排空一小段时间
		timeout := time.After(2 * time.Second)
		for {
			select {
			case <-timeout:
				return nil
			default:
				if len(r.ch) == 0 {
					return nil
				}
				time.Sleep(50 * time.Millisecond)
			}
		}
	}
}

func (r *CacheInvalidator) Enqueue(userID string) {
	select {
	case r.ch <- invalidateJob{action: actionInvalidate, userID: userID}:
	default:
		logger.Warn("invalidator queue full, drop", zap.String("user", userID))
	}
}

// EnqueueForget 用户注销时连同其快照一起清除
func (r *CacheInvalidator) EnqueueForget(userID string) {
	select {
	case r.ch <- invalidateJob{action: actionForget, userID: userID}:
	default:
		logger.Warn("invalidator queue full, drop forget", zap.String("user", userID))
	}
}

// QueueLen 返回当前队列长度（采样值）。
func (r *CacheInvalidator) QueueLen() int { return len(r.ch) }
