package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/internal/repository"
)

func seedPostAt(t *testing.T, db *gorm.DB, userID, content string, at time.Time) *model.Micropost {
	m := &model.Micropost{ID: uuid.New().String(), UserID: userID, Content: content, CreatedAt: at}
	require.NoError(t, db.Create(m).Error)
	return m
}

func TestFeedScenario(t *testing.T) {
	db := setupDB(t)
	relSvc := newRelService(db)
	feedSvc := NewFeedService(repository.NewMicropostRepository(db))
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	u := seedUser(t, db, "u")
	v := seedUser(t, db, "v")

	// u 三条，v 两条，交错时间
	seedPostAt(t, db, u.ID, "u1", base.Add(1*time.Minute))
	seedPostAt(t, db, v.ID, "v1", base.Add(2*time.Minute))
	seedPostAt(t, db, u.ID, "u2", base.Add(3*time.Minute))
	seedPostAt(t, db, v.ID, "v2", base.Add(4*time.Minute))
	seedPostAt(t, db, u.ID, "u3", base.Add(5*time.Minute))

	require.NoError(t, relSvc.Follow(ctx, u.ID, v.ID))

	feed, totalPages, err := feedSvc.Feed(ctx, u.ID, 1, 30)
	require.NoError(t, err)
	require.Len(t, feed, 5)
	assert.Equal(t, 1, totalPages)
	contents := make([]string, len(feed))
	for i, p := range feed {
		contents[i] = p.Content
	}
	assert.Equal(t, []string{"u3", "v2", "u2", "v1", "u1"}, contents)

	// 取关后只剩自己的三条
	require.NoError(t, relSvc.Unfollow(ctx, u.ID, v.ID))
	feed, _, err = feedSvc.Feed(ctx, u.ID, 1, 30)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	for _, p := range feed {
		assert.Equal(t, u.ID, p.UserID)
	}
}

func TestFeedEmptyUser(t *testing.T) {
	db := setupDB(t)
	feedSvc := NewFeedService(repository.NewMicropostRepository(db))
	u := seedUser(t, db, "loner")

	feed, totalPages, err := feedSvc.Feed(context.Background(), u.ID, 1, 30)
	require.NoError(t, err)
	assert.Empty(t, feed)
	assert.Zero(t, totalPages)
}

func TestFeedPagination(t *testing.T) {
	db := setupDB(t)
	feedSvc := NewFeedService(repository.NewMicropostRepository(db))
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	u := seedUser(t, db, "u")
	for i := 0; i < 35; i++ {
		seedPostAt(t, db, u.ID, fmt.Sprintf("post %d", i), base.Add(time.Duration(i)*time.Minute))
	}

	page1, totalPages, err := feedSvc.Feed(ctx, u.ID, 1, 30)
	require.NoError(t, err)
	assert.Len(t, page1, 30)
	assert.Equal(t, 2, totalPages)
	assert.Equal(t, "post 34", page1[0].Content)

	page2, _, err := feedSvc.Feed(ctx, u.ID, 2, 30)
	require.NoError(t, err)
	assert.Len(t, page2, 5)
	assert.Equal(t, "post 0", page2[4].Content)

	// 越界页码返回空列表而非错误
	page99, _, err := feedSvc.Feed(ctx, u.ID, 99, 30)
	require.NoError(t, err)
	assert.Empty(t, page99)
}

func TestFeedExcludesStrangers(t *testing.T) {
	db := setupDB(t)
	relSvc := newRelService(db)
	feedSvc := NewFeedService(repository.NewMicropostRepository(db))
	ctx := context.Background()
	base := time.Now()

	u := seedUser(t, db, "u")
	v := seedUser(t, db, "v")
	w := seedUser(t, db, "w")
	require.NoError(t, relSvc.Follow(ctx, u.ID, v.ID))

	seedPostAt(t, db, v.ID, "followed", base)
	seedPostAt(t, db, w.ID, "stranger", base)

	feed, _, err := feedSvc.Feed(ctx, u.ID, 1, 30)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "followed", feed[0].Content)
}
