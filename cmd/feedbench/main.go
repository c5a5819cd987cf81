package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/microblog/config"
	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/internal/repository"
	"github.com/d60-Lab/microblog/internal/service"
	"github.com/d60-Lab/microblog/pkg/database"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 { return 0 }
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 { k = 0 }
	if k >= len(xs) { k = len(xs)-1 }
	return xs[k]
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 { return v }
	}
	return def
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	fanRepo := repository.NewFanRepository(db)
	postRepo := repository.NewMicropostRepository(db)
	relSvc := service.NewRelationshipService(db, userRepo, followRepo, fanRepo, nil)
	feedSvc := service.NewFeedService(postRepo)

	// params
	M := envInt("M", 500)        // authors the reader follows
	P := envInt("P", 40)         // posts per author
	READS := envInt("READS", 200) // feed page reads to sample
	PAGE := envInt("PAGE", 30)   // feed page size

	ctx := context.Background()

	// clean tables for a reproducible run (ok for local bench)
	_ = db.Exec("TRUNCATE TABLE microposts, fans, follows, users RESTART IDENTITY CASCADE").Error

	// seed reader + M followed authors with P posts each
	reader := model.User{ID: "reader0", Name: "reader0", Email: "reader0@example.com", PasswordHash: "p"}
	_ = db.Where("id = ?", reader.ID).FirstOrCreate(&reader).Error
	authors := make([]model.User, M)
	for i := 0; i < M; i++ {
		id := uuid.New().String()
		authors[i] = model.User{ID: id, Name: "u" + id[:8], Email: id[:8] + "@example.com", PasswordHash: "p"}
	}
	_ = db.CreateInBatches(&authors, 1000).Error

	for i := 0; i < M; i++ {
		if err := relSvc.Follow(ctx, reader.ID, authors[i].ID); err != nil { panic(err) }
	}

	now := time.Now()
	posts := make([]model.Micropost, 0, M*P)
	for i := 0; i < M; i++ {
		for j := 0; j < P; j++ {
			posts = append(posts, model.Micropost{
				ID:        uuid.New().String(),
				UserID:    authors[i].ID,
				Content:   fmt.Sprintf("post %d from %s", j, authors[i].Name),
				CreatedAt: now.Add(-time.Duration(i*P+j) * time.Second),
			})
		}
	}
	_ = db.CreateInBatches(&posts, 1000).Error

	// measure feed page reads
	reads := make([]time.Duration, 0, READS)
	var rows int
	for i := 0; i < READS; i++ {
		page := i%10 + 1
		st := time.Now()
		items, _, err := feedSvc.Feed(ctx, reader.ID, page, PAGE)
		if err != nil { panic(err) }
		reads = append(reads, time.Since(st))
		if page == 1 { rows = len(items) }
	}

	var sum time.Duration
	for _, d := range reads { sum += d }
	fmt.Printf("M=%d P=%d READS=%d PAGE=%d\n", M, P, READS, PAGE)
	fmt.Printf("Feed read latency: avg=%v p95=%v p99=%v (first page rows=%d)\n",
		sum/time.Duration(len(reads)), pct(reads, 0.95), pct(reads, 0.99), rows)
}
