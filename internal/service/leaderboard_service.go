package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"empower_backend/internal/model"
	"empower_backend/internal/repository"
	"empower_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// LeaderboardType 排行榜维度
type LeaderboardType string

const (
	LeaderboardXP     LeaderboardType = "xp"
	LeaderboardStreak LeaderboardType = "streak"
	LeaderboardLevel  LeaderboardType = "level"
)

// leaderboardCacheTTL 排行榜短缓存，容忍轻微滞后换取热点读不打库
const leaderboardCacheTTL = 30 * time.Second

// LeaderboardEntry 榜单条目
type LeaderboardEntry struct {
	Rank              int             `json:"rank"`
	UserID            uint            `json:"userId"`
	Name              string          `json:"name"`
	Avatar            string          `json:"avatar"`
	XP                int             `json:"xp"`
	Level             int             `json:"level"`
	Streak            int             `json:"streak"`
	CurrentLevel      model.SkillTier `json:"currentLevel"`
	AchievementsCount int             `json:"achievementsCount"`
}

type LeaderboardService struct {
	Users        *repository.UserRepository
	Achievements *repository.AchievementRepository
	Redis        *redis.Client
}

func NewLeaderboardService(users *repository.UserRepository, achievements *repository.AchievementRepository, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{Users: users, Achievements: achievements, Redis: rdb}
}

func leaderboardColumn(t LeaderboardType) (string, bool) {
	switch t {
	case LeaderboardXP:
		return "xp", true
	case LeaderboardStreak:
		return "streak", true
	case LeaderboardLevel:
		return "level", true
	default:
		return "", false
	}
}

// Top 按维度取榜单。降序排序，并列值按用户 ID 升序，保证名次确定。
func (s *LeaderboardService) Top(ctx context.Context, t LeaderboardType, limit int) ([]LeaderboardEntry, error) {
	column, ok := leaderboardColumn(t)
	if !ok {
		return nil, fmt.Errorf("unknown leaderboard type: %s", t)
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("empower:leaderboard:%s:%d", t, limit)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var entries []LeaderboardEntry
			if json.Unmarshal([]byte(cached), &entries) == nil {
				return entries, nil
			}
		}
	}

	users, err := s.Users.FindTopBy(column, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	counts, err := s.Achievements.CountByUsers(ids)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = LeaderboardEntry{
			Rank:              i + 1,
			UserID:            u.ID,
			Name:              u.Name,
			Avatar:            u.Avatar,
			XP:                u.XP,
			Level:             u.Level,
			Streak:            u.Streak,
			CurrentLevel:      u.CurrentLevel,
			AchievementsCount: counts[u.ID],
		}
	}

	if s.Redis != nil {
		payload, _ := json.Marshal(entries)
		if err := s.Redis.Set(ctx, cacheKey, payload, leaderboardCacheTTL).Err(); err != nil {
			logger.Log.Warn("排行榜缓存写入失败", zap.Error(err))
		}
	}
	return entries, nil
}
