package service

import (
	"context"
	"testing"

	"empower_backend/internal/model"
	"empower_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLeaderboardService(db *gorm.DB) *LeaderboardService {
	return NewLeaderboardService(
		repository.NewUserRepository(db),
		repository.NewAchievementRepository(db),
		nil) // 测试不走缓存
}

func TestLeaderboardOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := newLeaderboardService(db)

	a := createTestUser(t, db, "alice", model.TierBeginner)
	b := createTestUser(t, db, "bob", model.TierBeginner)
	c := createTestUser(t, db, "carol", model.TierBeginner)
	require.NoError(t, db.Model(a).Updates(map[string]interface{}{"xp": 300, "streak": 2}).Error)
	require.NoError(t, db.Model(b).Updates(map[string]interface{}{"xp": 900, "streak": 5}).Error)
	require.NoError(t, db.Model(c).Updates(map[string]interface{}{"xp": 300, "streak": 9}).Error)

	entries, err := svc.Top(context.Background(), LeaderboardXP, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, b.ID, entries[0].UserID)
	assert.Equal(t, 1, entries[0].Rank)
	// 并列 300 XP 时按 ID 升序
	assert.Equal(t, a.ID, entries[1].UserID)
	assert.Equal(t, c.ID, entries[2].UserID)

	byStreak, err := svc.Top(context.Background(), LeaderboardStreak, 10)
	require.NoError(t, err)
	assert.Equal(t, c.ID, byStreak[0].UserID)
}

func TestLeaderboardAchievementsCount(t *testing.T) {
	db := newTestDB(t)
	svc := newLeaderboardService(db)

	user := createTestUser(t, db, "alice", model.TierBeginner)
	require.NoError(t, db.Create(&model.Achievement{UserID: user.ID, Code: "first_steps", Name: "First Steps"}).Error)
	require.NoError(t, db.Create(&model.Achievement{UserID: user.ID, Code: "week_warrior", Name: "Week Warrior"}).Error)

	entries, err := svc.Top(context.Background(), LeaderboardXP, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].AchievementsCount)
}

func TestLeaderboardUnknownType(t *testing.T) {
	db := newTestDB(t)
	svc := newLeaderboardService(db)

	_, err := svc.Top(context.Background(), "karma", 10)
	assert.Error(t, err)
}
