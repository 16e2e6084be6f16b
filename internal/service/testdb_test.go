package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"empower_backend/internal/model"
	"empower_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

// newTestDB 每个测试用独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.User{},
		&model.Achievement{},
		&model.DailyTask{},
		&model.QuizQuestion{},
		&model.QuizSession{},
		&model.QuizSessionQuestion{},
		&model.QuizAnswer{},
		&model.Challenge{},
		&model.ChallengeParticipant{},
	)
	require.NoError(t, err)
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string, tier model.SkillTier) *model.User {
	t.Helper()

	user := &model.User{
		Name:           name,
		Email:          name + "@example.com",
		Password:       "hashed",
		Role:           model.Member,
		CurrentLevel:   tier,
		Level:          1,
		LastActiveDate: time.Now(),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// recordingNotifier 记录事件供断言
type recordingNotifier struct {
	events []model.Event
}

func (n *recordingNotifier) Publish(_ context.Context, e model.Event) {
	n.events = append(n.events, e)
}

func (n *recordingNotifier) typesSeen() []model.EventType {
	types := make([]model.EventType, 0, len(n.events))
	for _, e := range n.events {
		types = append(types, e.Type)
	}
	return types
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}
