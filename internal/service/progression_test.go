package service

import (
	"testing"
	"time"
	_ "time/tzdata"

	"empower_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		name  string
		xp    int
		level int
	}{
		{"零 XP 为 1 级", 0, 1},
		{"499 XP 仍为 1 级", 499, 1},
		{"500 XP 升 2 级", 500, 2},
		{"999 XP 仍为 2 级", 999, 2},
		{"2500 XP 为 6 级", 2500, 6},
		{"负值按 0 处理", -10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.level, LevelForXP(tt.xp))
		})
	}
}

func TestXPIntoLevel(t *testing.T) {
	assert.Equal(t, 0, XPIntoLevel(0))
	assert.Equal(t, 499, XPIntoLevel(499))
	assert.Equal(t, 0, XPIntoLevel(500))
	assert.Equal(t, 123, XPIntoLevel(1123))
}

func TestNextStreak(t *testing.T) {
	day := func(s string) time.Time {
		d, _ := time.Parse("2006-01-02", s)
		return d
	}

	tests := []struct {
		name       string
		streak     int
		lastActive time.Time
		now        time.Time
		want       int
	}{
		{"首次活动置 1", 0, day("2026-03-01"), day("2026-03-01"), 1},
		{"同一天不变", 3, day("2026-03-01"), day("2026-03-01"), 3},
		{"隔一天递增", 3, day("2026-03-01"), day("2026-03-02"), 4},
		{"断档两天重置", 9, day("2026-03-01"), day("2026-03-03"), 1},
		{"断档一周重置", 9, day("2026-03-01"), day("2026-03-08"), 1},
		{"时钟回拨视同当天", 5, day("2026-03-02"), day("2026-03-01"), 5},
		{"当天晚些时候不变", 2, day("2026-03-01").Add(8 * time.Hour), day("2026-03-01").Add(23 * time.Hour), 2},
		{"跨午夜算隔天", 2, day("2026-03-01").Add(23 * time.Hour), day("2026-03-02").Add(time.Hour), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStreak(tt.streak, tt.lastActive, tt.now))
		})
	}
}

func TestNextStreakAcrossDSTChange(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2026-03-08 凌晨夏令时拨快一小时，3/8 与 3/9 的本地午夜只差 23 小时，
	// 连续天数按日历日算，照样递增
	tests := []struct {
		name       string
		streak     int
		lastActive time.Time
		now        time.Time
		want       int
	}{
		{"春季拨快次日递增", 4,
			time.Date(2026, 3, 8, 9, 0, 0, 0, loc),
			time.Date(2026, 3, 9, 9, 0, 0, 0, loc), 5},
		{"切换当天内不变", 4,
			time.Date(2026, 3, 8, 1, 0, 0, 0, loc),
			time.Date(2026, 3, 8, 22, 0, 0, 0, loc), 4},
		{"秋季拨慢次日递增", 4,
			time.Date(2026, 10, 31, 9, 0, 0, 0, loc),
			time.Date(2026, 11, 1, 9, 0, 0, 0, loc), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStreak(tt.streak, tt.lastActive, tt.now))
		})
	}
}

func TestScoreAnswer(t *testing.T) {
	question := func(d model.QuizDifficulty) *model.QuizQuestion {
		return &model.QuizQuestion{Difficulty: d, CorrectAnswer: 2}
	}

	tests := []struct {
		name        string
		q           *model.QuizQuestion
		selected    int
		timeSpent   float64
		wantCorrect bool
		wantXP      int
	}{
		{"答错得 0", question(model.DifficultyBeginner), 1, 3, false, 0},
		{"初级慢答 25", question(model.DifficultyBeginner), 2, 15, true, 25},
		{"初级快答 35", question(model.DifficultyBeginner), 2, 5, true, 35},
		{"中级慢答 38", question(model.DifficultyIntermediate), 2, 12, true, 38},
		{"中级快答 48", question(model.DifficultyIntermediate), 2, 9.9, true, 48},
		{"高级慢答 50", question(model.DifficultyAdvanced), 2, 10, true, 50},
		{"高级快答 60", question(model.DifficultyAdvanced), 2, 2, true, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, xp := ScoreAnswer(tt.q, tt.selected, tt.timeSpent)
			assert.Equal(t, tt.wantCorrect, correct)
			assert.Equal(t, tt.wantXP, xp)
		})
	}
}

func TestApplyProgressLevelUpEvent(t *testing.T) {
	now := time.Now()
	user := &model.User{XP: 480, Level: 1, Streak: 2, LastActiveDate: now.AddDate(0, 0, -1)}
	user.ID = 7

	events := applyProgress(user, 30, now)

	assert.Equal(t, 510, user.XP)
	assert.Equal(t, 2, user.Level)
	assert.Equal(t, 3, user.Streak)

	var foundLevelUp bool
	for _, e := range events {
		if e.Type == model.EventLevelUp {
			foundLevelUp = true
			assert.Equal(t, 1, e.OldLevel)
			assert.Equal(t, 2, e.NewLevel)
		}
	}
	assert.True(t, foundLevelUp)
}

func TestApplyProgressStreakMilestone(t *testing.T) {
	now := time.Now()
	user := &model.User{XP: 0, Level: 1, Streak: 6, LastActiveDate: now.AddDate(0, 0, -1)}
	user.ID = 7

	events := applyProgress(user, 10, now)

	assert.Equal(t, 7, user.Streak)
	assert.Contains(t, typesOf(events), model.EventStreakMilestone)

	// 同一天再次活动不重复触发里程碑
	again := applyProgress(user, 10, now)
	assert.Equal(t, 7, user.Streak)
	assert.NotContains(t, typesOf(again), model.EventStreakMilestone)
}

func typesOf(events []model.Event) []model.EventType {
	types := make([]model.EventType, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}

func TestWeekKey(t *testing.T) {
	tests := []struct {
		name string
		day  string
		want string
	}{
		{"周一取自身", "2026-08-24", "2026-08-24"},
		{"周三取本周一", "2026-08-26", "2026-08-24"},
		{"周日取本周一", "2026-08-30", "2026-08-24"},
		{"下周一翻页", "2026-08-31", "2026-08-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := time.Parse("2006-01-02", tt.day)
			assert.Equal(t, tt.want, WeekKey(d))
		})
	}
}
