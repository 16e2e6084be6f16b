package service

import (
	"math"
	"time"

	"empower_backend/internal/model"
	"empower_backend/internal/util"
)

// LevelForXP 由累计 XP 派生数值等级，等级永远不由客户端写入
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/util.XPPerLevel + 1
}

// XPIntoLevel 当前等级内已获得的 XP，用于前端进度条
func XPIntoLevel(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp % util.XPPerLevel
}

// DateOnly 截断到本地日期零点，连续天数按日历日比较
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween 日历日差值。换算到 UTC 日期后相减，夏令时切换日
// 本地午夜间隔不足 24 小时，不能直接用壁钟时长除算
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	au := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bu := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}

// NextStreak 连续天数状态机。
// 同一天重复活动不变；恰好隔一天递增；断档两天及以上重置为 1；
// 时钟回拨视同当天处理。streak 为 0 说明是首次活动，直接置 1。
func NextStreak(streak int, lastActive, now time.Time) int {
	if streak == 0 {
		return 1
	}
	days := daysBetween(lastActive, now)
	switch {
	case days <= 0:
		return streak
	case days == 1:
		return streak + 1
	default:
		return 1
	}
}

// QuizMultiplier 按题目难度取 XP 倍率
func QuizMultiplier(difficulty model.QuizDifficulty) float64 {
	switch difficulty {
	case model.DifficultyAdvanced:
		return 2.0
	case model.DifficultyIntermediate:
		return 1.5
	default:
		return 1.0
	}
}

// ScoreAnswer 单题判分：答错得 0 分；答对得 基础分×难度倍率（四舍五入），
// 用时低于阈值再加快答奖励。
func ScoreAnswer(q *model.QuizQuestion, selected int, timeSpent float64) (bool, int) {
	if selected != q.CorrectAnswer {
		return false, 0
	}
	xp := int(math.Round(util.QuizBaseXP * QuizMultiplier(q.Difficulty)))
	if timeSpent < util.QuizSpeedSeconds {
		xp += util.QuizSpeedBonus
	}
	return true, xp
}

// applyXP 累加 XP 并重算等级，不触碰连续天数。XP 只增不减。
func applyXP(user *model.User, xpDelta int, now time.Time) []model.Event {
	if xpDelta <= 0 {
		return nil
	}
	oldLevel := user.Level
	user.XP += xpDelta
	user.Level = LevelForXP(user.XP)
	if user.Level > oldLevel {
		return []model.Event{model.NewLevelUpEvent(user.ID, oldLevel, user.Level, now)}
	}
	return nil
}

// applyProgress 对锁定的用户行应用一次活动：推进连续天数、累加 XP、重算等级，
// 返回由此产生的进度事件。调用方负责保存用户并在事务提交后投递事件。
func applyProgress(user *model.User, xpDelta int, now time.Time) []model.Event {
	var events []model.Event

	prevStreak := user.Streak
	user.Streak = NextStreak(user.Streak, user.LastActiveDate, now)
	if user.Streak != prevStreak && user.Streak%util.StreakMilestone == 0 {
		events = append(events, model.NewStreakMilestoneEvent(user.ID, user.Streak, now))
	}
	user.LastActiveDate = now

	events = append(events, applyXP(user, xpDelta, now)...)
	return events
}
