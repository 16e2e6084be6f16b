package service

import (
	"time"

	"empower_backend/internal/model"
	"empower_backend/internal/repository"

	"gorm.io/gorm"
)

// badgeRule 徽章解锁条件，条件基于用户当前进度快照判断
type badgeRule struct {
	Code   string
	Name   string
	Icon   string
	XP     int
	Earned func(u *model.User) bool
}

const badgeFirstTask = "first_steps"

var badgeRules = []badgeRule{
	{Code: "week_warrior", Name: "Week Warrior", Icon: "🔥", XP: 50,
		Earned: func(u *model.User) bool { return u.Streak >= 7 }},
	{Code: "rising_star", Name: "Rising Star", Icon: "⭐", XP: 50,
		Earned: func(u *model.User) bool { return u.Level >= 5 }},
	{Code: "quiz_master", Name: "Quiz Master", Icon: "🧠", XP: 100,
		Earned: func(u *model.User) bool { return u.TotalQuizzesTaken >= 10 }},
	{Code: "knowledge_seeker", Name: "Knowledge Seeker", Icon: "📚", XP: 100,
		Earned: func(u *model.User) bool { return u.TotalLessonsCompleted >= 20 }},
}

// awardBadges 解锁用户已达成的徽章并发放徽章奖励 XP。
// firstTask 为 true 时额外尝试首个任务徽章。重复解锁由唯一索引吸收，幂等。
func awardBadges(tx *gorm.DB, repo *repository.AchievementRepository, user *model.User, now time.Time, firstTask bool) ([]model.Event, error) {
	rules := badgeRules
	if firstTask {
		rules = append([]badgeRule{{
			Code: badgeFirstTask, Name: "First Steps", Icon: "👣", XP: 10,
			Earned: func(*model.User) bool { return true },
		}}, rules...)
	}

	var events []model.Event
	for _, rule := range rules {
		if !rule.Earned(user) {
			continue
		}
		unlocked, err := repo.Unlock(tx, &model.Achievement{
			UserID:   user.ID,
			Code:     rule.Code,
			Name:     rule.Name,
			Icon:     rule.Icon,
			EarnedXP: rule.XP,
		})
		if err != nil {
			return nil, err
		}
		if unlocked {
			events = append(events, applyXP(user, rule.XP, now)...)
		}
	}
	return events, nil
}

// AchievementService 徽章查询
type AchievementService struct {
	Achievements *repository.AchievementRepository
}

func NewAchievementService(achievements *repository.AchievementRepository) *AchievementService {
	return &AchievementService{Achievements: achievements}
}

func (s *AchievementService) ListByUser(userID uint) ([]model.Achievement, error) {
	return s.Achievements.FindByUserID(userID)
}
