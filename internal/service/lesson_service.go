package service

import (
	"context"
	"errors"
	"time"

	"empower_backend/internal/model"
	"empower_backend/internal/repository"
	"empower_backend/internal/util"
	"empower_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// LessonService 课程完成打点：固定奖励并推进连续天数
type LessonService struct {
	DB           *gorm.DB
	Users        *repository.UserRepository
	Achievements *repository.AchievementRepository
	Notifier     Notifier
}

func NewLessonService(db *gorm.DB, users *repository.UserRepository, achievements *repository.AchievementRepository, notifier Notifier) *LessonService {
	return &LessonService{DB: db, Users: users, Achievements: achievements, Notifier: notifier}
}

// CompleteLesson 记录完成一节课程
func (s *LessonService) CompleteLesson(ctx context.Context, userID uint, now time.Time) (*model.User, error) {
	var (
		user   *model.User
		events []model.Event
	)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = s.Users.LockByID(tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrProfileNotFound
			}
			return err
		}

		user.TotalLessonsCompleted++
		events = applyProgress(user, util.LessonXP, now)

		badgeEvents, err := awardBadges(tx, s.Achievements, user, now, false)
		if err != nil {
			return err
		}
		events = append(events, badgeEvents...)

		return s.Users.Save(tx, user)
	})
	if err != nil {
		return nil, err
	}

	monitoring.XPAwarded.WithLabelValues("lesson").Add(float64(util.LessonXP))
	for _, e := range events {
		if e.Type == model.EventLevelUp {
			monitoring.LevelUps.Inc()
		}
		s.Notifier.Publish(ctx, e)
	}
	return user, nil
}
