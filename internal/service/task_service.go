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

// TaskService 每日任务：按 (用户, 日期) 幂等生成，完成后经由进度规则发放奖励
type TaskService struct {
	DB           *gorm.DB
	Users        *repository.UserRepository
	Tasks        *repository.DailyTaskRepository
	Achievements *repository.AchievementRepository
	Notifier     Notifier
}

func NewTaskService(db *gorm.DB, users *repository.UserRepository, tasks *repository.DailyTaskRepository, achievements *repository.AchievementRepository, notifier Notifier) *TaskService {
	return &TaskService{DB: db, Users: users, Tasks: tasks, Achievements: achievements, Notifier: notifier}
}

// dailyTaskTemplates 当天的任务模板。5 级以上解锁额外任务位。
// 模板生成后即固化，当天内升级不会补发额外任务位。
func dailyTaskTemplates(userID uint, date time.Time, level int) []model.DailyTask {
	tasks := []model.DailyTask{
		{UserID: userID, TaskDate: date, Slot: 1, Title: "Complete a health lesson", Type: model.TaskHealth, XPReward: 25},
		{UserID: userID, TaskDate: date, Slot: 2, Title: "Take a wealth quiz", Type: model.TaskWealth, XPReward: 30},
		{UserID: userID, TaskDate: date, Slot: 3, Title: "Track your daily expenses", Type: model.TaskWealth, XPReward: 20},
		{UserID: userID, TaskDate: date, Slot: 4, Title: "Log your water intake", Type: model.TaskHealth, XPReward: 15},
	}
	if level >= 5 {
		tasks = append(tasks, model.DailyTask{
			UserID: userID, TaskDate: date, Slot: 5,
			Title: "Review your investment portfolio", Type: model.TaskWealth, XPReward: 35,
		})
	}
	return tasks
}

// GetDailyTasks 取当天任务，首次调用时生成。唯一索引保证并发调用只生成一套。
func (s *TaskService) GetDailyTasks(userID uint, now time.Time) ([]model.DailyTask, error) {
	date := DateOnly(now)

	tasks, err := s.Tasks.FindByUserAndDate(s.DB, userID, date)
	if err != nil {
		return nil, err
	}
	if len(tasks) > 0 {
		return tasks, nil
	}

	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProfileNotFound
		}
		return nil, err
	}

	if err := s.Tasks.CreateIgnoreConflicts(s.DB, dailyTaskTemplates(userID, date, user.Level)); err != nil {
		return nil, err
	}

	// 并发生成时可能部分行被对端写入，以库内状态为准重新读取
	return s.Tasks.FindByUserAndDate(s.DB, userID, date)
}

// CompleteTask 完成任务并发放奖励。完成是单向且恰好一次的：
// 重复提交返回 ErrTaskAlreadyCompleted，不会二次计 XP 或连续天数。
func (s *TaskService) CompleteTask(ctx context.Context, userID, taskID uint, now time.Time) (*model.DailyTask, *model.User, error) {
	var (
		task   *model.DailyTask
		user   *model.User
		events []model.Event
	)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		task, err = s.Tasks.FindByIDAndUser(tx, taskID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrTaskNotFound
			}
			return err
		}

		won, err := s.Tasks.MarkCompleted(tx, taskID, userID, now)
		if err != nil {
			return err
		}
		if !won {
			return util.ErrTaskAlreadyCompleted
		}
		task.Completed = true
		task.CompletedAt = &now

		user, err = s.Users.LockByID(tx, userID)
		if err != nil {
			return err
		}

		events = applyProgress(user, task.XPReward, now)

		badgeEvents, err := awardBadges(tx, s.Achievements, user, now, true)
		if err != nil {
			return err
		}
		events = append(events, badgeEvents...)

		if err := s.Users.Save(tx, user); err != nil {
			return err
		}

		remaining, err := s.Tasks.CountRemaining(tx, userID, task.TaskDate)
		if err != nil {
			return err
		}
		if remaining == 0 {
			events = append(events, model.NewAllTasksCompleteEvent(userID, task.TaskDate))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// 事件在事务提交后投递，避免推送了未落库的状态
	monitoring.XPAwarded.WithLabelValues("daily_task").Add(float64(task.XPReward))
	for _, e := range events {
		if e.Type == model.EventLevelUp {
			monitoring.LevelUps.Inc()
		}
		s.Notifier.Publish(ctx, e)
	}

	return task, user, nil
}
