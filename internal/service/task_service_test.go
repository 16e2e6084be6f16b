package service

import (
	"context"
	"testing"
	"time"

	"empower_backend/internal/model"
	"empower_backend/internal/repository"
	"empower_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTaskService(db *gorm.DB, notifier Notifier) *TaskService {
	return NewTaskService(db,
		repository.NewUserRepository(db),
		repository.NewDailyTaskRepository(db),
		repository.NewAchievementRepository(db),
		notifier)
}

func TestGetDailyTasksGeneratesOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db, &recordingNotifier{})
	user := createTestUser(t, db, "alice", model.TierBeginner)
	now := mustDate(t, "2026-08-25")

	tasks, err := svc.GetDailyTasks(user.ID, now)
	require.NoError(t, err)
	require.Len(t, tasks, 4)
	assert.Equal(t, "Complete a health lesson", tasks[0].Title)
	assert.Equal(t, model.TaskHealth, tasks[0].Type)
	assert.Equal(t, 25, tasks[0].XPReward)
	assert.Equal(t, 30, tasks[1].XPReward)
	assert.Equal(t, 20, tasks[2].XPReward)
	assert.Equal(t, 15, tasks[3].XPReward)

	// 再次获取不会重建
	again, err := svc.GetDailyTasks(user.ID, now.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, again, 4)
	assert.Equal(t, tasks[0].ID, again[0].ID)

	// 隔天生成新的一套
	tomorrow, err := svc.GetDailyTasks(user.ID, now.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, tomorrow, 4)
	assert.NotEqual(t, tasks[0].ID, tomorrow[0].ID)
}

func TestGetDailyTasksBonusSlotAtLevel5(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db, &recordingNotifier{})
	user := createTestUser(t, db, "bob", model.TierBeginner)
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{"xp": 2000, "level": 5}).Error)

	tasks, err := svc.GetDailyTasks(user.ID, mustDate(t, "2026-08-25"))
	require.NoError(t, err)
	require.Len(t, tasks, 5)
	assert.Equal(t, "Review your investment portfolio", tasks[4].Title)
	assert.Equal(t, 35, tasks[4].XPReward)
}

func TestGetDailyTasksUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db, &recordingNotifier{})

	_, err := svc.GetDailyTasks(999, time.Now())
	assert.ErrorIs(t, err, util.ErrProfileNotFound)
}

func TestCompleteTaskAwardsProgress(t *testing.T) {
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	svc := newTaskService(db, notifier)
	user := createTestUser(t, db, "carol", model.TierBeginner)
	now := mustDate(t, "2026-08-25").Add(9 * time.Hour)

	tasks, err := svc.GetDailyTasks(user.ID, now)
	require.NoError(t, err)

	task, updated, err := svc.CompleteTask(context.Background(), user.ID, tasks[0].ID, now)
	require.NoError(t, err)
	assert.True(t, task.Completed)
	require.NotNil(t, task.CompletedAt)

	// 任务 XP + 首个任务徽章 XP
	assert.Equal(t, 25+10, updated.XP)
	assert.Equal(t, 1, updated.Level)
	assert.Equal(t, 1, updated.Streak, "首次活动连续天数置 1")

	var badge model.Achievement
	require.NoError(t, db.Where("user_id = ? AND code = ?", user.ID, "first_steps").First(&badge).Error)
}

func TestCompleteTaskExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db, &recordingNotifier{})
	user := createTestUser(t, db, "dave", model.TierBeginner)
	now := mustDate(t, "2026-08-25")

	tasks, err := svc.GetDailyTasks(user.ID, now)
	require.NoError(t, err)

	_, first, err := svc.CompleteTask(context.Background(), user.ID, tasks[1].ID, now)
	require.NoError(t, err)

	_, _, err = svc.CompleteTask(context.Background(), user.ID, tasks[1].ID, now)
	assert.ErrorIs(t, err, util.ErrTaskAlreadyCompleted)

	// 重复提交不会二次计 XP
	var reloaded model.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, first.XP, reloaded.XP)
	assert.Equal(t, first.Streak, reloaded.Streak)
}

func TestCompleteTaskNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db, &recordingNotifier{})
	user := createTestUser(t, db, "erin", model.TierBeginner)

	_, _, err := svc.CompleteTask(context.Background(), user.ID, 12345, time.Now())
	assert.ErrorIs(t, err, util.ErrTaskNotFound)
}

func TestCompleteTaskOtherUsersTask(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db, &recordingNotifier{})
	owner := createTestUser(t, db, "owner", model.TierBeginner)
	intruder := createTestUser(t, db, "intruder", model.TierBeginner)
	now := mustDate(t, "2026-08-25")

	tasks, err := svc.GetDailyTasks(owner.ID, now)
	require.NoError(t, err)

	_, _, err = svc.CompleteTask(context.Background(), intruder.ID, tasks[0].ID, now)
	assert.ErrorIs(t, err, util.ErrTaskNotFound)
}

func TestCompleteAllTasksFiresEvent(t *testing.T) {
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	svc := newTaskService(db, notifier)
	user := createTestUser(t, db, "frank", model.TierBeginner)
	now := mustDate(t, "2026-08-25")

	tasks, err := svc.GetDailyTasks(user.ID, now)
	require.NoError(t, err)

	for i, task := range tasks {
		_, _, err := svc.CompleteTask(context.Background(), user.ID, task.ID, now)
		require.NoError(t, err)

		types := notifier.typesSeen()
		if i < len(tasks)-1 {
			assert.NotContains(t, types, model.EventAllTasksComplete)
		} else {
			assert.Contains(t, types, model.EventAllTasksComplete)
		}
	}
}

func TestCompleteTaskStreakAcrossDays(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db, &recordingNotifier{})
	user := createTestUser(t, db, "grace", model.TierBeginner)

	day1 := mustDate(t, "2026-08-25")
	tasks1, err := svc.GetDailyTasks(user.ID, day1)
	require.NoError(t, err)
	_, u1, err := svc.CompleteTask(context.Background(), user.ID, tasks1[0].ID, day1)
	require.NoError(t, err)
	assert.Equal(t, 1, u1.Streak)

	// 次日完成任务递增
	day2 := day1.AddDate(0, 0, 1)
	tasks2, err := svc.GetDailyTasks(user.ID, day2)
	require.NoError(t, err)
	_, u2, err := svc.CompleteTask(context.Background(), user.ID, tasks2[0].ID, day2)
	require.NoError(t, err)
	assert.Equal(t, 2, u2.Streak)

	// 断档两天重置为 1
	day5 := day2.AddDate(0, 0, 3)
	tasks5, err := svc.GetDailyTasks(user.ID, day5)
	require.NoError(t, err)
	_, u5, err := svc.CompleteTask(context.Background(), user.ID, tasks5[0].ID, day5)
	require.NoError(t, err)
	assert.Equal(t, 1, u5.Streak)
}
