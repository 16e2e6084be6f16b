package repository

import (
	"empower_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyTaskRepository struct {
	DB *gorm.DB
}

func NewDailyTaskRepository(db *gorm.DB) *DailyTaskRepository {
	return &DailyTaskRepository{DB: db}
}

// FindByUserAndDate 取某用户某天的任务集，按模板位置排序
func (r *DailyTaskRepository) FindByUserAndDate(tx *gorm.DB, userID uint, date time.Time) ([]model.DailyTask, error) {
	var tasks []model.DailyTask
	err := tx.Where("user_id = ? AND task_date = ?", userID, date).
		Order("slot ASC").Find(&tasks).Error
	return tasks, err
}

// CreateIgnoreConflicts 批量创建任务，唯一索引冲突时跳过（并发生成只会成功一次）
func (r *DailyTaskRepository) CreateIgnoreConflicts(tx *gorm.DB, tasks []model.DailyTask) error {
	if len(tasks) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tasks).Error
}

// FindByIDAndUser 按 ID 查找某用户的任务
func (r *DailyTaskRepository) FindByIDAndUser(tx *gorm.DB, taskID, userID uint) (*model.DailyTask, error) {
	var task model.DailyTask
	err := tx.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error
	return &task, err
}

// MarkCompleted 原子置位：仅当任务尚未完成时生效，返回是否由本次调用完成。
// completed = 0 谓词保证重复提交不会二次发放奖励。
func (r *DailyTaskRepository) MarkCompleted(tx *gorm.DB, taskID, userID uint, at time.Time) (bool, error) {
	res := tx.Model(&model.DailyTask{}).
		Where("id = ? AND user_id = ? AND completed = ?", taskID, userID, false).
		Updates(map[string]interface{}{"completed": true, "completed_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// CountRemaining 统计某天未完成任务数
func (r *DailyTaskRepository) CountRemaining(tx *gorm.DB, userID uint, date time.Time) (int64, error) {
	var count int64
	err := tx.Model(&model.DailyTask{}).
		Where("user_id = ? AND task_date = ? AND completed = ?", userID, date, false).
		Count(&count).Error
	return count, err
}
