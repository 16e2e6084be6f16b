package model

import (
	"time"
)

// TaskType 任务分类
type TaskType string

const (
	TaskHealth TaskType = "health"
	TaskWealth TaskType = "wealth"
)

// DailyTask 每日任务，按 (用户, 日期) 生成一次，之后不再重建。
// (user_id, task_date, slot) 唯一索引保证并发生成不会产生重复记录。
// swagger:model DailyTask
type DailyTask struct {
	BaseModel
	UserID      uint       `gorm:"index;type:bigint unsigned;not null;uniqueIndex:idx_user_date_slot" json:"userId"`
	TaskDate    time.Time  `gorm:"not null;uniqueIndex:idx_user_date_slot" json:"taskDate"`
	Slot        int        `gorm:"not null;uniqueIndex:idx_user_date_slot" json:"slot"` // 模板中的位置
	Title       string     `gorm:"size:255;not null" json:"title"`
	Type        TaskType   `gorm:"size:10;not null" json:"type"`
	XPReward    int        `gorm:"not null" json:"xpReward"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"` // 仅在首次完成时写入
}

func (DailyTask) TableName() string {
	return "daily_tasks"
}
