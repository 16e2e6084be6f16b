package model

import (
	"time"
)

type UserRole string

const (
	Member UserRole = "member"
	Admin  UserRole = "admin"
)

// SkillTier 用户自报的技能层级，仅用于过滤测验难度。
// 注意与数值等级 Level 区分：Level 由 XP 派生，SkillTier 由用户在引导页选择。
type SkillTier string

const (
	TierBeginner     SkillTier = "beginner"
	TierIntermediate SkillTier = "intermediate"
	TierAdvanced     SkillTier = "advanced"
)

// ValidSkillTier 校验技能层级取值
func ValidSkillTier(t SkillTier) bool {
	return t == TierBeginner || t == TierIntermediate || t == TierAdvanced
}

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;default:'member'" json:"role"`
	Avatar   string   `gorm:"size:255" json:"avatar"`

	// 进度字段由 ProgressionService 独占维护，不接受客户端写入
	XP             int       `gorm:"default:0" json:"xp"`
	Level          int       `gorm:"default:1" json:"level"` // 始终等于 XP/500+1
	Streak         int       `gorm:"default:0" json:"streak"`
	LastActiveDate time.Time `json:"lastActiveDate"`

	CurrentLevel          SkillTier `gorm:"size:20;default:'beginner'" json:"currentLevel"`
	HealthGoal            string    `gorm:"size:255" json:"healthGoal"`
	WealthGoal            string    `gorm:"size:255" json:"wealthGoal"`
	TotalLessonsCompleted int       `gorm:"default:0" json:"totalLessonsCompleted"`
	TotalQuizzesTaken     int       `gorm:"default:0" json:"totalQuizzesTaken"`
}

func (User) TableName() string {
	return "users"
}
