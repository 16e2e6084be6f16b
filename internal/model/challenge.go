package model

import (
	"time"
)

// Challenge 周度社区挑战，按周键生成一次后共享给全部用户
// swagger:model Challenge
type Challenge struct {
	BaseModel
	WeekKey     string    `gorm:"size:10;not null;uniqueIndex:idx_week_code" json:"weekKey"` // 周一日期 2006-01-02
	Code        string    `gorm:"size:50;not null;uniqueIndex:idx_week_code" json:"code"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Type        string    `gorm:"size:20;not null" json:"type"` // streak / quiz / lessons
	Target      int       `gorm:"not null" json:"target"`
	Reward      int       `gorm:"not null" json:"reward"` // XP
	EndsAt      time.Time `gorm:"not null" json:"endsAt"`

	Participants []ChallengeParticipant `gorm:"foreignKey:ChallengeID" json:"participants,omitempty"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// ChallengeParticipant 挑战参与记录，(challenge_id, user_id) 唯一，重复加入为幂等
type ChallengeParticipant struct {
	BaseModel
	ChallengeID uint      `gorm:"not null;uniqueIndex:idx_challenge_user" json:"challengeId"`
	UserID      uint      `gorm:"not null;type:bigint unsigned;uniqueIndex:idx_challenge_user" json:"userId"`
	Progress    int       `gorm:"default:0" json:"progress"`
	JoinedAt    time.Time `gorm:"not null" json:"joinedAt"`
}

func (ChallengeParticipant) TableName() string {
	return "challenge_participants"
}
