package model

import (
	"time"
)

// QuizDifficulty 题目难度
type QuizDifficulty string

const (
	DifficultyBeginner     QuizDifficulty = "beginner"
	DifficultyIntermediate QuizDifficulty = "intermediate"
	DifficultyAdvanced     QuizDifficulty = "advanced"
)

// QuizQuestion 题库中的一道题
// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	Category      TaskType       `gorm:"size:10;index;not null" json:"category"`
	Difficulty    QuizDifficulty `gorm:"size:20;index;not null" json:"difficulty"`
	Question      string         `gorm:"type:text;not null" json:"question"`
	Options       string         `gorm:"type:json;not null" json:"options"` // JSON 数组
	CorrectAnswer int            `gorm:"not null" json:"-"`                 // 不下发给客户端
	Explanation   string         `gorm:"type:text" json:"explanation"`
	Topic         string         `gorm:"size:100" json:"topic"`
	Enabled       bool           `gorm:"default:true" json:"enabled"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizSession 一次测验，开始时固定题目集合，提交后只读。
// swagger:model QuizSession
type QuizSession struct {
	UUIDBase
	UserID    uint       `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Category  TaskType   `gorm:"size:10;not null" json:"category"`
	Score     int        `gorm:"default:0" json:"score"` // 答对题数
	XPEarned  int        `gorm:"default:0" json:"xpEarned"`
	StartedAt time.Time  `gorm:"not null" json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"` // 提交时写入一次

	Questions []QuizSessionQuestion `gorm:"foreignKey:SessionID" json:"questions,omitempty"`
	Answers   []QuizAnswer          `gorm:"foreignKey:SessionID" json:"answers,omitempty"`
}

func (QuizSession) TableName() string {
	return "quiz_sessions"
}

// QuizSessionQuestion 会话中的题目顺序
type QuizSessionQuestion struct {
	BaseModel
	SessionID  string `gorm:"index;type:varchar(36);not null" json:"sessionId"`
	QuestionID uint   `gorm:"not null" json:"questionId"`
	Position   int    `gorm:"not null" json:"position"`

	Question *QuizQuestion `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}

func (QuizSessionQuestion) TableName() string {
	return "quiz_session_questions"
}

// QuizAnswer 会话内逐题作答记录，提交时一次性追加
type QuizAnswer struct {
	BaseModel
	SessionID      string  `gorm:"index;type:varchar(36);not null" json:"sessionId"`
	QuestionID     uint    `gorm:"not null" json:"questionId"`
	SelectedAnswer int     `gorm:"not null" json:"selectedAnswer"`
	IsCorrect      bool    `gorm:"not null" json:"isCorrect"`
	TimeSpent      float64 `gorm:"not null" json:"timeSpent"` // 秒
	XPAwarded      int     `gorm:"not null" json:"xpAwarded"`
}

func (QuizAnswer) TableName() string {
	return "quiz_answers"
}
