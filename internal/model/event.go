package model

import (
	"time"
)

// EventType 进度事件类型，由核心产生，投递由外部通知方订阅完成
type EventType string

const (
	EventLevelUp          EventType = "level_up"
	EventStreakMilestone  EventType = "streak_milestone"
	EventAllTasksComplete EventType = "all_daily_tasks_complete"
)

// Event 进度事件。核心只负责产生事件，不关心推送渠道。
// swagger:model Event
type Event struct {
	Type       EventType `json:"type"`
	UserID     uint      `json:"userId"`
	OldLevel   int       `json:"oldLevel,omitempty"`
	NewLevel   int       `json:"newLevel,omitempty"`
	Streak     int       `json:"streak,omitempty"`
	Date       string    `json:"date,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewLevelUpEvent(userID uint, oldLevel, newLevel int, at time.Time) Event {
	return Event{Type: EventLevelUp, UserID: userID, OldLevel: oldLevel, NewLevel: newLevel, OccurredAt: at}
}

func NewStreakMilestoneEvent(userID uint, streak int, at time.Time) Event {
	return Event{Type: EventStreakMilestone, UserID: userID, Streak: streak, OccurredAt: at}
}

func NewAllTasksCompleteEvent(userID uint, date time.Time) Event {
	return Event{Type: EventAllTasksComplete, UserID: userID, Date: date.Format("2006-01-02"), OccurredAt: date}
}
