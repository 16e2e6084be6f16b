package service

import (
	"errors"
	"time"

	"empower_backend/internal/model"
	"empower_backend/internal/repository"
	"empower_backend/internal/util"

	"gorm.io/gorm"
)

// ChallengeService 周度社区挑战：按周键取或生成，所有用户共享同一套
type ChallengeService struct {
	Challenges *repository.ChallengeRepository
}

func NewChallengeService(challenges *repository.ChallengeRepository) *ChallengeService {
	return &ChallengeService{Challenges: challenges}
}

// WeekKey 以本周一的日期作为周标识
func WeekKey(now time.Time) string {
	day := DateOnly(now)
	offset := (int(day.Weekday()) + 6) % 7 // 周一为 0
	return day.AddDate(0, 0, -offset).Format(util.DateFormat)
}

// weeklyTemplates 本周的挑战模板，截止于下周一零点
func weeklyTemplates(weekKey string) []model.Challenge {
	monday, _ := time.Parse(util.DateFormat, weekKey)
	endsAt := monday.AddDate(0, 0, 7)
	return []model.Challenge{
		{WeekKey: weekKey, Code: "streak-7", Title: "7-Day Streak",
			Description: "Stay active every day this week", Type: "streak", Target: 7, Reward: 200, EndsAt: endsAt},
		{WeekKey: weekKey, Code: "quiz-master", Title: "Quiz Master",
			Description: "Complete 10 quizzes this week", Type: "quiz", Target: 10, Reward: 150, EndsAt: endsAt},
		{WeekKey: weekKey, Code: "health-focus", Title: "Health Focus",
			Description: "Complete 5 health lessons this week", Type: "lessons", Target: 5, Reward: 100, EndsAt: endsAt},
	}
}

// ChallengeView 挑战及参与状态
type ChallengeView struct {
	model.Challenge
	ParticipantCount int64 `json:"participantCount"`
	Joined           bool  `json:"joined"`
	Progress         int   `json:"progress"`
}

// ListWeekly 取本周挑战，首次访问时生成。(week_key, code) 唯一索引保证并发只生成一套。
func (s *ChallengeService) ListWeekly(userID uint, now time.Time) ([]ChallengeView, error) {
	weekKey := WeekKey(now)

	challenges, err := s.Challenges.FindByWeekKey(weekKey)
	if err != nil {
		return nil, err
	}
	if len(challenges) == 0 {
		if err := s.Challenges.CreateIgnoreConflicts(weeklyTemplates(weekKey)); err != nil {
			return nil, err
		}
		challenges, err = s.Challenges.FindByWeekKey(weekKey)
		if err != nil {
			return nil, err
		}
	}

	views := make([]ChallengeView, 0, len(challenges))
	for _, ch := range challenges {
		count, err := s.Challenges.CountParticipants(ch.ID)
		if err != nil {
			return nil, err
		}
		view := ChallengeView{Challenge: ch, ParticipantCount: count}
		if p, err := s.Challenges.FindParticipant(ch.ID, userID); err == nil {
			view.Joined = true
			view.Progress = p.Progress
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Join 加入挑战。集合语义：重复加入不报错也不重置进度。
func (s *ChallengeService) Join(userID, challengeID uint, now time.Time) (*ChallengeView, error) {
	weekKey := WeekKey(now)
	challenge, err := s.Challenges.FindByIDAndWeek(challengeID, weekKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChallengeNotFound
		}
		return nil, err
	}

	if err := s.Challenges.AddParticipant(&model.ChallengeParticipant{
		ChallengeID: challenge.ID,
		UserID:      userID,
		JoinedAt:    now,
	}); err != nil {
		return nil, err
	}

	count, err := s.Challenges.CountParticipants(challenge.ID)
	if err != nil {
		return nil, err
	}
	view := &ChallengeView{Challenge: *challenge, ParticipantCount: count, Joined: true}
	if p, err := s.Challenges.FindParticipant(challenge.ID, userID); err == nil {
		view.Progress = p.Progress
	}
	return view, nil
}
