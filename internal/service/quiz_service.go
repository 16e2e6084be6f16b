package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"empower_backend/internal/model"
	"empower_backend/internal/repository"
	"empower_backend/internal/util"
	"empower_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// QuizService 测验：开始时固化题目集合，提交时判分并一次性结算 XP
type QuizService struct {
	DB           *gorm.DB
	Users        *repository.UserRepository
	Quizzes      *repository.QuizRepository
	Achievements *repository.AchievementRepository
	Notifier     Notifier
}

func NewQuizService(db *gorm.DB, users *repository.UserRepository, quizzes *repository.QuizRepository, achievements *repository.AchievementRepository, notifier Notifier) *QuizService {
	return &QuizService{DB: db, Users: users, Quizzes: quizzes, Achievements: achievements, Notifier: notifier}
}

// QuizAnswerInput 提交的单题作答
type QuizAnswerInput struct {
	QuestionID     uint    `json:"questionId" binding:"required"`
	SelectedAnswer int     `json:"selectedAnswer"`
	TimeSpent      float64 `json:"timeSpent"`
}

// QuizAnswerResult 判分后的单题结果，提交后才向客户端揭示正确答案与解析
type QuizAnswerResult struct {
	QuestionID    uint   `json:"questionId"`
	Selected      int    `json:"selected"`
	CorrectAnswer int    `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	XPAwarded     int    `json:"xpAwarded"`
	Explanation   string `json:"explanation"`
}

// QuizResult 一次测验的结算
type QuizResult struct {
	SessionID string             `json:"sessionId"`
	Score     int                `json:"score"`
	Total     int                `json:"total"`
	XPEarned  int                `json:"xpEarned"`
	Answers   []QuizAnswerResult `json:"answers"`
	User      *model.User        `json:"user"`
}

// StartQuiz 按类目与用户技能层级组卷。候选题不足一套时直接拒绝，
// 不出短卷，避免经济性失衡。
func (s *QuizService) StartQuiz(userID uint, category model.TaskType, now time.Time) (*model.QuizSession, []model.QuizQuestion, error) {
	if category != model.TaskHealth && category != model.TaskWealth {
		return nil, nil, fmt.Errorf("unknown quiz category: %s", category)
	}

	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrProfileNotFound
		}
		return nil, nil, err
	}

	pool, err := s.Quizzes.FindEligible(category, user.CurrentLevel)
	if err != nil {
		return nil, nil, err
	}
	if len(pool) < util.QuizSize {
		return nil, nil, util.ErrInsufficientQuestions
	}

	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	picked := pool[:util.QuizSize]

	session := &model.QuizSession{
		UserID:    userID,
		Category:  category,
		StartedAt: now,
	}
	session.ID = model.GenerateUUID()
	for i, q := range picked {
		session.Questions = append(session.Questions, model.QuizSessionQuestion{
			SessionID:  session.ID,
			QuestionID: q.ID,
			Position:   i + 1,
		})
	}

	if err := s.Quizzes.CreateSession(session); err != nil {
		return nil, nil, err
	}
	return session, picked, nil
}

// SubmitQuiz 判分并结算。会话只能提交一次，重复提交返回 ErrSessionSubmitted。
// 总 XP 为逐题 XP 之和：答对得 基础分×难度倍率，快答另加奖励。
func (s *QuizService) SubmitQuiz(ctx context.Context, userID uint, sessionID string, inputs []QuizAnswerInput, now time.Time) (*QuizResult, error) {
	var (
		result *QuizResult
		events []model.Event
	)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		session, err := s.Quizzes.FindSessionByIDAndUser(sessionID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrInvalidSession
			}
			return err
		}
		if session.EndedAt != nil {
			return util.ErrSessionSubmitted
		}
		// 必须整卷提交：缺答会让会话带着未作答的题目被永久结算
		if len(inputs) != len(session.Questions) {
			return util.ErrInvalidSession
		}

		questions := make(map[uint]*model.QuizQuestion, len(session.Questions))
		for i := range session.Questions {
			if session.Questions[i].Question != nil {
				questions[session.Questions[i].QuestionID] = session.Questions[i].Question
			}
		}

		answered := make(map[uint]bool, len(inputs))
		var (
			answers []model.QuizAnswer
			results []QuizAnswerResult
			score   int
			totalXP int
		)
		for _, in := range inputs {
			q, ok := questions[in.QuestionID]
			if !ok || answered[in.QuestionID] {
				return util.ErrInvalidSession
			}
			answered[in.QuestionID] = true

			correct, xp := ScoreAnswer(q, in.SelectedAnswer, in.TimeSpent)
			if correct {
				score++
			}
			totalXP += xp

			answers = append(answers, model.QuizAnswer{
				SessionID:      session.ID,
				QuestionID:     q.ID,
				SelectedAnswer: in.SelectedAnswer,
				IsCorrect:      correct,
				TimeSpent:      in.TimeSpent,
				XPAwarded:      xp,
			})
			results = append(results, QuizAnswerResult{
				QuestionID:    q.ID,
				Selected:      in.SelectedAnswer,
				CorrectAnswer: q.CorrectAnswer,
				IsCorrect:     correct,
				XPAwarded:     xp,
				Explanation:   q.Explanation,
			})
		}

		session.Score = score
		session.XPEarned = totalXP
		session.EndedAt = &now
		won, err := s.Quizzes.FinishSession(tx, session, answers)
		if err != nil {
			return err
		}
		if !won {
			return util.ErrSessionSubmitted
		}

		user, err := s.Users.LockByID(tx, userID)
		if err != nil {
			return err
		}
		user.TotalQuizzesTaken++
		events = applyProgress(user, totalXP, now)

		badgeEvents, err := awardBadges(tx, s.Achievements, user, now, false)
		if err != nil {
			return err
		}
		events = append(events, badgeEvents...)

		if err := s.Users.Save(tx, user); err != nil {
			return err
		}

		result = &QuizResult{
			SessionID: session.ID,
			Score:     score,
			Total:     len(inputs),
			XPEarned:  totalXP,
			Answers:   results,
			User:      user,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.XPAwarded.WithLabelValues("quiz").Add(float64(result.XPEarned))
	for _, e := range events {
		if e.Type == model.EventLevelUp {
			monitoring.LevelUps.Inc()
		}
		s.Notifier.Publish(ctx, e)
	}
	return result, nil
}

// History 测验历史，倒序
func (s *QuizService) History(userID uint, limit int) ([]model.QuizSession, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Quizzes.ListSessionsByUser(userID, limit)
}

// ---- 题库管理（管理员） ----

// QuestionInput 管理员创建/更新题目的入参
type QuestionInput struct {
	Category      model.TaskType       `json:"category" binding:"required"`
	Difficulty    model.QuizDifficulty `json:"difficulty" binding:"required"`
	Question      string               `json:"question" binding:"required"`
	Options       []string             `json:"options" binding:"required"`
	CorrectAnswer int                  `json:"correctAnswer"`
	Explanation   string               `json:"explanation"`
	Topic         string               `json:"topic"`
	Enabled       *bool                `json:"enabled"`
}

func (in *QuestionInput) validate() error {
	if in.Category != model.TaskHealth && in.Category != model.TaskWealth {
		return fmt.Errorf("unknown category: %s", in.Category)
	}
	switch in.Difficulty {
	case model.DifficultyBeginner, model.DifficultyIntermediate, model.DifficultyAdvanced:
	default:
		return fmt.Errorf("unknown difficulty: %s", in.Difficulty)
	}
	if len(in.Options) < 2 {
		return errors.New("question needs at least 2 options")
	}
	if in.CorrectAnswer < 0 || in.CorrectAnswer >= len(in.Options) {
		return errors.New("correctAnswer index out of range")
	}
	return nil
}

func (in *QuestionInput) apply(q *model.QuizQuestion) error {
	opts, err := json.Marshal(in.Options)
	if err != nil {
		return err
	}
	q.Category = in.Category
	q.Difficulty = in.Difficulty
	q.Question = in.Question
	q.Options = string(opts)
	q.CorrectAnswer = in.CorrectAnswer
	q.Explanation = in.Explanation
	q.Topic = in.Topic
	if in.Enabled != nil {
		q.Enabled = *in.Enabled
	} else {
		q.Enabled = true
	}
	return nil
}

func (s *QuizService) CreateQuestion(in *QuestionInput) (*model.QuizQuestion, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var q model.QuizQuestion
	if err := in.apply(&q); err != nil {
		return nil, err
	}
	if err := s.Quizzes.CreateQuestion(&q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *QuizService) UpdateQuestion(id uint, in *QuestionInput) (*model.QuizQuestion, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	q, err := s.Quizzes.FindQuestionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	if err := in.apply(q); err != nil {
		return nil, err
	}
	if err := s.Quizzes.UpdateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuizService) DeleteQuestion(id uint) error {
	if _, err := s.Quizzes.FindQuestionByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	return s.Quizzes.DeleteQuestion(id)
}

func (s *QuizService) ListQuestions(category string, page, limit int) ([]model.QuizQuestion, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Quizzes.ListQuestions(category, page, limit)
}
