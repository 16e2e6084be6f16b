package service

import (
	"context"
	"fmt"
	"testing"

	"empower_backend/internal/model"
	"empower_backend/internal/repository"
	"empower_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newQuizService(db *gorm.DB, notifier Notifier) *QuizService {
	return NewQuizService(db,
		repository.NewUserRepository(db),
		repository.NewQuizRepository(db),
		repository.NewAchievementRepository(db),
		notifier)
}

func seedQuestions(t *testing.T, db *gorm.DB, category model.TaskType, difficulty model.QuizDifficulty, n int) []model.QuizQuestion {
	t.Helper()

	questions := make([]model.QuizQuestion, n)
	for i := 0; i < n; i++ {
		questions[i] = model.QuizQuestion{
			Category:      category,
			Difficulty:    difficulty,
			Question:      fmt.Sprintf("%s %s question %d", category, difficulty, i),
			Options:       `["A","B","C","D"]`,
			CorrectAnswer: 1,
			Explanation:   "because",
			Enabled:       true,
		}
	}
	require.NoError(t, db.Create(&questions).Error)
	return questions
}

func TestStartQuizPicksFiveQuestions(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db, &recordingNotifier{})
	user := createTestUser(t, db, "alice", model.TierBeginner)
	seedQuestions(t, db, model.TaskHealth, model.DifficultyBeginner, 8)

	session, picked, err := svc.StartQuiz(user.ID, model.TaskHealth, mustDate(t, "2026-08-25"))
	require.NoError(t, err)
	require.Len(t, picked, 5)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, model.TaskHealth, session.Category)

	var count int64
	db.Model(&model.QuizSessionQuestion{}).Where("session_id = ?", session.ID).Count(&count)
	assert.EqualValues(t, 5, count)
}

func TestStartQuizInsufficientQuestions(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db, &recordingNotifier{})
	user := createTestUser(t, db, "bob", model.TierBeginner)
	seedQuestions(t, db, model.TaskWealth, model.DifficultyBeginner, 4)

	_, _, err := svc.StartQuiz(user.ID, model.TaskWealth, mustDate(t, "2026-08-25"))
	assert.ErrorIs(t, err, util.ErrInsufficientQuestions)
}

func TestStartQuizTierFilter(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db, &recordingNotifier{})
	user := createTestUser(t, db, "carol", model.TierIntermediate)
	seedQuestions(t, db, model.TaskHealth, model.DifficultyBeginner, 3)
	seedQuestions(t, db, model.TaskHealth, model.DifficultyIntermediate, 3)
	seedQuestions(t, db, model.TaskHealth, model.DifficultyAdvanced, 3)

	// 中级用户的候选池是 初级+中级，高级题不出现
	_, picked, err := svc.StartQuiz(user.ID, model.TaskHealth, mustDate(t, "2026-08-25"))
	require.NoError(t, err)
	for _, q := range picked {
		assert.NotEqual(t, model.DifficultyAdvanced, q.Difficulty)
	}
}

func TestStartQuizUnknownCategory(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db, &recordingNotifier{})
	user := createTestUser(t, db, "dave", model.TierBeginner)

	_, _, err := svc.StartQuiz(user.ID, "fitness", mustDate(t, "2026-08-25"))
	assert.Error(t, err)
}

func TestSubmitQuizScoring(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db, &recordingNotifier{})
	user := createTestUser(t, db, "erin", model.TierBeginner)
	seedQuestions(t, db, model.TaskHealth, model.DifficultyBeginner, 5)
	now := mustDate(t, "2026-08-25")

	session, picked, err := svc.StartQuiz(user.ID, model.TaskHealth, now)
	require.NoError(t, err)

	// 前两题答对（一快一慢），其余答错
	inputs := []QuizAnswerInput{
		{QuestionID: picked[0].ID, SelectedAnswer: 1, TimeSpent: 4},
		{QuestionID: picked[1].ID, SelectedAnswer: 1, TimeSpent: 20},
		{QuestionID: picked[2].ID, SelectedAnswer: 0, TimeSpent: 4},
		{QuestionID: picked[3].ID, SelectedAnswer: 3, TimeSpent: 20},
		{QuestionID: picked[4].ID, SelectedAnswer: 2, TimeSpent: 8},
	}

	result, err := svc.SubmitQuiz(context.Background(), user.ID, session.ID, inputs, now)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 35+25, result.XPEarned, "总 XP 为逐题之和")
	require.Len(t, result.Answers, 5)
	assert.True(t, result.Answers[0].IsCorrect)
	assert.Equal(t, 35, result.Answers[0].XPAwarded)
	assert.Equal(t, 25, result.Answers[1].XPAwarded)
	assert.Equal(t, 0, result.Answers[2].XPAwarded)
	assert.Equal(t, 1, result.Answers[2].CorrectAnswer, "提交后揭示正确答案")

	var reloaded model.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, 60, reloaded.XP)
	assert.Equal(t, 1, reloaded.TotalQuizzesTaken)
	assert.Equal(t, 1, reloaded.Streak)
}

func TestSubmitQuizOnlyOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db, &recordingNotifier{})
	user := createTestUser(t, db, "frank", model.TierBeginner)
	seedQuestions(t, db, model.TaskHealth, model.DifficultyBeginner, 5)
	now := mustDate(t, "2026-08-25")

	session, picked, err := svc.StartQuiz(user.ID, model.TaskHealth, now)
	require.NoError(t, err)

	inputs := make([]QuizAnswerInput, 0, len(picked))
	for _, q := range picked {
		inputs = append(inputs, QuizAnswerInput{QuestionID: q.ID, SelectedAnswer: 1, TimeSpent: 4})
	}
	_, err = svc.SubmitQuiz(context.Background(), user.ID, session.ID, inputs, now)
	require.NoError(t, err)

	_, err = svc.SubmitQuiz(context.Background(), user.ID, session.ID, inputs, now)
	assert.ErrorIs(t, err, util.ErrSessionSubmitted)
}

func TestSubmitQuizRejectsPartialAnswers(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db, &recordingNotifier{})
	user := createTestUser(t, db, "iris", model.TierBeginner)
	seedQuestions(t, db, model.TaskHealth, model.DifficultyBeginner, 5)
	now := mustDate(t, "2026-08-25")

	session, picked, err := svc.StartQuiz(user.ID, model.TaskHealth, now)
	require.NoError(t, err)

	// 只交一题不能结算会话，更不能拿 XP
	partial := []QuizAnswerInput{{QuestionID: picked[0].ID, SelectedAnswer: 1, TimeSpent: 4}}
	_, err = svc.SubmitQuiz(context.Background(), user.ID, session.ID, partial, now)
	assert.ErrorIs(t, err, util.ErrInvalidSession)

	var reloaded model.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, 0, reloaded.XP)
	assert.Equal(t, 0, reloaded.TotalQuizzesTaken)

	// 会话保持未结算，之后整卷提交仍然有效
	var stored model.QuizSession
	require.NoError(t, db.First(&stored, "id = ?", session.ID).Error)
	assert.Nil(t, stored.EndedAt)

	full := make([]QuizAnswerInput, 0, len(picked))
	for _, q := range picked {
		full = append(full, QuizAnswerInput{QuestionID: q.ID, SelectedAnswer: 1, TimeSpent: 20})
	}
	result, err := svc.SubmitQuiz(context.Background(), user.ID, session.ID, full, now)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Score)
}

func TestSubmitQuizRejectsForeignQuestion(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db, &recordingNotifier{})
	user := createTestUser(t, db, "grace", model.TierBeginner)
	seedQuestions(t, db, model.TaskHealth, model.DifficultyBeginner, 5)
	outside := seedQuestions(t, db, model.TaskWealth, model.DifficultyBeginner, 1)
	now := mustDate(t, "2026-08-25")

	session, picked, err := svc.StartQuiz(user.ID, model.TaskHealth, now)
	require.NoError(t, err)

	// 题数对得上，但混入了一道不属于本会话的题
	inputs := []QuizAnswerInput{
		{QuestionID: picked[0].ID, SelectedAnswer: 1, TimeSpent: 4},
		{QuestionID: picked[1].ID, SelectedAnswer: 1, TimeSpent: 4},
		{QuestionID: picked[2].ID, SelectedAnswer: 1, TimeSpent: 4},
		{QuestionID: picked[3].ID, SelectedAnswer: 1, TimeSpent: 4},
		{QuestionID: outside[0].ID, SelectedAnswer: 1, TimeSpent: 4},
	}
	_, err = svc.SubmitQuiz(context.Background(), user.ID, session.ID, inputs, now)
	assert.ErrorIs(t, err, util.ErrInvalidSession)
}

func TestSubmitQuizUnknownSession(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db, &recordingNotifier{})
	user := createTestUser(t, db, "henry", model.TierBeginner)

	_, err := svc.SubmitQuiz(context.Background(), user.ID, "no-such-session", nil, mustDate(t, "2026-08-25"))
	assert.ErrorIs(t, err, util.ErrInvalidSession)
}

func TestQuestionAdminCRUD(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db, &recordingNotifier{})

	created, err := svc.CreateQuestion(&QuestionInput{
		Category:      model.TaskWealth,
		Difficulty:    model.DifficultyAdvanced,
		Question:      "What is dollar cost averaging?",
		Options:       []string{"A", "B", "C"},
		CorrectAnswer: 2,
		Topic:         "investing",
	})
	require.NoError(t, err)
	assert.Equal(t, `["A","B","C"]`, created.Options)
	assert.True(t, created.Enabled)

	created.Question = "updated"
	updated, err := svc.UpdateQuestion(created.ID, &QuestionInput{
		Category:      model.TaskWealth,
		Difficulty:    model.DifficultyAdvanced,
		Question:      "updated",
		Options:       []string{"A", "B", "C"},
		CorrectAnswer: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, "updated", updated.Question)
	assert.Equal(t, 0, updated.CorrectAnswer)

	questions, total, err := svc.ListQuestions("wealth", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, questions, 1)

	require.NoError(t, svc.DeleteQuestion(created.ID))
	assert.ErrorIs(t, svc.DeleteQuestion(created.ID), util.ErrQuestionNotFound)
}

func TestQuestionInputValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db, &recordingNotifier{})

	_, err := svc.CreateQuestion(&QuestionInput{
		Category: model.TaskHealth, Difficulty: model.DifficultyBeginner,
		Question: "q", Options: []string{"only one"}, CorrectAnswer: 0,
	})
	assert.Error(t, err, "少于两个选项")

	_, err = svc.CreateQuestion(&QuestionInput{
		Category: model.TaskHealth, Difficulty: model.DifficultyBeginner,
		Question: "q", Options: []string{"A", "B"}, CorrectAnswer: 5,
	})
	assert.Error(t, err, "正确答案越界")
}
