package repository

import (
	"empower_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// FindEligible 按类目过滤题库；beginner 题目对所有层级兜底可用
func (r *QuizRepository) FindEligible(category model.TaskType, tier model.SkillTier) ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	err := r.DB.Where("category = ? AND enabled = ? AND (difficulty = ? OR difficulty = ?)",
		category, true, string(tier), model.DifficultyBeginner).
		Find(&questions).Error
	return questions, err
}

func (r *QuizRepository) FindQuestionsByIDs(ids []uint) ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	err := r.DB.Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

func (r *QuizRepository) CreateSession(session *model.QuizSession) error {
	return r.DB.Create(session).Error
}

func (r *QuizRepository) FindSessionByIDAndUser(sessionID string, userID uint) (*model.QuizSession, error) {
	var session model.QuizSession
	err := r.DB.Preload("Questions").Preload("Questions.Question").
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&session).Error
	return &session, err
}

// FinishSession 在事务内写入会话结果与逐题作答记录。
// ended_at IS NULL 谓词保证并发提交只有一次生效，返回是否由本次调用结算。
func (r *QuizRepository) FinishSession(tx *gorm.DB, session *model.QuizSession, answers []model.QuizAnswer) (bool, error) {
	res := tx.Model(&model.QuizSession{}).
		Where("id = ? AND ended_at IS NULL", session.ID).
		Updates(map[string]interface{}{
			"score":     session.Score,
			"xp_earned": session.XPEarned,
			"ended_at":  session.EndedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	if len(answers) == 0 {
		return true, nil
	}
	return true, tx.Create(&answers).Error
}

// ListSessionsByUser 测验历史，按开始时间倒序
func (r *QuizRepository) ListSessionsByUser(userID uint, limit int) ([]model.QuizSession, error) {
	var sessions []model.QuizSession
	err := r.DB.Where("user_id = ?", userID).
		Order("started_at DESC").Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

// ---- 题库管理（管理员） ----

func (r *QuizRepository) CreateQuestion(q *model.QuizQuestion) error {
	return r.DB.Create(q).Error
}

func (r *QuizRepository) UpdateQuestion(q *model.QuizQuestion) error {
	return r.DB.Save(q).Error
}

func (r *QuizRepository) DeleteQuestion(id uint) error {
	return r.DB.Delete(&model.QuizQuestion{}, id).Error
}

func (r *QuizRepository) FindQuestionByID(id uint) (*model.QuizQuestion, error) {
	var q model.QuizQuestion
	err := r.DB.First(&q, id).Error
	return &q, err
}

func (r *QuizRepository) ListQuestions(category string, page, limit int) ([]model.QuizQuestion, int64, error) {
	var questions []model.QuizQuestion
	var total int64

	query := r.DB.Model(&model.QuizQuestion{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	query.Count(&total)
	err := query.Offset((page - 1) * limit).Limit(limit).Order("id ASC").Find(&questions).Error
	return questions, total, err
}
