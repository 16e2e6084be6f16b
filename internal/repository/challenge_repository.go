package repository

import (
	"empower_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

func (r *ChallengeRepository) FindByWeekKey(weekKey string) ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := r.DB.Where("week_key = ?", weekKey).Order("code ASC").Find(&challenges).Error
	return challenges, err
}

// CreateIgnoreConflicts 写入周挑战模板，(week_key, code) 冲突时跳过
func (r *ChallengeRepository) CreateIgnoreConflicts(challenges []model.Challenge) error {
	if len(challenges) == 0 {
		return nil
	}
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&challenges).Error
}

func (r *ChallengeRepository) FindByIDAndWeek(id uint, weekKey string) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.Where("id = ? AND week_key = ?", id, weekKey).First(&challenge).Error
	return &challenge, err
}

// AddParticipant 集合语义加入：重复加入静默跳过，不报错
func (r *ChallengeRepository) AddParticipant(p *model.ChallengeParticipant) error {
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(p).Error
}

func (r *ChallengeRepository) CountParticipants(challengeID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ChallengeParticipant{}).
		Where("challenge_id = ?", challengeID).Count(&count).Error
	return count, err
}

func (r *ChallengeRepository) FindParticipant(challengeID, userID uint) (*model.ChallengeParticipant, error) {
	var p model.ChallengeParticipant
	err := r.DB.Where("challenge_id = ? AND user_id = ?", challengeID, userID).First(&p).Error
	return &p, err
}

// UpdateProgress 推进某个参与者的挑战进度
func (r *ChallengeRepository) UpdateProgress(challengeID, userID uint, progress int) error {
	return r.DB.Model(&model.ChallengeParticipant{}).
		Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		Update("progress", progress).Error
}
