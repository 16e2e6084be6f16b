package repository

import (
	"empower_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) FindByUserID(userID uint) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Where("user_id = ?", userID).Order("created_at ASC").Find(&achievements).Error
	return achievements, err
}

// Unlock 解锁徽章，(user_id, code) 冲突时跳过，返回本次是否新解锁
func (r *AchievementRepository) Unlock(tx *gorm.DB, a *model.Achievement) (bool, error) {
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(a)
	return res.RowsAffected == 1, res.Error
}

// CountByUsers 统计一组用户各自的徽章数，用于排行榜
func (r *AchievementRepository) CountByUsers(userIDs []uint) (map[uint]int, error) {
	if len(userIDs) == 0 {
		return map[uint]int{}, nil
	}

	type row struct {
		UserID uint
		Count  int
	}
	var rows []row
	err := r.DB.Model(&model.Achievement{}).
		Select("user_id, COUNT(*) as count").
		Where("user_id IN ?", userIDs).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int, len(rows))
	for _, r := range rows {
		counts[r.UserID] = r.Count
	}
	return counts, nil
}
