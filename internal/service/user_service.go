package service

import (
	"errors"

	"empower_backend/internal/model"
	"empower_backend/internal/repository"
	"empower_backend/internal/util"

	"gorm.io/gorm"
)

// UserService 档案读写。进度字段（XP、等级、连续天数）不在可更新集合内，
// 任何携带这些字段的请求都会被忽略而非生效。
type UserService struct {
	Users        *repository.UserRepository
	Achievements *repository.AchievementRepository
}

func NewUserService(users *repository.UserRepository, achievements *repository.AchievementRepository) *UserService {
	return &UserService{Users: users, Achievements: achievements}
}

// ProfileView 档案及派生进度
type ProfileView struct {
	model.User
	XPIntoLevel  int                 `json:"xpIntoLevel"`
	XPToNext     int                 `json:"xpToNext"`
	Achievements []model.Achievement `json:"achievements"`
}

func (s *UserService) GetProfile(userID uint) (*ProfileView, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProfileNotFound
		}
		return nil, err
	}

	achievements, err := s.Achievements.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	into := XPIntoLevel(user.XP)
	return &ProfileView{
		User:         *user,
		XPIntoLevel:  into,
		XPToNext:     util.XPPerLevel - into,
		Achievements: achievements,
	}, nil
}

// UpdateProfileInput 可更新字段白名单。指针字段缺省表示不修改。
type UpdateProfileInput struct {
	Name         *string          `json:"name" binding:"omitempty,min=2,max=50"`
	HealthGoal   *string          `json:"healthGoal" binding:"omitempty,max=255"`
	WealthGoal   *string          `json:"wealthGoal" binding:"omitempty,max=255"`
	CurrentLevel *model.SkillTier `json:"currentLevel"`
	Avatar       *string          `json:"avatar" binding:"omitempty,max=255"`
}

// UpdateProfile 部分更新档案
func (s *UserService) UpdateProfile(userID uint, in *UpdateProfileInput) (*model.User, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProfileNotFound
		}
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.HealthGoal != nil {
		user.HealthGoal = *in.HealthGoal
	}
	if in.WealthGoal != nil {
		user.WealthGoal = *in.WealthGoal
	}
	if in.CurrentLevel != nil {
		if !model.ValidSkillTier(*in.CurrentLevel) {
			return nil, util.ErrInvalidSkillTier
		}
		user.CurrentLevel = *in.CurrentLevel
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}

	if err := s.Users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetAvatar 上传头像后落库
func (s *UserService) SetAvatar(userID uint, url string) (*model.User, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProfileNotFound
		}
		return nil, err
	}
	user.Avatar = url
	if err := s.Users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
