package service

import (
	"errors"
	"time"

	"empower_backend/internal/config"
	"empower_backend/internal/model"
	"empower_backend/internal/repository"
	"empower_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService 注册登录。新档案的进度字段一律取引擎默认值，不接受客户端指定。
type AuthService struct {
	Users *repository.UserRepository
	Cfg   *config.Config
}

func NewAuthService(users *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{Users: users, Cfg: cfg}
}

// RegisterInput 注册入参。CurrentLevel 是引导页自报的技能层级，
// 只影响测验难度过滤，与数值等级无关。
type RegisterInput struct {
	Name         string          `json:"name" binding:"required,min=2,max=50"`
	Email        string          `json:"email" binding:"required,email"`
	Password     string          `json:"password" binding:"required,min=8"`
	CurrentLevel model.SkillTier `json:"currentLevel"`
	HealthGoal   string          `json:"healthGoal" binding:"max=255"`
	WealthGoal   string          `json:"wealthGoal" binding:"max=255"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *AuthService) Register(in *RegisterInput, now time.Time) (*model.User, string, error) {
	if _, err := s.Users.FindByEmail(in.Email); err == nil {
		return nil, "", util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	tier := in.CurrentLevel
	if tier == "" {
		tier = model.TierBeginner
	}
	if !model.ValidSkillTier(tier) {
		return nil, "", util.ErrInvalidSkillTier
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		Password:     string(hashed),
		Role:         model.Member,
		CurrentLevel: tier,
		HealthGoal:   in.HealthGoal,
		WealthGoal:   in.WealthGoal,

		// 进度初始值：0 XP、1 级、无连续天数。首次活动时连续天数置 1。
		XP:             0,
		Level:          1,
		Streak:         0,
		LastActiveDate: now,
	}
	if err := s.Users.Create(user); err != nil {
		return nil, "", err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(in *LoginInput) (*model.User, string, error) {
	user, err := s.Users.FindByEmail(in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", errors.New("邮箱或密码错误")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, "", errors.New("邮箱或密码错误")
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
