package repository

import (
	"empower_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// LockByID 在事务内按行锁读取用户，序列化同一用户的读改写。
// SQLite 不支持 FOR UPDATE，其事务本身已串行化写入。
func (r *UserRepository) LockByID(tx *gorm.DB, id uint) (*model.User, error) {
	var user model.User
	if tx.Dialector.Name() == "mysql" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := tx.First(&user, id).Error
	return &user, err
}

// Save 在指定事务内保存
func (r *UserRepository) Save(tx *gorm.DB, user *model.User) error {
	return tx.Save(user).Error
}

// FindTopBy 排行榜查询：按指定进度列降序，ID 升序保证并列名次结果确定
func (r *UserRepository) FindTopBy(column string, limit int) ([]model.User, error) {
	var users []model.User
	err := r.DB.Order(column + " DESC, id ASC").Limit(limit).Find(&users).Error
	return users, err
}
