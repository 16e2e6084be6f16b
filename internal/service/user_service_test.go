package service

import (
	"testing"

	"empower_backend/internal/model"
	"empower_backend/internal/repository"
	"empower_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) *UserService {
	return NewUserService(
		repository.NewUserRepository(db),
		repository.NewAchievementRepository(db))
}

func TestGetProfileDerivedProgress(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	user := createTestUser(t, db, "alice", model.TierBeginner)
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{"xp": 1123, "level": 3}).Error)

	view, err := svc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1123, view.XP)
	assert.Equal(t, 123, view.XPIntoLevel)
	assert.Equal(t, 377, view.XPToNext)
	assert.Empty(t, view.Achievements)
}

func TestGetProfileNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)

	_, err := svc.GetProfile(999)
	assert.ErrorIs(t, err, util.ErrProfileNotFound)
}

func TestUpdateProfilePartial(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	user := createTestUser(t, db, "bob", model.TierBeginner)

	name := "Bobby"
	tier := model.TierAdvanced
	updated, err := svc.UpdateProfile(user.ID, &UpdateProfileInput{
		Name:         &name,
		CurrentLevel: &tier,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bobby", updated.Name)
	assert.Equal(t, model.TierAdvanced, updated.CurrentLevel)
	assert.Equal(t, user.Email, updated.Email, "缺省字段不变")
}

func TestUpdateProfileCannotTouchProgress(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	user := createTestUser(t, db, "carol", model.TierBeginner)
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{"xp": 600, "level": 2, "streak": 4}).Error)

	goal := "save more"
	updated, err := svc.UpdateProfile(user.ID, &UpdateProfileInput{WealthGoal: &goal})
	require.NoError(t, err)

	// 白名单之外的进度字段原样保留
	assert.Equal(t, 600, updated.XP)
	assert.Equal(t, 2, updated.Level)
	assert.Equal(t, 4, updated.Streak)
	assert.Equal(t, "save more", updated.WealthGoal)
}

func TestUpdateProfileInvalidTier(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	user := createTestUser(t, db, "dave", model.TierBeginner)

	bad := model.SkillTier("guru")
	_, err := svc.UpdateProfile(user.ID, &UpdateProfileInput{CurrentLevel: &bad})
	assert.ErrorIs(t, err, util.ErrInvalidSkillTier)
}

func TestSetAvatar(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	user := createTestUser(t, db, "erin", model.TierBeginner)

	updated, err := svc.SetAvatar(user.ID, "/uploads/avatars/1.png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/avatars/1.png", updated.Avatar)
}
