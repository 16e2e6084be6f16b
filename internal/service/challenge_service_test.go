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

func newChallengeService(db *gorm.DB) *ChallengeService {
	return NewChallengeService(repository.NewChallengeRepository(db))
}

func TestListWeeklyGeneratesTemplatesOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newChallengeService(db)
	user := createTestUser(t, db, "alice", model.TierBeginner)
	now := mustDate(t, "2026-08-26") // 周三

	views, err := svc.ListWeekly(user.ID, now)
	require.NoError(t, err)
	require.Len(t, views, 3)

	byCode := map[string]ChallengeView{}
	for _, v := range views {
		byCode[v.Code] = v
		assert.Equal(t, "2026-08-24", v.WeekKey)
		assert.False(t, v.Joined)
	}
	assert.Equal(t, 7, byCode["streak-7"].Target)
	assert.Equal(t, 200, byCode["streak-7"].Reward)
	assert.Equal(t, 10, byCode["quiz-master"].Target)
	assert.Equal(t, 150, byCode["quiz-master"].Reward)
	assert.Equal(t, 5, byCode["health-focus"].Target)
	assert.Equal(t, 100, byCode["health-focus"].Reward)

	// 同周再次访问复用同一套
	again, err := svc.ListWeekly(user.ID, now.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, again, 3)

	var count int64
	db.Model(&model.Challenge{}).Count(&count)
	assert.EqualValues(t, 3, count)
}

func TestListWeeklyNewWeekNewSet(t *testing.T) {
	db := newTestDB(t)
	svc := newChallengeService(db)
	user := createTestUser(t, db, "bob", model.TierBeginner)

	_, err := svc.ListWeekly(user.ID, mustDate(t, "2026-08-26"))
	require.NoError(t, err)
	_, err = svc.ListWeekly(user.ID, mustDate(t, "2026-08-31")) // 下周一
	require.NoError(t, err)

	var count int64
	db.Model(&model.Challenge{}).Count(&count)
	assert.EqualValues(t, 6, count)
}

func TestJoinChallengeIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newChallengeService(db)
	user := createTestUser(t, db, "carol", model.TierBeginner)
	now := mustDate(t, "2026-08-26")

	views, err := svc.ListWeekly(user.ID, now)
	require.NoError(t, err)

	joined, err := svc.Join(user.ID, views[0].ID, now)
	require.NoError(t, err)
	assert.True(t, joined.Joined)
	assert.EqualValues(t, 1, joined.ParticipantCount)

	// 重复加入不报错也不产生第二条参与记录
	again, err := svc.Join(user.ID, views[0].ID, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, again.ParticipantCount)

	var count int64
	db.Model(&model.ChallengeParticipant{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestJoinChallengeNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newChallengeService(db)
	user := createTestUser(t, db, "dave", model.TierBeginner)

	_, err := svc.Join(user.ID, 999, mustDate(t, "2026-08-26"))
	assert.ErrorIs(t, err, util.ErrChallengeNotFound)
}

func TestJoinChallengeFromLastWeekRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newChallengeService(db)
	user := createTestUser(t, db, "erin", model.TierBeginner)

	views, err := svc.ListWeekly(user.ID, mustDate(t, "2026-08-26"))
	require.NoError(t, err)

	// 下周尝试加入上周的挑战
	_, err = svc.Join(user.ID, views[0].ID, mustDate(t, "2026-09-02"))
	assert.ErrorIs(t, err, util.ErrChallengeNotFound)
}
