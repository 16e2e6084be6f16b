package controller

import (
	"errors"
	"strconv"
	"time"

	"empower_backend/internal/service"
	"empower_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChallengeController struct {
	ChallengeService *service.ChallengeService
}

func NewChallengeController(challengeService *service.ChallengeService) *ChallengeController {
	return &ChallengeController{ChallengeService: challengeService}
}

// @Summary 本周挑战
// @Description 获取本周社区挑战，首次访问时生成，全部用户共享同一套
// @Tags 挑战
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/challenges/weekly [get]
func (c *ChallengeController) GetWeekly(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	challenges, err := c.ChallengeService.ListWeekly(user.UserID, time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, challenges)
}

// @Summary 加入挑战
// @Description 加入本周挑战。重复加入幂等，不重置进度
// @Tags 挑战
// @Produce json
// @Security BearerAuth
// @Param challengeId path int true "挑战ID"
// @Success 200 {object} util.Response
// @Router /api/challenges/{challengeId}/join [post]
func (c *ChallengeController) Join(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	challengeID, err := strconv.Atoi(ctx.Param("challengeId"))
	if err != nil {
		util.BadRequest(ctx, "Invalid challenge ID")
		return
	}

	view, err := c.ChallengeService.Join(user.UserID, uint(challengeID), time.Now())
	if err != nil {
		if errors.Is(err, util.ErrChallengeNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, view)
}
