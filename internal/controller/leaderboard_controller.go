package controller

import (
	"strconv"

	"empower_backend/internal/service"
	"empower_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{LeaderboardService: leaderboardService}
}

// @Summary 排行榜
// @Description 按 XP、连续天数或等级取榜单，短缓存 30 秒
// @Tags 排行榜
// @Produce json
// @Security BearerAuth
// @Param type query string false "维度 xp/streak/level" default(xp)
// @Param limit query int false "返回数量" default(50)
// @Success 200 {object} util.Response
// @Router /api/leaderboard [get]
func (c *LeaderboardController) Get(ctx *gin.Context) {
	boardType := service.LeaderboardType(ctx.DefaultQuery("type", "xp"))

	limit := 50
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	entries, err := c.LeaderboardService.Top(ctx.Request.Context(), boardType, limit)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, entries)
}
