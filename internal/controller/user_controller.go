package controller

import (
	"errors"
	"path/filepath"
	"strings"

	"empower_backend/internal/service"
	"empower_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService        *service.UserService
	AchievementService *service.AchievementService
	Storage            service.Storage
}

func NewUserController(userService *service.UserService, achievementService *service.AchievementService, storage service.Storage) *UserController {
	return &UserController{UserService: userService, AchievementService: achievementService, Storage: storage}
}

// @Summary 获取档案
// @Description 获取当前用户档案、派生进度与已解锁徽章
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/users/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.UserService.GetProfile(user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrProfileNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

// @Summary 更新档案
// @Description 部分更新档案。仅接受姓名、目标、技能层级与头像，进度字段不可写
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body service.UpdateProfileInput true "档案字段"
// @Success 200 {object} util.Response
// @Router /api/users/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateProfileInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.UserService.UpdateProfile(user.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrProfileNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrInvalidSkillTier):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, updated)
}

// @Summary 上传头像
// @Description 上传头像图片，返回更新后的档案
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "头像文件"
// @Success 200 {object} util.Response
// @Router /api/users/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "avatar file is required")
		return
	}

	if file.Size > util.MaxAvatarSizeMB<<20 {
		util.BadRequest(ctx, "avatar file too large")
		return
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, util.MimeImage) {
		util.BadRequest(ctx, "avatar must be an image")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	objectName := service.AvatarObjectName(user.UserID, filepath.Ext(file.Filename))
	url, err := c.Storage.Save(ctx.Request.Context(), objectName, contentType, file.Size, src)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	updated, err := c.UserService.SetAvatar(user.UserID, url)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, updated)
}

// @Summary 已解锁徽章
// @Description 获取当前用户已解锁的徽章列表
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/users/achievements [get]
func (c *UserController) GetAchievements(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	achievements, err := c.AchievementService.ListByUser(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, achievements)
}
