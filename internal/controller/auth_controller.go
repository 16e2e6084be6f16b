package controller

import (
	"errors"
	"time"

	"empower_backend/internal/service"
	"empower_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	UserService *service.UserService
}

func NewAuthController(authService *service.AuthService, userService *service.UserService) *AuthController {
	return &AuthController{AuthService: authService, UserService: userService}
}

// @Summary 用户注册
// @Description 创建账号并返回访问令牌，进度字段一律取初始值
// @Tags 认证
// @Accept json
// @Produce json
// @Param user body service.RegisterInput true "注册信息"
// @Success 201 {object} util.Response
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, token, err := c.AuthService.Register(&req, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmailRegistered):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrInvalidSkillTier):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"user": user, "token": token})
}

// @Summary 用户登录
// @Description 邮箱密码登录，返回访问令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param credentials body service.LoginInput true "登录信息"
// @Success 200 {object} util.Response
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, token, err := c.AuthService.Login(&req)
	if err != nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, gin.H{"user": user, "token": token})
}

// @Summary 当前用户
// @Description 获取当前登录用户的档案与派生进度
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
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
