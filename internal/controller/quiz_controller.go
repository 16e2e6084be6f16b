package controller

import (
	"errors"
	"strconv"
	"time"

	"empower_backend/internal/model"
	"empower_backend/internal/service"
	"empower_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

type startQuizRequest struct {
	Category model.TaskType `json:"category" binding:"required"`
}

type submitQuizRequest struct {
	Answers []service.QuizAnswerInput `json:"answers" binding:"required,min=1"`
}

// @Summary 开始测验
// @Description 按类目组卷。题目按用户技能层级过滤，候选不足时返回 409
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quiz body startQuizRequest true "测验类目 health/wealth"
// @Success 201 {object} util.Response
// @Router /api/quizzes/start [post]
func (c *QuizController) StartQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req startQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, questions, err := c.QuizService.StartQuiz(user.UserID, req.Category, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInsufficientQuestions):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrProfileNotFound):
			util.NotFound(ctx, err.Error())
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	// 正确答案不随题目下发
	util.Created(ctx, gin.H{
		"sessionId": session.ID,
		"category":  session.Category,
		"questions": questions,
	})
}

// @Summary 提交测验
// @Description 提交作答并结算。会话只能提交一次，重复提交返回 409
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "会话ID"
// @Param answers body submitQuizRequest true "逐题作答"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{sessionId}/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req submitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitQuiz(ctx.Request.Context(), user.UserID, ctx.Param("sessionId"), req.Answers, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidSession):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrSessionSubmitted):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// @Summary 测验历史
// @Description 获取当前用户的测验记录，按开始时间倒序
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param limit query int false "返回数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/quizzes/history [get]
func (c *QuizController) History(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	limit := 20
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	sessions, err := c.QuizService.History(user.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, sessions)
}

// ---- 题库管理（管理员） ----

// @Summary 创建题目
// @Description 新增题库题目
// @Tags 题库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question body service.QuestionInput true "题目"
// @Success 201 {object} util.Response
// @Router /api/admin/questions [post]
func (c *QuizController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuizService.CreateQuestion(&req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, question)
}

// @Summary 更新题目
// @Description 更新题库题目
// @Tags 题库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Param question body service.QuestionInput true "题目"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{id} [put]
func (c *QuizController) UpdateQuestion(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid question ID")
		return
	}

	var req service.QuestionInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuizService.UpdateQuestion(uint(id), &req)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, question)
}

// @Summary 删除题目
// @Description 删除题库题目
// @Tags 题库管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{id} [delete]
func (c *QuizController) DeleteQuestion(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid question ID")
		return
	}

	if err := c.QuizService.DeleteQuestion(uint(id)); err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Question deleted"})
}

// @Summary 题目列表
// @Description 分页查询题库
// @Tags 题库管理
// @Produce json
// @Security BearerAuth
// @Param category query string false "类目 health/wealth"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/admin/questions [get]
func (c *QuizController) ListQuestions(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	questions, total, err := c.QuizService.ListQuestions(ctx.Query("category"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"questions": questions,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}
