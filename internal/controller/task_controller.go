package controller

import (
	"errors"
	"strconv"
	"time"

	"empower_backend/internal/service"
	"empower_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TaskController struct {
	TaskService   *service.TaskService
	LessonService *service.LessonService
}

func NewTaskController(taskService *service.TaskService, lessonService *service.LessonService) *TaskController {
	return &TaskController{TaskService: taskService, LessonService: lessonService}
}

// @Summary 今日任务
// @Description 获取当天的每日任务，首次访问时生成
// @Tags 每日任务
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/tasks/daily [get]
func (c *TaskController) GetDailyTasks(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	tasks, err := c.TaskService.GetDailyTasks(user.UserID, time.Now())
	if err != nil {
		if errors.Is(err, util.ErrProfileNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, tasks)
}

// @Summary 完成任务
// @Description 完成一个每日任务并结算奖励。重复提交返回 409
// @Tags 每日任务
// @Produce json
// @Security BearerAuth
// @Param taskId path int true "任务ID"
// @Success 200 {object} util.Response
// @Router /api/tasks/daily/{taskId}/complete [post]
func (c *TaskController) CompleteTask(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	taskID, err := strconv.Atoi(ctx.Param("taskId"))
	if err != nil {
		util.BadRequest(ctx, "Invalid task ID")
		return
	}

	task, updated, err := c.TaskService.CompleteTask(ctx.Request.Context(), user.UserID, uint(taskID), time.Now())
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTaskNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrTaskAlreadyCompleted):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"task": task, "user": updated})
}

// @Summary 完成课程
// @Description 记录完成一节课程并结算奖励
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/lessons/complete [post]
func (c *TaskController) CompleteLesson(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	updated, err := c.LessonService.CompleteLesson(ctx.Request.Context(), user.UserID, time.Now())
	if err != nil {
		if errors.Is(err, util.ErrProfileNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, updated)
}
