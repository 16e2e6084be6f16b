package util

import "errors"

var (
	ErrProfileNotFound       = errors.New("用户档案不存在")
	ErrEmailRegistered       = errors.New("该邮箱已被注册")
	ErrTaskNotFound          = errors.New("task not found")
	ErrTaskAlreadyCompleted  = errors.New("task already completed")
	ErrInsufficientQuestions = errors.New("not enough questions for this category and tier")
	ErrInvalidSession        = errors.New("invalid quiz session")
	ErrSessionSubmitted      = errors.New("quiz session already submitted")
	ErrChallengeNotFound     = errors.New("challenge not found")
	ErrQuestionNotFound      = errors.New("question not found")
	ErrInvalidSkillTier      = errors.New("无效的技能层级")
	ErrPermissionDenied      = errors.New("permission denied")
)
