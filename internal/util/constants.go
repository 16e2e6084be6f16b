package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 游戏化规则常量
const (
	XPPerLevel       = 500 // 每级所需 XP
	QuizSize         = 5   // 每次测验题数
	QuizBaseXP       = 25  // 答对一题的基础 XP
	QuizSpeedBonus   = 10  // 快答奖励
	QuizSpeedSeconds = 10  // 快答阈值（秒）
	LessonXP         = 25  // 完成一节课程的 XP
	StreakMilestone  = 7   // 连续天数里程碑间隔
)

// 头像上传相关常量
const (
	MimeImage       = "image/"
	MaxAvatarSizeMB = 5
)
