package service

import (
	"context"
	"encoding/json"
	"fmt"

	"empower_backend/internal/model"
	"empower_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Notifier 进度事件投递接口。核心只产生事件，由实现方决定推送渠道。
type Notifier interface {
	Publish(ctx context.Context, event model.Event)
}

// RedisNotifier 通过 Redis Pub/Sub 广播事件，供推送网关或 WebSocket 层订阅
type RedisNotifier struct {
	Client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{Client: client}
}

const eventChannelPrefix = "empower:events:"

func (n *RedisNotifier) Publish(ctx context.Context, event model.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Log.Error("事件序列化失败", zap.Error(err))
		return
	}

	channel := fmt.Sprintf("%s%d", eventChannelPrefix, event.UserID)
	if err := n.Client.Publish(ctx, channel, payload).Err(); err != nil {
		// 投递失败不影响已提交的进度变更，记录后继续
		logger.Log.Error("事件发布失败",
			zap.String("channel", channel),
			zap.String("type", string(event.Type)),
			zap.Error(err))
	}
}

// LogNotifier 仅写日志的实现，Redis 不可用或测试时使用
type LogNotifier struct{}

func (LogNotifier) Publish(_ context.Context, event model.Event) {
	logger.Log.Info("进度事件",
		zap.String("type", string(event.Type)),
		zap.Uint("userId", event.UserID),
		zap.Int("newLevel", event.NewLevel),
		zap.Int("streak", event.Streak))
}
