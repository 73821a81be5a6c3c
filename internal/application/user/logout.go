package user

import (
	"context"
	"time"

	redisinfra "github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
)

// LogoutUseCase 用户登出用例
// 登出的本质是让token失效：JWT无状态，只能通过黑名单实现
type LogoutUseCase struct {
	sessionStore *redisinfra.SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore *redisinfra.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{
		sessionStore: sessionStore,
	}
}

// Execute 执行登出
// token加入黑名单直到自然过期，会话一并删除
func (uc *LogoutUseCase) Execute(ctx context.Context, userID uint, token string, tokenTTL time.Duration) error {
	if uc.sessionStore == nil {
		return nil
	}
	if err := uc.sessionStore.AddToBlacklist(ctx, token, tokenTTL); err != nil {
		return err
	}
	return uc.sessionStore.DeleteSession(ctx, userID)
}
