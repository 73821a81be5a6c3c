package user

import (
	"context"
	"time"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/jwt"

	"github.com/xiebiao/bookshelf/internal/domain/user"
	redisinfra "github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
)

// LoginUseCase 用户登录用例
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore *redisinfra.SessionStore
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(userService user.Service, jwtManager *jwt.Manager, sessionStore *redisinfra.SessionStore) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. 校验邮箱密码
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 签发token
	pair, err := uc.jwtManager.GenerateToken(u.ID, u.Email, u.IsStaff)
	if err != nil {
		return nil, apperrors.Wrap(err, "生成token失败")
	}

	// 3. 保存会话（会话丢失不阻断登录，只影响后续刷新）
	if uc.sessionStore != nil {
		_ = uc.sessionStore.SaveSession(ctx, u.ID, map[string]interface{}{
			"email":         u.Email,
			"refresh_token": pair.RefreshToken,
		}, 24*time.Hour)
	}

	return &LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User: UserInfo{
			ID:      u.ID,
			Email:   u.Email,
			IsStaff: u.IsStaff,
		},
	}, nil
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
	User         UserInfo `json:"user"`
}

// UserInfo 脱敏后的用户信息
type UserInfo struct {
	ID      uint   `json:"id"`
	Email   string `json:"email"`
	IsStaff bool   `json:"is_staff"`
}
