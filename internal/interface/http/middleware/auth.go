package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	redisinfra "github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/jwt"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// context键,handler通过Get*系列函数读取
const (
	ContextKeyUserID  = "user_id"
	ContextKeyEmail   = "email"
	ContextKeyIsStaff = "is_staff"
	ContextKeyToken   = "token"
)

// RequireAuth 强制认证中间件
// 解析Bearer token,校验签名和黑名单,失败直接401中断
func RequireAuth(jwtManager *jwt.Manager, sessionStore *redisinfra.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := jwtManager.ParseToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		// 已登出的token在黑名单里
		if sessionStore != nil {
			blacklisted, err := sessionStore.IsInBlacklist(c.Request.Context(), token)
			if err == nil && blacklisted {
				response.Error(c, apperrors.ErrInvalidToken)
				c.Abort()
				return
			}
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyIsStaff, claims.IsStaff)
		c.Set(ContextKeyToken, token)
		c.Next()
	}
}

// OptionalAuth 可选认证中间件
// 带了合法token就注入身份,没带或非法都放行(匿名访问)
func OptionalAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := extractToken(c); ok {
			if claims, err := jwtManager.ParseToken(token); err == nil {
				c.Set(ContextKeyUserID, claims.UserID)
				c.Set(ContextKeyEmail, claims.Email)
				c.Set(ContextKeyIsStaff, claims.IsStaff)
				c.Set(ContextKeyToken, token)
			}
		}
		c.Next()
	}
}

// extractToken 从Authorization头提取Bearer token
func extractToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		return "", false
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetUserID 从context读取当前用户ID,未登录返回(0, false)
func GetUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextKeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// MustGetUserID 读取当前用户ID,只应在RequireAuth保护的路由里调用
func MustGetUserID(c *gin.Context) uint {
	id, _ := GetUserID(c)
	return id
}

// GetIsStaff 当前用户是否staff,匿名为false
func GetIsStaff(c *gin.Context) bool {
	v, ok := c.Get(ContextKeyIsStaff)
	if !ok {
		return false
	}
	staff, _ := v.(bool)
	return staff
}

// GetToken 读取原始token(登出时需要)
func GetToken(c *gin.Context) string {
	v, ok := c.Get(ContextKeyToken)
	if !ok {
		return ""
	}
	token, _ := v.(string)
	return token
}

// GetPrincipal 组装权限主体,匿名时UserID为0
func GetPrincipal(c *gin.Context) book.Principal {
	id, _ := GetUserID(c)
	return book.Principal{
		UserID:  id,
		IsStaff: GetIsStaff(c),
	}
}
