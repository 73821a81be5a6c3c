package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAppError 测试错误构造与展开
func TestAppError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(ErrCodeInvalidParams, "参数错误")
		assert.Equal(t, ErrCodeInvalidParams, err.Code)
		assert.Equal(t, "参数错误", err.Message)
		assert.Nil(t, err.Err)
	})

	t.Run("Wrap保留底层错误", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Wrap(cause, "数据库错误")

		assert.Equal(t, ErrCodeInternal, err.Code)
		assert.ErrorIs(t, err, cause, "Unwrap应该能找到底层错误")
	})
}

// TestIsAppError 测试类型判断
func TestIsAppError(t *testing.T) {
	assert.True(t, IsAppError(ErrBookNotFound))
	assert.True(t, IsAppError(Wrap(errors.New("x"), "y")))
	assert.False(t, IsAppError(errors.New("plain error")))
	assert.False(t, IsAppError(nil))
}

// TestGetAppError 测试错误提取
func TestGetAppError(t *testing.T) {
	t.Run("AppError原样返回", func(t *testing.T) {
		got := GetAppError(ErrForbidden)
		assert.Equal(t, ErrCodeForbidden, got.Code)
		assert.Equal(t, "You do not have permission to perform this action.", got.Message)
	})

	t.Run("普通错误包装为系统错误", func(t *testing.T) {
		got := GetAppError(errors.New("boom"))
		assert.Equal(t, ErrCodeInternal, got.Code)
	})
}

// TestErrorCodeRanges 测试错误码分段约定
func TestErrorCodeRanges(t *testing.T) {
	// 认证授权段
	for _, code := range []int{ErrCodeUnauthorized, ErrCodeInvalidToken, ErrCodeTokenExpired, ErrCodeForbidden} {
		require.GreaterOrEqual(t, code, 40100)
		require.Less(t, code, 40200)
	}

	// 资源不存在段
	for _, code := range []int{ErrCodeNotFound, ErrCodeUserNotFound, ErrCodeBookNotFound} {
		require.GreaterOrEqual(t, code, 40400)
		require.Less(t, code, 40500)
	}

	// 参数错误段
	for _, code := range []int{ErrCodeInvalidParams, ErrCodeBindError, ErrCodeInvalidRate, ErrCodeInvalidOrdering} {
		require.GreaterOrEqual(t, code, 40900)
		require.Less(t, code, 41000)
	}
}
