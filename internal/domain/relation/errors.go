package relation

import (
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// 用户图书关系领域错误定义
var (
	// ErrInvalidRate 评分超出范围
	ErrInvalidRate = apperrors.New(apperrors.ErrCodeInvalidRate, "评分必须在0-5之间")
)
