package book

import (
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须在0.01-99999.99元之间")

	// ErrInvalidName 书名不能为空
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")

	// ErrInvalidAuthorName 作者名不能为空
	ErrInvalidAuthorName = apperrors.New(apperrors.ErrCodeInvalidParams, "作者名不能为空")

	// ErrInvalidOrdering 排序字段不合法
	// 不认识的排序字段必须显式报错,不能悄悄忽略
	ErrInvalidOrdering = apperrors.New(apperrors.ErrCodeInvalidOrdering, "排序字段不合法")

	// ErrForbidden 无修改权限(固定文案,见pkg/errors)
	ErrForbidden = apperrors.ErrForbidden
)
