package book

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// GetBookUseCase 获取图书详情用例
// 公开接口:匿名用户也能访问,点赞数是查询时实时聚合的
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建用例实例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

// Execute 执行查询
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookData, error) {
	a, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBookData(a), nil
}
