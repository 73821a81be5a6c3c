package book

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// ListBooksUseCase 图书列表用例
// 支持价格精确过滤、书名/作者名模糊搜索、白名单排序和分页
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建用例实例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// ListBooksRequest 列表请求
type ListBooksRequest struct {
	PriceCents *int64
	Search     string
	Ordering   string
	Page       int
	PageSize   int
}

// ListBooksResponse 列表响应
type ListBooksResponse struct {
	Items []*BookData
	Total int64
}

// Execute 执行查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	// 分页参数兜底
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	items, total, err := uc.bookService.ListBooks(ctx, book.ListParams{
		PriceCents: req.PriceCents,
		Search:     req.Search,
		Ordering:   req.Ordering,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	data := make([]*BookData, 0, len(items))
	for _, a := range items {
		data = append(data, toBookData(a))
	}

	return &ListBooksResponse{Items: data, Total: total}, nil
}
