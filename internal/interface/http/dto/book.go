package dto

import (
	"fmt"
	"strconv"
	"strings"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// CreateBookRequest 创建图书请求
// price以字符串传入("25.00"),服务端解析为分,避免浮点精度问题
type CreateBookRequest struct {
	Name       string `json:"name" binding:"required,max=255" example:"深入理解计算机系统"`
	Price      string `json:"price" binding:"required" example:"99.00"`
	AuthorName string `json:"author_name" binding:"required,max=255" example:"Randal E. Bryant"`
}

// UpdateBookRequest 部分更新图书请求(PATCH)
// 三个字段都可选,nil表示不修改
type UpdateBookRequest struct {
	Name       *string `json:"name" binding:"omitempty,max=255"`
	Price      *string `json:"price"`
	AuthorName *string `json:"author_name" binding:"omitempty,max=255"`
}

// ReplaceBookRequest 全量更新图书请求(PUT)
// 三个字段都必填,缺字段直接报参数错误
type ReplaceBookRequest struct {
	Name       string `json:"name" binding:"required,max=255"`
	Price      string `json:"price" binding:"required"`
	AuthorName string `json:"author_name" binding:"required,max=255"`
}

// ListBooksRequest 图书列表查询参数
type ListBooksRequest struct {
	Price    string `form:"price"`
	Search   string `form:"search"`
	Ordering string `form:"ordering" binding:"omitempty,oneof=price -price author_name -author_name"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// BookResponse 图书响应
// price固定两位小数字符串;rating为空时输出null
// annotated_likes与likes_count值相同,老客户端还在读这个字段名
type BookResponse struct {
	ID             uint    `json:"id" example:"1"`
	Name           string  `json:"name" example:"深入理解计算机系统"`
	Price          string  `json:"price" example:"99.00"`
	AuthorName     string  `json:"author_name" example:"Randal E. Bryant"`
	OwnerID        uint    `json:"owner_id" example:"1"`
	LikesCount     int64   `json:"likes_count" example:"3"`
	AnnotatedLikes int64   `json:"annotated_likes" example:"3"`
	Rating         *string `json:"rating" example:"4.50"`
	CreatedAt      string  `json:"created_at" example:"2025-01-01T12:00:00Z"`
	UpdatedAt      string  `json:"updated_at" example:"2025-01-01T12:00:00Z"`
}

// FormatPrice 分 → "25.00"
func FormatPrice(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// ParsePrice "25.00" → 分
// 最多两位小数,超出或非法格式返回错误
func ParsePrice(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, apperrors.New(apperrors.ErrCodeInvalidParams, "价格不能为空")
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
		if fracPart == "" {
			return 0, apperrors.New(apperrors.ErrCodeInvalidParams, "价格格式不正确")
		}
	}
	if intPart == "" || len(fracPart) > 2 {
		return 0, apperrors.New(apperrors.ErrCodeInvalidParams, "价格格式不正确")
	}
	// 两段都只允许数字:ParseInt本身接受正负号,"10.-5"这类输入必须在这里拦住
	if !isDigits(intPart) || !isDigits(fracPart) {
		return 0, apperrors.New(apperrors.ErrCodeInvalidParams, "价格格式不正确")
	}
	// 补齐到两位小数
	for len(fracPart) < 2 {
		fracPart += "0"
	}

	yuan, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrCodeInvalidParams, "价格格式不正确")
	}
	frac, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrCodeInvalidParams, "价格格式不正确")
	}

	return yuan*100 + frac, nil
}

// isDigits s的每个字节都是0-9
// 空串返回true:整数价格("25")没有小数部分
func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatRating 平均分 → "4.50",nil原样返回
func FormatRating(rating *float64) *string {
	if rating == nil {
		return nil
	}
	s := fmt.Sprintf("%.2f", *rating)
	return &s
}

// ToBookResponse 应用层DTO → HTTP响应
func ToBookResponse(b *appbook.BookData) *BookResponse {
	return &BookResponse{
		ID:             b.ID,
		Name:           b.Name,
		Price:          FormatPrice(b.PriceCents),
		AuthorName:     b.AuthorName,
		OwnerID:        b.OwnerID,
		LikesCount:     b.LikesCount,
		AnnotatedLikes: b.LikesCount,
		Rating:         FormatRating(b.Rating),
		CreatedAt:      b.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:      b.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ToBookResponseList 批量转换
func ToBookResponseList(items []*appbook.BookData) []*BookResponse {
	resp := make([]*BookResponse, 0, len(items))
	for _, b := range items {
		resp = append(resp, ToBookResponse(b))
	}
	return resp
}
