package dto

import (
	"encoding/json"

	apprelation "github.com/xiebiao/bookshelf/internal/application/relation"
	"github.com/xiebiao/bookshelf/internal/domain/relation"
)

// PatchRelationRequest 关系补丁请求
//
// PATCH语义:没出现的字段不修改。rate字段还要区分两种情况:
// - 请求体里没有"rate"  → 不修改
// - "rate": null        → 清除评分
// 标准json.Unmarshal区分不了这两种nil,所以自定义解析
type PatchRelationRequest struct {
	Like        *bool
	InBookmarks *bool
	Rate        *int
	RateSet     bool // rate键是否出现在请求体中
}

// UnmarshalJSON 自定义解析,捕获rate键的"出现但为null"
func (r *PatchRelationRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["like"]; ok {
		if err := json.Unmarshal(v, &r.Like); err != nil {
			return err
		}
	}
	if v, ok := raw["in_bookmarks"]; ok {
		if err := json.Unmarshal(v, &r.InBookmarks); err != nil {
			return err
		}
	}
	if v, ok := raw["rate"]; ok {
		r.RateSet = true
		if err := json.Unmarshal(v, &r.Rate); err != nil {
			return err
		}
	}
	return nil
}

// RelationResponse 关系响应
type RelationResponse struct {
	ID          uint `json:"id" example:"1"`
	UserID      uint `json:"user_id" example:"1"`
	BookID      uint `json:"book_id" example:"1"`
	Like        bool `json:"like" example:"true"`
	InBookmarks bool `json:"in_bookmarks" example:"false"`
	Rate        *int `json:"rate" example:"5"`
}

// ToRelationResponse 领域实体 → HTTP响应
func ToRelationResponse(rel *relation.UserBookRelation) *RelationResponse {
	return &RelationResponse{
		ID:          rel.ID,
		UserID:      rel.UserID,
		BookID:      rel.BookID,
		Like:        rel.Like,
		InBookmarks: rel.InBookmarks,
		Rate:        rel.Rate,
	}
}

// ToPatchRelationRequest HTTP请求 → 应用层请求
func (r *PatchRelationRequest) ToPatchRelationRequest(userID, bookID uint) apprelation.PatchRelationRequest {
	return apprelation.PatchRelationRequest{
		UserID:      userID,
		BookID:      bookID,
		Like:        r.Like,
		InBookmarks: r.InBookmarks,
		Rate:        r.Rate,
		RateSet:     r.RateSet,
	}
}
