package handler

import (
	"github.com/gin-gonic/gin"

	apprelation "github.com/xiebiao/bookshelf/internal/application/relation"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// RelationHandler 用户-图书关系HTTP处理器
type RelationHandler struct {
	patchUC *apprelation.PatchRelationUseCase
}

// NewRelationHandler 创建关系处理器
func NewRelationHandler(patchUC *apprelation.PatchRelationUseCase) *RelationHandler {
	return &RelationHandler{patchUC: patchUC}
}

// PatchRelation 更新当前用户与图书的关系
//
//	@Summary		更新图书关系
//	@Description	部分更新当前用户对某本书的like/in_bookmarks/rate,首次触达自动创建关系
//	@Tags			关系
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int							true	"图书ID"
//	@Param			request	body		dto.PatchRelationRequest	true	"补丁字段,rate传null表示清除评分"
//	@Success		200		{object}	response.Response
//	@Failure		400		{object}	response.Response
//	@Failure		401		{object}	response.Response
//	@Failure		404		{object}	response.Response
//	@Router			/api/v1/books/{id}/relation [patch]
func (h *RelationHandler) PatchRelation(c *gin.Context) {
	bookID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.PatchRelationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	resp, err := h.patchUC.Execute(c.Request.Context(), req.ToPatchRelationRequest(middleware.MustGetUserID(c), bookID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToRelationResponse(resp.Relation))
}
