package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/bookshelf/internal/application/user"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// UserHandler 用户HTTP处理器
type UserHandler struct {
	registerUC *appuser.RegisterUseCase
	loginUC    *appuser.LoginUseCase
	logoutUC   *appuser.LogoutUseCase
	// accessExpire 登出时token拉黑的最长时长
	accessExpire time.Duration
}

// NewUserHandler 创建用户处理器
func NewUserHandler(registerUC *appuser.RegisterUseCase, loginUC *appuser.LoginUseCase, logoutUC *appuser.LogoutUseCase, accessExpire time.Duration) *UserHandler {
	return &UserHandler{
		registerUC:   registerUC,
		loginUC:      loginUC,
		logoutUC:     logoutUC,
		accessExpire: accessExpire,
	}
}

// Register 用户注册
//
//	@Summary		用户注册
//	@Description	使用邮箱和密码注册新用户
//	@Tags			用户
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RegisterRequest	true	"注册信息"
//	@Success		201		{object}	response.Response
//	@Failure		400		{object}	response.Response
//	@Router			/api/v1/auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	resp, err := h.registerUC.Execute(c.Request.Context(), appuser.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, resp)
}

// Login 用户登录
//
//	@Summary		用户登录
//	@Description	邮箱密码登录,返回access/refresh token
//	@Tags			用户
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.LoginRequest	true	"登录信息"
//	@Success		200		{object}	response.Response
//	@Failure		401		{object}	response.Response
//	@Router			/api/v1/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	resp, err := h.loginUC.Execute(c.Request.Context(), appuser.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// Logout 用户登出
//
//	@Summary		用户登出
//	@Description	当前token加入黑名单,立即失效
//	@Tags			用户
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Response
//	@Failure		401	{object}	response.Response
//	@Router			/api/v1/auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	token := middleware.GetToken(c)

	if err := h.logoutUC.Execute(c.Request.Context(), userID, token, h.accessExpire); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "登出成功"})
}
