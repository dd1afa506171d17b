// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"gadget_backend/internal/api"
	"gadget_backend/internal/feature/auth/transport/http/dto"
	"gadget_backend/internal/feature/auth/usecase"
)

// Response messages.
const (
	msgInvalidRequest     = "Invalid request body"
	msgUserExists         = "User already exists"
	msgPasswordTooLong    = "Password must not exceed 72 bytes"
	msgRegistered         = "User registered successfully"
	msgInvalidCredentials = "Invalid email or password"
	msgLoginSuccessful    = "Login successful"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録します。
	Register(ctx context.Context, name, email, password string) error
	// Login はユーザーを認証し、成功時にJWTトークンを返します。
	Login(ctx context.Context, email, password string) (string, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - リクエストJSONが不正な場合は400を返却
// - メール重複時は400を返却
// - 成功時は201を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.Fail(msgInvalidRequest))
		return
	}

	err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrUserAlreadyExists):
		slog.Warn("register rejected: duplicate email", "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.Fail(msgUserExists))
		return
	case errors.Is(err, usecase.ErrPasswordTooLong):
		slog.Warn("register rejected: password too long", "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.Fail(msgPasswordTooLong))
		return
	default:
		slog.Error("register failed", "error", err, "email", req.Email)
		c.JSON(http.StatusInternalServerError, api.Fail(api.MsgInternalError))
		return
	}

	slog.Info("user registered", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, api.OK(msgRegistered, nil))
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 認証失敗時はメールの存在有無にかかわらず同一の401レスポンスを返します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.Fail(msgInvalidRequest))
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrInvalidCredentials):
		slog.Warn("login failed", "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, api.Fail(msgInvalidCredentials))
		return
	default:
		slog.Error("login error", "error", err, "email", req.Email)
		c.JSON(http.StatusInternalServerError, api.Fail(api.MsgInternalError))
		return
	}

	slog.Info("user login successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.TokenEnvelope{Success: true, Message: msgLoginSuccessful, Token: token})
}
