package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mindease-chat/internal/app"
	"mindease-chat/internal/transport/http/middleware"
	"mindease-chat/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email,max=128"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=128"`
	Password string `json:"password" binding:"required,max=128"`
}

func NewAuthHandler(authService *app.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	msg, err := h.authService.Signup(c.Request.Context(), app.SignupInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrSignupFailed):
			response.Error(c, http.StatusBadRequest, response.CodeSignupFailed, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "signup failed")
		}
		return
	}

	response.OK(c, gin.H{"message": msg})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrInvalidCredential):
			response.Error(c, http.StatusUnauthorized, response.CodeInvalidCredentials, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "login failed")
		}
		return
	}

	response.OK(c, gin.H{
		"message": app.LoginSuccessMessage,
		"token":   result.Token,
		"session": gin.H{
			"uid":   result.Session.UID,
			"email": result.Session.Email,
		},
	})
}

// Logout clears the server-side session unconditionally; calling it without a
// live session still answers with the logged-out message.
func (h *AuthHandler) Logout(c *gin.Context) {
	sid := middleware.SessionIDFromContext(c)

	msg, err := h.authService.Logout(c.Request.Context(), sid)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "logout failed")
		return
	}

	response.OK(c, gin.H{"message": msg})
}

func (h *AuthHandler) Me(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if !sess.LoggedIn {
		response.Error(c, http.StatusUnauthorized, response.CodeLoginRequired, "please login first")
		return
	}

	user, err := h.authService.CurrentUser(sess)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch current user failed")
		return
	}
	if user == nil {
		response.OK(c, gin.H{"uid": sess.UID, "email": sess.Email})
		return
	}

	response.OK(c, gin.H{
		"uid":        user.UID,
		"email":      user.Email,
		"created_at": user.CreatedAt,
		"last_login": user.LastLoginAt,
	})
}
