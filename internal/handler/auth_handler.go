package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	appErr "github.com/notegenius/notegenius/internal/pkg/errors"
	"github.com/notegenius/notegenius/internal/pkg/response"
	"github.com/notegenius/notegenius/internal/service"
)

const maxAvatarBytes = 5 * 1024 * 1024

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
		return
	}
	user, token, err := h.auth.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if appErr.IsConflict(err) {
			response.Error(c, http.StatusBadRequest, "email_taken", "Email already registered")
			return
		}
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"token": token, "user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
		return
	}
	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "unauthorized", "Invalid credentials")
		return
	}
	response.Success(c, gin.H{"token": token, "user": user})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.Profile(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, user)
}

func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "file is required")
		return
	}
	if fileHeader.Size > maxAvatarBytes {
		response.Error(c, http.StatusBadRequest, "invalid", "file too large")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		handleError(c, err)
		return
	}
	defer func() { _ = file.Close() }()
	data, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes+1))
	if err != nil {
		handleError(c, err)
		return
	}
	if len(data) > maxAvatarBytes {
		response.Error(c, http.StatusBadRequest, "invalid", "file too large")
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	avatarURL, err := h.auth.UploadAvatar(c.Request.Context(), getUserID(c), contentType, data)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"avatar_url": avatarURL})
}
