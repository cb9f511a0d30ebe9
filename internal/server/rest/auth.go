package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/server/auth"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

func (h *handlers) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn(c.Request.Context(), "login rejected", "reason", "invalid body")
		c.JSON(http.StatusUnauthorized, messageResponse{Message: "Invalid credentials"})
		return
	}

	token, err := h.deps.Users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			h.logger.Warn(c.Request.Context(), "login failed", "username", req.Username, "reason", err)
			c.JSON(http.StatusUnauthorized, messageResponse{Message: "Invalid credentials"})
			return
		}
		h.logger.Error(c.Request.Context(), "login error", "username", req.Username, "error", err)
		c.JSON(http.StatusInternalServerError, messageResponse{Message: "Internal server error"})
		return
	}

	h.logger.Info(c.Request.Context(), "login successful", "username", req.Username)
	c.JSON(http.StatusOK, loginResponse{Token: token, Message: "Login successful"})
}

func (h *handlers) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, messageResponse{Message: "Request body is invalid"})
		return
	}

	u, err := h.deps.Users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		status, msg := http.StatusBadRequest, ""
		switch {
		case errors.Is(err, common.ErrUsernameRequired):
			msg = "Username is required"
		case errors.Is(err, common.ErrPasswordRequired):
			msg = "Password is required"
		case errors.Is(err, common.ErrPasswordTooLong):
			msg = "Password is too long"
		case errors.Is(err, common.ErrDuplicateUsername):
			msg = "Username already exists"
		default:
			status, msg = http.StatusInternalServerError, "Failed to save user"
			h.logger.Error(c.Request.Context(), "registration failed", "username", req.Username, "error", err)
		}
		if status != http.StatusInternalServerError {
			h.logger.Warn(c.Request.Context(), "registration rejected", "username", req.Username, "reason", err)
		}
		c.JSON(status, messageResponse{Message: msg})
		return
	}

	h.logger.Info(c.Request.Context(), "user registered", "username", u.UserName)
	c.JSON(http.StatusOK, messageResponse{Message: "User registered successfully"})
}

func (h *handlers) me(c *gin.Context) {
	user, ok := auth.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, messageResponse{Message: "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": user})
}
