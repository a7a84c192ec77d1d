package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smart-farm-monitor/internal/config"
	"smart-farm-monitor/internal/middleware"
	"smart-farm-monitor/internal/usecase/user"
	"smart-farm-monitor/pkg/utils"
)

type UserHandler struct {
	service *user.Service
	config  *config.Config
}

func NewUserHandler(service *user.Service, cfg *config.Config) *UserHandler {
	return &UserHandler{service: service, config: cfg}
}

// RegisterPublicRoutes mounts signup/login/session endpoints that take
// no auth, plus /me which resolves the session token itself.
func (h *UserHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.POST("/signup", h.Signup)
	router.POST("/login", h.Login)
	router.GET("/me", h.Me)
	router.POST("/logout", h.Logout)
}

func (h *UserHandler) RegisterProfileRoutes(router *gin.RouterGroup) {
	router.GET("/user/profile", h.GetProfile)
	router.PUT("/user/profile", h.UpdateProfile)
}

func (h *UserHandler) Signup(c *gin.Context) {
	var req user.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Signup(c.Request.Context(), &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Signup complete, please log in", nil)
}

// Login issues the session token as an HttpOnly cookie and echoes the
// caller's role.
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	maxAge := int(h.config.JWT.Expiry().Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookieName, result.Token, maxAge, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{"success": true, "role": result.Role})
}

// Me validates the current session and returns its subject.
func (h *UserHandler) Me(c *gin.Context) {
	token := middleware.ExtractToken(c)
	if token == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "No session token")
		return
	}

	claims, err := utils.ValidateToken(token, h.config.JWT.Secret)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	me, err := h.service.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User no longer exists")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "userId": me.UserID, "role": me.Role})
}

func (h *UserHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookieName, "", -1, "/", "", false, true)
	utils.SuccessResponse(c, http.StatusOK, "Logged out", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.UpdateProfile(c.Request.Context(), userID, &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile updated", nil)
}
