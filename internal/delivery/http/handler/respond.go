package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainBoard "smart-farm-monitor/internal/domain/board"
	domainFarm "smart-farm-monitor/internal/domain/farm"
	domainStore "smart-farm-monitor/internal/domain/store"
	domainUser "smart-farm-monitor/internal/domain/user"
	"smart-farm-monitor/internal/logger"
	"smart-farm-monitor/internal/middleware"
	"smart-farm-monitor/internal/usecase/dashboard"
	userSvc "smart-farm-monitor/internal/usecase/user"
	appErrors "smart-farm-monitor/pkg/errors"
	"smart-farm-monitor/pkg/utils"
)

// respondWithError maps domain errors onto the shared error envelope.
// One taxonomy for every route: 400 validation, 401 auth, 403 ownership,
// 404 missing, 409 uniqueness, 500 everything else.
func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, domainUser.ErrUserAlreadyExists),
		errors.Is(err, domainUser.ErrNicknameTaken):
		utils.ErrorResponse(c, http.StatusConflict, err.Error())

	case errors.Is(err, appErrors.ErrInvalidCredentials),
		errors.Is(err, appErrors.ErrInvalidToken),
		errors.Is(err, appErrors.ErrUnauthorized),
		errors.Is(err, userSvc.ErrCurrentPasswordWrong):
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())

	case errors.Is(err, appErrors.ErrNotOwner),
		errors.Is(err, domainBoard.ErrNotAuthor),
		errors.Is(err, domainFarm.ErrESPNotInFarm):
		utils.ErrorResponse(c, http.StatusForbidden, err.Error())

	case errors.Is(err, domainUser.ErrUserNotFound),
		errors.Is(err, domainFarm.ErrFarmNotFound),
		errors.Is(err, domainFarm.ErrESPNotFound),
		errors.Is(err, domainFarm.ErrConditionNotFound),
		errors.Is(err, domainBoard.ErrPostNotFound),
		errors.Is(err, domainStore.ErrItemNotFound),
		errors.Is(err, domainStore.ErrDeviceNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())

	case errors.Is(err, appErrors.ErrInvalidEmail),
		errors.Is(err, domainFarm.ErrInvalidDeviceKind),
		errors.Is(err, domainFarm.ErrNoInventory),
		errors.Is(err, domainStore.ErrDeviceNotAssignable),
		errors.Is(err, dashboard.ErrInvalidTimeFrame),
		errors.Is(err, userSvc.ErrCurrentPasswordRequired),
		errors.Is(err, userSvc.ErrSamePassword),
		errors.Is(err, userSvc.ErrNothingToUpdate):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, appErrors.ErrBrokerUnavailable):
		utils.ErrorResponse(c, http.StatusInternalServerError, err.Error())

	default:
		var appErr *appErrors.AppError
		if errors.As(err, &appErr) {
			utils.ErrorResponse(c, http.StatusBadRequest, appErr.Message)
			return
		}

		logger.Error("Internal server error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}

// callerID pulls the authenticated user id; the auth middleware
// guarantees it on protected routes.
func callerID(c *gin.Context) (uint, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
	}
	return id, ok
}
