package handler

import (
	"Go_Assets/internal/service"
	"Go_Assets/pkg/logger"
	"Go_Assets/utils"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// statusOf maps service error kinds to HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrRecipientNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrQuotaExceeded):
		return http.StatusInsufficientStorage
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeError answers with the mapped status. Internal details are logged, not returned.
func writeError(c *gin.Context, action string, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.Log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("user_id", c.GetString("user_id")).
			Msg(action + " failed")
		utils.Fail(c, status, action+" failed")
		return
	}
	if status == http.StatusBadGateway {
		logger.Log.Warn().Err(err).Str("user_id", c.GetString("user_id")).Msg(action + " failed")
	}
	utils.Fail(c, status, err.Error())
}

func badRequest(c *gin.Context, err error) {
	utils.Fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
}

func currentUser(c *gin.Context) string {
	return c.MustGet("user_id").(string)
}
