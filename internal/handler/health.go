package handler

import (
	"Go_Assets/internal/dto"
	"Go_Assets/internal/repo"
	"net/http"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	resp := dto.HealthResponse{Status: "ok", DB: "ok"}
	sqlDB, err := repo.Db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		resp.Status, resp.DB = "degraded", "unreachable"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
