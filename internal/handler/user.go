package handler

import (
	"Go_Assets/internal/service"
	"Go_Assets/utils"

	"github.com/gin-gonic/gin"
)

// ProvisionUser creates or refreshes the caller's row from verified token claims.
func ProvisionUser(c *gin.Context, claims *utils.Claims) error {
	_, err := service.EnsureUser(c.Request.Context(), service.Identity{
		ID:      claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	})
	return err
}

// GetProfile returns the caller with storage usage and quota.
func GetProfile(c *gin.Context) {
	profile, err := service.GetProfile(currentUser(c))
	if err != nil {
		writeError(c, "get profile", err)
		return
	}
	utils.Success(c, profile)
}

func GetQuota(c *gin.Context) {
	quota, err := service.GetQuotaInfo(currentUser(c))
	if err != nil {
		writeError(c, "get quota", err)
		return
	}
	utils.Success(c, quota)
}
