package handler

import (
	"Go_Assets/internal/dto"
	"Go_Assets/internal/service"
	"Go_Assets/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

func ShareItem(c *gin.Context) {
	var req dto.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	grant, err := service.ShareItem(c.Request.Context(), currentUser(c), service.ShareInput{
		ItemID:   req.ItemID,
		ItemType: req.ItemType,
		Email:    req.Email,
	})
	if err != nil {
		writeError(c, "share", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": 0, "msg": "ok", "data": grant})
}

func UnshareItem(c *gin.Context) {
	var req dto.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	grant, err := service.UnshareItem(c.Request.Context(), currentUser(c), service.ShareInput{
		ItemID:   req.ItemID,
		ItemType: req.ItemType,
		Email:    req.Email,
	})
	if err != nil {
		writeError(c, "unshare", err)
		return
	}
	utils.Success(c, grant)
}

// ListGrants lists the users an owned item is shared with.
func ListGrants(c *gin.Context) {
	var ref dto.ItemRef
	if err := c.ShouldBindUri(&ref); err != nil {
		badRequest(c, err)
		return
	}
	recipients, err := service.ListGrants(currentUser(c), ref.ID, ref.Type)
	if err != nil {
		writeError(c, "list shares", err)
		return
	}
	utils.Success(c, recipients)
}

func ListSharedWithMe(c *gin.Context) {
	shared, err := service.ListSharedWithMe(currentUser(c))
	if err != nil {
		writeError(c, "list shared", err)
		return
	}
	utils.Success(c, shared)
}
