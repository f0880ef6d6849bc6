package handler

import (
	"Go_Assets/internal/dto"
	"Go_Assets/internal/service"
	"Go_Assets/model"
	"Go_Assets/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

func CreateFolder(c *gin.Context) {
	var req dto.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	folder, err := service.CreateFolder(currentUser(c), req.Name, req.ParentID)
	if err != nil {
		writeError(c, "create folder", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": 0, "msg": "ok", "data": folder})
}

func GetFolder(c *gin.Context) {
	folder, err := service.GetFolder(currentUser(c), c.Param("id"))
	if err != nil {
		writeError(c, "get folder", err)
		return
	}
	utils.Success(c, folder)
}

// GetRootContents lists live folders and assets at the root.
func GetRootContents(c *gin.Context) {
	contents, err := service.GetFolderContents(c.Request.Context(), currentUser(c), nil)
	if err != nil {
		writeError(c, "list root", err)
		return
	}
	utils.Success(c, contents)
}

// GetFolderContents lists a folder's metadata with its live children.
func GetFolderContents(c *gin.Context) {
	id := c.Param("id")
	contents, err := service.GetFolderContents(c.Request.Context(), currentUser(c), &id)
	if err != nil {
		writeError(c, "list folder", err)
		return
	}
	utils.Success(c, contents)
}

func RenameFolder(c *gin.Context) {
	var req dto.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	folder, err := service.RenameFolder(currentUser(c), c.Param("id"), req.Name)
	if err != nil {
		writeError(c, "rename folder", err)
		return
	}
	utils.Success(c, folder)
}

func FavoriteFolder(c *gin.Context) {
	value, ok := bindFlag(c)
	if !ok {
		return
	}
	userID, id := currentUser(c), c.Param("id")
	var (
		folder *model.Folder
		err    error
	)
	if value == nil {
		folder, err = service.ToggleFolderFavorite(userID, id)
	} else {
		folder, err = service.SetFolderFavorite(userID, id, *value)
	}
	if err != nil {
		writeError(c, "favorite folder", err)
		return
	}
	utils.Success(c, folder)
}

func TrashFolder(c *gin.Context) {
	value, ok := bindFlag(c)
	if !ok {
		return
	}
	userID, id := currentUser(c), c.Param("id")
	var (
		folder *model.Folder
		err    error
	)
	if value == nil {
		folder, err = service.ToggleFolderTrashed(userID, id)
	} else {
		folder, err = service.SetFolderTrashed(userID, id, *value)
	}
	if err != nil {
		writeError(c, "trash folder", err)
		return
	}
	utils.Success(c, folder)
}

func MoveFolder(c *gin.Context) {
	var req dto.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	folder, err := service.MoveFolder(currentUser(c), c.Param("id"), req.TargetID)
	if err != nil {
		writeError(c, "move folder", err)
		return
	}
	utils.Success(c, folder)
}

// DeleteFolder permanently deletes a folder and everything below it.
func DeleteFolder(c *gin.Context) {
	result, err := service.DeleteFolderRecursive(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		writeError(c, "delete folder", err)
		return
	}
	utils.Success(c, result)
}
