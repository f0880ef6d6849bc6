package handler

import (
	"Go_Assets/config"
	"Go_Assets/internal/dto"
	"Go_Assets/internal/service"
	"Go_Assets/model"
	"Go_Assets/utils"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// multipartSlack covers form boundaries and fields around the file part.
const multipartSlack = 1 << 20

// UploadAsset stores one multipart file, optionally inside folder_id.
func UploadAsset(c *gin.Context) {
	maxSize := config.Upload().MaxFileSize
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+multipartSlack)

	fh, err := c.FormFile("file")
	if err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			utils.Fail(c, http.StatusBadRequest, fmt.Sprintf("file exceeds %d bytes", maxSize))
			return
		}
		utils.Fail(c, http.StatusBadRequest, "file is required")
		return
	}
	if fh.Size > maxSize {
		utils.Fail(c, http.StatusBadRequest, fmt.Sprintf("file exceeds %d bytes", maxSize))
		return
	}
	var folderID *string
	if v := strings.TrimSpace(c.PostForm("folder_id")); v != "" {
		folderID = &v
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, "read upload", err)
		return
	}
	defer f.Close()

	asset, err := service.UploadAsset(c.Request.Context(), service.UploadInput{
		UserID:      currentUser(c),
		FolderID:    folderID,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		writeError(c, "upload", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": 0, "msg": "ok", "data": asset})
}

func GetAsset(c *gin.Context) {
	asset, err := service.GetAsset(currentUser(c), c.Param("id"))
	if err != nil {
		writeError(c, "get asset", err)
		return
	}
	utils.Success(c, asset)
}

// GetAssetDownloadURL returns a presigned attachment URL.
func GetAssetDownloadURL(c *gin.Context) {
	u, err := service.GetAssetDownloadURL(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		writeError(c, "download", err)
		return
	}
	utils.Success(c, dto.URLResponse{URL: u, ExpiresAt: time.Now().Add(config.AppConfig.PresignExpiry)})
}

// GetAssetPreviewURL returns a presigned inline URL for browser-renderable types.
func GetAssetPreviewURL(c *gin.Context) {
	u, err := service.GetAssetPreviewURL(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		writeError(c, "preview", err)
		return
	}
	utils.Success(c, dto.URLResponse{URL: u, ExpiresAt: time.Now().Add(config.AppConfig.PresignExpiry)})
}

func RenameAsset(c *gin.Context) {
	var req dto.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	asset, err := service.RenameAsset(currentUser(c), c.Param("id"), req.Name)
	if err != nil {
		writeError(c, "rename asset", err)
		return
	}
	utils.Success(c, asset)
}

func FavoriteAsset(c *gin.Context) {
	value, ok := bindFlag(c)
	if !ok {
		return
	}
	userID, id := currentUser(c), c.Param("id")
	var (
		asset *model.Asset
		err   error
	)
	if value == nil {
		asset, err = service.ToggleAssetFavorite(userID, id)
	} else {
		asset, err = service.SetAssetFavorite(userID, id, *value)
	}
	if err != nil {
		writeError(c, "favorite asset", err)
		return
	}
	utils.Success(c, asset)
}

func TrashAsset(c *gin.Context) {
	value, ok := bindFlag(c)
	if !ok {
		return
	}
	userID, id := currentUser(c), c.Param("id")
	var (
		asset *model.Asset
		err   error
	)
	if value == nil {
		asset, err = service.ToggleAssetTrashed(userID, id)
	} else {
		asset, err = service.SetAssetTrashed(userID, id, *value)
	}
	if err != nil {
		writeError(c, "trash asset", err)
		return
	}
	utils.Success(c, asset)
}

func MoveAsset(c *gin.Context) {
	var req dto.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	asset, err := service.MoveAsset(currentUser(c), c.Param("id"), req.TargetID)
	if err != nil {
		writeError(c, "move asset", err)
		return
	}
	utils.Success(c, asset)
}

// DeleteAsset permanently removes an asset and releases its bytes.
func DeleteAsset(c *gin.Context) {
	result, err := service.DeleteAssetPermanently(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		writeError(c, "delete asset", err)
		return
	}
	utils.Success(c, result)
}

// bindFlag reads an optional {"value": bool}. A nil value means toggle.
func bindFlag(c *gin.Context) (*bool, bool) {
	if c.Request.ContentLength == 0 {
		return nil, true
	}
	var req dto.FlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return nil, false
	}
	return req.Value, true
}
