package service

import (
	"Go_Assets/config"
	"Go_Assets/internal/storage"
	"Go_Assets/utils"
	"context"
	"fmt"
	"path"
	"strings"
)

// previewTypes maps extensions to the types a browser may render inline.
// Markup and script sources fall back to text/plain.
var previewTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".json": "application/json",
}

// previewContentType picks the inline type from the file name, never from the
// type declared at upload.
func previewContentType(name string) string {
	if t, ok := previewTypes[strings.ToLower(path.Ext(name))]; ok {
		return t
	}
	return "text/plain; charset=utf-8"
}

// previewable types can be rendered inline by a browser.
func previewable(fileType string) bool {
	switch {
	case strings.HasPrefix(fileType, "image/"):
		return true
	case strings.HasPrefix(fileType, "text/"):
		return true
	case fileType == "application/pdf", fileType == "application/json":
		return true
	}
	return false
}

// GetAssetPreviewURL returns a signed URL that opens inline instead of downloading.
func GetAssetPreviewURL(ctx context.Context, userID, assetID string) (string, error) {
	asset, err := GetAsset(userID, assetID)
	if err != nil {
		return "", err
	}
	if !previewable(asset.FileType) {
		return "", fmt.Errorf("%w: %s cannot be previewed", ErrValidation, asset.FileType)
	}
	contentType := previewContentType(asset.Name)
	u, err := storage.Default.PresignedGetObject(
		ctx,
		config.AppConfig.BucketName,
		asset.FileID,
		config.AppConfig.PresignExpiry,
		map[string]string{
			"response-content-type":        contentType,
			"response-content-disposition": `inline; filename="` + utils.SanitizeHeaderFilename(asset.Name) + `"`,
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: presign: %v", ErrUpstream, err)
	}
	return u, nil
}
