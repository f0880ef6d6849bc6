package utils

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// GetToken returns a random token.
func GetToken() string {
	return uuid.NewString()
}

// BuildObjectName returns a unique object key under the user's prefix, keeping the extension.
func BuildObjectName(userID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return userID + "/" + GetToken() + ext
}
