package config

import (
	"strings"
	"sync"
)

const (
	DefaultMaxFileSize    int64 = 5 << 20 // 5 MiB
	DefaultMaxUserStorage int64 = 2 << 30 // 2 GiB
)

// UploadPolicy holds the rules an upload has to pass before it reaches storage.
type UploadPolicy struct {
	MaxFileSize       int64
	MaxUserStorage    int64
	AllowedTypes      map[string]struct{}
	AllowedExtensions map[string]struct{}
	ArchiveTypes      map[string]struct{}
	ArchiveExtensions map[string]struct{}
}

var defaultAllowedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/svg+xml",
	"application/pdf",
	"application/json",
	"text/html",
	"text/plain",
	"application/javascript",
	"text/javascript",
	"text/css",
	"application/x-typescript",
	"text/x-c++src",
	"application/x-jsx",
	"application/x-tsx",
}

var defaultAllowedExtensions = []string{
	".txt", ".pdf", ".json", ".html", ".css", ".js", ".ts", ".tsx", ".jsx", ".cpp",
	".svg", ".jpg", ".jpeg", ".png", ".webp",
}

// archives are rejected even when an allow-list entry would match
var archiveTypes = []string{
	"application/zip",
	"application/x-zip-compressed",
	"application/x-tar",
	"application/gzip",
	"application/x-gzip",
	"application/x-7z-compressed",
	"application/x-rar-compressed",
	"application/vnd.rar",
	"application/x-bzip2",
	"application/x-xz",
}

var archiveExtensions = []string{".zip", ".tar", ".gz", ".tgz", ".7z", ".rar", ".bz2", ".xz"}

var UploadPolicyInstance *UploadPolicy
var uploadPolicyOnce sync.Once

// InitUploadPolicy builds the upload policy from AppConfig.
func InitUploadPolicy() {
	uploadPolicyOnce.Do(func() {
		maxFile := AppConfig.MaxFileSize
		if maxFile <= 0 {
			maxFile = DefaultMaxFileSize
		}
		maxUser := AppConfig.MaxUserStorage
		if maxUser <= 0 {
			maxUser = DefaultMaxUserStorage
		}
		UploadPolicyInstance = &UploadPolicy{
			MaxFileSize:       maxFile,
			MaxUserStorage:    maxUser,
			AllowedTypes:      toSet(getEnvList("UPLOAD_ALLOWED_TYPES", defaultAllowedTypes)),
			AllowedExtensions: toSet(getEnvList("UPLOAD_ALLOWED_EXTENSIONS", defaultAllowedExtensions)),
			ArchiveTypes:      toSet(archiveTypes),
			ArchiveExtensions: toSet(archiveExtensions),
		}
	})
}

// Upload returns the active upload policy, building it from defaults if needed.
func Upload() *UploadPolicy {
	InitUploadPolicy()
	return UploadPolicyInstance
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	return out
}
