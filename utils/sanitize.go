package utils

import (
	"net/url"
	"strings"
)

// SanitizeHeaderFilename removes characters that can break headers.
func SanitizeHeaderFilename(name string) string {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return "download"
	}
	clean = strings.ReplaceAll(clean, "\r", "")
	clean = strings.ReplaceAll(clean, "\n", "")
	clean = strings.ReplaceAll(clean, "\"", "")
	return clean
}

// AttachmentDisposition builds a Content-Disposition value that keeps non-ASCII names intact.
func AttachmentDisposition(name string) string {
	clean := SanitizeHeaderFilename(name)
	return `attachment; filename="` + clean + `"; filename*=UTF-8''` + url.PathEscape(clean)
}
