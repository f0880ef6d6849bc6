package service

import (
	"Go_Assets/config"
	"Go_Assets/utils"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen is how much of the upload is read up front for content detection.
const sniffLen = 3072

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := utils.ValidateItemName(name); err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return name, nil
}

func baseMediaType(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(value); err == nil {
		return parsed
	}
	if i := strings.IndexByte(value, ';'); i >= 0 {
		value = value[:i]
	}
	return strings.TrimSpace(value)
}

// isArchive reports whether the detected type or any of its parents is an archive.
func isArchive(policy *config.UploadPolicy, detected *mimetype.MIME) bool {
	for m := detected; m != nil; m = m.Parent() {
		if _, ok := policy.ArchiveTypes[baseMediaType(m.String())]; ok {
			return true
		}
	}
	return false
}

// checkUpload applies the size cap, the archive ban and the type allow-list.
// It returns the content type to record for the asset.
func checkUpload(name, declaredType string, size int64, head []byte) (string, error) {
	policy := config.Upload()
	if size < 0 {
		return "", fmt.Errorf("%w: invalid size", ErrValidation)
	}
	if size > policy.MaxFileSize {
		return "", fmt.Errorf("%w: file exceeds %d bytes", ErrValidation, policy.MaxFileSize)
	}

	ext := strings.ToLower(filepath.Ext(name))
	declared := baseMediaType(declaredType)
	detected := mimetype.Detect(head)
	sniffed := baseMediaType(detected.String())

	_, archiveExt := policy.ArchiveExtensions[ext]
	_, archiveDeclared := policy.ArchiveTypes[declared]
	if archiveExt || archiveDeclared || isArchive(policy, detected) {
		return "", fmt.Errorf("%w: archives are not allowed", ErrValidation)
	}

	_, typeOK := policy.AllowedTypes[declared]
	_, extOK := policy.AllowedExtensions[ext]
	_, sniffOK := policy.AllowedTypes[sniffed]
	if !typeOK && !extOK && !sniffOK {
		return "", fmt.Errorf("%w: file type %q is not allowed", ErrValidation, firstNonEmpty(declared, sniffed, ext))
	}

	if declared != "" && declared != "application/octet-stream" {
		return declared, nil
	}
	if byExt := baseMediaType(mime.TypeByExtension(ext)); byExt != "" {
		if _, ok := policy.AllowedTypes[byExt]; ok {
			return byExt, nil
		}
	}
	return sniffed, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
