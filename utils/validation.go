package utils

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const MaxItemNameLength = 255

var (
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrNameTooLong     = errors.New("name is too long")
	ErrNameInvalidChar = errors.New("name contains invalid characters")
	ErrNameReserved    = errors.New("name is reserved")
)

var invalidNameChars = []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", "\x00"}

// ValidateItemName checks a file or folder name. The name should already be trimmed.
func ValidateItemName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxItemNameLength {
		return ErrNameTooLong
	}
	if name == "." || name == ".." {
		return ErrNameReserved
	}
	for _, ch := range invalidNameChars {
		if strings.Contains(name, ch) {
			return ErrNameInvalidChar
		}
	}
	return nil
}
