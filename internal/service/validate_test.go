package service

import (
	"Go_Assets/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckUpload(t *testing.T) {
	maxSize := config.Upload().MaxFileSize
	pngHead := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	zipHead := []byte("PK\x03\x04\x14\x00\x00\x00\x08\x00")

	cases := []struct {
		name     string
		file     string
		declared string
		size     int64
		head     []byte
		wantType string
		wantErr  bool
	}{
		{"plain text", "notes.txt", "text/plain", 5, []byte("hello"), "text/plain", false},
		{"declared charset is stripped", "notes.txt", "text/plain; charset=utf-8", 5, []byte("hello"), "text/plain", false},
		{"extension rescues generic type", "photo.png", "application/octet-stream", 16, pngHead, "image/png", false},
		{"sniffed type rescues unknown extension", "image.bin", "", 16, pngHead, "image/png", false},
		{"exactly at the cap", "big.txt", "text/plain", maxSize, []byte("a"), "text/plain", false},
		{"over the cap", "big.txt", "text/plain", maxSize + 1, []byte("a"), "", true},
		{"zip by extension", "bundle.zip", "application/octet-stream", 10, []byte("x"), "", true},
		{"zip by declared type", "bundle", "application/zip", 10, []byte("x"), "", true},
		{"zip disguised as text", "notes.txt", "text/plain", 10, zipHead, "", true},
		{"executable", "run.exe", "application/x-msdownload", 4, []byte("MZ\x90\x00"), "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := checkUpload(tc.file, tc.declared, tc.size, tc.head)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantType, got)
		})
	}
}

func TestNormalizeName(t *testing.T) {
	name, err := normalizeName("  Photos  ")
	require.NoError(t, err)
	assert.Equal(t, "Photos", name)

	_, err = normalizeName("   ")
	assert.ErrorIs(t, err, ErrValidation)
}
