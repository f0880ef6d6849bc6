package utils

import (
	"Go_Assets/config"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildShareMailEscapesNames(t *testing.T) {
	config.AppConfig.AppBaseURL = "https://assets.example.com"
	e := BuildShareMail("noreply@example.com", ShareMail{
		To:         "bob@example.com",
		SharerName: "Alice",
		ItemName:   "<script>x</script>",
		ItemType:   "folder",
	})
	assert.Equal(t, []string{"bob@example.com"}, e.To)
	assert.Equal(t, "Alice shared a folder with you", e.Subject)
	body := string(e.HTML)
	assert.Contains(t, body, "&lt;script&gt;x&lt;/script&gt;")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "https://assets.example.com/shared")
}

func TestSendShareMailNeedsSMTP(t *testing.T) {
	config.AppConfig.SMTPHost = ""
	assert.ErrorIs(t, SendShareMail(ShareMail{To: "bob@example.com"}), ErrSMTPNotConfigured)
}
