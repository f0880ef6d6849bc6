package utils

import (
	"Go_Assets/config"
	"crypto/tls"
	"errors"
	"fmt"
	"html"
	"net/smtp"

	"github.com/jordan-wright/email"
)

var ErrSMTPNotConfigured = errors.New("smtp config missing")

// ShareMail describes a share notification.
type ShareMail struct {
	To         string
	SharerName string
	ItemName   string
	ItemType   string
}

// BuildShareMail renders the notification message.
func BuildShareMail(from string, m ShareMail) *email.Email {
	e := email.NewEmail()
	e.From = from
	e.To = []string{m.To}
	e.Subject = fmt.Sprintf("%s shared a %s with you", m.SharerName, m.ItemType)
	e.HTML = []byte(`
		<h2>New shared ` + html.EscapeString(m.ItemType) + `</h2>
		<p>` + html.EscapeString(m.SharerName) + ` shared <b>` + html.EscapeString(m.ItemName) + `</b> with you.</p>
		<a href="` + config.AppConfig.AppBaseURL + `/shared">Open shared items</a>
	`)
	return e
}

// SendShareMail sends a share notification.
func SendShareMail(m ShareMail) error {
	cfg := config.AppConfig
	if cfg.SMTPHost == "" || cfg.SMTPPort == "" || cfg.SMTPUser == "" || cfg.SMTPPass == "" || cfg.SMTPFrom == "" {
		return ErrSMTPNotConfigured
	}

	e := BuildShareMail(cfg.SMTPFrom, m)

	addr := cfg.SMTPHost + ":" + cfg.SMTPPort
	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	tlsConfig := &tls.Config{ServerName: cfg.SMTPHost}

	if cfg.SMTPTLS || cfg.SMTPPort == "465" {
		return e.SendWithTLS(addr, auth, tlsConfig)
	}
	if cfg.SMTPStartTLS {
		return e.SendWithStartTLS(addr, auth, tlsConfig)
	}
	return e.Send(addr, auth)
}
