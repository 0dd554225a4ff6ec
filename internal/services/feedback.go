package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SaveFeedback stores a feedback message and returns its id.
func SaveFeedback(db *sqlx.DB, name, email, message string) (string, error) {
	id := uuid.NewString()
	_, err := db.Exec(`
INSERT INTO feedback_messages (id, name, email, message, created_at)
VALUES ($1,$2,$3,$4,$5)
`, id, name, email, message, time.Now().UTC())
	if err != nil {
		return "", err
	}
	return id, nil
}

// FeedbackMailer forwards stored feedback to an operator inbox. Delivery is
// best-effort; a failure is logged and never surfaces to the submitter.
type FeedbackMailer struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

func (m FeedbackMailer) Enabled() bool {
	return m.Host != "" && m.From != "" && m.To != ""
}

func (m FeedbackMailer) Send(name, email, message string) {
	if !m.Enabled() {
		return
	}
	body := strings.Join([]string{
		"From: " + m.From,
		"To: " + m.To,
		"Subject: New feedback from " + name,
		"",
		"Name: " + name,
		"Email: " + email,
		"",
		message,
	}, "\r\n")
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Password, m.Host)
	}
	if err := smtp.SendMail(addr, auth, m.From, []string{m.To}, []byte(body)); err != nil {
		log.Printf("feedback mail: %v", err)
	}
}
