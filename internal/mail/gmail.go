package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"
	"time"

	"salon-backend/internal/googleauth"
)

const (
	gmailSendURL = "https://gmail.googleapis.com/gmail/v1/users/me/messages/send"

	// GmailScope is the only Gmail permission the sender needs
	GmailScope = "https://www.googleapis.com/auth/gmail.send"
)

// Sender delivers booking notifications over the Gmail API. The service
// account must have domain-wide delegation and impersonate the salon's
// notification address.
type Sender struct {
	tokens *googleauth.TokenSource
	from   string
	client *http.Client
}

func NewSender(tokens *googleauth.TokenSource, from string) *Sender {
	return &Sender{
		tokens: tokens,
		from:   from,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Send delivers a plain-text email. Body is UTF-8; the subject is
// RFC 2047-encoded so non-ASCII salon and client names survive transit.
func (s *Sender) Send(ctx context.Context, to, subject, body string) error {
	var msg strings.Builder
	msg.WriteString("From: " + s.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	payload, err := json.Marshal(map[string]string{
		"raw": base64.URLEncoding.EncodeToString([]byte(msg.String())),
	})
	if err != nil {
		return err
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("gmail token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gmailSendURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("gmail send: status %d: %s", resp.StatusCode, string(data))
	}

	log.Printf("[Mail] Sent %q to %s", subject, to)
	return nil
}
