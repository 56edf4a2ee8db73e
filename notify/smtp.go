package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eastafricavision9-cell/eavicollageapply-sub001/config"
	"github.com/eastafricavision9-cell/eavicollageapply-sub001/errors"
)

// SMTPMailer delivers messages through a plain SMTP relay. Messages are
// assembled as multipart/mixed MIME with the letter attached.
type SMTPMailer struct {
	cfg config.MailConfig
	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer creates a mailer for the configured relay.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

// Send delivers the message. The returned id is the generated Message-ID
// header value. No timeout is imposed here; callers run delivery off the
// scheduler's timer-management path.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) (string, error) {
	if msg.To == "" {
		return "", errors.Wrap(errors.ErrTransport, "message has no recipient")
	}
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(errors.ErrTransport, err.Error())
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), m.cfg.Host)
	raw := buildMIME(m.cfg.From, messageID, msg)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := m.send(addr, auth, m.cfg.From, []string{msg.To}, raw); err != nil {
		return "", errors.Wrap(errors.Wrap(errors.ErrTransport, err.Error()), "smtp send")
	}

	return messageID, nil
}

// buildMIME assembles a multipart/mixed message with an HTML body part and
// an optional base64-encoded attachment.
func buildMIME(from, messageID string, msg Message) []byte {
	boundary := strings.ReplaceAll(uuid.NewString(), "-", "")

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "Message-ID: %s\r\n", messageID)
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n", boundary)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	buf.WriteString(msg.HTMLBody)
	buf.WriteString("\r\n")

	if att := msg.Attachment; att != nil {
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Type: %s; name=%q\r\n", att.MIMEType, att.Filename)
		fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n", att.Filename)
		buf.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")

		encoded := base64.StdEncoding.EncodeToString(att.Bytes)
		// Wrap base64 at 76 characters per RFC 2045.
		for len(encoded) > 76 {
			buf.WriteString(encoded[:76])
			buf.WriteString("\r\n")
			encoded = encoded[76:]
		}
		buf.WriteString(encoded)
		buf.WriteString("\r\n")
	}

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	return buf.Bytes()
}
