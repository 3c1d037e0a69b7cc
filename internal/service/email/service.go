// internal/service/email/service.go
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"
)

const dialTimeout = 15 * time.Second

// EmailSender delivers HTML mail through one SMTP account.
type EmailSender struct {
	smtpHost string
	smtpPort string
	username string
	password string
	fromName string
	secure   bool
}

// NewEmailSender creates a sender. secure selects implicit TLS (port 465);
// otherwise the connection is upgraded with STARTTLS when the server offers it.
func NewEmailSender(host, port, user, pass, fromName string, secure bool) *EmailSender {
	return &EmailSender{
		smtpHost: host,
		smtpPort: port,
		username: user,
		password: pass,
		fromName: fromName,
		secure:   secure,
	}
}

// Configured reports whether an SMTP host and account were provided.
func (e *EmailSender) Configured() bool {
	return e != nil && e.smtpHost != "" && e.username != ""
}

// Send delivers one message. bodyHTML is placed inside the Lead Desk layout.
func (e *EmailSender) Send(to, subject, bodyHTML string) error {
	if !e.Configured() {
		return fmt.Errorf("smtp is not configured")
	}

	msg, err := e.buildMessage(to, subject, bodyHTML)
	if err != nil {
		return err
	}

	client, err := e.dial()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Auth(smtp.PlainAuth("", e.username, e.password, e.smtpHost)); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(e.username); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp RCPT TO: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return client.Quit()
}

func (e *EmailSender) dial() (*smtp.Client, error) {
	addr := net.JoinHostPort(e.smtpHost, e.smtpPort)
	tlsConfig := &tls.Config{ServerName: e.smtpHost, MinVersion: tls.VersionTLS12}
	dialer := &net.Dialer{Timeout: dialTimeout}

	if e.secure {
		conn, err := tls.DialWithDialer(dialer, "tcp", addr, tlsConfig)
		if err != nil {
			return nil, fmt.Errorf("smtp tls dial: %w", err)
		}
		client, err := smtp.NewClient(conn, e.smtpHost)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("smtp client: %w", err)
		}
		return client, nil
	}

	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("smtp dial: %w", err)
	}
	client, err := smtp.NewClient(conn, e.smtpHost)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return nil, fmt.Errorf("smtp starttls: %w", err)
		}
	}
	return client, nil
}

// buildMessage renders headers and the HTML body into an RFC 5322 message.
func (e *EmailSender) buildMessage(to, subject, bodyHTML string) ([]byte, error) {
	body, err := renderLayout(subject, bodyHTML)
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", e.fromName), e.username)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.Bytes(), nil
}

var layout = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8" />
	<title>{{.Title}}</title>
	<style>
		body { font-family: Arial, sans-serif; background-color: #f4f6f8; padding: 24px; }
		.card { max-width: 600px; margin: auto; background: #fff; border-radius: 8px; overflow: hidden; }
		.top { background: #1f4e79; color: #fff; padding: 18px; font-size: 20px; font-weight: bold; }
		.content { padding: 24px; color: #333; line-height: 1.6; }
		.bottom { background: #eef1f4; color: #666; padding: 12px; font-size: 12px; text-align: center; }
	</style>
</head>
<body>
<div class="card">
	<div class="top">Lead Desk</div>
	<div class="content">{{.Body}}</div>
	<div class="bottom">Sent automatically by Lead Desk. Please do not reply.</div>
</div>
</body>
</html>
`))

// renderLayout wraps trusted HTML produced by the auth e-mail helpers.
func renderLayout(title, content string) (string, error) {
	var b strings.Builder
	err := layout.Execute(&b, struct {
		Title string
		Body  template.HTML
	}{title, template.HTML(strings.TrimSpace(content))})
	if err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return b.String(), nil
}
