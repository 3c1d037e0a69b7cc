// internal/service/auth/email.go
package auth

import (
	"fmt"
	"html"

	"go.uber.org/zap"
)

// Mailer delivers one HTML message.
type Mailer interface {
	Configured() bool
	Send(to, subject, bodyHTML string) error
}

// EmailHelper renders account emails and sends them off the request path.
type EmailHelper struct {
	sender  Mailer
	logger  *zap.Logger
	baseURL string
}

func NewEmailHelper(sender Mailer, logger *zap.Logger, baseURL string) *EmailHelper {
	return &EmailHelper{
		sender:  sender,
		logger:  logger,
		baseURL: baseURL,
	}
}

// AgentWelcomeEmail builds the message sent when an admin creates an agent.
func (h *EmailHelper) AgentWelcomeEmail(displayName, agentCode, email string) (string, string) {
	subject := "Your Lead Desk agent account"
	body := fmt.Sprintf(`
		<h2>Welcome, %s</h2>
		<p>An administrator has created a Lead Desk agent account for you.</p>
		<p><strong>Agent ID:</strong> %s<br/><strong>Login email:</strong> %s</p>
		<p>Ask your administrator for your initial password and change it after your first login.</p>
		<p><a class="button" href="%s">Open Lead Desk</a></p>
	`, html.EscapeString(displayName), html.EscapeString(agentCode), html.EscapeString(email), h.baseURL)

	return subject, body
}

// PasswordChangedEmail notifies a user that their password changed.
func (h *EmailHelper) PasswordChangedEmail(displayName string) (string, string) {
	subject := "Your Lead Desk password was changed"
	body := fmt.Sprintf(`
		<h2>Password changed</h2>
		<p>Hello %s,</p>
		<p>The password for your Lead Desk account was just changed.
		If you did not do this, contact your administrator immediately.</p>
	`, html.EscapeString(displayName))

	return subject, body
}

func (h *EmailHelper) SendAgentWelcome(email, displayName, agentCode string) {
	if h == nil {
		return
	}
	subject, body := h.AgentWelcomeEmail(displayName, agentCode, email)
	h.sendAsync("agent welcome", email, subject, body)
}

func (h *EmailHelper) SendPasswordChanged(email, displayName string) {
	if h == nil {
		return
	}
	subject, body := h.PasswordChangedEmail(displayName)
	h.sendAsync("password changed", email, subject, body)
}

func (h *EmailHelper) sendAsync(kind, to, subject, body string) {
	if h.sender == nil || !h.sender.Configured() {
		return
	}
	go func() {
		if err := h.sender.Send(to, subject, body); err != nil {
			h.logger.Error("failed to send email",
				zap.String("kind", kind),
				zap.String("email", to),
				zap.Error(err),
			)
			return
		}
		h.logger.Info("email sent",
			zap.String("kind", kind),
			zap.String("email", to),
		)
	}()
}
