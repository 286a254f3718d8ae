// AngelaMos | 2026
// notifier.go

package notify

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

const (
	KindVerifyEmail   = "verify_email"
	KindPasswordReset = "password_reset"
)

// Message is the payload handed to the mail delivery pipeline. Link carries
// the plaintext one-time token; it is never persisted on this side.
type Message struct {
	Kind     string    `json:"kind"`
	Email    string    `json:"email"`
	Link     string    `json:"link"`
	IssuedAt time.Time `json:"issued_at"`
}

type linkBuilder struct {
	base string
}

func newLinkBuilder(frontendURL string) linkBuilder {
	return linkBuilder{base: strings.TrimRight(frontendURL, "/")}
}

func (b linkBuilder) build(kind, token string) string {
	path := "/verify-email"
	if kind == KindPasswordReset {
		path = "/reset-password"
	}
	return b.base + path + "?" + url.Values{"token": {token}}.Encode()
}

// LogNotifier only records that a notification was requested. Used when no
// broker is configured.
type LogNotifier struct {
	links  linkBuilder
	logger *slog.Logger
}

func NewLogNotifier(frontendURL string, logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{links: newLinkBuilder(frontendURL), logger: logger}
}

func (n *LogNotifier) SendVerificationEmail(ctx context.Context, email, token string) error {
	return n.send(ctx, KindVerifyEmail, email, token)
}

func (n *LogNotifier) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	return n.send(ctx, KindPasswordReset, email, token)
}

func (n *LogNotifier) send(ctx context.Context, kind, email, token string) error {
	n.logger.InfoContext(ctx, "notification not delivered, no broker configured",
		"kind", kind,
		"email", email,
	)
	n.logger.DebugContext(ctx, "notification link", "kind", kind, "link", n.links.build(kind, token))
	return nil
}
