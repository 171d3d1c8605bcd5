package mailer

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"event-booking/services/notification/internal/entity"

	"github.com/wneessen/go-mail"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	Encryption string

	// Gmail XOAUTH2. When all three are set the refresh token is traded for
	// access tokens and Password is ignored.
	ClientID     string
	ClientSecret string
	RefreshToken string
}

func (c SMTPConfig) usesOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

type SMTPTransport struct {
	config SMTPConfig

	mu     sync.Mutex
	tokens oauth2.TokenSource
}

func NewSMTPTransport(config SMTPConfig) *SMTPTransport {
	return &SMTPTransport{config: config}
}

func (t *SMTPTransport) Send(ctx context.Context, email *entity.Email) (string, error) {
	m, err := buildMessage(email)
	if err != nil {
		return "", err
	}

	policy, implicitTLS := tlsFromEncryption(t.config.Encryption)
	opts := []mail.Option{
		mail.WithPort(t.config.Port),
		mail.WithUsername(t.config.Username),
		mail.WithTLSPolicy(policy),
	}
	if implicitTLS {
		opts = append(opts, mail.WithSSL())
	}
	if t.config.usesOAuth() {
		token, err := t.accessToken(ctx)
		if err != nil {
			return "", err
		}
		opts = append(opts, mail.WithSMTPAuth(mail.SMTPAuthXOAUTH2), mail.WithPassword(token))
	} else {
		opts = append(opts, mail.WithSMTPAuth(mail.SMTPAuthPlain), mail.WithPassword(t.config.Password))
	}

	c, err := mail.NewClient(t.config.Host, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return "", err
	}
	return fmt.Sprintf("250 accepted %s", m.GetMessageID()), nil
}

func (t *SMTPTransport) accessToken(ctx context.Context) (string, error) {
	t.mu.Lock()
	if t.tokens == nil {
		cfg := &oauth2.Config{
			ClientID:     t.config.ClientID,
			ClientSecret: t.config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"https://mail.google.com/"},
		}
		t.tokens = oauth2.ReuseTokenSource(nil, cfg.TokenSource(context.Background(), &oauth2.Token{RefreshToken: t.config.RefreshToken}))
	}
	ts := t.tokens
	t.mu.Unlock()

	token, err := ts.Token()
	if err != nil {
		return "", fmt.Errorf("failed to refresh mail access token: %w", err)
	}
	return token.AccessToken, nil
}

// buildMessage converts email into a MIME message. Inline images are
// embedded as related parts and their data URLs rewritten to cid references.
func buildMessage(email *entity.Email) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(email.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(email.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", email.To, err)
	}
	m.Subject(email.Subject)
	m.SetMessageID()

	html := email.HTML
	for _, img := range email.Inline {
		if img.DataURL != "" {
			html = strings.ReplaceAll(html, img.DataURL, "cid:"+img.ContentID)
		}
		err := m.EmbedReader(img.Filename, bytes.NewReader(img.Data),
			mail.WithFileContentID(img.ContentID),
			mail.WithFileContentType(mail.ContentType(img.ContentType)),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to embed %s: %w", img.Filename, err)
		}
	}

	switch {
	case email.Text != "" && html != "":
		m.SetBodyString(mail.TypeTextPlain, email.Text)
		m.AddAlternativeString(mail.TypeTextHTML, html)
	case html != "":
		m.SetBodyString(mail.TypeTextHTML, html)
	default:
		m.SetBodyString(mail.TypeTextPlain, email.Text)
	}

	return m, nil
}

// tlsFromEncryption maps the configured encryption to a STARTTLS policy and
// whether the connection is TLS from the first byte (SMTPS, usually port 465).
func tlsFromEncryption(enc string) (policy mail.TLSPolicy, implicitTLS bool) {
	switch enc {
	case "ssl_tls":
		return mail.TLSMandatory, true
	case "starttls":
		return mail.TLSOpportunistic, false
	default:
		return mail.NoTLS, false
	}
}
