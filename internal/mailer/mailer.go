package mailer

import (
	"context"
	"fmt"

	mailjet "github.com/mailjet/mailjet-apiv3-go/v4"
)

// Message is a single outbound email.
type Message struct {
	To       string
	ToName   string
	Subject  string
	TextBody string
}

// Mailer dispatches outbound email. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Client sends mail through the Mailjet v3.1 API.
type Client struct {
	mj   *mailjet.Client
	from string
}

// New builds a Mailjet-backed mailer. When no API credentials are
// configured it returns a disabled mailer so callers need no nil checks.
func New(apiKey, secretKey, from string) Mailer {
	if apiKey == "" || secretKey == "" {
		return Disabled{}
	}
	return &Client{
		mj:   mailjet.NewMailjetClient(apiKey, secretKey),
		from: from,
	}
}

func (c *Client) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("mailer: missing recipient")
	}

	payload := mailjet.MessagesV31{
		Info: []mailjet.InfoMessagesV31{{
			From: &mailjet.RecipientV31{
				Email: c.from,
				Name:  "PropFinder",
			},
			To: &mailjet.RecipientsV31{{
				Email: msg.To,
				Name:  msg.ToName,
			}},
			Subject:  msg.Subject,
			TextPart: msg.TextBody,
		}},
	}

	if _, err := c.mj.SendMailV31(&payload, mailjet.WithContext(ctx)); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", msg.To, err)
	}
	return nil
}

// Disabled is the no-op mailer used when the transport is not configured.
type Disabled struct{}

func (Disabled) Send(context.Context, Message) error { return nil }
