package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"

	"github.com/oksasatya/go-ddd-task-manager/pkg/mailer/templates"
)

const sendTimeout = 10 * time.Second

// Mailgun delivers rendered messages through the Mailgun HTTP API.
// The client is built once and reused for every send.
type Mailgun struct {
	client *mg.MailgunImpl
	Sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{client: mg.NewMailgun(domain, apiKey), Sender: sender}
}

// Send delivers msg to one recipient. The HTML part is attached only when present.
func (m *Mailgun) Send(ctx context.Context, to string, msg templates.Message) error {
	out := m.client.NewMessage(m.Sender, msg.Subject, msg.Text, to)
	if msg.HTML != "" {
		out.SetHtml(msg.HTML)
	}
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	_, _, err := m.client.Send(ctx, out)
	return err
}
