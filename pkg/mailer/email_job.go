package mailer

import "github.com/oksasatya/go-ddd-task-manager/pkg/mailer/templates"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (+Data) or Subject with Text/HTML is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// NewWelcomeJob builds the job sent after a successful sign-up.
func NewWelcomeJob(to, name, appName string) EmailJob {
	return EmailJob{
		To:       to,
		Template: templates.Welcome,
		Data:     map[string]any{"Name": name, "AppName": appName, "Email": to},
	}
}

// Resolve renders the job's template, or returns its literal content when no template is named.
func (j EmailJob) Resolve() (templates.Message, error) {
	if j.Template == "" {
		return templates.Message{Subject: j.Subject, Text: j.Text, HTML: j.HTML}, nil
	}
	return templates.Render(j.Template, j.Data)
}
