// Package notifications is the share-notification collaborator boundary. The
// sharing manager hands a notifier the item and recipient after a grant
// commits; delivery failures never roll the grant back.
package notifications

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"text/template"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/scribe/pkg/models"
)

// Notifier delivers a share notification to a newly added editor.
type Notifier interface {
	SendShareLink(ctx context.Context, item *models.Item, recipient string) error
}

var shareTmpl = template.Must(template.New("share").Parse(
	`{{.Owner}} shared "{{.Title}}" with you.

Open it here: {{.BaseURL}}/items/{{.ID}}
`))

type shareData struct {
	Owner   string
	Title   string
	ID      string
	BaseURL string
}

func renderShare(item *models.Item, baseURL string) (string, error) {
	var b strings.Builder
	err := shareTmpl.Execute(&b, shareData{
		Owner:   item.OwnerEmail(),
		Title:   item.Title,
		ID:      item.ID,
		BaseURL: strings.TrimSuffix(baseURL, "/"),
	})
	return b.String(), err
}

// LogNotifier writes share notifications to the application log. It is the
// default backend for dev servers and tests.
type LogNotifier struct {
	BaseURL string
	Log     hclog.Logger
}

func (n *LogNotifier) SendShareLink(
	ctx context.Context, item *models.Item, recipient string,
) error {
	msg, err := renderShare(item, n.BaseURL)
	if err != nil {
		return fmt.Errorf("error rendering notification: %w", err)
	}
	n.Log.Info("share notification",
		"item_id", item.ID,
		"recipient", recipient,
		"message", msg,
	)
	return nil
}

// SMTPNotifier delivers share notifications by email.
type SMTPNotifier struct {
	Addr    string
	From    string
	BaseURL string
}

func (n *SMTPNotifier) SendShareLink(
	ctx context.Context, item *models.Item, recipient string,
) error {
	body, err := renderShare(item, n.BaseURL)
	if err != nil {
		return fmt.Errorf("error rendering notification: %w", err)
	}
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s shared %q with you\r\n\r\n%s",
		n.From, recipient, item.OwnerEmail(), item.Title, body)
	if err := smtp.SendMail(
		n.Addr, nil, n.From, []string{recipient}, []byte(msg),
	); err != nil {
		return fmt.Errorf("error sending notification mail: %w", err)
	}
	return nil
}
