package services

import (
	"context"
	"fmt"
	"strings"

	types "github.com/daftaros/daftar-backend/internal/domain"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
	"github.com/daftaros/daftar-backend/internal/platform/sendgrid"
)

// Mailer is the asynchronous mail channel of the fan-out.
type Mailer interface {
	Notify(ctx context.Context, record *types.Notification, recipients []types.Stakeholder) error
}

type sendgridMailer struct {
	log    *logger.Logger
	client sendgrid.Client
}

func NewSendgridMailer(log *logger.Logger, client sendgrid.Client) Mailer {
	return &sendgridMailer{
		log:    log.With("service", "SendgridMailer"),
		client: client,
	}
}

func (m *sendgridMailer) Notify(ctx context.Context, record *types.Notification, recipients []types.Stakeholder) error {
	if m == nil || m.client == nil || record == nil {
		return nil
	}

	to := make([]sendgrid.EmailAddress, 0, len(recipients))
	for _, sh := range recipients {
		if strings.TrimSpace(sh.Email) == "" {
			continue
		}
		to = append(to, sendgrid.EmailAddress{Email: sh.Email})
	}
	if len(to) == 0 {
		return nil
	}

	subject := mailSubject(record)
	body := record.Description
	if body == "" {
		body = subject
	}

	_, err := m.client.Send(ctx, sendgrid.SendEmailRequest{
		To:         to,
		Subject:    subject,
		Text:       body,
		Categories: []string{"notification", record.Category},
	})
	return err
}

func mailSubject(record *types.Notification) string {
	label := strings.ReplaceAll(record.Type, "_", " ")
	switch record.Category {
	case types.NotificationCategoryAlert:
		return fmt.Sprintf("Alert: %s", label)
	case types.NotificationCategoryRequest:
		return fmt.Sprintf("Action needed: %s", label)
	default:
		return fmt.Sprintf("Update: %s", label)
	}
}
