package repository

import (
	"context"

	"logbook-creator/internal/domain/entity"
)

// MailboxRepository defines the operations on the report mailbox
type MailboxRepository interface {
	ListMessages(ctx context.Context, folder string) ([]string, error)
	GetEmail(ctx context.Context, id string) (*entity.Email, error)
	Trash(ctx context.Context, id string) error
}

// EmailLogRepository keeps a processing log of mailbox messages
type EmailLogRepository interface {
	MarkAsProcessed(ctx context.Context, email *entity.Email, status, errorDetail string, extractedData map[string]interface{}) error
	FindByEmailIDs(ctx context.Context, emailIDs []string) (map[string]*entity.EmailLog, error)
}
