package usecase

import (
	"context"

	"logbook-creator/internal/domain/entity"
)

// TemplateHandler turns one kind of email into flight records
type TemplateHandler interface {
	// Name identifies the handler in logs and the email log
	Name() string

	// CanHandle reports whether the email subject belongs to this handler
	CanHandle(subject string) bool

	// Process extracts the flights carried by the email. An email with no
	// complete leg yields an empty slice, not an error.
	Process(ctx context.Context, email *entity.Email) ([]entity.FlightRecord, error)
}

// SubjectRouter picks the handler for an email subject
type SubjectRouter interface {
	Register(handler TemplateHandler)

	// GetHandler returns nil when no handler accepts the subject
	GetHandler(subject string) TemplateHandler
}
