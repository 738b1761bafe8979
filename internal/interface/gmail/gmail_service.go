package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"logbook-creator/internal/domain/entity"
	"logbook-creator/pkg/logger"
	"logbook-creator/pkg/utils"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const userID = "me"

// GmailService handles interaction with the Gmail API
type GmailService struct {
	gmailService *gmail.Service
	logger       logger.Logger
}

// NewGmailService creates a new Gmail service
func NewGmailService(ctx context.Context, tokenSource oauth2.TokenSource, logger logger.Logger, opts ...option.ClientOption) (*GmailService, error) {
	opts = append([]option.ClientOption{option.WithTokenSource(tokenSource)}, opts...)
	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &GmailService{
		gmailService: service,
		logger:       logger,
	}, nil
}

// ListMessages returns the IDs of every message in the folder, following pagination
func (s *GmailService) ListMessages(ctx context.Context, folder string) ([]string, error) {
	var ids []string

	err := s.gmailService.Users.Messages.List(userID).LabelIds(folder).Pages(ctx, func(resp *gmail.ListMessagesResponse) error {
		for _, msg := range resp.Messages {
			ids = append(ids, msg.Id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list messages in %s: %w", folder, err)
	}

	s.logger.Info("Listed messages", "folder", folder, "count", len(ids))
	return ids, nil
}

// GetEmail fetches a full message and converts it to our domain entity
func (s *GmailService) GetEmail(ctx context.Context, id string) (*entity.Email, error) {
	msg, err := s.gmailService.Users.Messages.Get(userID, id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}

	return convertToEmail(msg, s.logger)
}

// Trash moves a message to the trash
func (s *GmailService) Trash(ctx context.Context, id string) error {
	if _, err := s.gmailService.Users.Messages.Trash(userID, id).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to trash message %s: %w", id, err)
	}

	s.logger.Info("Moved email to trash", "emailID", id)
	return nil
}

// convertToEmail converts a Gmail message to our domain entity
func convertToEmail(msg *gmail.Message, log logger.Logger) (*entity.Email, error) {
	email := &entity.Email{
		EmailID:    msg.Id,
		Labels:     msg.LabelIds,
		ReceivedAt: time.UnixMilli(msg.InternalDate).UTC(),
	}

	if msg.Payload == nil {
		return email, nil
	}

	// Extract header information
	for _, header := range msg.Payload.Headers {
		switch header.Name {
		case "From":
			email.From = header.Value
		case "To":
			email.To = header.Value
		case "Subject":
			email.Subject = header.Value
		}
	}

	if len(msg.Payload.Parts) == 0 {
		data, err := decodeBody(msg.Payload.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode body of %s: %w", msg.Id, err)
		}
		if strings.HasPrefix(msg.Payload.MimeType, "text/html") {
			email.HTMLBody = utils.CleanHTMLText(data)
		} else {
			email.Body = data
		}
		return email, nil
	}

	// Handle multipart messages: first text/plain wins, first text/html is the fallback
	var decodeErr error
	for _, mimeType := range []string{"text/plain", "text/html"} {
		part := findPart(msg.Payload.Parts, mimeType)
		if part == nil {
			continue
		}

		data, err := decodeBody(part.Body)
		if err != nil {
			log.Warn("Failed to decode message part", "emailID", msg.Id, "mimeType", mimeType, "error", err)
			decodeErr = errors.Join(decodeErr, fmt.Errorf("%s part: %w", mimeType, err))
			continue
		}

		if mimeType == "text/plain" {
			email.Body = data
		} else {
			email.HTMLBody = utils.CleanHTMLText(data)
		}
	}

	// Nothing usable when every text part was undecodable
	if decodeErr != nil && email.Body == "" && email.HTMLBody == "" {
		return nil, fmt.Errorf("failed to decode body of %s: %w", msg.Id, decodeErr)
	}

	return email, nil
}

// findPart walks nested multiparts depth-first
func findPart(parts []*gmail.MessagePart, mimeType string) *gmail.MessagePart {
	for _, part := range parts {
		if part.MimeType == mimeType && part.Filename == "" && part.Body != nil && part.Body.Data != "" {
			return part
		}
		if found := findPart(part.Parts, mimeType); found != nil {
			return found
		}
	}
	return nil
}

// decodeBody accepts base64url with or without padding
func decodeBody(body *gmail.MessagePartBody) (string, error) {
	if body == nil || body.Data == "" {
		return "", nil
	}
	data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(body.Data, "="))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
