package entity

import (
	"time"
)

// Email Process Status
const (
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
	StatusSkipped   = "SKIPPED"
)

// Email represents a report email fetched from the mailbox
type Email struct {
	EmailID    string
	From       string
	To         string
	Subject    string
	Body       string
	HTMLBody   string
	ReceivedAt time.Time
	Labels     []string
}

// Text returns the body the extractor works on: plain text when present, otherwise the HTML part
func (e *Email) Text() string {
	if e.Body != "" {
		return e.Body
	}
	return e.HTMLBody
}

// EmailLog records what happened to a mailbox message
type EmailLog struct {
	EmailID       string                 `bson:"emailId"`
	Subject       string                 `bson:"subject"`
	ReceivedAt    time.Time              `bson:"receivedAt"`
	ProcessedAt   time.Time              `bson:"processedAt"`
	ProcessStatus string                 `bson:"processStatus"`
	ErrorDetail   string                 `bson:"errorDetail,omitempty"`
	ExtractedData map[string]interface{} `bson:"extractedData,omitempty"`
}
