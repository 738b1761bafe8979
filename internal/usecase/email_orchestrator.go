package usecase

import (
	"context"
	"fmt"
	"time"

	"logbook-creator/internal/domain/entity"
	"logbook-creator/internal/domain/repository"
	"logbook-creator/pkg/logger"
	"logbook-creator/pkg/metrics"
)

// RunSummary reports what one logbook run did
type RunSummary struct {
	MessagesListed    int
	AlreadyProcessed  int
	Routed            int
	EmailsWithFlights int
	FlightsExtracted  int
	EmailsTrashed     int
	Failed            int
	FlightsExported   int
	Duration          time.Duration
}

// OrchestratorOptions holds the mailbox behaviour of a run
type OrchestratorOptions struct {
	Folder         string
	TrashProcessed bool
}

// EmailOrchestrator moves flights from the mailbox into storage and the workbook
type EmailOrchestrator struct {
	mailbox   repository.MailboxRepository
	emailLogs repository.EmailLogRepository
	flights   repository.FlightRecordRepository
	workbook  repository.LogbookWriter
	router    SubjectRouter
	metrics   *metrics.Metrics
	options   OrchestratorOptions
	logger    logger.Logger
}

// NewEmailOrchestrator creates a new email orchestrator
func NewEmailOrchestrator(
	mailbox repository.MailboxRepository,
	emailLogs repository.EmailLogRepository,
	flights repository.FlightRecordRepository,
	workbook repository.LogbookWriter,
	router SubjectRouter,
	metrics *metrics.Metrics,
	options OrchestratorOptions,
	logger logger.Logger,
) *EmailOrchestrator {
	return &EmailOrchestrator{
		mailbox:   mailbox,
		emailLogs: emailLogs,
		flights:   flights,
		workbook:  workbook,
		router:    router,
		metrics:   metrics,
		options:   options,
		logger:    logger,
	}
}

type processedEmail struct {
	email   *entity.Email
	flights []entity.FlightRecord
}

// Run processes the inbox and then rebuilds the workbook from storage
func (o *EmailOrchestrator) Run(ctx context.Context) (*RunSummary, error) {
	start := time.Now()
	defer func() {
		o.metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	summary, err := o.ProcessInbox(ctx)
	if err != nil {
		return summary, err
	}

	exported, err := o.ExportLogbook(ctx)
	if err != nil {
		return summary, err
	}
	summary.FlightsExported = exported
	summary.Duration = time.Since(start)

	o.logger.Info("Logbook run finished",
		"messages", summary.MessagesListed,
		"routed", summary.Routed,
		"flights", summary.FlightsExtracted,
		"trashed", summary.EmailsTrashed,
		"exported", summary.FlightsExported,
		"failed", summary.Failed,
		"duration", summary.Duration)

	return summary, nil
}

// ProcessInbox extracts flights from every logbook email in the folder, persists
// them, and only then trashes the emails that yielded at least one flight.
func (o *EmailOrchestrator) ProcessInbox(ctx context.Context) (*RunSummary, error) {
	ids, err := o.mailbox.ListMessages(ctx, o.options.Folder)
	if err != nil {
		o.metrics.ErrorsCount.WithLabelValues("list_messages").Inc()
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	summary := &RunSummary{MessagesListed: len(ids)}
	o.logger.Info("Messages listed", "folder", o.options.Folder, "count", len(ids))

	completed := o.completedEmails(ctx, ids)

	var (
		processed []processedEmail
		all       []entity.FlightRecord
	)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if completed[id] {
			summary.AlreadyProcessed++
			continue
		}

		email, err := o.mailbox.GetEmail(ctx, id)
		if err != nil {
			o.logger.Error("Failed to fetch email", "emailID", id, "error", err)
			o.metrics.ErrorsCount.WithLabelValues("get_email").Inc()
			summary.Failed++
			continue
		}

		handler := o.router.GetHandler(email.Subject)
		if handler == nil {
			o.logger.Debug("No handler found for email",
				"subject", email.Subject,
				"emailID", email.EmailID)
			o.metrics.EmailsSkipped.Inc()
			continue
		}
		summary.Routed++

		o.logger.Info("Processing email with handler",
			"emailID", email.EmailID,
			"handler", handler.Name(),
			"subject", email.Subject)

		flights, err := handler.Process(ctx, email)
		if err != nil {
			o.logger.Error("Handler failed to process email",
				"emailID", email.EmailID,
				"handler", handler.Name(),
				"error", err)
			o.metrics.ErrorsCount.WithLabelValues("process_email").Inc()
			summary.Failed++
			o.markAsProcessed(ctx, email, entity.StatusFailed, err.Error(), nil)
			continue
		}
		o.metrics.EmailsProcessed.Inc()

		if len(flights) == 0 {
			o.logger.Info("No complete legs in email", "emailID", email.EmailID)
			o.markAsProcessed(ctx, email, entity.StatusSkipped, "no complete legs", nil)
			continue
		}

		summary.EmailsWithFlights++
		all = append(all, flights...)
		processed = append(processed, processedEmail{email: email, flights: flights})
	}

	summary.FlightsExtracted = len(all)
	o.metrics.FlightsExtracted.Add(float64(len(all)))

	if len(all) > 0 {
		if err := o.flights.SaveAll(ctx, all); err != nil {
			o.metrics.ErrorsCount.WithLabelValues("save_flights").Inc()
			return summary, fmt.Errorf("failed to persist flights: %w", err)
		}
		o.logger.Info("Flights persisted", "count", len(all))
	}

	for _, p := range processed {
		o.markAsProcessed(ctx, p.email, entity.StatusCompleted, "", extractedData(p.flights))

		if !o.options.TrashProcessed {
			continue
		}
		if err := o.mailbox.Trash(ctx, p.email.EmailID); err != nil {
			o.logger.Error("Failed to trash email", "emailID", p.email.EmailID, "error", err)
			o.metrics.ErrorsCount.WithLabelValues("trash_email").Inc()
			continue
		}
		summary.EmailsTrashed++
		o.metrics.EmailsTrashed.Inc()
	}

	return summary, nil
}

// ExportLogbook rebuilds the workbook from every stored flight in chronological order
func (o *EmailOrchestrator) ExportLogbook(ctx context.Context) (int, error) {
	records, err := o.flights.FindAll(ctx)
	if err != nil {
		o.metrics.ErrorsCount.WithLabelValues("find_flights").Inc()
		return 0, fmt.Errorf("failed to load flights: %w", err)
	}

	if err := entity.SortFlightRecords(records); err != nil {
		o.metrics.ErrorsCount.WithLabelValues("sort_flights").Inc()
		return 0, err
	}

	if err := o.workbook.Rebuild(records); err != nil {
		o.metrics.ErrorsCount.WithLabelValues("export_workbook").Inc()
		return 0, fmt.Errorf("failed to export logbook: %w", err)
	}

	return len(records), nil
}

// completedEmails returns the IDs already processed by an earlier run. Only
// relevant when processed emails stay in the folder.
func (o *EmailOrchestrator) completedEmails(ctx context.Context, ids []string) map[string]bool {
	completed := map[string]bool{}
	if o.options.TrashProcessed || len(ids) == 0 {
		return completed
	}

	logs, err := o.emailLogs.FindByEmailIDs(ctx, ids)
	if err != nil {
		o.logger.Warn("Failed to load email logs, processing every message", "error", err)
		return completed
	}

	for id, log := range logs {
		if log.ProcessStatus == entity.StatusCompleted {
			completed[id] = true
		}
	}
	return completed
}

func (o *EmailOrchestrator) markAsProcessed(ctx context.Context, email *entity.Email, status, errorDetail string, data map[string]interface{}) {
	if err := o.emailLogs.MarkAsProcessed(ctx, email, status, errorDetail, data); err != nil {
		o.logger.Warn("Failed to record email status",
			"emailID", email.EmailID,
			"status", status,
			"error", err)
	}
}

func extractedData(flights []entity.FlightRecord) map[string]interface{} {
	keys := make([]string, 0, len(flights))
	for _, flight := range flights {
		keys = append(keys, flight.FlightKey())
	}
	return map[string]interface{}{
		"flightCount": len(flights),
		"flights":     keys,
	}
}
