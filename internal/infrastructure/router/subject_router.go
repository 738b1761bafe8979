package router

import (
	"logbook-creator/internal/usecase"
	"logbook-creator/pkg/logger"
)

// SubjectRouter dispatches emails to handlers in registration order
type SubjectRouter struct {
	handlers []usecase.TemplateHandler
	logger   logger.Logger
}

// NewSubjectRouter creates a new subject router
func NewSubjectRouter(logger logger.Logger) *SubjectRouter {
	return &SubjectRouter{
		handlers: make([]usecase.TemplateHandler, 0),
		logger:   logger,
	}
}

// Register appends a handler. Earlier handlers take precedence.
func (r *SubjectRouter) Register(handler usecase.TemplateHandler) {
	r.handlers = append(r.handlers, handler)
	r.logger.Info("Registered handler", "handler", handler.Name(), "position", len(r.handlers))
}

// GetHandler returns the first handler accepting subject, nil when none does
func (r *SubjectRouter) GetHandler(subject string) usecase.TemplateHandler {
	for _, handler := range r.handlers {
		if handler.CanHandle(subject) {
			return handler
		}
	}

	r.logger.Debug("No handler for subject", "subject", subject, "handlers", len(r.handlers))
	return nil
}
