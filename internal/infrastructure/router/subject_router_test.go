package router

import (
	"context"
	"testing"

	"logbook-creator/internal/domain/entity"
	"logbook-creator/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type stubHandler struct {
	subject string
}

func (h *stubHandler) Name() string {
	return "stub_" + h.subject
}

func (h *stubHandler) CanHandle(subject string) bool {
	return subject == h.subject
}

func (h *stubHandler) Process(ctx context.Context, email *entity.Email) ([]entity.FlightRecord, error) {
	return nil, nil
}

func TestSubjectRouter(t *testing.T) {
	r := NewSubjectRouter(logger.NewNopLogger())
	first := &stubHandler{subject: "logbook"}
	second := &stubHandler{subject: "roster"}
	r.Register(first)
	r.Register(second)

	assert.Same(t, first, r.GetHandler("logbook"))
	assert.Same(t, second, r.GetHandler("roster"))
	assert.Nil(t, r.GetHandler("newsletter"))
}

func TestSubjectRouterFirstMatchWins(t *testing.T) {
	r := NewSubjectRouter(logger.NewNopLogger())
	first := &stubHandler{subject: "logbook"}
	r.Register(first)
	r.Register(&stubHandler{subject: "logbook"})

	assert.Same(t, first, r.GetHandler("logbook"))
}
