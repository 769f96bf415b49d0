package bootstrap_test

import (
	"context"
	"testing"

	"go-empower/internal/bootstrap"
	"go-empower/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStdoutAuditLogger_Log(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	auditLogger := bootstrap.NewStdoutAuditLogger(zap.New(core))

	ctx := contextutil.WithRequestID(context.Background(), "rid-42")
	auditLogger.Log(ctx, bootstrap.AuditLog{
		Action:  "EMPLOYEE_DELETED",
		Message: "employee removed",
		Meta:    map[string]any{"employee_id": "e-1"},
	})

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "audit", entries[0].LoggerName)

	fields := entries[0].ContextMap()
	assert.Equal(t, "EMPLOYEE_DELETED", fields["action"])
	assert.Equal(t, "rid-42", fields["request_id"])
}
