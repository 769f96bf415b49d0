package consumer

import (
	"context"
	"encoding/json"

	"go-empower/internal/bootstrap"
	"go-empower/internal/events"
	"go-empower/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const EmployeeLifecycleGroupID = "go-empower-employee-audit"

// MessageReader is the subset of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

var auditActions = map[string]string{
	events.EmployeeCreated: "EMPLOYEE_CREATED",
	events.EmployeeUpdated: "EMPLOYEE_UPDATED",
	events.EmployeeDeleted: "EMPLOYEE_DELETED",
}

// ConsumeEmployeeLifecycle turns lifecycle events into audit entries until
// ctx is cancelled. Undecodable messages are committed and skipped.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	auditLogger bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.EmployeeLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee lifecycle event failed", zap.Error(err))
			commit(ctx, reader, msg, log)
			continue
		}

		action, ok := auditActions[event.EventType]
		if !ok {
			log.Warn("unknown employee lifecycle event, skipping", zap.String("event_type", event.EventType))
			commit(ctx, reader, msg, log)
			continue
		}

		auditLogger.Log(contextutil.WithRequestID(ctx, event.RequestID), bootstrap.AuditLog{
			Action:  action,
			Message: "employee " + event.EmployeeID + " " + event.EventType,
			Meta: map[string]any{
				"employee_id": event.EmployeeID,
				"department":  event.Department,
				"status":      event.Status,
				"occurred_at": event.OccurredAt,
			},
		})

		commit(ctx, reader, msg, log)
	}
}

func commit(ctx context.Context, reader MessageReader, msg kafkago.Message, log *zap.Logger) {
	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit employee lifecycle message failed",
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
	}
}
