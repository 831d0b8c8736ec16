package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// EventMirrorSplitState se publica cuando Culqi confirmó una escritura pero el espejo local no pudo guardarla
const EventMirrorSplitState = "culqi/mirror.split_state"

// reportSplitState registra el estado dividido y lo publica. No intenta repararlo.
func reportSplitState(ctx context.Context, logger *logrus.Logger, events EventPublisher, op, gatewayID string, userID uuid.UUID, cause error) error {
	logger.WithFields(logrus.Fields{
		"operation":  op,
		"gateway_id": gatewayID,
		"user_id":    userID,
		"error":      cause,
	}).Error("Gateway write succeeded but local mirror write failed")

	if events != nil {
		data := map[string]interface{}{
			"operation":  op,
			"gateway_id": gatewayID,
			"user_id":    userID.String(),
			"error":      cause.Error(),
		}
		if err := events.Publish(context.WithoutCancel(ctx), EventMirrorSplitState, data); err != nil {
			logger.WithError(err).Warn("Could not publish split state event")
		}
	}

	return fmt.Errorf("%w: %s %s succeeded in gateway but local mirror was not updated: %w", ErrInternal, op, gatewayID, cause)
}
