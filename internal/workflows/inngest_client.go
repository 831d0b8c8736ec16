package workflows

import (
	"context"
	"fmt"

	"github.com/hypernova-labs/autolavado-service/internal/config"
	"github.com/inngest/inngestgo"
	"github.com/sirupsen/logrus"
)

// eventSender es la parte de inngestgo.Client que usa el publicador
type eventSender interface {
	Send(ctx context.Context, evt any) (string, error)
}

// InngestClient publica eventos de dominio en Inngest
type InngestClient struct {
	client eventSender
	logger *logrus.Logger
}

// NewInngestClient crea una nueva instancia del cliente.
// Fuera de modo dev exige también la signing key.
func NewInngestClient(cfg *config.Config, logger *logrus.Logger) (*InngestClient, error) {
	if cfg.Inngest.EventKey == "" {
		return nil, fmt.Errorf("INNGEST_EVENT_KEY not configured")
	}

	if cfg.Inngest.SigningKey == "" && !cfg.Inngest.Dev {
		return nil, fmt.Errorf("INNGEST_SIGNING_KEY not configured")
	}

	opts := inngestgo.ClientOpts{
		EventKey: &cfg.Inngest.EventKey,
		AppID:    cfg.Inngest.AppID,
	}
	if cfg.Inngest.SigningKey != "" {
		opts.SigningKey = &cfg.Inngest.SigningKey
	}

	client, err := inngestgo.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("error creating Inngest client: %w", err)
	}

	return newInngestClient(client, logger), nil
}

func newInngestClient(client eventSender, logger *logrus.Logger) *InngestClient {
	return &InngestClient{
		client: client,
		logger: logger,
	}
}

// Publish envía un evento. Los eventos son informativos; ninguna función de este servicio los consume.
func (c *InngestClient) Publish(ctx context.Context, name string, data map[string]interface{}) error {
	id, err := c.client.Send(ctx, inngestgo.Event{
		Name: name,
		Data: data,
	})
	if err != nil {
		return fmt.Errorf("error sending %s event: %w", name, err)
	}

	c.logger.WithFields(logrus.Fields{
		"event":    name,
		"event_id": id,
	}).Debug("Event published to Inngest")

	return nil
}
