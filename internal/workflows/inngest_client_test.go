package workflows

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/hypernova-labs/autolavado-service/internal/config"
	"github.com/inngest/inngestgo"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	events []inngestgo.Event
	err    error
}

func (s *recordingSender) Send(_ context.Context, evt any) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.events = append(s.events, evt.(inngestgo.Event))
	return "01HEVENT", nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestPublish(t *testing.T) {
	sender := &recordingSender{}
	client := newInngestClient(sender, testLogger())

	err := client.Publish(context.Background(), "culqi/mirror.split_state", map[string]interface{}{
		"gateway_id": "cus_1",
	})
	require.NoError(t, err)

	require.Len(t, sender.events, 1)
	assert.Equal(t, "culqi/mirror.split_state", sender.events[0].Name)
	assert.Equal(t, "cus_1", sender.events[0].Data["gateway_id"])
}

func TestPublish_WrapsSendError(t *testing.T) {
	cause := errors.New("401 unauthorized")
	client := newInngestClient(&recordingSender{err: cause}, testLogger())

	err := client.Publish(context.Background(), "reclamo/responded", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "reclamo/responded")
}

func TestNewInngestClient_RequiresKeys(t *testing.T) {
	cfg := &config.Config{Inngest: config.InngestConfig{AppID: "autolavado-service"}}

	_, err := NewInngestClient(cfg, testLogger())
	assert.Error(t, err)

	cfg.Inngest.EventKey = "evt"
	cfg.Inngest.Dev = false
	_, err = NewInngestClient(cfg, testLogger())
	assert.Error(t, err)
}
