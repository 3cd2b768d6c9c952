package otellib

import (
	"context"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"testing"
)

func TestExtract__Without_Logger(t *testing.T) {
	logger := Extract(context.Background())
	assert.NotNil(t, logger)

	// must not panic
	logger.Info("message")
}

func TestWith__Add_Fields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	ctx := ToContext(context.Background(), zap.New(core))
	ctx = With(ctx, zap.Int64("campaign_id", 11))

	Extract(ctx).Info("reserved")

	entries := logs.All()
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, "reserved", entries[0].Message)
	assert.Equal(t, map[string]interface{}{
		"campaign_id": int64(11),
	}, entries[0].ContextMap())
}

func TestWith__Without_Logger(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, With(ctx, zap.String("key", "value")))
}
