package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type captureLogger struct {
	messages []string
}

func (c *captureLogger) Log(level, message string, metadata map[string]interface{}) {
	c.messages = append(c.messages, level+" "+message)
}

func TestLoggerFromContext_FallsBackToNoOp(t *testing.T) {
	logger := LoggerFromContext(context.Background())

	assert.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Log(LevelInfo, "ignored", nil) })
}

func TestWithLogger_RoundTrip(t *testing.T) {
	capture := &captureLogger{}
	ctx := WithLogger(context.Background(), capture)

	LoggerFromContext(ctx).Log(LevelWarn, "unit skipped", nil)

	assert.Equal(t, []string{"WARN unit skipped"}, capture.messages)
}

func TestTee_FansOut(t *testing.T) {
	a, b := &captureLogger{}, &captureLogger{}

	Tee(a, nil, b).Log(LevelError, "drive failed", map[string]interface{}{"unit": "u1"})

	assert.Equal(t, []string{"ERROR drive failed"}, a.messages)
	assert.Equal(t, []string{"ERROR drive failed"}, b.messages)
}
