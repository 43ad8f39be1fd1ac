package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLogrusAdapter_InvalidLevelFallsBackToInfo(t *testing.T) {
	logger := NewLogrusAdapter("nonsense", "text")
	adapter, ok := logger.(*LogrusAdapter)
	assert.True(t, ok)
	assert.Equal(t, logrus.InfoLevel, adapter.logger.GetLevel())
}

func TestLogrusAdapter_FieldsAppearInOutput(t *testing.T) {
	underlying := logrus.New()
	var buf bytes.Buffer
	underlying.SetOutput(&buf)
	underlying.SetFormatter(&logrus.JSONFormatter{})

	logger := NewLogrusAdapterFromLogger(underlying)
	logger.Info("merged transaction", F(FieldJournalRef, "AB1234"), F(FieldSheet, "Archery"))

	out := buf.String()
	assert.Contains(t, out, "merged transaction")
	assert.Contains(t, out, "AB1234")
	assert.Contains(t, out, "Archery")
}

func TestLogrusAdapter_WithErrorAndFields(t *testing.T) {
	underlying := logrus.New()
	var buf bytes.Buffer
	underlying.SetOutput(&buf)

	logger := NewLogrusAdapterFromLogger(underlying)
	logger.WithError(errors.New("boom")).WithField("row", 7).Warn("row skipped")

	out := buf.String()
	assert.Contains(t, out, "row skipped")
	assert.Contains(t, out, "boom")
}

func TestMockLogger_CapturesDerivedLoggers(t *testing.T) {
	mock := NewMockLogger()
	mock.WithField(FieldClub, "Archery").Info("assigned")
	mock.Warn("ambiguous")

	entries := mock.Entries()
	assert.Len(t, entries, 2)
	assert.Equal(t, "INFO", entries[0].Level)
	assert.Equal(t, Field{Key: FieldClub, Value: "Archery"}, entries[0].Fields[0])
	assert.True(t, mock.HasMessage("ambiguous"))
}
