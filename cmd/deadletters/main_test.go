package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"bistro/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDeadLetters_JSONListing(t *testing.T) {
	failed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	entries := []worker.DeadLetter{{
		Queue:    worker.QueueReceipt,
		Type:     "receipt",
		Payload:  json.RawMessage(`{"transaction_id":"pi_1"}`),
		Reason:   "smtp: connection refused",
		Attempts: 3,
		FailedAt: failed,
	}}

	var buf bytes.Buffer
	require.NoError(t, writeDeadLetters(&buf, worker.QueueReceipt, 7, entries))

	var got struct {
		Queue   string              `json:"queue"`
		Total   int64               `json:"total"`
		Entries []worker.DeadLetter `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, worker.QueueReceipt, got.Queue)
	assert.Equal(t, int64(7), got.Total)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "smtp: connection refused", got.Entries[0].Reason)
	assert.Equal(t, 3, got.Entries[0].Attempts)
	assert.True(t, failed.Equal(got.Entries[0].FailedAt))
	assert.JSONEq(t, `{"transaction_id":"pi_1"}`, string(got.Entries[0].Payload))
}

func TestWriteDeadLetters_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeDeadLetters(&buf, worker.QueueEmail, 0, nil))
	assert.Contains(t, buf.String(), `"entries": []`)
}

func TestRootCmd_RejectsNonPositiveLimit(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{"--limit", "0"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--limit")
}

func TestRootCmd_DefaultsToReceiptQueue(t *testing.T) {
	f := rootCmd().Flags().Lookup("queue")
	require.NotNil(t, f)
	assert.Equal(t, worker.QueueReceipt, f.DefValue)
}
