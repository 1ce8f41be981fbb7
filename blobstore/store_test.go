package blobstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRange(t *testing.T) {
	assert.True(t, FullRange().IsFull())
	assert.True(t, Range{}.IsFull())
	assert.False(t, NewRange(0, 10).IsFull())
	assert.False(t, Range{Start: 5}.IsFull())

	assert.Equal(t, "bytes=0-9", NewRange(0, 10).Header())
	assert.Equal(t, "bytes=2-6", NewRange(2, 7).Header())
	assert.Equal(t, "bytes=5-", Range{Start: 5}.Header())
}

func TestErrors(t *testing.T) {
	t.Run("ConfigError", func(t *testing.T) {
		cause := errors.New("boom")
		err := NewConfigError("bucket", cause)
		assert.Contains(t, err.Error(), `"bucket"`)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("TransportError", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewTransportError("get", cause)
		assert.Contains(t, err.Error(), "transport failure")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("StatusError", func(t *testing.T) {
		err := &StatusError{Op: "put", Code: 503, Body: "slow down"}
		assert.Contains(t, err.Error(), "503")
		assert.Contains(t, err.Error(), "slow down")
		assert.True(t, err.Retryable())

		assert.False(t, (&StatusError{Code: 403}).Retryable())
		assert.False(t, (&StatusError{Code: 600}).Retryable())
	})
}
