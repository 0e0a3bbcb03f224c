package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAdvanceMessageStatus(t *testing.T) {
	assert.True(t, CanAdvanceMessageStatus(MESSAGE_STATUS_SENT, MESSAGE_STATUS_DELIVERED))
	assert.True(t, CanAdvanceMessageStatus(MESSAGE_STATUS_SENT, MESSAGE_STATUS_READ))
	assert.True(t, CanAdvanceMessageStatus(MESSAGE_STATUS_DELIVERED, MESSAGE_STATUS_READ))

	// nunca regride
	assert.False(t, CanAdvanceMessageStatus(MESSAGE_STATUS_READ, MESSAGE_STATUS_DELIVERED))
	assert.False(t, CanAdvanceMessageStatus(MESSAGE_STATUS_READ, MESSAGE_STATUS_SENT))
	assert.False(t, CanAdvanceMessageStatus(MESSAGE_STATUS_DELIVERED, MESSAGE_STATUS_SENT))

	// nem fica parado
	assert.False(t, CanAdvanceMessageStatus(MESSAGE_STATUS_READ, MESSAGE_STATUS_READ))

	// status desconhecido não entra
	assert.False(t, CanAdvanceMessageStatus(MESSAGE_STATUS_SENT, "queued"))
}
