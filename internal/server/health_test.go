package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealth_SetHealthy(t *testing.T) {
	h := NewHealth()

	h.SetHealthy("catalog", "fetched 84")

	status := h.GetStatus("catalog")
	assert.True(t, status.Healthy)
	assert.Equal(t, "fetched 84", status.Message)
	assert.Nil(t, status.LastError)
	assert.WithinDuration(t, time.Now(), status.LastCheck, time.Second)
	assert.WithinDuration(t, time.Now(), status.LastSuccess, time.Second)
}

func TestHealth_SetUnhealthy(t *testing.T) {
	h := NewHealth()

	err := assert.AnError
	h.SetUnhealthy("catalog", err)

	status := h.GetStatus("catalog")
	assert.False(t, status.Healthy)
	assert.Equal(t, err, status.LastError)
	assert.Equal(t, err.Error(), status.Message)
	assert.True(t, status.LastSuccess.IsZero())
}

func TestHealth_GetStatus_NotFound(t *testing.T) {
	assert.Nil(t, NewHealth().GetStatus("nonexistent"))
}

func TestHealth_RecoveryKeepsLastSuccess(t *testing.T) {
	h := NewHealth()

	h.SetHealthy("analysis", "ok")
	h.SetUnhealthy("analysis", assert.AnError)

	status := h.GetStatus("analysis")
	assert.False(t, status.Healthy)
	assert.False(t, status.LastSuccess.IsZero())
}

func TestHealth_IsOverallHealthy(t *testing.T) {
	h := NewHealth()
	assert.True(t, h.IsOverallHealthy())

	h.SetHealthy("catalog", "ok")
	h.SetHealthy("analysis", "ok")
	assert.True(t, h.IsOverallHealthy())

	h.SetUnhealthy("analysis", assert.AnError)
	assert.False(t, h.IsOverallHealthy())
	assert.Len(t, h.GetAllStatuses(), 2)
}
