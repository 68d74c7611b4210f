package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimeRemaining(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0 seconds"},
		{1, "1 second"},
		{45, "45 seconds"},
		{60, "1 minute"},
		{90, "2 minutes"},
		{1799, "30 minutes"},
		{3600, "1 hour"},
		{5399, "1 hour"},
		{7200, "2 hours"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTimeRemaining(tt.seconds), "seconds=%d", tt.seconds)
	}
}

func TestBlockedMessage(t *testing.T) {
	seconds := 45
	assert.Equal(t, "Too many attempts. Please try again in 45 seconds.", BlockedMessage(&seconds))
	assert.Equal(t, "Too many attempts. Please try again later.", BlockedMessage(nil))
}
