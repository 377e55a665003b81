package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFinalizeWait_CapsClientValue(t *testing.T) {
	h := NewCheckoutHandler(nil, 10*time.Second)

	assert.Equal(t, 10*time.Second, h.finalizeWait(0), "absent value falls back to the configured maximum")
	assert.Equal(t, 10*time.Second, h.finalizeWait(-500))
	assert.Equal(t, 2*time.Second, h.finalizeWait(2000))
	assert.Equal(t, 10*time.Second, h.finalizeWait(60000), "client values above the maximum are capped")
}
