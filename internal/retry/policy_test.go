package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/notionsync/internal/config"
)

// TestDefaultPolicy verifies the baseline default values.
func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, config.RetryBackoffLinear, p.Mode)
	assert.Equal(t, time.Second, p.Initial)
	assert.Equal(t, 30*time.Second, p.Max)
	assert.Equal(t, 3, p.MaxRetries)
}

// TestNewPolicyOverrides checks override precedence and clamping when initial > max.
func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, 5*time.Second, 2*time.Second, 5)
	assert.Equal(t, 2*time.Second, p.Initial, "initial is clamped to max")
	assert.Equal(t, 2*time.Second, p.Max)
	assert.Equal(t, config.RetryBackoffFixed, p.Mode)
	assert.Equal(t, 5, p.MaxRetries)
}

func TestFromConfig(t *testing.T) {
	p := FromConfig(config.RetryConfig{Mode: "Exponential", Initial: 200 * time.Millisecond, Max: time.Second, MaxRetries: 0})
	assert.Equal(t, config.RetryBackoffExponential, p.Mode)
	assert.Equal(t, 0, p.MaxRetries)
	assert.Equal(t, 200*time.Millisecond, p.Initial)

	unknown := FromConfig(config.RetryConfig{Mode: "weird", MaxRetries: -1})
	assert.Equal(t, config.RetryBackoffLinear, unknown.Mode)
	assert.Equal(t, 3, unknown.MaxRetries)
}

// TestDelayModes ensures fixed, linear, exponential behave and respect cap.
func TestDelayModes(t *testing.T) {
	fixed := NewPolicy(config.RetryBackoffFixed, 100*time.Millisecond, 500*time.Millisecond, 3)
	for i := 1; i <= 3; i++ {
		assert.Equal(t, 100*time.Millisecond, fixed.Delay(i))
	}

	linear := NewPolicy(config.RetryBackoffLinear, 100*time.Millisecond, 250*time.Millisecond, 5)
	assert.Equal(t, 100*time.Millisecond, linear.Delay(1))
	assert.Equal(t, 200*time.Millisecond, linear.Delay(2))
	assert.Equal(t, 250*time.Millisecond, linear.Delay(3))
	assert.Equal(t, 250*time.Millisecond, linear.Delay(4))

	exp := NewPolicy(config.RetryBackoffExponential, 50*time.Millisecond, 160*time.Millisecond, 5)
	assert.Equal(t, 50*time.Millisecond, exp.Delay(1))
	assert.Equal(t, 100*time.Millisecond, exp.Delay(2))
	assert.Equal(t, 160*time.Millisecond, exp.Delay(3))
	assert.Equal(t, 160*time.Millisecond, exp.Delay(64), "large attempts must not overflow")
}

// TestDelayEdgeCases ensures non-positive attempts yield zero.
func TestDelayEdgeCases(t *testing.T) {
	p := NewPolicy(config.RetryBackoffLinear, 10*time.Millisecond, 20*time.Millisecond, 1)
	assert.Zero(t, p.Delay(0))
	assert.Zero(t, p.Delay(-1))
}

func TestDelayWithHint(t *testing.T) {
	p := NewPolicy(config.RetryBackoffLinear, 10*time.Millisecond, time.Second, 1)
	assert.Equal(t, 10*time.Millisecond, p.DelayWithHint(1, 0))
	assert.Equal(t, 500*time.Millisecond, p.DelayWithHint(1, 500*time.Millisecond))
	assert.Equal(t, time.Second, p.DelayWithHint(1, time.Minute))
}

func TestRetryableStatus(t *testing.T) {
	for _, s := range []int{429, 409, 500, 502, 503} {
		assert.True(t, RetryableStatus(s), "status %d", s)
	}
	for _, s := range []int{200, 400, 401, 403, 404} {
		assert.False(t, RetryableStatus(s), "status %d", s)
	}
}

// TestValidate covers validation error paths.
func TestValidate(t *testing.T) {
	assert.Error(t, Policy{Initial: 0, Max: time.Second}.Validate())
	assert.Error(t, Policy{Initial: time.Second, Max: 0}.Validate())
	assert.Error(t, Policy{Initial: time.Second, Max: 2 * time.Second, MaxRetries: -1}.Validate())
	assert.NoError(t, Policy{Initial: time.Second, Max: 2 * time.Second}.Validate())
}
