package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeatureToggle_SwitchesOnlyOnChange(t *testing.T) {
	ft := NewFeatureToggle(PerfDebugFlag, false)
	assert.Equal(t, PerfDebugFlag, ft.Name())
	assert.False(t, ft.Enabled())
	assert.Equal(t, 0, ft.Switches())

	assert.True(t, ft.Set(true))
	assert.True(t, ft.Enabled())
	assert.Equal(t, 1, ft.Switches())

	// Re-applying the same state must not count as a switch.
	assert.False(t, ft.Set(true))
	assert.False(t, ft.Set(true))
	assert.Equal(t, 1, ft.Switches())

	assert.True(t, ft.Set(false))
	assert.False(t, ft.Enabled())
	assert.Equal(t, 2, ft.Switches())
}

func TestFeatureToggle_InitialStateIsNotASwitch(t *testing.T) {
	ft := NewFeatureToggle(PerfDebugFlag, true)
	assert.True(t, ft.Enabled())
	assert.Equal(t, 0, ft.Switches())

	assert.False(t, ft.Set(true))
	assert.Equal(t, 0, ft.Switches())
}
