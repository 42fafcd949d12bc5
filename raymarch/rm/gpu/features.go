package gpu

// FeatureToggle switches a named shader feature and remembers the current
// value, so redundant requests are absorbed before they reach any GPU state.
type FeatureToggle struct {
	name     string
	enabled  bool
	switches int
}

// NewFeatureToggle starts in the given state; the initial state does not
// count as a switch.
func NewFeatureToggle(name string, enabled bool) *FeatureToggle {
	return &FeatureToggle{name: name, enabled: enabled}
}

// Set requests a value and reports whether the state actually changed.
func (t *FeatureToggle) Set(enabled bool) bool {
	if t.enabled == enabled {
		return false
	}
	t.enabled = enabled
	t.switches++
	return true
}

func (t *FeatureToggle) Enabled() bool { return t.enabled }

func (t *FeatureToggle) Name() string { return t.name }

// Switches counts real transitions since creation.
func (t *FeatureToggle) Switches() int { return t.switches }
