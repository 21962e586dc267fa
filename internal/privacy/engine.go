package privacy

import (
	"fmt"
	"math"
	"sync"

	"veil/internal/model"
)

// Toggle names accepted by SetToggle. These match the setting keys the UI
// sends.
const (
	ToggleDefaultTransactionPrivacy = "defaultTransactionPrivacy"
	ToggleStealthAddressByDefault   = "stealthAddressByDefault"
	ToggleAutoShieldLargeAmounts    = "autoShieldLargeAmounts"
	ToggleMetadataProtection        = "transactionMetadataProtection"
	ToggleObfuscateConnectedApps    = "obfuscateConnectedApps"
)

const toggleCount = 5

// Privacy level presets accepted by SetLevel. The level is kept as display
// state for the send screen; it does not feed the score computation.
const (
	LevelStandard = "standard"
	LevelEnhanced = "enhanced"
	LevelMaximum  = "maximum"
)

// Engine owns the privacy toggles and the derived scores. The four weighted
// sub-scores are fixed baseline inputs; only the overall score is recomputed,
// on every toggle change. Safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	settings model.PrivacySettings
	scores   model.PrivacyScores
	level    string
}

// NewEngine creates an engine with all toggles off, the standard privacy
// level and the baseline scores of a fresh session.
func NewEngine() *Engine {
	return &Engine{
		level: LevelStandard,
		scores: model.PrivacyScores{
			Overall:            45,
			ShieldedBalance:    30,
			TransactionPrivacy: 50,
			AddressIsolation:   60,
			MetadataProtection: 40,
		},
	}
}

// SetToggle flips exactly one named toggle and recomputes the overall score.
// Unknown names are rejected without touching any state.
func (e *Engine) SetToggle(name string, value bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch name {
	case ToggleDefaultTransactionPrivacy:
		e.settings.DefaultTransactionPrivacy = value
	case ToggleStealthAddressByDefault:
		e.settings.StealthAddressByDefault = value
	case ToggleAutoShieldLargeAmounts:
		e.settings.AutoShieldLargeAmounts = value
	case ToggleMetadataProtection:
		e.settings.MetadataProtection = value
	case ToggleObfuscateConnectedApps:
		e.settings.ObfuscateConnectedApps = value
	default:
		return fmt.Errorf("unknown privacy toggle: %q", name)
	}

	e.scores.Overall = e.computeOverall()
	return nil
}

// computeOverall derives the overall score from the baseline sub-scores plus
// the share of enabled toggles. The /1.2 normalization is kept as-is: the
// observable scores depend on it, and changing it would change every score
// users already see, even though it can push the result past 100.
func (e *Engine) computeOverall() int {
	enabled := 0
	for _, on := range []bool{
		e.settings.DefaultTransactionPrivacy,
		e.settings.StealthAddressByDefault,
		e.settings.AutoShieldLargeAmounts,
		e.settings.MetadataProtection,
		e.settings.ObfuscateConnectedApps,
	} {
		if on {
			enabled++
		}
	}

	settingsScore := float64(enabled) / float64(toggleCount) * 100

	sum := float64(e.scores.ShieldedBalance)*0.3 +
		float64(e.scores.TransactionPrivacy)*0.3 +
		float64(e.scores.AddressIsolation)*0.2 +
		float64(e.scores.MetadataProtection)*0.2 +
		settingsScore*0.2

	return int(math.Round(sum / 1.2))
}

// SetLevel selects one of the three privacy presets. Unknown levels are
// rejected without touching any state.
func (e *Engine) SetLevel(level string) error {
	switch level {
	case LevelStandard, LevelEnhanced, LevelMaximum:
	default:
		return fmt.Errorf("unknown privacy level: %q", level)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.level = level
	return nil
}

// Level returns the currently selected privacy preset.
func (e *Engine) Level() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.level
}

// Settings returns a snapshot of the current toggles.
func (e *Engine) Settings() model.PrivacySettings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// Scores returns a snapshot of the current scores.
func (e *Engine) Scores() model.PrivacyScores {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scores
}
