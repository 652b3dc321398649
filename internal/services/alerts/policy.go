// Package alerts implements threshold policy, alert evaluation, and the
// alert history log.
package alerts

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/veymax/minimax-usage-tui/internal/logger"
	"github.com/veymax/minimax-usage-tui/internal/models"
	"github.com/veymax/minimax-usage-tui/internal/store"
)

// Threshold validation errors.
var (
	ErrWarningTooLow             = errors.New("warning threshold must be at least 10%")
	ErrWarningTooHigh            = errors.New("warning threshold must be at most 99%")
	ErrCriticalTooLow            = errors.New("critical threshold must be at least 5%")
	ErrCriticalTooHigh           = errors.New("critical threshold must be at most 95%")
	ErrWarningMustExceedCritical = errors.New("warning threshold must be greater than critical threshold")
)

// Default message templates. {model}, {remaining} and {percent} are
// substituted at delivery time.
const (
	DefaultWarningMessage  = "MiniMax Usage Warning: {model} only {remaining} remaining ({percent}% left)"
	DefaultCriticalMessage = "MiniMax Credits Low!: {model} only {remaining} remaining! Time to top up."
)

// ModelOverride is a per-model threshold and enable configuration.
type ModelOverride struct {
	WarningThreshold  float64 `json:"warning_threshold"`
	CriticalThreshold float64 `json:"critical_threshold"`
	IsEnabled         bool    `json:"is_enabled"`
}

// Settings is the persisted policy state. The snake_case keys match the
// blob format the original client used, so existing blobs decode cleanly.
type Settings struct {
	GlobalWarningThreshold  float64                  `json:"global_warning_threshold"`
	GlobalCriticalThreshold float64                  `json:"global_critical_threshold"`
	PerModelOverrides       map[string]ModelOverride `json:"per_model_overrides"`
	SnoozeEndTime           *time.Time               `json:"snooze_end_time,omitempty"`
	CustomWarningMessage    *string                  `json:"custom_warning_message,omitempty"`
	CustomCriticalMessage   *string                  `json:"custom_critical_message,omitempty"`
}

// DefaultSettings returns the factory defaults.
func DefaultSettings() Settings {
	return Settings{
		GlobalWarningThreshold:  85,
		GlobalCriticalThreshold: 95,
		PerModelOverrides:       make(map[string]ModelOverride),
	}
}

// clone returns a deep copy of the settings.
func (s Settings) clone() Settings {
	out := s
	out.PerModelOverrides = make(map[string]ModelOverride, len(s.PerModelOverrides))
	for name, o := range s.PerModelOverrides {
		out.PerModelOverrides[name] = o
	}
	if s.SnoozeEndTime != nil {
		t := *s.SnoozeEndTime
		out.SnoozeEndTime = &t
	}
	if s.CustomWarningMessage != nil {
		m := *s.CustomWarningMessage
		out.CustomWarningMessage = &m
	}
	if s.CustomCriticalMessage != nil {
		m := *s.CustomCriticalMessage
		out.CustomCriticalMessage = &m
	}
	return out
}

// Policy owns the validated threshold configuration. All mutations commit
// and persist atomically under the policy lock; validation failures leave
// the settings untouched.
type Policy struct {
	mu       sync.RWMutex
	settings Settings
	store    store.Store
	onChange func()
}

// NewPolicy loads the policy from the store, falling back to defaults when
// no blob exists or the blob cannot be decoded.
func NewPolicy(st store.Store) *Policy {
	p := &Policy{settings: DefaultSettings(), store: st}

	if st == nil {
		return p
	}

	blob, err := st.Get(store.KeyAlertSettings)
	if err != nil {
		logger.Error("failed to load alert settings", "error", err)
		return p
	}
	if blob == nil {
		return p
	}

	var settings Settings
	if err := json.Unmarshal(blob, &settings); err != nil {
		logger.Error("failed to decode alert settings, using defaults", "error", err)
		return p
	}
	if settings.PerModelOverrides == nil {
		settings.PerModelOverrides = make(map[string]ModelOverride)
	}
	p.settings = settings
	return p
}

// OnChange registers a callback invoked after every committed mutation.
func (p *Policy) OnChange(fn func()) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// Snapshot returns a copy of the current settings.
func (p *Policy) Snapshot() Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings.clone()
}

// SetGlobalWarning validates and commits a new global warning threshold.
func (p *Policy) SetGlobalWarning(value float64) error {
	if err := validateWarning(value); err != nil {
		return err
	}

	p.mu.Lock()
	if value <= p.settings.GlobalCriticalThreshold {
		p.mu.Unlock()
		return ErrWarningMustExceedCritical
	}
	p.settings.GlobalWarningThreshold = value
	p.persistLocked()
	p.mu.Unlock()

	p.notifyChange()
	return nil
}

// SetGlobalCritical validates and commits a new global critical threshold.
func (p *Policy) SetGlobalCritical(value float64) error {
	if err := validateCritical(value); err != nil {
		return err
	}

	p.mu.Lock()
	if p.settings.GlobalWarningThreshold <= value {
		p.mu.Unlock()
		return ErrWarningMustExceedCritical
	}
	p.settings.GlobalCriticalThreshold = value
	p.persistLocked()
	p.mu.Unlock()

	p.notifyChange()
	return nil
}

// SetModelOverride inserts or replaces a per-model override, enabled.
func (p *Policy) SetModelOverride(modelName string, warning, critical float64) error {
	if err := validateWarning(warning); err != nil {
		return err
	}
	if err := validateCritical(critical); err != nil {
		return err
	}
	if warning <= critical {
		return ErrWarningMustExceedCritical
	}

	p.mu.Lock()
	p.settings.PerModelOverrides[modelName] = ModelOverride{
		WarningThreshold:  warning,
		CriticalThreshold: critical,
		IsEnabled:         true,
	}
	p.persistLocked()
	p.mu.Unlock()

	p.notifyChange()
	return nil
}

// SetModelEnabled flips the enable flag for a model. Disabling a model
// with no override synthesizes one carrying the current global thresholds,
// so the global semantics survive a later re-enable. Enabling a model with
// no override is a no-op: models are enabled by default.
func (p *Policy) SetModelEnabled(modelName string, enabled bool) {
	p.mu.Lock()
	if override, ok := p.settings.PerModelOverrides[modelName]; ok {
		override.IsEnabled = enabled
		p.settings.PerModelOverrides[modelName] = override
	} else if !enabled {
		p.settings.PerModelOverrides[modelName] = ModelOverride{
			WarningThreshold:  p.settings.GlobalWarningThreshold,
			CriticalThreshold: p.settings.GlobalCriticalThreshold,
			IsEnabled:         false,
		}
	} else {
		p.mu.Unlock()
		return
	}
	p.persistLocked()
	p.mu.Unlock()

	p.notifyChange()
}

// RemoveOverride deletes the override for a model. Idempotent.
func (p *Policy) RemoveOverride(modelName string) {
	p.mu.Lock()
	if _, ok := p.settings.PerModelOverrides[modelName]; !ok {
		p.mu.Unlock()
		return
	}
	delete(p.settings.PerModelOverrides, modelName)
	p.persistLocked()
	p.mu.Unlock()

	p.notifyChange()
}

// ResolveThresholds returns the effective (warning, critical) pair for a
// model: the override when one exists and is enabled, otherwise the
// global pair.
func (p *Policy) ResolveThresholds(modelName string) (warning, critical float64) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if override, ok := p.settings.PerModelOverrides[modelName]; ok && override.IsEnabled {
		return override.WarningThreshold, override.CriticalThreshold
	}
	return p.settings.GlobalWarningThreshold, p.settings.GlobalCriticalThreshold
}

// IsModelEnabled reports whether alerts are enabled for a model. Models
// without an override are enabled.
func (p *Policy) IsModelEnabled(modelName string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if override, ok := p.settings.PerModelOverrides[modelName]; ok {
		return override.IsEnabled
	}
	return true
}

// Snooze suppresses all alerting until now plus the given duration.
func (p *Policy) Snooze(d models.SnoozeDuration) {
	until := time.Now().Add(d.Duration())

	p.mu.Lock()
	p.settings.SnoozeEndTime = &until
	p.persistLocked()
	p.mu.Unlock()

	p.notifyChange()
}

// Unsnooze clears the snooze window and reports whether one was active.
func (p *Policy) Unsnooze() bool {
	p.mu.Lock()
	wasActive := p.settings.SnoozeEndTime != nil && time.Now().Before(*p.settings.SnoozeEndTime)
	p.settings.SnoozeEndTime = nil
	p.persistLocked()
	p.mu.Unlock()

	p.notifyChange()
	return wasActive
}

// IsSnoozed reports whether a snooze window is currently active.
func (p *Policy) IsSnoozed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings.SnoozeEndTime != nil && time.Now().Before(*p.settings.SnoozeEndTime)
}

// SnoozeEndTime returns the end of the active snooze window, or nil.
func (p *Policy) SnoozeEndTime() *time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.settings.SnoozeEndTime == nil {
		return nil
	}
	t := *p.settings.SnoozeEndTime
	return &t
}

// SetMessageTemplates stores or clears the custom message templates. A nil
// argument clears the corresponding template back to the built-in default.
func (p *Policy) SetMessageTemplates(warning, critical *string) {
	p.mu.Lock()
	p.settings.CustomWarningMessage = warning
	p.settings.CustomCriticalMessage = critical
	p.persistLocked()
	p.mu.Unlock()

	p.notifyChange()
}

// WarningTemplate returns the active warning message template.
func (p *Policy) WarningTemplate() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.settings.CustomWarningMessage != nil {
		return *p.settings.CustomWarningMessage
	}
	return DefaultWarningMessage
}

// CriticalTemplate returns the active critical message template.
func (p *Policy) CriticalTemplate() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.settings.CustomCriticalMessage != nil {
		return *p.settings.CustomCriticalMessage
	}
	return DefaultCriticalMessage
}

// ResetToDefaults replaces the entire policy with factory defaults.
func (p *Policy) ResetToDefaults() {
	p.mu.Lock()
	p.settings = DefaultSettings()
	p.persistLocked()
	p.mu.Unlock()

	p.notifyChange()
}

// persistLocked writes the settings blob. Persistence failures are logged
// and swallowed: the in-memory state stays authoritative for the session.
func (p *Policy) persistLocked() {
	if p.store == nil {
		return
	}

	blob, err := json.Marshal(p.settings)
	if err != nil {
		logger.Error("failed to encode alert settings", "error", err)
		return
	}
	if err := p.store.Put(store.KeyAlertSettings, blob); err != nil {
		logger.Error("failed to persist alert settings", "error", err)
	}
}

func (p *Policy) notifyChange() {
	p.mu.RLock()
	fn := p.onChange
	p.mu.RUnlock()

	if fn != nil {
		fn()
	}
}

func validateWarning(value float64) error {
	if value < 10 {
		return ErrWarningTooLow
	}
	if value > 99 {
		return ErrWarningTooHigh
	}
	return nil
}

func validateCritical(value float64) error {
	if value < 5 {
		return ErrCriticalTooLow
	}
	if value > 95 {
		return ErrCriticalTooHigh
	}
	return nil
}
