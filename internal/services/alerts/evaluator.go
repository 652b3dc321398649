package alerts

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/veymax/minimax-usage-tui/internal/logger"
	"github.com/veymax/minimax-usage-tui/internal/models"
	"github.com/veymax/minimax-usage-tui/internal/notify"
)

// Notification titles. The message body comes from the policy templates.
const (
	warningTitle  = "⚠️ MiniMax Usage Warning"
	criticalTitle = "🚨 MiniMax Credits Low!"
)

// firedKey identifies one alert occurrence: a model within a billing
// window. A key fires at most once per process lifetime; a new window
// yields a new key and a fresh alert.
type firedKey struct {
	modelName   string
	windowStart int64
	windowEnd   int64
}

// Evaluator decides which usage records warrant a notification. The fired
// set is deliberately in-memory only, so alerts re-fire after a restart.
type Evaluator struct {
	policy   *Policy
	history  *HistoryLog
	notifier notify.Notifier

	mu    sync.Mutex
	fired map[firedKey]struct{}
}

// NewEvaluator creates an evaluator wired to the given policy, history log,
// and notification sink.
func NewEvaluator(policy *Policy, history *HistoryLog, notifier notify.Notifier) *Evaluator {
	return &Evaluator{
		policy:   policy,
		history:  history,
		notifier: notifier,
		fired:    make(map[firedKey]struct{}),
	}
}

// Evaluate checks a batch of records against the policy and fires at most
// one alert per record. When a snooze window is active the whole batch is
// skipped and the fired set is left untouched, so suppressed crossings fire
// once the snooze expires.
func (e *Evaluator) Evaluate(records []models.UsageRecord) {
	if e.policy.IsSnoozed() {
		logger.Debug("alert evaluation skipped, snooze active")
		return
	}

	for _, record := range records {
		e.evaluateRecord(record)
	}
}

// evaluateRecord fires the highest matching severity for one record.
// Critical is checked before warning so a jump past both thresholds
// produces a single critical alert.
func (e *Evaluator) evaluateRecord(record models.UsageRecord) {
	if !e.policy.IsModelEnabled(record.ModelName) {
		return
	}

	warning, critical := e.policy.ResolveThresholds(record.ModelName)
	pct := record.UsagePercentage()

	switch {
	case pct >= critical:
		e.fire(record, models.AlertCritical)
	case pct >= warning:
		e.fire(record, models.AlertWarning)
	}
}

// fire delivers one alert, appends it to history, and marks the occurrence
// so the same window never fires twice.
func (e *Evaluator) fire(record models.UsageRecord, kind models.AlertKind) {
	key := firedKey{
		modelName:   record.ModelName,
		windowStart: record.WindowStart.UnixMilli(),
		windowEnd:   record.WindowEnd.UnixMilli(),
	}

	e.mu.Lock()
	if _, seen := e.fired[key]; seen {
		e.mu.Unlock()
		return
	}
	e.fired[key] = struct{}{}
	e.mu.Unlock()

	title := warningTitle
	template := e.policy.WarningTemplate()
	critical := false
	if kind == models.AlertCritical {
		title = criticalTitle
		template = e.policy.CriticalTemplate()
		critical = true
	}

	body := renderMessage(template, record)
	identifier := string(kind) + "_" + record.ModelName

	if e.notifier != nil {
		// Delivery failures are already logged by the notifier.
		_ = e.notifier.Send(title, body, identifier, critical)
	}

	if e.history != nil {
		e.history.Append(models.NewAlertHistoryEntry(record.ModelName, record.UsagePercentage(), kind))
	}

	logger.Info("alert fired",
		"model", record.ModelName,
		"kind", string(kind),
		"usage_pct", record.UsagePercentage(),
	)
}

// ResetDeduplication clears the fired set, allowing current windows to
// alert again.
func (e *Evaluator) ResetDeduplication() {
	e.mu.Lock()
	e.fired = make(map[firedKey]struct{})
	e.mu.Unlock()
}

// FiredCount returns the number of distinct occurrences alerted so far.
func (e *Evaluator) FiredCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.fired)
}

// renderMessage substitutes the template placeholders with record values.
// {model} is the model name, {remaining} the formatted remaining window
// duration, and {percent} the remaining percentage rounded to the nearest
// integer.
func renderMessage(template string, record models.UsageRecord) string {
	percent := math.Round(100 - record.UsagePercentage())

	msg := strings.ReplaceAll(template, "{model}", record.ModelName)
	msg = strings.ReplaceAll(msg, "{remaining}", record.RemainingTimeFormatted())
	msg = strings.ReplaceAll(msg, "{percent}", fmt.Sprintf("%.0f", percent))
	return msg
}

// SnoozeRemaining formats how long a snooze window has left, for display.
func SnoozeRemaining(until time.Time, now time.Time) string {
	left := until.Sub(now)
	if left <= 0 {
		return "expired"
	}
	if left >= time.Hour {
		return fmt.Sprintf("%dh %dm", int(left.Hours()), int(left.Minutes())%60)
	}
	return fmt.Sprintf("%dm", int(left.Minutes()))
}
