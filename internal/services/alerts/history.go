package alerts

import (
	"encoding/json"
	"sync"

	"github.com/veymax/minimax-usage-tui/internal/logger"
	"github.com/veymax/minimax-usage-tui/internal/models"
	"github.com/veymax/minimax-usage-tui/internal/store"
)

// maxHistoryEntries caps the alert history; the oldest entries are dropped
// once the cap is reached.
const maxHistoryEntries = 100

// HistoryLog keeps fired alerts newest first, capped at maxHistoryEntries.
type HistoryLog struct {
	mu       sync.RWMutex
	entries  []models.AlertHistoryEntry
	store    store.Store
	onChange func()
}

// NewHistoryLog loads the history from the store, starting empty when no
// blob exists or the blob cannot be decoded.
func NewHistoryLog(st store.Store) *HistoryLog {
	h := &HistoryLog{store: st}

	if st == nil {
		return h
	}

	blob, err := st.Get(store.KeyAlertHistory)
	if err != nil {
		logger.Error("failed to load alert history", "error", err)
		return h
	}
	if blob == nil {
		return h
	}

	var entries []models.AlertHistoryEntry
	if err := json.Unmarshal(blob, &entries); err != nil {
		logger.Error("failed to decode alert history, starting empty", "error", err)
		return h
	}
	if len(entries) > maxHistoryEntries {
		entries = entries[:maxHistoryEntries]
	}
	h.entries = entries
	return h
}

// OnChange registers a callback invoked after every append or clear.
func (h *HistoryLog) OnChange(fn func()) {
	h.mu.Lock()
	h.onChange = fn
	h.mu.Unlock()
}

// Append inserts an entry at the front, evicting the oldest entry when the
// log is full.
func (h *HistoryLog) Append(entry models.AlertHistoryEntry) {
	h.mu.Lock()
	h.entries = append([]models.AlertHistoryEntry{entry}, h.entries...)
	if len(h.entries) > maxHistoryEntries {
		h.entries = h.entries[:maxHistoryEntries]
	}
	h.persistLocked()
	h.mu.Unlock()

	h.notifyChange()
}

// Clear removes all entries.
func (h *HistoryLog) Clear() {
	h.mu.Lock()
	h.entries = nil
	h.persistLocked()
	h.mu.Unlock()

	h.notifyChange()
}

// All returns the entries newest first.
func (h *HistoryLog) All() []models.AlertHistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	entries := make([]models.AlertHistoryEntry, len(h.entries))
	copy(entries, h.entries)
	return entries
}

// Len returns the number of entries.
func (h *HistoryLog) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

func (h *HistoryLog) persistLocked() {
	if h.store == nil {
		return
	}

	entries := h.entries
	if entries == nil {
		entries = []models.AlertHistoryEntry{}
	}
	blob, err := json.Marshal(entries)
	if err != nil {
		logger.Error("failed to encode alert history", "error", err)
		return
	}
	if err := h.store.Put(store.KeyAlertHistory, blob); err != nil {
		logger.Error("failed to persist alert history", "error", err)
	}
}

func (h *HistoryLog) notifyChange() {
	h.mu.RLock()
	fn := h.onChange
	h.mu.RUnlock()

	if fn != nil {
		fn()
	}
}
