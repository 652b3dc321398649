package usage

import (
	"context"
	"sync"
	"time"

	"github.com/veymax/minimax-usage-tui/internal/logger"
	"github.com/veymax/minimax-usage-tui/internal/models"
)

// KeyProvider supplies the current API key for each fetch, so an external
// key change takes effect on the next cycle without a restart.
type KeyProvider interface {
	APIKey() string
}

// EventType defines the type of usage event.
type EventType int

const (
	// EventUsageUpdated indicates a successful fetch with fresh records.
	EventUsageUpdated EventType = iota
	// EventUsageRefreshing indicates a fetch is in progress.
	EventUsageRefreshing
	// EventUsageError indicates a fetch failed.
	EventUsageError
)

// Event represents a usage service event.
type Event struct {
	Error   error
	Records []models.UsageRecord
	TakenAt time.Time
	Type    EventType
}

// Config holds configuration for the usage service.
type Config struct {
	Endpoint     string
	PollInterval time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval: 30 * time.Second,
	}
}

// Service polls the metering API on a fixed interval. A single goroutine
// runs the fetch loop and manual refreshes are serialized against it, so
// two fetch cycles never run concurrently.
type Service struct {
	client    *Client
	keys      KeyProvider
	config    Config
	eventChan chan Event
	stopChan  chan struct{}

	fetchMu sync.Mutex

	mu          sync.RWMutex
	records     []models.UsageRecord
	lastError   string
	lastUpdated time.Time
	started     bool
}

// New creates a usage service. Call Start to begin polling.
func New(keys KeyProvider, config Config) *Service {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultConfig().PollInterval
	}

	return &Service{
		client:    NewClient(config.Endpoint),
		keys:      keys,
		config:    config,
		eventChan: make(chan Event, 16),
		stopChan:  make(chan struct{}),
	}
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Start launches the polling goroutine. The first cycle runs immediately,
// before the interval ticker is scheduled. Start is idempotent.
func (s *Service) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go s.poll()
}

// poll runs the background polling loop.
func (s *Service) poll() {
	s.Refresh()

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Refresh()
		case <-s.stopChan:
			return
		}
	}
}

// Refresh performs one fetch cycle. When a fetch is already in flight the
// call is skipped, keeping cycles non-overlapping.
func (s *Service) Refresh() {
	if !s.fetchMu.TryLock() {
		logger.Debug("usage refresh skipped, fetch in flight")
		return
	}
	defer s.fetchMu.Unlock()

	s.sendEvent(Event{Type: EventUsageRefreshing})

	apiKey := ""
	if s.keys != nil {
		apiKey = s.keys.APIKey()
	}

	records, err := s.client.FetchUsage(context.Background(), apiKey)
	takenAt := time.Now()

	if err != nil {
		s.mu.Lock()
		s.records = nil
		s.lastError = err.Error()
		s.lastUpdated = takenAt
		s.mu.Unlock()

		s.sendEvent(Event{Type: EventUsageError, Error: err, TakenAt: takenAt})
		return
	}

	s.mu.Lock()
	s.records = records
	s.lastError = ""
	s.lastUpdated = takenAt
	s.mu.Unlock()

	s.sendEvent(Event{Type: EventUsageUpdated, Records: records, TakenAt: takenAt})
}

// Records returns the most recently fetched records.
func (s *Service) Records() []models.UsageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.UsageRecord, len(s.records))
	copy(records, s.records)
	return records
}

// LastError returns the message from the most recent failed fetch, or ""
// when the last fetch succeeded.
func (s *Service) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// LastUpdated returns the time of the most recent fetch attempt.
func (s *Service) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops future polling ticks. An in-flight fetch is allowed to finish.
func (s *Service) Close() error {
	close(s.stopChan)
	return nil
}
