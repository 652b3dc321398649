// Package credentials manages the MiniMax API key with file watching and
// persistence.
package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/veymax/minimax-usage-tui/internal/logger"
)

// File is the JSON structure of the credentials file.
type File struct {
	APIKey  string `json:"api_key"`
	Version int    `json:"version,omitempty"`
}

// EventType defines the type of credentials event.
type EventType int

const (
	// EventLoaded indicates the credentials file was read at startup.
	EventLoaded EventType = iota
	// EventChanged indicates the API key changed, in-process or externally.
	EventChanged
	// EventCleared indicates the API key was removed.
	EventCleared
	// EventError indicates a read or parse failure.
	EventError
)

// Event represents a credentials service event.
type Event struct {
	Type  EventType
	Error error
}

// Service stores the API key in a JSON file and reloads it when the file
// changes externally, so a key pasted by another tool is picked up live.
type Service struct {
	mu            sync.RWMutex
	apiKey        string
	filePath      string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// New creates the credentials service and starts file watching. A missing
// file is not an error: the service starts with an empty key.
func New(filePath string) (*Service, error) {
	s := &Service{
		filePath:  filePath,
		eventChan: make(chan Event, 16),
		stopChan:  make(chan struct{}),
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create credentials directory: %w", err)
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	s.sendEvent(Event{Type: EventLoaded})

	return s, nil
}

// Events returns the event channel for subscribing to credential changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// APIKey returns the current API key, or "" when none is configured.
func (s *Service) APIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey
}

// HasAPIKey reports whether a key is configured.
func (s *Service) HasAPIKey() bool {
	return s.APIKey() != ""
}

// SetAPIKey stores and persists a new API key.
func (s *Service) SetAPIKey(key string) error {
	s.mu.Lock()
	previous := s.apiKey
	s.apiKey = key
	err := s.saveLocked()
	if err != nil {
		s.apiKey = previous
	}
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	s.sendEvent(Event{Type: EventChanged})
	return nil
}

// ClearAPIKey removes the stored API key.
func (s *Service) ClearAPIKey() error {
	s.mu.Lock()
	s.apiKey = ""
	err := s.saveLocked()
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	s.sendEvent(Event{Type: EventCleared})
	return nil
}

// load reads the credentials file into memory.
func (s *Service) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse credentials file: %w", err)
	}

	s.mu.Lock()
	s.apiKey = file.APIKey
	s.mu.Unlock()
	return nil
}

// saveLocked writes the credentials file. Must hold the write lock.
func (s *Service) saveLocked() error {
	data, err := json.MarshalIndent(File{APIKey: s.apiKey, Version: 1}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	// Write to temp file first, then rename
	tmpFile := s.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, s.filePath); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory to catch file creation and atomic renames
	dir := filepath.Dir(s.filePath)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, s.handleFileChange)
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange reloads the key after an external change.
func (s *Service) handleFileChange() {
	old := s.APIKey()

	if err := s.load(); err != nil {
		if os.IsNotExist(err) {
			s.mu.Lock()
			s.apiKey = ""
			s.mu.Unlock()
			if old != "" {
				s.sendEvent(Event{Type: EventCleared})
			}
			return
		}
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}

	if s.APIKey() != old {
		s.sendEvent(Event{Type: EventChanged})
	}
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
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

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}

	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
