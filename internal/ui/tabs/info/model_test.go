package info

import (
	"strings"
	"testing"
	"time"

	"github.com/veymax/minimax-usage-tui/internal/app"
	"github.com/veymax/minimax-usage-tui/internal/config"
)

func newTestTab() (*Model, *app.State) {
	state := app.NewState()
	cfg := &config.Config{
		DatabasePath:         "/tmp/usage.db",
		CredentialsPath:      "/tmp/credentials.json",
		APIEndpoint:          config.DefaultAPIEndpoint,
		UsageRefreshInterval: 30 * time.Second,
	}

	m := New(state, cfg)
	m.SetSize(100, 40)
	return m, state
}

func TestViewShowsConfig(t *testing.T) {
	m, _ := newTestTab()

	view := m.View()
	for _, want := range []string{"/tmp/usage.db", "/tmp/credentials.json", "30s"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewShowsKeyStatus(t *testing.T) {
	m, state := newTestTab()

	if view := m.View(); !strings.Contains(view, "missing") {
		t.Error("view should report a missing key")
	}

	state.SetHasAPIKey(true)
	if view := m.View(); !strings.Contains(view, "configured") {
		t.Error("view should report a configured key")
	}
}

func TestViewShowsVersion(t *testing.T) {
	m, _ := newTestTab()

	if view := m.View(); !strings.Contains(view, "minimax-usage-tui") {
		t.Error("view missing version info")
	}
}
