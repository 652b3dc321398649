package dashboard

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/veymax/minimax-usage-tui/internal/app"
	"github.com/veymax/minimax-usage-tui/internal/models"
)

func record(name string, remaining int) models.UsageRecord {
	now := time.Now()
	return models.UsageRecord{
		ModelName:      name,
		TotalCount:     100,
		RemainingCount: remaining,
		WindowStart:    now.Add(-2 * time.Hour),
		WindowEnd:      now.Add(3 * time.Hour),
		RemainingTime:  3 * time.Hour,
	}
}

func newTestTab() (*Model, *app.State) {
	state := app.NewState()
	state.SetHasAPIKey(true)
	m := New(state, nil)
	m.SetSize(100, 30)
	return m, state
}

func keyPress(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func TestSelectionMoves(t *testing.T) {
	m, state := newTestTab()
	state.SetRecords([]models.UsageRecord{
		record("a", 90), record("b", 50), record("c", 10),
	}, time.Now())

	m.Update(keyPress("j"))
	m.Update(keyPress("j"))
	if got := state.GetSelectedModelIndex(); got != 2 {
		t.Errorf("selected = %d, want 2", got)
	}

	// Clamped at the last row
	m.Update(keyPress("j"))
	if got := state.GetSelectedModelIndex(); got != 2 {
		t.Errorf("selected = %d, want 2 after clamp", got)
	}

	m.Update(keyPress("k"))
	if got := state.GetSelectedModelIndex(); got != 1 {
		t.Errorf("selected = %d, want 1", got)
	}
}

func TestRefreshKeyEmitsRefreshMsg(t *testing.T) {
	m, _ := newTestTab()

	_, cmd := m.Update(keyPress("r"))
	if cmd == nil {
		t.Fatal("expected refresh command")
	}
	if _, ok := cmd().(app.RefreshMsg); !ok {
		t.Error("r should produce app.RefreshMsg")
	}
}

func TestRecheckKeyIsSafeWithoutServices(t *testing.T) {
	m, _ := newTestTab()

	_, cmd := m.Update(keyPress("R"))
	if cmd == nil {
		t.Fatal("expected a command from re-check")
	}
}

func TestStatsRow(t *testing.T) {
	row := renderStatsRow([]models.UsageRecord{
		record("a", 40),
		record("b", 80),
	})

	for _, want := range []string{"2 models", "80 used", "120 remaining", "40.0% average"} {
		if !strings.Contains(row, want) {
			t.Errorf("stats row missing %q: %s", want, row)
		}
	}
}

func TestViewShowsModels(t *testing.T) {
	m, state := newTestTab()
	state.SetRecords([]models.UsageRecord{record("MiniMax-M2", 40)}, time.Now())

	view := m.View()
	if !strings.Contains(view, "MiniMax-M2") {
		t.Error("view missing model name")
	}
	if !strings.Contains(view, "60 of 100 prompts used") {
		t.Error("view missing usage counts")
	}
}

func TestViewOnboardingWithoutKey(t *testing.T) {
	m, state := newTestTab()
	state.SetHasAPIKey(false)

	view := m.View()
	if !strings.Contains(view, "No API key configured") {
		t.Error("view should show onboarding hint")
	}
}

func TestViewErrorState(t *testing.T) {
	m, state := newTestTab()
	state.SetRecords(nil, time.Now())
	state.SetLastError("connection refused")

	view := m.View()
	if !strings.Contains(view, "connection refused") {
		t.Error("view should surface the fetch error")
	}
}

func TestWindowElapsedFraction(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name      string
		record    models.UsageRecord
		want      float64
		tolerance float64
	}{
		{
			name: "mid window",
			record: models.UsageRecord{
				WindowStart:   now,
				WindowEnd:     now.Add(4 * time.Hour),
				RemainingTime: 2 * time.Hour,
			},
			want:      0.5,
			tolerance: 0.01,
		},
		{
			name: "expired window",
			record: models.UsageRecord{
				WindowStart:   now,
				WindowEnd:     now.Add(4 * time.Hour),
				RemainingTime: -time.Hour,
			},
			want:      1,
			tolerance: 0.01,
		},
		{
			name:      "zero window",
			record:    models.UsageRecord{},
			want:      0,
			tolerance: 0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := windowElapsedFraction(tt.record)
			if got < tt.want-tt.tolerance || got > tt.want+tt.tolerance {
				t.Errorf("fraction = %v, want %v", got, tt.want)
			}
		})
	}
}
