// Command mmx is a terminal dashboard for MiniMax coding-plan usage.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/veymax/minimax-usage-tui/internal/app"
	"github.com/veymax/minimax-usage-tui/internal/config"
	"github.com/veymax/minimax-usage-tui/internal/logger"
	"github.com/veymax/minimax-usage-tui/internal/services"
	"github.com/veymax/minimax-usage-tui/internal/ui/tabs/alertstab"
	"github.com/veymax/minimax-usage-tui/internal/ui/tabs/dashboard"
	"github.com/veymax/minimax-usage-tui/internal/ui/tabs/history"
	"github.com/veymax/minimax-usage-tui/internal/ui/tabs/info"
	"github.com/veymax/minimax-usage-tui/internal/version"
)

func main() {
	for _, arg := range os.Args[1:] {
		switch arg {
		case "-v", "--version":
			fmt.Println(version.Info())
			return
		case "-h", "--help":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown flag: %s\n\n", arg)
			printUsage()
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.SetDebug(cfg.Debug)
	if !cfg.Debug {
		// Keep slog output off the alternate screen
		logger.SetOutput(io.Discard)
	}

	manager, err := services.NewManager(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start services: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := manager.Close(); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	state := app.NewState()
	state.SetHasAPIKey(manager.Credentials().HasAPIKey() || cfg.APIKey != "")

	model := app.NewModel(state, manager)
	model.SetTabs(
		[]app.TabID{app.TabDashboard, app.TabHistory, app.TabAlerts, app.TabInfo},
		[]app.Tab{
			dashboard.New(state, manager),
			history.New(state, manager),
			alertstab.New(state, manager.Policy(), manager.History()),
			info.New(state, cfg),
		},
	)

	manager.Start()

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		p.Send(tea.QuitMsg{})
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running program: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`mmx - MiniMax usage dashboard

Polls the MiniMax coding-plan metering API, records usage history and
fires desktop alerts before credits run out.

Usage:
  mmx [flags]

Flags:
  -v, --version   Print version information
  -h, --help      Show this help

Keys:
  1-4             Switch tabs
  tab/shift+tab   Cycle tabs
  ctrl+r          Refresh usage now
  ?               Help overlay
  q               Quit

Configuration (environment or .env):
  MINIMAX_API_KEY          API key fallback when no credentials file exists
  MINIMAX_API_ENDPOINT     Metering endpoint override
  USAGE_REFRESH_INTERVAL   Poll interval, e.g. 30s or 2m
  DATABASE_PATH            SQLite database location
  CREDENTIALS_PATH         Watched credentials file location
  DEBUG                    Verbose logging to stderr

Version: %s
`, version.Short())
}
