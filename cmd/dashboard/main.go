package main

import (
	"context"
	"log/slog"
	"os"

	"inventory-dashboard/internal/app"
	"inventory-dashboard/internal/config"
	"inventory-dashboard/internal/service"
	"inventory-dashboard/internal/session"
	"inventory-dashboard/internal/tui"
	"inventory-dashboard/internal/ws"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// the terminal belongs to the UI, so logs go to a file
	logFile, err := tea.LogToFile("dashboard.log", "dashboard")
	if err != nil {
		slog.Error("cannot open log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := slog.New(slog.NewTextHandler(logFile, nil))
	slog.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	productRepo, categories, err := app.Catalog(cfg, log)
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	describer := app.Describer(ctx, cfg, log)

	// catalog events drive the view refresh and the toasts
	hub := ws.NewHub(log)
	go hub.Run(ctx)
	invService := service.NewInventoryService(productRepo, categories, hub)

	bridge := tui.NewBridge()
	sess := session.New(invService, describer, bridge, session.Options{
		PageSize:   cfg.DefaultPageSize,
		Debounce:   cfg.SearchDebounce,
		ConfirmTTL: cfg.DeleteConfirmTTL,
		Hub:        hub,
		Logger:     log,
	})
	sess.Start()
	defer sess.Close()

	p := tea.NewProgram(tui.New(sess, bridge, categories), tea.WithAltScreen())
	bridge.Attach(p)
	if _, err := p.Run(); err != nil {
		log.Error("dashboard exited", "error", err)
		os.Exit(1)
	}
}
