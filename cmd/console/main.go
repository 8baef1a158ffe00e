package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/npc-dialog/internal/config"
	"github.com/jwebster45206/npc-dialog/internal/events"
	"github.com/jwebster45206/npc-dialog/internal/logger"
	"github.com/jwebster45206/npc-dialog/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	out, err := logger.OpenOutput(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log output: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = out.Close() // Ignore error in defer
	}()
	log := logger.Setup(cfg, out)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := storage.NewStore(cfg.DataDir, log)
	world, err := LoadWorld(ctx, store, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load scene %q: %v\n", cfg.Scene, err)
		os.Exit(1)
	}

	var publisher Publisher
	if cfg.RedisURL != "" {
		b, err := events.Connect(ctx, cfg.RedisURL, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to Redis: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = b.Close() // Ignore error in defer
		}()
		publisher = b
	}

	ui := NewConsoleUI(world, log, publisher, cfg.FrameRate)
	log.Info("Console started", "scene", cfg.Scene, "session_id", ui.session)

	p := tea.NewProgram(ui,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	_, err = p.Run()
	ui.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
