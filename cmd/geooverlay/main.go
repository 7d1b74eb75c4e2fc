package main

import (
	"errors"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gogpu/gg"
	"github.com/spf13/pflag"

	"geooverlay/internal/config"
	"geooverlay/internal/overlay"
	"geooverlay/internal/tui"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Debug {
		f, err := tea.LogToFile(cfg.LogFile, "geooverlay")
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		overlay.SetLogger(logger)
		gg.SetLogger(logger)
	}

	var m tui.Model
	if len(cfg.Files) > 0 {
		m = tui.NewWithPath(cfg, cfg.Files[0])
	} else {
		m = tui.New(cfg)
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	if fm, ok := final.(tui.Model); ok {
		fm.Close()
	}
	if err != nil {
		log.Fatal(err)
	}
}
