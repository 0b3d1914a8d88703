package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/einview/internal/config"
	"github.com/kobzarvs/einview/internal/logger"
	"github.com/kobzarvs/einview/internal/watcher"
)

// App is the top-level runtime for einview.
type App struct {
	args     []string
	override func(*config.Config)
}

// New creates the app. override, when non-nil, is applied to every loaded
// configuration, including reloads.
func New(args []string, override func(*config.Config)) *App {
	return &App{args: args, override: override}
}

type reloadConfig struct{}

func (a *App) loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if a.override != nil {
		a.override(&cfg)
	}
	return cfg, nil
}

func (a *App) Run() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return fmt.Errorf("loading languages: %w", err)
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	v := newViewer(cfg, langs)
	defer v.close()
	if len(a.args) > 0 {
		if err := v.open(a.args[0]); err != nil {
			return err
		}
	}

	if stop := a.watchConfig(s); stop != nil {
		defer stop()
	}

	v.refreshHighlights()
	v.ed.Render(s)
	for {
		ev := s.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if v.handleKey(ev) {
				return nil
			}
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventInterrupt:
			if _, ok := ev.Data().(reloadConfig); ok {
				cfg, err := a.loadConfig()
				if err != nil {
					logger.Warn("app: config reload failed", "error", err)
					v.ed.SetStatusMessage("config: " + err.Error())
					break
				}
				v.applyConfig(cfg)
			}
		}
		v.ed.UpdateScroll()
		v.refreshHighlights()
		v.ed.Render(s)
	}
}

// watchConfig posts a reload event whenever the config directory changes. It
// returns nil when the directory cannot be watched.
func (a *App) watchConfig(s tcell.Screen) func() {
	dir, err := config.ConfigDir()
	if err != nil {
		logger.Warn("app: config dir unavailable", "error", err)
		return nil
	}
	w, err := watcher.New(watcher.DefaultConfig(dir))
	if err != nil {
		logger.Warn("app: watcher unavailable", "error", err)
		return nil
	}
	onChange, err := w.Start()
	if err != nil {
		logger.Info("app: config not watched", "dir", dir, "error", err)
		_ = w.Stop()
		return nil
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-onChange:
				_ = s.PostEvent(tcell.NewEventInterrupt(reloadConfig{}))
			}
		}
	}()
	return func() {
		close(done)
		_ = w.Stop()
	}
}
