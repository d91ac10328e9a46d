// Package app wires the editing engine to a terminal: it owns the
// tcell screen, the event loop, and the lifecycle of the config
// watcher, and translates terminal input into editor gestures.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/pianoroll/internal/config"
	"github.com/dshills/pianoroll/internal/coord"
	"github.com/dshills/pianoroll/internal/editor"
	"github.com/dshills/pianoroll/internal/event"
	"github.com/dshills/pianoroll/internal/history"
	"github.com/dshills/pianoroll/internal/midifile"
	"github.com/dshills/pianoroll/internal/note"
	"github.com/dshills/pianoroll/internal/selection"
)

// ErrQuit signals a normal user-requested exit.
var ErrQuit = errors.New("quit")

// Terminal cells are coarse; one cell maps to 100ms and one pitch row
// at zoom 1.
const (
	cellsPerSecond = 10.0
	cellsPerNote   = 1.0
)

// Options configures the application.
type Options struct {
	ConfigPath string
	FilePath   string
	Snapshot   string // PNG path written by the snapshot key
}

// App is the running application.
type App struct {
	opts Options

	cfg      *config.Store
	coords   *coord.System
	timeline *note.Timeline
	sel      *selection.Set
	log      *history.Log
	emitter  *event.Emitter
	editor   *editor.Editor

	watcher *config.Watcher
	screen  tcell.Screen

	mouseDown bool
	message   string

	shutdownOnce sync.Once
}

// New builds the application: configuration is loaded (file, then
// environment), the engine is assembled, and the file argument is
// imported if present.
func New(opts Options) (*App, error) {
	cfg := config.NewStore()
	if opts.ConfigPath != "" {
		if err := cfg.LoadFile(opts.ConfigPath); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}
	cfg.LoadEnv()

	coords := coord.NewSystem(note.MinPitch, note.MaxPitch)
	coords.SetScale(cellsPerSecond, cellsPerNote)
	minZoom, maxZoom := cfg.ZoomLimits()
	coords.SetZoomLimits(minZoom, maxZoom)

	timeline := note.NewTimeline()
	sel := selection.NewSet(timeline, coords)
	log := history.NewLog(cfg.HistoryMaxEntries())
	emitter := event.NewEmitter()
	ed := editor.New(coords, timeline, sel, log, cfg, emitter)

	a := &App{
		opts:     opts,
		cfg:      cfg,
		coords:   coords,
		timeline: timeline,
		sel:      sel,
		log:      log,
		emitter:  emitter,
		editor:   ed,
	}

	if opts.FilePath != "" {
		if err := a.importFile(opts.FilePath); err != nil {
			return nil, err
		}
	}

	if opts.ConfigPath != "" {
		w, err := config.NewWatcher(cfg, opts.ConfigPath)
		if err != nil {
			slog.Warn("config watching disabled", "error", err)
		} else {
			a.watcher = w
		}
	}
	return a, nil
}

// Run initializes the terminal and blocks in the event loop until the
// user quits. Returns ErrQuit on a normal exit.
func (a *App) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	screen.EnableMouse()
	a.screen = screen
	defer screen.Fini()

	// Engine-side redraw requests wake the poll loop.
	a.emitter.Subscribe(event.TopicRedrawRequested, func(any) {
		screen.PostEvent(tcell.NewEventInterrupt(nil))
	})

	for {
		a.draw()
		screen.Show()

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if err := a.handleKey(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					return ErrQuit
				}
				return err
			}
		case *tcell.EventMouse:
			a.handleMouse(ev)
		case *tcell.EventInterrupt:
			// Redraw at the top of the loop.
		}
	}
}

// Shutdown releases the config watcher. Safe to call more than once.
func (a *App) Shutdown() {
	a.shutdownOnce.Do(func() {
		if a.watcher != nil {
			if err := a.watcher.Close(); err != nil {
				slog.Warn("closing config watcher", "error", err)
			}
		}
	})
}

func (a *App) importFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil // new file, saved on first write
	}
	notes, err := midifile.Import(path, a.cfg.MinDurationMs())
	if err != nil {
		return err
	}
	for _, n := range notes {
		if _, err := a.timeline.Insert(n); err != nil {
			return fmt.Errorf("importing %s: %w", path, err)
		}
	}
	return nil
}

func (a *App) save() {
	if a.opts.FilePath == "" {
		a.message = "no file path; start with a filename argument"
		return
	}
	if err := midifile.Export(a.timeline, a.opts.FilePath); err != nil {
		a.message = fmt.Sprintf("save failed: %v", err)
		slog.Error("save failed", "path", a.opts.FilePath, "error", err)
		return
	}
	a.timeline.ClearDirty()
	a.message = fmt.Sprintf("saved %s", a.opts.FilePath)
}

func (a *App) undo() {
	if err := a.log.Undo(a.timeline); err != nil {
		if !errors.Is(err, history.ErrNothingToUndo) {
			a.message = fmt.Sprintf("undo failed: %v", err)
		}
		return
	}
	a.sel.Prune()
	a.message = "undo"
}

func (a *App) redo() {
	if err := a.log.Redo(a.timeline); err != nil {
		if !errors.Is(err, history.ErrNothingToRedo) {
			a.message = fmt.Sprintf("redo failed: %v", err)
		}
		return
	}
	a.sel.Prune()
	a.message = "redo"
}
