package app

import (
	"fmt"
	"os"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/op"
	"gioui.org/unit"
	"github.com/rs/zerolog/log"

	"github.com/justyntemme/mark/internal/args"
	"github.com/justyntemme/mark/internal/bridge"
	"github.com/justyntemme/mark/internal/config"
	"github.com/justyntemme/mark/internal/debug"
	"github.com/justyntemme/mark/internal/dialog"
	"github.com/justyntemme/mark/internal/menu"
	"github.com/justyntemme/mark/internal/store"
	"github.com/justyntemme/mark/internal/ui"
	"github.com/justyntemme/mark/internal/workspace"
)

// Options are the inputs of a run.
type Options struct {
	Args  []string // Raw command line without the program name
	Debug bool
}

type Orchestrator struct {
	window   *app.Window
	config   *config.Manager
	menu     *menu.Menu
	bridge   *bridge.Bridge
	events   <-chan bridge.Event
	handoff  *bridge.Handoff
	store    *store.DB
	watcher  *workspace.Watcher
	frontend *ui.Frontend
	ui       *ui.Renderer

	cwd        string
	wsOptions  workspace.Options
	fullscreen bool
}

// NewOrchestrator resolves the startup paths and builds every component.
// An error means the application cannot start.
func NewOrchestrator(opts Options) (*Orchestrator, error) {
	cwd, err := os.Getwd()
	if err != nil {
		debug.Log(debug.APP, "working directory unavailable, using \".\": %v", err)
		cwd = "."
	}
	paths := args.Resolve(opts.Args, cwd)
	debug.Log(debug.ARGS, "startup paths: %v", paths)

	cfgMgr := config.NewManager()
	if err := cfgMgr.Load(); err != nil {
		debug.Log(debug.CONFIG, "load config: %v", err)
	}
	cfg := cfgMgr.Get()

	m, err := menu.Default()
	if err != nil {
		return nil, fmt.Errorf("build menu: %w", err)
	}

	b := bridge.New(cfg.Events.QueueSize)
	events, err := b.Subscribe()
	if err != nil {
		return nil, fmt.Errorf("subscribe to menu events: %w", err)
	}

	w := new(app.Window)
	o := &Orchestrator{
		window:  w,
		config:  cfgMgr,
		menu:    m,
		bridge:  b,
		events:  events,
		handoff: bridge.NewHandoff(paths),
		store:   store.NewDB(cfg.Recent.MaxEntries),
		ui:      ui.NewRenderer(m, w.Invalidate),
		cwd:     cwd,
		wsOptions: workspace.Options{
			Extensions: cfg.Workspace.Extensions,
			MaxDepth:   cfg.Workspace.MaxDepth,
		},
	}

	if w, err := workspace.NewWatcher(cfg.Workspace.WatchDebounceMs); err != nil {
		debug.Log(debug.WORKSPACE, "watcher unavailable: %v", err)
	} else {
		o.watcher = w
	}

	view := ui.View{Preview: cfg.View.Preview, Linter: cfg.View.Linter, Sidebar: cfg.View.Sidebar}
	o.frontend = ui.NewFrontend(view, cwd, dialog.NewNative(cfg.Workspace.Extensions), ui.Hooks{
		Changed: o.window.Invalidate,
		SaveSetting: func(key, value string) {
			o.store.RequestChan <- store.Request{Op: store.SaveSetting, Key: key, Value: value}
		},
		OpenWorkspace: o.openWorkspace,
		Opened: func(paths []string) {
			o.store.RequestChan <- store.Request{Op: store.AddRecents, Paths: paths}
		},
		Resolve: func(path string) string {
			return args.ResolvePath(path, o.cwd)
		},
	})
	for _, it := range m.Items() {
		if !o.frontend.Handles(it.ID) {
			debug.Log(debug.MENU, "menu item %q has no behavior", it.ID)
		}
	}
	return o, nil
}

func (o *Orchestrator) Run() error {
	cfg := o.config.Get()
	if err := o.config.ParseError(); err != nil {
		o.frontend.SetStatus("Konfiguration fehlerhaft, Standardwerte aktiv: %v", err)
	}

	if err := o.store.Open(o.config.StorePath()); err != nil {
		debug.Log(debug.STORE, "open store: %v", err)
	}
	defer o.store.Close()
	defer o.bridge.Close()
	if o.watcher != nil {
		defer o.watcher.Close()
	}

	go o.store.Start()
	go o.processMenuEvents()
	go o.processStoreResponses()
	if o.watcher != nil {
		go o.processWorkspaceChanges()
	}

	o.store.RequestChan <- store.Request{Op: store.FetchSettings}
	o.store.RequestChan <- store.Request{Op: store.FetchRecents}

	o.window.Option(
		app.Title(cfg.Window.Title),
		app.Size(unit.Dp(cfg.Window.Width), unit.Dp(cfg.Window.Height)),
	)

	var ops op.Ops
	for {
		switch e := o.window.Event().(type) {
		case app.DestroyEvent:
			forwarded, dropped := o.bridge.Stats()
			debug.Log(debug.APP, "window closed: %d menu events forwarded, %d dropped", forwarded, dropped)
			if o.handoff.Pending() {
				debug.Log(debug.APP, "window closed before the startup paths were delivered")
			}
			return e.Err
		case app.ConfigEvent:
			o.fullscreen = e.Config.Mode == app.Fullscreen
			o.frontend.SetFullscreen(o.fullscreen)
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			// The first frame means the UI layer is ready for the startup paths.
			if o.handoff.Deliver(o.frontend.ReceiveArgs) {
				debug.Log(debug.APP, "startup paths delivered")
			}

			snap := o.frontend.Snapshot()
			o.applyWindowMode(snap.View.Fullscreen)
			for _, evt := range o.ui.Layout(gtx, snap) {
				o.handleUIEvent(evt)
			}
			e.Frame(gtx.Ops)
		}
	}
}

func (o *Orchestrator) handleUIEvent(evt ui.UIEvent) {
	switch evt.Action {
	case ui.ActionMenu:
		if p, ok := evt.Node.(*menu.Predefined); ok {
			o.handlePredefined(p.Role)
			return
		}
		o.bridge.Activate(evt.Node)
	case ui.ActionSelectTab:
		o.frontend.Select(evt.Index)
	case ui.ActionOpen:
		o.frontend.Open(evt.Path)
	case ui.ActionClosePage:
		o.frontend.ClosePage()
	}
}

// handlePredefined performs platform-owned entries. Edit roles act on the
// focused text widget, which already receives their chords.
func (o *Orchestrator) handlePredefined(role menu.Role) {
	switch role {
	case menu.RoleQuit:
		debug.Log(debug.APP, "quit requested")
		o.window.Perform(system.ActionClose)
	default:
		debug.Log(debug.MENU, "%s is handled by the focused widget", role)
	}
}

func (o *Orchestrator) applyWindowMode(fullscreen bool) {
	if fullscreen == o.fullscreen {
		return
	}
	o.fullscreen = fullscreen
	if fullscreen {
		o.window.Option(app.Fullscreen.Option())
	} else {
		o.window.Option(app.Windowed.Option())
	}
}

// processMenuEvents is the UI layer's listener on the bridge.
func (o *Orchestrator) processMenuEvents() {
	for ev := range o.events {
		o.frontend.HandleAction(ev.ID)
	}
}

func (o *Orchestrator) processStoreResponses() {
	for resp := range o.store.ResponseChan {
		if resp.Err != nil {
			debug.Log(debug.STORE, "request %d failed: %v", resp.Op, resp.Err)
			continue
		}
		switch resp.Op {
		case store.FetchRecents:
			o.frontend.SetRecents(resp.Recents)
		case store.FetchSettings:
			o.frontend.ApplySettings(resp.Settings)
		}
	}
}

func (o *Orchestrator) processWorkspaceChanges() {
	for root := range o.watcher.Notify() {
		if o.frontend.Snapshot().Workspace.Root != root {
			continue
		}
		o.scanWorkspace(root)
	}
}

// openWorkspace scans root off the calling goroutine and shows it in the sidebar.
func (o *Orchestrator) openWorkspace(root string) {
	go o.scanWorkspace(root)
}

func (o *Orchestrator) scanWorkspace(root string) {
	snap, err := workspace.Scan(root, o.wsOptions)
	if err != nil {
		o.frontend.SetStatus("Ordner konnte nicht gelesen werden: %v", err)
		return
	}
	debug.Log(debug.WORKSPACE, "%s: %d documents in %d folders", root, len(snap.Documents), len(snap.Dirs))
	if !o.frontend.SetWorkspace(snap) {
		return
	}
	if o.watcher != nil {
		o.watcher.Track(snap)
	}
}

// Main builds the application and runs it on the Gio main loop. Startup
// failures, including an invalid menu, are fatal.
func Main(opts Options) {
	if opts.Debug {
		debug.EnableAll()
	}

	o, err := NewOrchestrator(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("mark cannot start")
	}

	go func() {
		if err := o.Run(); err != nil {
			log.Fatal().Err(err).Msg("window failed")
		}
		os.Exit(0)
	}()
	app.Main()
}
