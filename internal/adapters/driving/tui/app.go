package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/proofmark/internal/adapters/driven/richtext"
	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/views/editor"
	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/proofmark/internal/core/ports/driving"
	"github.com/custodia-labs/proofmark/internal/logger"
)

var appLog = logger.For("tui")

// SaveFunc writes doc somewhere and returns where it went.
type SaveFunc func(doc *richtext.Document) (string, error)

// Options configures the application.
type Options struct {
	// Name is shown in the status bar and window title.
	Name string

	// Save writes the document. When nil, saving is disabled and quitting
	// never asks for confirmation.
	Save SaveFunc
}

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the keybindings.
	keymap *keymap.KeyMap

	// editor is the document being edited.
	editor *richtext.Editor

	// session decorates editor. It is driven from the Bubbletea goroutine.
	session driving.EditorSession

	// dispatcher delivers session callbacks to Update.
	dispatcher *programDispatcher

	// editorView is the decorated editor.
	editorView *editor.View

	// settingsView is nil when no settings service is available.
	settingsView *settings.View

	status *status.Bar
	help   help.Model

	// currentView tracks which view is active.
	currentView messages.ViewType

	opts Options

	// savedRev is the revision last written; savingRev the one being written.
	savedRev  uint64
	savingRev uint64

	// quitArmed is set after a quit request with unsaved changes.
	quitArmed bool

	// err and notice are shown in the status bar until the next key press.
	err    error
	notice string

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its first window size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a TUI editing ed. The session is created from
// ports.Sessions and runs its callbacks on the Bubbletea goroutine.
func NewApp(ports *Ports, ed *richtext.Editor, opts Options) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if ed == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingEditor)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	dispatcher := newProgramDispatcher()
	session := ports.Sessions.NewSession(ed, dispatcher)

	var settingsView *settings.View
	if ports.Settings != nil {
		settingsView = settings.NewView(s, ports.Settings)
	}

	h := help.New()
	h.ShowAll = true

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		editor:       ed,
		session:      session,
		dispatcher:   dispatcher,
		editorView:   editor.NewView(s, km, ed, session),
		settingsView: settingsView,
		status:       status.NewBar(s, km),
		help:         h,
		currentView:  messages.ViewEditor,
		opts:         opts,
		savedRev:     ed.Current().Revision(),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.editorView.WithContext(ctx)
	return a
}

// Init implements tea.Model. It starts the session, which schedules the
// first check.
func (a *App) Init() tea.Cmd {
	a.session.Start()
	a.refreshStatus()

	title := "proofmark"
	if a.opts.Name != "" {
		title += " - " + a.opts.Name
	}
	return tea.Batch(
		tea.SetWindowTitle(title),
		a.status.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	return a, tea.Batch(cmd, a.refreshStatus())
}

//nolint:gocyclo // central message handler
func (a *App) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		if a.currentView == messages.ViewEditor {
			a.editorView, cmd = a.editorView.Update(msg)
		}
		return cmd

	case messages.Dispatched:
		if msg.Fn != nil {
			msg.Fn()
		}
		return nil

	case spinner.TickMsg:
		a.status, cmd = a.status.Update(msg)
		return cmd

	case messages.ViewChanged:
		return a.switchView(msg.View)

	case messages.SaveRequested:
		return a.save()

	case messages.DocumentSaved:
		if msg.Err != nil {
			a.err = fmt.Errorf("saving: %w", msg.Err)
			return nil
		}
		a.savedRev = a.savingRev
		a.notice = "Saved " + msg.Path
		return nil

	case messages.SuggestionApplied:
		if msg.Err != nil {
			a.err = msg.Err
		}
		return nil

	case messages.ErrorIgnored:
		if msg.Err != nil {
			a.err = msg.Err
			return nil
		}
		a.notice = "Error ignored"
		return nil

	case messages.IgnoredReset:
		if msg.Err != nil {
			a.err = msg.Err
			return nil
		}
		a.notice = "Ignored errors cleared"
		return nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return nil

	case messages.Notice:
		a.notice = msg.Text
		return nil

	case messages.SettingsLoaded, messages.SettingSaved:
		if a.settingsView != nil {
			a.settingsView, cmd = a.settingsView.Update(msg)
		}
		return cmd
	}

	return nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	a.err = nil
	a.notice = ""
	k := msg.String()

	if keymap.Matches(k, a.keymap.Quit) {
		return a.quit()
	}
	a.quitArmed = false

	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewHelp:
		if keymap.Matches(k, a.keymap.Back) || keymap.Matches(k, a.keymap.Help) {
			a.currentView = messages.ViewEditor
		}
		return nil

	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return cmd

	case messages.ViewEditor:
	}

	switch {
	case keymap.Matches(k, a.keymap.Help):
		return a.switchView(messages.ViewHelp)
	case keymap.Matches(k, a.keymap.Settings):
		return a.switchView(messages.ViewSettings)
	case keymap.Matches(k, a.keymap.Save):
		return a.save()
	}

	a.editorView, cmd = a.editorView.Update(msg)
	return cmd
}

func (a *App) quit() tea.Cmd {
	if a.Dirty() && a.opts.Save != nil && !a.quitArmed {
		a.quitArmed = true
		a.notice = "Unsaved changes. Press ctrl+q again to quit."
		return nil
	}
	return tea.Quit
}

func (a *App) switchView(view messages.ViewType) tea.Cmd {
	switch view {
	case messages.ViewSettings:
		if a.settingsView == nil {
			a.err = settings.ErrNoSettingsService
			return nil
		}
		a.currentView = view
		return a.settingsView.Init()
	case messages.ViewEditor, messages.ViewHelp:
		a.currentView = view
	}
	return nil
}

// save writes the current snapshot in the background. Snapshots are
// immutable, so the command can read it off the session goroutine.
func (a *App) save() tea.Cmd {
	if a.opts.Save == nil {
		a.notice = "Saving is not available for this document"
		return nil
	}
	doc := a.editor.Current()
	a.savingRev = doc.Revision()
	save := a.opts.Save
	return func() tea.Msg {
		path, err := save(doc)
		return messages.DocumentSaved{Path: path, Err: err}
	}
}

// refreshStatus copies session state into the status bar.
func (a *App) refreshStatus() tea.Cmd {
	a.status.SetDocument(a.opts.Name, a.Dirty())
	a.status.SetCounts(len(a.session.Decorations()), a.session.IgnoredCount())

	if a.err != nil {
		a.status.SetMessage(a.err.Error())
		return a.status.SetState(status.StateError)
	}
	a.status.SetMessage(a.notice)
	if a.session.Checking() {
		return a.status.SetState(status.StateChecking)
	}
	if _, ok := a.session.Focus(); ok {
		return a.status.SetState(status.StateFocused)
	}
	return a.status.SetState(status.StateReady)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewSettings:
		body = a.settingsView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	case messages.ViewEditor:
		body = a.editorView.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, a.status.View())
}

func (a *App) viewHelp() string {
	title := a.styles.Title.Render("Keys")
	hint := a.styles.Help.Render("[esc] back to editor")
	content := lipgloss.JoinVertical(lipgloss.Left, title, "", a.help.View(a.keymap), "", hint)
	return lipgloss.NewStyle().Height(max(a.height-1, 1)).Render(content)
}

// Run starts the TUI and blocks until the user quits. The session is
// closed before Run returns.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()

	p := tea.NewProgram(a,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	a.dispatcher.attach(p.Send)

	go func() {
		if err := a.dispatcher.run(ctx); err != nil && ctx.Err() == nil {
			appLog.Warn("dispatcher stopped: %v", err)
		}
	}()

	_, err := p.Run()

	// The program goroutine has returned, so this goroutine now owns the session.
	a.session.Close()
	a.dispatcher.close()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Session returns the editor session.
func (a *App) Session() driving.EditorSession {
	return a.session
}

// Dirty reports whether the document changed since it was last saved.
func (a *App) Dirty() bool {
	return a.editor.Current().Revision() != a.savedRev
}

// Err returns the error shown in the status bar.
func (a *App) Err() error {
	return a.err
}

// Notice returns the message shown in the status bar.
func (a *App) Notice() string {
	return a.notice
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions. The last row belongs to
// the status bar.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.editorView.SetDimensions(width, max(height-1, 1))
	a.status.SetWidth(width)
	a.help.Width = width
	if a.settingsView != nil {
		a.settingsView.SetDimensions(width, max(height-1, 1))
	}
}
