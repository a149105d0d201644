package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/linkshelf/internal/collection"
	"github.com/nikbrunner/linkshelf/internal/layout"
	"github.com/nikbrunner/linkshelf/internal/model"
	"github.com/nikbrunner/linkshelf/internal/router"
	"github.com/nikbrunner/linkshelf/internal/view"
)

var errNoOpener = errors.New("no URL opener configured")

// App is the main bubbletea model. It drives a router over the link
// collection and shows the router's page as a list pane and a tag pane.
type App struct {
	links     *collection.Collection
	router    *router.Router
	templates *view.TermTemplates
	sel       *selection
	ctx       context.Context

	keys   KeyMap
	styles Styles
	layout layout.LayoutConfig

	copyText func(string) error
	openURL  func(string) error

	start router.Route

	mode          Mode
	focus         Focus
	cursor        int // index into the collection
	tagCursor     int // index into the tag index
	listOffset    int // first visible line of the list pane
	form          FormState
	pendingDelete model.Link
	loading       bool
	message       string

	// For gg command
	lastKeyWasG bool

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Links   *collection.Collection
	Route   router.Route    // first route shown; the zero value is all links
	Context context.Context // optional, defaults to context.Background

	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil

	Clipboard func(string) error // optional, defaults to the system clipboard
	OpenURL   func(string) error // optional, opening links fails without it
}

// NewApp creates a new App with the given parameters. Call Close when the
// program exits.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	cfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		cfg = *params.LayoutConfig
	}

	ctx := params.Context
	if ctx == nil {
		ctx = context.Background()
	}

	copyText := params.Clipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	openURL := params.OpenURL
	if openURL == nil {
		openURL = func(string) error { return errNoOpener }
	}

	sel := &selection{}
	templates := view.NewTermTemplates()
	templates.Text = cfg.Text
	templates.SelectedLink = sel.isLink
	templates.SelectedTag = sel.isTag

	app := App{
		links:     params.Links,
		router:    router.New(router.Params{Links: params.Links, Templates: templates}),
		templates: templates,
		sel:       sel,
		ctx:       ctx,
		keys:      keys,
		styles:    styles,
		layout:    cfg,
		copyText:  copyText,
		openURL:   openURL,
		start:     params.Route,
		form:      NewFormState(cfg),
		loading:   true,
	}
	return app.WithDimensions(80, 24)
}

// WithDimensions returns a copy of the app laid out for a terminal of the
// given size.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	widths := layout.CalculatePaneWidths(width, a.layout.Pane)
	a.templates.SetWidth(layout.CalculateItemWidth(widths.ListWidth, a.layout.Pane))
	a.syncSelection()
	return a
}

// Close detaches the app's views from the collection.
func (a App) Close() {
	a.router.Close()
}

// Cursor returns the selected link index.
func (a App) Cursor() int { return a.cursor }

// TagCursor returns the selected tag index.
func (a App) TagCursor() int { return a.tagCursor }

// Focus returns the focused pane.
func (a App) Focus() Focus { return a.focus }

// Mode returns the current interaction mode.
func (a App) Mode() Mode { return a.mode }

// Message returns the status line text.
func (a App) Message() string { return a.message }

// Route returns the route shown.
func (a App) Route() router.Route { return a.router.Route() }

// Page returns the router's current page.
func (a App) Page() router.Page { return a.router.Page() }

// SelectedLink returns the link under the cursor.
func (a App) SelectedLink() (model.Link, bool) {
	links := a.links.Links()
	if a.cursor < 0 || a.cursor >= len(links) {
		return model.Link{}, false
	}
	return links[a.cursor], true
}

// SelectedTag returns the tag under the tag cursor.
func (a App) SelectedTag() (string, bool) {
	tags := a.links.Tags()
	if a.tagCursor < 0 || a.tagCursor >= len(tags) {
		return "", false
	}
	return tags[a.tagCursor], true
}

type navigatedMsg struct {
	route router.Route
	err   error
}

type createdMsg struct {
	link model.Link
	err  error
}

type deletedMsg struct {
	link model.Link
	err  error
}

type openedMsg struct {
	url string
	err error
}

// Init implements tea.Model. It navigates to the start route.
func (a App) Init() tea.Cmd {
	r, ctx, route := a.router, a.ctx, a.start
	return func() tea.Msg {
		return navigatedMsg{route: route, err: r.Go(ctx, route)}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.WithDimensions(msg.Width, msg.Height), nil

	case navigatedMsg:
		a.loading = false
		if msg.err != nil {
			slog.Warn("navigate failed", "route", msg.route.String(), "error", msg.err)
		}
		a.syncSelection()
		return a, nil

	case createdMsg:
		if msg.err != nil {
			slog.Warn("create failed", "error", msg.err)
		} else {
			slog.Info("link created", "id", msg.link.ID, "url", msg.link.URL)
			a.message = "Added " + msg.link.Title
			a.focus = FocusList
			a.cursor = a.indexOf(msg.link.ID)
		}
		a.syncSelection()
		return a, nil

	case deletedMsg:
		if msg.err != nil {
			slog.Warn("delete failed", "id", msg.link.ID, "error", msg.err)
		} else {
			slog.Info("link deleted", "id", msg.link.ID)
			a.message = "Deleted " + msg.link.Title
		}
		a.syncSelection()
		return a, nil

	case openedMsg:
		if msg.err != nil {
			slog.Warn("open failed", "url", msg.url, "error", msg.err)
		}
		return a, nil

	case tea.KeyMsg:
		a.message = ""
		switch a.mode {
		case ModeAdd:
			return a.updateAdd(msg)
		case ModeConfirmDelete:
			return a.updateConfirmDelete(msg)
		default:
			return a.updateBrowse(msg)
		}
	}

	return a, nil
}

func (a App) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.lastKeyWasG = false
			a.setCursor(0)
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		a.setCursor(a.currentCursor() + 1)

	case key.Matches(msg, a.keys.Up):
		a.setCursor(a.currentCursor() - 1)

	case key.Matches(msg, a.keys.Bottom):
		a.setCursor(a.paneLen() - 1)

	case key.Matches(msg, a.keys.SwitchPane):
		if a.focus == FocusList {
			a.focus = FocusTags
		} else {
			a.focus = FocusList
		}
		a.syncSelection()

	case key.Matches(msg, a.keys.Open):
		if a.focus == FocusTags {
			tag, ok := a.SelectedTag()
			if !ok {
				return a, nil
			}
			a.focus = FocusList
			return a, a.goTo(router.Tag(tag))
		}
		link, ok := a.SelectedLink()
		if !ok {
			return a, nil
		}
		open, url := a.openURL, link.URL
		return a, func() tea.Msg {
			return openedMsg{url: url, err: open(url)}
		}

	case key.Matches(msg, a.keys.Back):
		if a.router.Route().Kind == router.FilteredByTag {
			return a, a.goTo(router.Index())
		}

	case key.Matches(msg, a.keys.Reload):
		return a, a.goTo(a.router.Route())

	case key.Matches(msg, a.keys.Add):
		a.mode = ModeAdd
		a.form.Reset()
		a.router.Form().SetValues(view.FormValues{})
		a.router.Form().Render()

	case key.Matches(msg, a.keys.Delete):
		if a.focus != FocusList {
			return a, nil
		}
		if link, ok := a.SelectedLink(); ok {
			a.pendingDelete = link
			a.mode = ModeConfirmDelete
		}

	case key.Matches(msg, a.keys.YankURL):
		link, ok := a.SelectedLink()
		if !ok {
			return a, nil
		}
		if err := a.copyText(link.URL); err != nil {
			slog.Warn("copy failed", "error", err)
			return a, nil
		}
		a.message = "Copied " + link.URL
	}

	return a, nil
}

func (a App) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc || msg.Type == tea.KeyCtrlC:
		a.mode = ModeBrowse
		a.form.Reset()
		a.router.Form().SetValues(view.FormValues{})
		a.router.Form().Render()
		return a, nil

	case key.Matches(msg, a.keys.Submit):
		a.mode = ModeBrowse
		form, ctx := a.router.Form(), a.ctx
		form.SetValues(a.form.Values())
		a.form.Reset()
		return a, func() tea.Msg {
			link, err := form.Submit(ctx)
			return createdMsg{link: link, err: err}
		}

	case key.Matches(msg, a.keys.Next):
		a.form.Move(1)
		return a, nil

	case key.Matches(msg, a.keys.Previous):
		a.form.Move(-1)
		return a, nil
	}

	var cmd tea.Cmd
	a.form.Inputs[a.form.Focus], cmd = a.form.Inputs[a.form.Focus].Update(msg)

	// Mirror typing into the page's create form.
	a.router.Form().SetValues(a.form.Values())
	a.router.Form().Render()
	return a, cmd
}

func (a App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Confirm):
		a.mode = ModeBrowse
		links, ctx, link := a.links, a.ctx, a.pendingDelete
		a.pendingDelete = model.Link{}
		return a, func() tea.Msg {
			return deletedMsg{link: link, err: links.Destroy(ctx, link)}
		}

	case key.Matches(msg, a.keys.Cancel):
		a.mode = ModeBrowse
		a.pendingDelete = model.Link{}
	}
	return a, nil
}

// goTo returns a command that navigates to route. The cursor resets when
// the route changes.
func (a *App) goTo(route router.Route) tea.Cmd {
	if route != a.router.Route() {
		a.cursor = 0
		a.tagCursor = 0
		a.listOffset = 0
	}
	a.loading = true
	a.syncSelection()

	r, ctx := a.router, a.ctx
	return func() tea.Msg {
		return navigatedMsg{route: route, err: r.Go(ctx, route)}
	}
}

func (a App) currentCursor() int {
	if a.focus == FocusTags {
		return a.tagCursor
	}
	return a.cursor
}

func (a App) paneLen() int {
	if a.focus == FocusTags {
		return len(a.links.Tags())
	}
	return a.links.Len()
}

// setCursor moves the focused pane's cursor, clamped to its items.
func (a *App) setCursor(i int) {
	if a.focus == FocusTags {
		a.tagCursor = i
	} else {
		a.cursor = i
	}
	a.syncSelection()
}

func (a App) indexOf(id string) int {
	for i, l := range a.links.Links() {
		if l.ID == id {
			return i
		}
	}
	return a.cursor
}

// syncSelection clamps both cursors to the collection, publishes the
// selection to the templates and re-renders the page.
func (a *App) syncSelection() {
	links := a.links.Links()
	tags := a.links.Tags()
	a.cursor = clamp(a.cursor, len(links))
	a.tagCursor = clamp(a.tagCursor, len(tags))

	var linkID, tag string
	switch a.focus {
	case FocusList:
		if len(links) > 0 {
			linkID = links[a.cursor].ID
		}
	case FocusTags:
		if len(tags) > 0 {
			tag = tags[a.tagCursor]
		}
	}
	a.sel.set(linkID, tag)
	a.router.Refresh()
	a.syncScroll(links)
}

// syncScroll keeps the selected item's lines inside the list pane.
func (a *App) syncScroll(links []model.Link) {
	if len(links) == 0 {
		a.listOffset = 0
		return
	}

	total, start, end := 0, 0, 0
	for i, l := range links {
		lines := strings.Count(string(view.RenderItem(a.templates, l)), "\n") + 1
		if i == a.cursor {
			start, end = total, total+lines
		}
		total += lines
	}

	height := layout.CalculatePaneHeight(a.height, a.layout.Pane)
	a.listOffset = layout.CalculateScrollOffset(a.listOffset, start, end, height, total)
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
