package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/docopt/docopt-go"
	"github.com/nikbrunner/linkshelf/internal/collection"
	"github.com/nikbrunner/linkshelf/internal/config"
	"github.com/nikbrunner/linkshelf/internal/culler"
	"github.com/nikbrunner/linkshelf/internal/exporter"
	"github.com/nikbrunner/linkshelf/internal/importer"
	"github.com/nikbrunner/linkshelf/internal/model"
	"github.com/nikbrunner/linkshelf/internal/picker"
	"github.com/nikbrunner/linkshelf/internal/recordserver"
	"github.com/nikbrunner/linkshelf/internal/remote"
	"github.com/nikbrunner/linkshelf/internal/router"
	"github.com/nikbrunner/linkshelf/internal/search"
	"github.com/nikbrunner/linkshelf/internal/storage"
	"github.com/nikbrunner/linkshelf/internal/tui"
	"github.com/nikbrunner/linkshelf/internal/web"
)

const version = "0.1.0"

const usage = `linkshelf - links sorted by tag

Usage:
  linkshelf [options] serve [--addr=<addr>]
  linkshelf [options] store [--addr=<addr>] [--db=<path>]
  linkshelf [options] find <query>...
  linkshelf [options] tags
  linkshelf [options] import <file>
  linkshelf [options] export [<path>]
  linkshelf [options] check [--prune]
  linkshelf [options] [tui [<route>]]
  linkshelf -h | --help
  linkshelf --version

Routes:
  /                 all links (default)
  tags/<tag>        links carrying <tag>

Options:
  -h --help         Show this screen.
  --version         Show version.
  --config=<path>   Config file (default $LINKSHELF_CONFIG or ~/.config/linkshelf/config.yaml).
  --addr=<addr>     Listen address, overrides the config file.
  --db=<path>       Record file for the store; .json or SQLite.
  --prune           Delete dead links after checking.

TUI keys:
  j/k gg/G    move              tab       switch list/tags
  l/enter     open link or tag  h/esc     back to all links
  a           add link          d         delete link
  Y           copy URL          r         reload
  q           quit`

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 5 * time.Second

func main() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing arguments: %v\n", err)
		os.Exit(1)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	interactive := !isSet(opts, "serve") && !isSet(opts, "store")
	closeLog, err := setupLogging(cfg, interactive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case isSet(opts, "serve"):
		err = runServe(ctx, cfg, optString(opts, "--addr"))
	case isSet(opts, "store"):
		err = runStore(ctx, cfg, optString(opts, "--addr"), optString(opts, "--db"))
	case isSet(opts, "find"):
		query, _ := opts["<query>"].([]string)
		err = runFind(ctx, cfg, strings.Join(query, " "))
	case isSet(opts, "tags"):
		err = runTags(ctx, cfg)
	case isSet(opts, "import"):
		err = runImport(ctx, cfg, optString(opts, "<file>"))
	case isSet(opts, "export"):
		err = runExport(ctx, cfg, optString(opts, "<path>"))
	case isSet(opts, "check"):
		err = runCheck(ctx, cfg, isSet(opts, "--prune"))
	default:
		err = runTUI(ctx, cfg, optString(opts, "<route>"))
	}

	if err != nil {
		slog.Error("command failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		closeLog()
		os.Exit(1)
	}
}

func isSet(opts docopt.Opts, name string) bool {
	v, _ := opts.Bool(name)
	return v
}

// optString returns an option or argument value, or "" when absent.
func optString(opts docopt.Opts, name string) string {
	v, _ := opts.String(name)
	return v
}

func loadConfig(opts docopt.Opts) (config.Config, error) {
	path := optString(opts, "--config")
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
	}
	return config.Load(path)
}

// setupLogging installs the default JSON logger. Interactive commands own
// the terminal, so they log to the configured file or nowhere.
func setupLogging(cfg config.Config, interactive bool) (func(), error) {
	var w io.Writer = os.Stderr
	closeFn := func() {}

	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		w = f
		closeFn = func() { f.Close() }
	case interactive:
		w = io.Discard
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.Level()})))
	return closeFn, nil
}

// newCollection returns an empty collection backed by the configured
// record store.
func newCollection(cfg config.Config) *collection.Collection {
	client := remote.NewClient(cfg.Endpoint,
		remote.Credentials{ApplicationID: cfg.ApplicationID, APIKey: cfg.APIKey},
		remote.WithClass(cfg.Class),
		remote.WithTimeout(cfg.Timeout()),
	)
	return collection.New(client)
}

// runTUI runs the full interactive TUI.
func runTUI(ctx context.Context, cfg config.Config, path string) error {
	route := router.Index()
	if path != "" {
		var err error
		if route, err = router.ParseRoute(path); err != nil {
			return err
		}
	}

	app := tui.NewApp(tui.AppParams{
		Links:   newCollection(cfg),
		Route:   route,
		Context: ctx,
		OpenURL: openURL,
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// runServe serves the browser front end until ctx is cancelled.
func runServe(ctx context.Context, cfg config.Config, addr string) error {
	if addr == "" {
		addr = cfg.ListenAddr
	}

	srv, err := web.NewServer(newCollection(cfg))
	if err != nil {
		return err
	}
	defer srv.Close()

	slog.Info("web server starting", "addr", addr, "endpoint", cfg.Endpoint, "class", cfg.Class)
	return listen(ctx, addr, srv.Handler())
}

// runStore serves a local record store until ctx is cancelled.
func runStore(ctx context.Context, cfg config.Config, addr, dbPath string) error {
	if addr == "" {
		addr = cfg.Store.ListenAddr
	}
	if dbPath == "" {
		dbPath = cfg.Store.Path
	}

	store, err := storage.OpenStorage(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := recordserver.New(store, recordserver.WithCredentials(remote.Credentials{
		ApplicationID: cfg.ApplicationID,
		APIKey:        cfg.APIKey,
	}))

	slog.Info("record store starting", "addr", addr, "db", dbPath)
	return listen(ctx, addr, srv.Handler())
}

// listen serves handler on addr and shuts down gracefully when ctx ends.
func listen(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down", "addr", addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// runFind performs a fuzzy search and opens the selected link.
func runFind(ctx context.Context, cfg config.Config, query string) error {
	links := newCollection(cfg)
	all, err := links.Fetch(ctx)
	if err != nil {
		return err
	}

	results := search.FuzzySearchLinks(all, query)
	if len(results) == 0 {
		fmt.Printf("No links found for '%s'\n", query)
		return nil
	}

	if len(results) == 1 {
		// Single result - open it directly
		link := results[0].Link
		fmt.Printf("Opening: %s\n", link.Title)
		return openURL(link.URL)
	}

	finalModel, err := tea.NewProgram(picker.New(results, query), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run picker: %w", err)
	}

	link, action, ok := finalModel.(picker.Picker).Selected()
	if !ok {
		return nil
	}

	switch action {
	case picker.ActionYank:
		if err := clipboard.WriteAll(link.URL); err != nil {
			return fmt.Errorf("copy URL: %w", err)
		}
		fmt.Printf("Copied: %s\n", link.URL)
		return nil
	default:
		return openURL(link.URL)
	}
}

// runTags prints the tag index, one tag per line.
func runTags(ctx context.Context, cfg config.Config) error {
	links := newCollection(cfg)
	if _, err := links.Fetch(ctx); err != nil {
		return err
	}
	for _, tag := range links.Tags() {
		fmt.Println(tag)
	}
	return nil
}

// runImport handles the import subcommand.
func runImport(ctx context.Context, cfg config.Config, filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer file.Close()

	entries, err := importer.ParseHTML(file)
	if err != nil {
		return err
	}

	links := newCollection(cfg)
	if _, err := links.Fetch(ctx); err != nil {
		return err
	}

	res, err := importer.Import(ctx, links, entries)
	fmt.Printf("Imported %d links", res.Imported)
	if res.Skipped > 0 {
		fmt.Printf(" (%d duplicates skipped)", res.Skipped)
	}
	fmt.Println()
	return err
}

// runExport handles the export subcommand.
func runExport(ctx context.Context, cfg config.Config, outputPath string) error {
	if outputPath == "" {
		var err error
		outputPath, err = exporter.DefaultExportPath()
		if err != nil {
			return fmt.Errorf("default export path: %w", err)
		}
	}

	links := newCollection(cfg)
	all, err := links.Fetch(ctx)
	if err != nil {
		return err
	}

	if err := exporter.WriteFile(outputPath, all); err != nil {
		return err
	}
	fmt.Printf("Exported %d links to %s\n", len(all), outputPath)
	return nil
}

// runCheck reports links whose URLs no longer resolve and optionally
// deletes the dead ones.
func runCheck(ctx context.Context, cfg config.Config, prune bool) error {
	links := newCollection(cfg)
	all, err := links.Fetch(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No links to check")
		return nil
	}

	opts := culler.DefaultOptions()
	opts.OnProgress = func(completed, total int) {
		fmt.Fprintf(os.Stderr, "\rChecking %d/%d", completed, total)
	}
	results := culler.CheckLinks(ctx, all, opts)
	fmt.Fprintln(os.Stderr)

	groups := culler.GroupResults(results)
	if len(groups) == 0 {
		fmt.Printf("All %d links are healthy\n", len(all))
		return nil
	}

	var dead []model.Link
	for _, g := range groups {
		fmt.Printf("%s (%d)\n", g.Label, len(g.Results))
		for _, r := range g.Results {
			fmt.Printf("  %s  %s\n", r.Link.Title, r.Link.URL)
			if g.Status == culler.Dead {
				dead = append(dead, r.Link)
			}
		}
	}

	if !prune {
		return nil
	}
	for _, link := range dead {
		if err := links.Destroy(ctx, link); err != nil {
			return fmt.Errorf("delete %s: %w", link.URL, err)
		}
	}
	fmt.Printf("Deleted %d dead links\n", len(dead))
	return nil
}
