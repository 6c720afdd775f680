// Command coverage decides whether a set of hardware cameras covers the
// distance × light range a software camera requires.
//
//	coverage [flags] <scenario-file>...
//	coverage [flags] migrate <command>
//	coverage -listen :8080
//	coverage -config serve.json   (settings file with listen_addr)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/banshee-data/coverage.report/internal/api"
	"github.com/banshee-data/coverage.report/internal/config"
	"github.com/banshee-data/coverage.report/internal/coverage"
	"github.com/banshee-data/coverage.report/internal/db"
	"github.com/banshee-data/coverage.report/internal/httputil"
	"github.com/banshee-data/coverage.report/internal/monitoring"
	"github.com/banshee-data/coverage.report/internal/render"
	"github.com/banshee-data/coverage.report/internal/scenario"
	"github.com/banshee-data/coverage.report/internal/security"
	"github.com/banshee-data/coverage.report/internal/version"
)

// Exit codes.
const (
	exitOK       = 0
	exitMismatch = 1
	exitError    = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	serve    bool
	remote   string
	settings *config.Settings
}

// parseFlags reads flags and the settings file. Flags given explicitly
// override file values.
func parseFlags(args []string, stderr io.Writer) (*options, []string, bool, error) {
	fs := flag.NewFlagSet("coverage", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", config.DefaultConfigPath, "Path to settings JSON")
	dbPath := fs.String("db", "", "History database path; setting it records every run, empty disables recording")
	plotDir := fs.String("plot", "", "Directory to write a plot of each scenario to")
	listen := fs.String("listen", "", "Serve the HTTP API on this address instead of checking files")
	remote := fs.String("remote", "", "Base URL of a coverage server to check scenarios against")
	verbose := fs.Bool("v", false, "Log the gate that decided each check")
	showVersion := fs.Bool("version", false, "Print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: coverage [flags] <scenario-file>...\n       coverage [flags] migrate <command>\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, false, err
	}
	if *showVersion {
		return nil, nil, true, nil
	}

	settings, err := config.LoadSettingsOrDefault(*configPath)
	if err != nil {
		return nil, nil, false, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db":
			record := *dbPath != ""
			settings.DBPath = dbPath
			settings.RecordHistory = &record
		case "plot":
			settings.PlotDir = plotDir
		case "listen":
			settings.ListenAddr = listen
		case "v":
			settings.Verbose = verbose
		}
	})
	if err := settings.Validate(); err != nil {
		return nil, nil, false, fmt.Errorf("invalid settings: %w", err)
	}

	opts := &options{serve: *listen != "", remote: *remote, settings: settings}
	if opts.serve && fs.NArg() > 0 {
		return nil, nil, false, errors.New("-listen does not take scenario files")
	}
	// listen_addr from the settings file applies when there is nothing else to do.
	if !opts.serve && fs.NArg() == 0 && settings.ServesAPI() {
		opts.serve = true
	}
	return opts, fs.Args(), false, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, rest, showVersion, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "coverage: %v\n", err)
		return exitError
	}
	if showVersion {
		fmt.Fprintln(stdout, version.String())
		return exitOK
	}
	settings := opts.settings
	monitoring.SetVerbose(settings.GetVerbose())

	switch {
	case opts.serve:
		if err := serve(ctx, settings); err != nil {
			fmt.Fprintf(stderr, "coverage: %v\n", err)
			return exitError
		}
		return exitOK
	case len(rest) > 0 && rest[0] == "migrate":
		if err := db.RunMigrateCommand(rest[1:], settings.GetDBPath(), stdout); err != nil {
			fmt.Fprintf(stderr, "coverage: migrate: %v\n", err)
			return exitError
		}
		return exitOK
	case len(rest) == 0:
		fmt.Fprintln(stderr, "coverage: no scenario files given")
		return exitError
	}

	var store *db.DB
	if settings.GetRecordHistory() && opts.remote == "" {
		store, err = db.NewDB(settings.GetDBPath())
		if err != nil {
			fmt.Fprintf(stderr, "coverage: %v\n", err)
			return exitError
		}
		defer store.Close()
	}

	c := &checker{settings: settings, store: store, out: stdout}
	if opts.remote != "" {
		c.client = api.NewClient(httputil.NewStandardClient(&http.Client{Timeout: 30 * time.Second}), opts.remote)
	}

	code := exitOK
	for _, path := range rest {
		res, err := c.checkFile(ctx, path)
		if err != nil {
			log.Printf("%s: %v", path, err)
			code = exitError
			continue
		}
		if !res.MeetsExpectation() && code == exitOK {
			code = exitMismatch
		}
	}
	return code
}

type checker struct {
	settings *config.Settings
	store    *db.DB
	client   *api.Client
	out      io.Writer
}

// checkFile loads and evaluates one scenario, then reports, records and
// plots the result as configured.
func (c *checker) checkFile(ctx context.Context, path string) (*scenario.Result, error) {
	s, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}

	var res *scenario.Result
	if c.client != nil {
		resp, err := c.client.Check(ctx, s)
		if err != nil {
			return nil, err
		}
		rep := resp.Report()
		rep.Lattice = coverage.Discretize(s.Required)
		res = &scenario.Result{RunID: resp.RunID, Scenario: s, Report: rep, EvaluatedAt: time.Now().UTC()}
	} else {
		res, err = scenario.Evaluate(s)
		if err != nil {
			return nil, err
		}
	}

	fmt.Fprintln(c.out, summary(res))

	if c.store != nil {
		if err := c.store.RecordRun(res, db.SourceCLI); err != nil {
			return nil, err
		}
	}

	if dir := c.settings.GetPlotDir(); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create plot dir: %w", err)
		}
		out := filepath.Join(dir, render.PlotFileName(s, res.RunID, c.settings.GetPlotFormat()))
		if err := security.ValidatePathWithinDirectory(out, dir); err != nil {
			return nil, err
		}
		if err := render.SavePlot(s, res.Report, out, c.settings.GetPlotWidthCm(), c.settings.GetPlotHeightCm()); err != nil {
			return nil, err
		}
		log.Printf("wrote plot %s", out)
	}
	return res, nil
}

// summary is the one-line verdict printed for each scenario.
func summary(res *scenario.Result) string {
	rep := res.Report
	status := "ok"
	if !res.MeetsExpectation() {
		status = "FAIL"
	}

	decision := "sufficient"
	switch {
	case rep.Sufficient:
	case rep.Corner != nil:
		decision = fmt.Sprintf("insufficient: %s at (%g, %g)", rep.Reason, rep.Corner.Distance, rep.Corner.Light)
	case rep.Stripe != nil:
		decision = fmt.Sprintf("insufficient: %s at distance %s", rep.Reason, rep.Stripe)
	default:
		decision = fmt.Sprintf("insufficient: %s", rep.Reason)
	}

	line := fmt.Sprintf("%-4s %s: %s", status, res.Scenario.Name, decision)
	if exp := res.Scenario.Expected; exp != nil && *exp != rep.Sufficient {
		line += fmt.Sprintf(" (expected sufficient=%t)", *exp)
	}
	return line
}

// serve runs the HTTP API until ctx is cancelled.
func serve(ctx context.Context, settings *config.Settings) error {
	server := api.NewServer(nil)
	mux := http.NewServeMux()

	if settings.GetRecordHistory() {
		store, err := db.NewDB(settings.GetDBPath())
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.AttachAdminRoutes(mux); err != nil {
			return err
		}
		server = api.NewServer(store)
	}
	server.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              settings.GetListenAddr(),
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("coverage API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		if err := srv.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}
	log.Printf("HTTP server stopped")
	return nil
}
