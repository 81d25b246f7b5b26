// Package main is the flightconfig command: resolve and inspect the
// application configuration, publish overrides, or run a development
// record server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/seatwise/flightconfig/internal/config"
	"github.com/seatwise/flightconfig/internal/config/baseline"
	"github.com/seatwise/flightconfig/internal/config/cache"
	"github.com/seatwise/flightconfig/internal/config/notify"
	"github.com/seatwise/flightconfig/internal/config/remote"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	remoteURL   string
	cacheDir    string
	timeout     time.Duration
	publishPath string
	serveAddr   string
	watch       bool
	verbose     bool
	showVersion bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("flightconfig %s (commit %s, built %s)\n", version, commit, date)
		return 0
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.serveAddr != "" {
		return serve(ctx, opts, logger)
	}

	cacheDir := opts.cacheDir
	if cacheDir == "" {
		dir, err := cache.DefaultDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		cacheDir = dir
	}
	store := cache.New(cacheDir)

	resolverOpts := []config.Option{
		config.WithBaseline(baseline.New()),
		config.WithCache(store),
		config.WithLogger(logger),
	}
	if opts.remoteURL != "" {
		recordStore := remote.NewHTTPRecordStore(opts.remoteURL, remote.WithTimeout(opts.timeout))
		resolverOpts = append(resolverOpts, config.WithRemote(remote.New(recordStore, remote.WithLogger(logger))))
	}
	if opts.watch {
		resolverOpts = append(resolverOpts, config.WithCacheWatch(store.Path(), 2*time.Second))
	}

	resolver := config.New(resolverOpts...)
	defer resolver.Close()

	resolver.Load(ctx)

	select {
	case <-resolver.Reconciled():
	case <-ctx.Done():
		return 1
	}

	if opts.publishPath != "" {
		return publish(ctx, resolver, opts.publishPath)
	}

	show(resolver)

	if opts.watch {
		sub := resolver.Subscribe(func(change notify.Change) {
			fmt.Printf("\nconfiguration replaced (source: %s)\n", change.Source)
			show(resolver)
		})
		defer sub.Unsubscribe()
		<-ctx.Done()
	}

	return 0
}

// publish reads a TOML override file, validates it, and publishes it as a
// new override record.
func publish(ctx context.Context, resolver *config.Resolver, path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading override: %v\n", err)
		return 1
	}

	cfg, err := config.DecodeTOML(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid override: %v\n", err)
		return 1
	}

	if err := resolver.Publish(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: publish failed: %v\n", err)
		return 1
	}

	fmt.Println("override published")
	return 0
}

// show prints the resolved configuration with its provenance.
func show(resolver *config.Resolver) {
	cfg := resolver.Current()

	fmt.Printf("source: %s (state: %s)\n\n", resolver.Source(), resolver.State())

	fmt.Println("patterns:")
	for _, f := range config.Fields() {
		fmt.Printf("  %-18s %s\n", f, cfg.Pattern(f))
	}
	fmt.Println("placeholders:")
	for _, f := range config.Fields() {
		fmt.Printf("  %-18s %s\n", f, cfg.Placeholder(f))
	}
	fmt.Println("messages:")
	for _, m := range config.Messages() {
		fmt.Printf("  %-24s %s\n", m, cfg.ErrorMessage(m))
	}
	fmt.Println("buttons:")
	for _, b := range config.Buttons() {
		fmt.Printf("  %-12s %s\n", b, cfg.ButtonLabel(b))
	}
}

// serve runs the development record server until interrupted.
func serve(ctx context.Context, opts options, logger *slog.Logger) int {
	devServer := remote.NewDevServer(remote.NewMemoryRecordStore(), remote.WithDevLogger(logger))

	srv := &http.Server{
		Addr:              opts.serveAddr,
		Handler:           devServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	fmt.Printf("record server listening on %s\n", opts.serveAddr)

	select {
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	return 0
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.remoteURL, "remote", "", "Base URL of the override record server")
	flag.StringVar(&opts.cacheDir, "cache", "", "Cache directory (defaults to the user cache dir)")
	flag.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Remote request timeout")
	flag.StringVar(&opts.publishPath, "publish", "", "Publish the TOML override file at this path")
	flag.StringVar(&opts.serveAddr, "serve", "", "Run a development record server on this address")
	flag.BoolVar(&opts.watch, "watch", false, "Keep running and print configuration changes")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flag.BoolVar(&opts.showVersion, "version", false, "Print version and exit")
	flag.Parse()

	return opts
}
