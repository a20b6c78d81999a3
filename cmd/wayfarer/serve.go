package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/wayfarer-dev/wayfarer/internal/config"
	"github.com/wayfarer-dev/wayfarer/pkg/browser"
	"github.com/wayfarer-dev/wayfarer/pkg/remote"
	"github.com/wayfarer-dev/wayfarer/pkg/route"
	"github.com/wayfarer-dev/wayfarer/pkg/storage"
)

func serveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the navigation server",
		Long: `Serve mounts the websocket endpoint browser clients connect to.
Each connection gets its own history engine, restored from the
configured snapshot store, synchronized against the client's real
history stack.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to wayfarer.json (default: search upward)")

	return cmd
}

func runServe(configPath string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if configPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		configPath, err = config.Find(wd)
		if err != nil {
			return err
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	tbl, err := cfg.Table()
	if err != nil {
		return err
	}
	opts := cfg.Options()

	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	metrics := browser.NewMetrics()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	if cfg.Serve.MetricsPath != "" {
		r.Handle(cfg.Serve.MetricsPath, promhttp.Handler())
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	remote.Mount(r, cfg.Serve.WSPath, func(conn *remote.Conn) {
		serveSession(conn, cfg, tbl, opts, store, metrics, logger)
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr(), "ws", cfg.Serve.WSPath)
		errCh <- srv.ListenAndServe()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case s := <-sig:
		logger.Info("shutting down", "signal", s.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

// serveSession owns one client connection: restore history, run the
// synchronizer against the remote browser, persist on teardown.
func serveSession(conn *remote.Conn, cfg *config.Config, tbl *route.Table, opts *route.Options, store storage.Store, metrics *browser.Metrics, logger *slog.Logger) {
	ctx := context.Background()

	// A returning client identifies its previous session; a fresh one
	// starts from the default URL.
	sessionID := conn.SessionID()
	snap, err := storage.Restore(ctx, store, sessionID, cfg.DefaultURL, tbl, opts)
	if err != nil {
		logger.Error("history restore failed", "err", err)
		return
	}
	engine := storage.NewEngine(snap)

	sync := browser.NewSynchronizer(conn, engine, tbl, opts,
		browser.WithMetrics(metrics),
		browser.WithActionSink(func(a route.Action) {
			logger.Info("navigation committed", "type", a.Type)
		}),
	)
	defer sync.Close()

	// Tell the client where restored history says it should be.
	if cur := engine.Current(); cur.Location.URL != conn.URL() {
		if err := sync.Replace(ctx, cur.Action); err != nil {
			logger.Warn("initial replace failed", "err", err)
		}
	}

	<-conn.Done()

	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if sessionID == "" {
		sessionID = sync.SessionID()
	}
	if err := storage.Save(saveCtx, store, sessionID, engine); err != nil {
		logger.Warn("history save failed", "err", err)
	}
}

func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "s3":
		region := cfg.Storage.Region
		if region == "" {
			region = os.Getenv("AWS_REGION")
		}
		if region == "" {
			return nil, fmt.Errorf("s3 backend requires a region (config or AWS_REGION)")
		}
		client := s3.New(s3.Options{
			Region: region,
			Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
					SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
					SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
				}, nil
			}),
		})
		return storage.NewS3Store(client, cfg.Storage.Bucket, cfg.Storage.Prefix), nil
	default:
		return storage.NewMemoryStore(), nil
	}
}
