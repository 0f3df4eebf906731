package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"drybean/artifact"
	qhttp "drybean/http"
	"drybean/monitoring"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web form and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				a.cfg.Http.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Http.Port = port
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides http.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides http.port)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	holder, loader, err := a.loadHolder(ctx)
	if err != nil {
		return err
	}
	defer holder.Close()

	history, err := a.openHistory()
	if err != nil {
		return err
	}
	defer history.Close()

	hc := a.cfg.Http
	sessions := qhttp.NewSessionStore(hc.MaxSessions, hc.SessionTTL)

	var metrics *monitoring.Metrics
	serverConfig := qhttp.DefaultServerConfig()
	serverConfig.Addr = hc.Addr()
	serverConfig.Timeout = hc.Timeout
	serverConfig.AllowedOrigins = hc.AllowedOrigins
	serverConfig.RateLimit = hc.RateLimit
	serverConfig.RateBurst = hc.RateBurst
	serverConfig.MetricsPath = ""
	if a.cfg.Metrics.Enabled {
		metrics = monitoring.NewMetrics(func() float64 { return float64(sessions.Len()) })
		serverConfig.MetricsPath = a.cfg.Metrics.Path
	}

	server := qhttp.NewServer(serverConfig, qhttp.Dependencies{
		Predictor: holder,
		History:   history,
		Metrics:   metrics,
		Sessions:  sessions,
		Logger:    a.logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		return server.Stop(context.Background())
	})
	if a.cfg.Artifacts.Watch {
		watcher := artifact.NewWatcher(loader, holder, a.logger)
		watcher.SetDebounce(a.cfg.Artifacts.WatchDebounce)
		watcher.OnReload(metrics.ObserveReload)
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	a.logger.Info("serving", zap.String("addr", server.Addr()), zap.Bool("watch", a.cfg.Artifacts.Watch))
	return g.Wait()
}
