package cli

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/rmcnabb/farewatch/pkg/config"
	"github.com/rmcnabb/farewatch/pkg/report"
	"github.com/rmcnabb/farewatch/pkg/scan"
)

// serveCommand creates the serve command: a small HTTP server that runs
// scans on demand and serves the rendered report.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the fare report over HTTP",
		Long: `Serve starts an HTTP server that renders the latest scan result at /.
The first request triggers a scan; POST /refresh forces a new one.
Provider responses are cached, so refreshes inside the cache TTL are cheap.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			runner, client, responseCache, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer responseCache.Close()

			if err := client.Authenticate(ctx); err != nil {
				return err
			}

			s := &reportServer{
				cfg:    cfg,
				runner: runner,
				cli:    c,
			}

			router := chi.NewRouter()
			router.Use(middleware.Recoverer)
			router.Get("/", s.handleReport)
			router.Post("/refresh", s.handleRefresh)
			router.Get("/healthz", s.handleHealth)

			srv := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
			}

			go func() {
				<-ctx.Done()
				srv.Close()
			}()

			c.Logger.Info("serving fare reports", "addr", addr)
			printInfo("Listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the TOML config file")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")

	return cmd
}

// reportServer holds the last rendered report and refreshes it on demand.
type reportServer struct {
	cfg    config.Config
	runner *scan.Runner
	cli    *CLI

	mu   sync.Mutex
	html []byte
}

// render runs a scan and renders the report, caching the result until the
// next refresh.
func (s *reportServer) render(r *http.Request, force bool) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.html != nil && !force {
		return s.html, nil
	}

	req, err := s.cfg.ScanRequest()
	if err != nil {
		return nil, err
	}
	result, err := s.runner.Run(r.Context(), req)
	if err != nil {
		return nil, err
	}
	doc, err := report.New("", s.cfg.Currency).HTML(result)
	if err != nil {
		return nil, err
	}
	s.html = doc
	return doc, nil
}

func (s *reportServer) handleReport(w http.ResponseWriter, r *http.Request) {
	doc, err := s.render(r, false)
	if err != nil {
		s.cli.Logger.Error("scan for report failed", "err", err)
		http.Error(w, "scan failed", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(doc)
}

func (s *reportServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if _, err := s.render(r, true); err != nil {
		s.cli.Logger.Error("refresh failed", "err", err)
		http.Error(w, "scan failed", http.StatusBadGateway)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *reportServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
