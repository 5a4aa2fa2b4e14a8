package cli

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xwz823/vue3-admin-better/pkg/cli/internal/output"
	"github.com/xwz823/vue3-admin-better/pkg/config"
	"github.com/xwz823/vue3-admin-better/pkg/mockserver"
)

var (
	servePort     int
	serveHost     string
	serveMockPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the mock controller definitions",
	Long: `Serve loads every mock definition matched by mockServer.mockPath and
answers requests with their {code, msg, data} envelopes. Configured proxies
forward path prefixes to real upstreams.

The server also exposes /__vab/health and /__vab/metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := map[string]any{}
		if cmd.Flags().Changed("port") {
			flags["mockServer.port"] = servePort
		}
		if cmd.Flags().Changed("mock-path") {
			flags["mockServer.mockPath"] = serveMockPath
		}
		cfg, err := loadConfig(flags)
		if err != nil {
			return err
		}
		log := newLogger(cmd.ErrOrStderr())

		handler, count, err := buildMockHandler(cfg, log)
		if err != nil {
			return err
		}
		if count == 0 {
			output.Warn(cmd.ErrOrStderr(), "no mock definitions matched %s", cfg.MockServer.MockPath)
		}

		addr := net.JoinHostPort(serveHost, strconv.Itoa(cfg.MockServer.Port))
		srv := mockserver.NewServer(addr, handler, log)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Run(gctx)
		})
		g.Go(func() error {
			<-gctx.Done()
			log.Info("shutting down mock server")
			return nil
		})

		fmt.Fprintf(cmd.OutOrStdout(), "Serving %d mock definitions on %s\n", count, addr)
		return g.Wait()
	},
}

// buildMockHandler loads the definitions and proxies of cfg.
func buildMockHandler(cfg *config.Config, log *slog.Logger) (*mockserver.Handler, int, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get working directory: %w", err)
	}
	defs, err := mockserver.Load(wd, cfg.MockServer.MockPath)
	if err != nil {
		return nil, 0, err
	}

	proxies := make([]mockserver.Proxy, 0, len(cfg.MockServer.Proxies))
	for _, p := range cfg.MockServer.Proxies {
		proxies = append(proxies, mockserver.Proxy{
			Prefix:       p.Prefix,
			Target:       p.Target,
			Rewrite:      p.Rewrite,
			ChangeOrigin: p.ChangeOrigin,
		})
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	handler, err := mockserver.NewHandler(defs,
		mockserver.WithSecret(cfg.MockServer.Secret),
		mockserver.WithProxies(proxies...),
		mockserver.WithLogger(log),
		mockserver.WithRegistry(reg),
	)
	if err != nil {
		return nil, 0, err
	}
	return handler, handler.Count(), nil
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", config.DefaultPort, "Port to listen on")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind (default all interfaces)")
	serveCmd.Flags().StringVar(&serveMockPath, "mock-path", config.DefaultMockPath, "Glob of mock definition files")
	rootCmd.AddCommand(serveCmd)
}
