package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/matzehuels/dagviewer/internal/server"
	"github.com/matzehuels/dagviewer/pkg/observability/otelhooks"
	"github.com/matzehuels/dagviewer/pkg/store"
)

type serveOpts struct {
	addr      string
	rateLimit float64
	burst     int
	noCache   bool
	otel      bool
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP viewer service",
		Long: `Serve hosts viewers over HTTP. Hosts create a viewer, push result sets to
it and fetch frames as SVG, PNG or DOT; /viewers/{id} shows a page with pan,
zoom and reset controls.

Store and cache backends come from the config file or DAGVIEWER_* variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().Float64Var(&opts.rateLimit, "rate-limit", 0, "requests per second, 0 keeps the configured value")
	cmd.Flags().IntVar(&opts.burst, "burst", 0, "rate limiter burst, 0 keeps the configured value")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.otel, "otel", false, "record traces and metrics through the global OpenTelemetry providers")
	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts *serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	sc := c.cfg.Server
	if opts.addr != "" {
		sc.Addr = opts.addr
	}
	if opts.rateLimit > 0 {
		sc.RateLimit = opts.rateLimit
	}
	if opts.burst > 0 {
		sc.Burst = opts.burst
	}

	if opts.otel {
		hooks, err := otelhooks.New(otel.GetTracerProvider(), otel.GetMeterProvider())
		if err != nil {
			return fmt.Errorf("init telemetry: %w", err)
		}
		hooks.Register()
	}

	st, err := store.Open(ctx, c.cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer runner.Close()

	logger.Info("starting server",
		"store", c.cfg.Store.Backend,
		"cache", c.cfg.Cache.Backend,
		"rate_limit", sc.RateLimit)

	srv := server.New(server.Config{
		Runner:    runner,
		Store:     st,
		Logger:    logger,
		Layout:    c.cfg.Layout,
		RateLimit: sc.RateLimit,
		Burst:     sc.Burst,
	})
	return srv.ListenAndServe(ctx, sc.Addr)
}
