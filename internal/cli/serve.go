package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flexdock/internal/server"
	"github.com/matzehuels/flexdock/pkg/pipeline"
	"github.com/matzehuels/flexdock/pkg/store"
)

// serveCommand runs the HTTP layout API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		backend  string
		dir      string
		noCache  bool
		frameSet frameFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored layouts over HTTP",
		Long: `Serve stored layouts over HTTP.

Documents are kept in the configured store (memory, file, redis or mongo) and
rendered through the configured cache. Send SIGINT or SIGTERM to drain
in-flight requests and stop.

Routes:
  GET    /healthz
  GET    /layouts                     POST /layouts?id=&name=
  GET    /layouts/{id}                PUT  /layouts/{id}      DELETE /layouts/{id}
  POST   /layouts/{id}/frames         POST /layouts/{id}/actions
  POST   /layouts/{id}/drop           POST /layouts/{id}/split
  GET    /layouts/{id}/render.{svg,png,json,txt,dot,tree.svg}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("store") {
				cfg.Store.Backend = backend
			}
			if cmd.Flags().Changed("dir") {
				cfg.Store.Dir = dir
			}
			defaults, err := c.options(cmd, &frameSet)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg.Server.Addr, cfg.Store, defaults, noCache)
		},
	}

	frameSet.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&backend, "store", store.BackendFile, "document store: memory, file, redis, mongo")
	cmd.Flags().StringVar(&dir, "dir", "", "file store directory (default: ~/.local/share/flexdock/layouts)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, sc store.Config, defaults pipeline.Options, noCache bool) error {
	st, err := store.Open(ctx, sc)
	if err != nil {
		return fmt.Errorf("open %s store: %w", sc.Backend, err)
	}
	defer st.Close()

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	c.Logger.Info("starting server", "store", sc.Backend, "frame", fmt.Sprintf("%dx%d", defaults.Width, defaults.Height))
	printInfo("Serving on %s", StyleLink.Render("http://"+displayAddr(addr)))

	return server.New(st, runner, c.Logger, defaults).ListenAndServe(ctx, addr)
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
