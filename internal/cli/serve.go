package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"catalog-cli/internal/catalog"
	"catalog-cli/internal/config"
	"catalog-cli/internal/store"
	"catalog-cli/internal/web"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog query and state API",
		Long: strings.TrimSpace(`
Serve GET /items, GET /items/{id}, GET /state and POST /state over HTTP.

The catalog is generated in memory (ids 1..item-count, labels "Item N"). The overlay
(selection + manual order) is persisted in the configured state backend under one key.
`),
		Example: strings.TrimSpace(`
catalog serve --addr :3001
catalog serve --state-backend postgres --state-dsn postgres://localhost/catalog
catalog serve --state-backend memory --item-count 500
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv, closeState, err := openServer(ctx, app.cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeState()

			ln, err := net.Listen("tcp", app.cfg.Addr)
			if err != nil {
				return writeErr(cmd, err)
			}
			url := "http://" + ln.Addr().String()

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      ln.Addr().String(),
					"url":       url,
					"items":     app.cfg.ItemCount,
					"pageSize":  app.cfg.PageSize,
					"backend":   app.cfg.State.Backend,
					"stateKey":  app.cfg.State.Key,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{"catalog --base-url " + url + " browse"},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "Catalog API running at %s\n", url)

			return serve(ctx, ln, srv.Handler())
		},
	}

	f := cmd.Flags()
	f.String("addr", "", "Bind address (host:port or :port)")
	f.Int("item-count", 0, "Number of generated catalog items")
	f.Int("page-size", 0, "Default page size when a request omits limit")
	f.String("state-backend", "", "State backend ("+strings.Join(store.Backends(), "|")+")")
	f.String("state-dir", "", "Directory for on-disk state backends")
	f.String("state-dsn", "", "Postgres DSN for the postgres state backend")
	f.String("workspace", "", "State key: independent selection/order state")
	bindFlag(app.v, config.KeyAddr, f.Lookup("addr"))
	bindFlag(app.v, config.KeyItemCount, f.Lookup("item-count"))
	bindFlag(app.v, config.KeyPageSize, f.Lookup("page-size"))
	bindFlag(app.v, config.KeyStateBackend, f.Lookup("state-backend"))
	bindFlag(app.v, config.KeyStateDir, f.Lookup("state-dir"))
	bindFlag(app.v, config.KeyStateDSN, f.Lookup("state-dsn"))
	bindFlag(app.v, config.KeyStateKey, f.Lookup("workspace"))
	return cmd
}

// openServer builds the catalog, opens the state backend and returns the HTTP server plus
// a func releasing the backend.
func openServer(ctx context.Context, cfg *config.Config) (*web.Server, func(), error) {
	backend, err := store.Open(ctx, store.Options{
		Kind: cfg.State.Backend,
		Dir:  cfg.State.Dir,
		DSN:  cfg.State.DSN,
	})
	if err != nil {
		return nil, nil, err
	}
	closeBackend := func() {
		if err := backend.Close(); err != nil {
			glog.Warningf("close state backend: %v", err)
		}
	}

	st, err := store.NewState(backend, cfg.State.Key)
	if err != nil {
		closeBackend()
		return nil, nil, err
	}

	start := time.Now()
	cat := catalog.Generate(cfg.ItemCount)
	glog.Infof("catalog: %d items generated in %s", cat.Len(), time.Since(start).Round(time.Millisecond))

	srv, err := web.NewServer(web.ServerConfig{Catalog: cat, State: st, PageSize: cfg.PageSize})
	if err != nil {
		closeBackend()
		return nil, nil, err
	}
	glog.Infof("state: backend=%s key=%s", cfg.State.Backend, st.Key())
	return srv, closeBackend, nil
}

// serve runs until ctx is done, then drains in-flight requests.
func serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	hs := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- hs.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	glog.Infof("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
