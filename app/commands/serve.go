package commands

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"postboard/app/config"
	"postboard/app/notify"
	"postboard/app/routes"

	"github.com/pkg/errors"
)

// serve runs the API until ctx is done, then drains requests and pending
// keyword scans before closing the store.
func (c *CLI) serve(ctx context.Context, cfg *config.Config) error {
	store, err := openStore(cfg)
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	defer store.Close()

	notifier := notify.NewKeywordNotifier(store.Alerts(), nil)
	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: routes.NewHandler(store, routes.Options{
			AllowedOrigins: cfg.CORSOrigins,
			Notifier:       notifier,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", cfg.Addr)
	}
	log.Printf("listening on %s (%s store at %s)", ln.Addr(), cfg.Store, storePath(cfg))
	if c.onListen != nil {
		c.onListen(ln.Addr())
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server error")
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	notifier.Wait()
	return nil
}
