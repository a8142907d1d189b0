package serve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/logging"
	"tableflip.dev/a11yreq/pkg/web"
)

const shutdownTimeout = 5 * time.Second

// Serve runs the web server until the context is cancelled.
type Serve struct {
	Service    *app.Service
	Addr       string
	SessionTTL time.Duration
	// OnListening is called once the listener is bound.
	OnListening func(net.Addr)
	Out         io.Writer
}

// Do executes the runner.
func (s Serve) Do(ctx context.Context) error {
	if s.Service == nil || s.Service.Persistence == nil {
		return errors.New("serve requires persistence")
	}
	log := logging.FromContext(ctx)
	out := s.Out
	if out == nil {
		out = color.Output
	}

	server := web.New(s.Service, web.WithLogger(log), web.WithSessionTTL(s.SessionTTL))
	addr := s.Addr
	if addr == "" {
		addr = "localhost:8080"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	httpSrv := &http.Server{
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("serving web", zap.String("addr", ln.Addr().String()))
	_, _ = fmt.Fprintf(out, "Serving on http://%s/\n", ln.Addr())
	if s.OnListening != nil {
		s.OnListening(ln.Addr())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpSrv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn("web shutdown", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		return server.Sessions().Run(gctx, time.Minute)
	})
	g.Go(func() error {
		// Without a watch sessions only notice edits made through the server.
		if err := server.Watch(gctx); err != nil {
			log.Warn("catalogue watch stopped", zap.Error(err))
		}
		return nil
	})
	return g.Wait()
}
