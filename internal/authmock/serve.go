package authmock

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authclient/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Serve exposes the backend on ln until ctx is canceled, then shuts the
// server down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener, logger logging.Logger) error {
	logger = logger.With("module", "authmock")
	srv := &http.Server{
		Handler:           s.logRequests(s.Handler(), logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Stopping mock backend...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	logger.Info(ctx, "Starting mock backend", "address", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler, logger logging.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Header.Get("X-Request-Id"),
			"duration", time.Since(start),
		)
	})
}
