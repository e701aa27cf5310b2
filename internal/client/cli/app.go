package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/authclient/internal/client/client"
	"github.com/dmitrijs2005/authclient/internal/client/config"
	"github.com/dmitrijs2005/authclient/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/authclient/internal/client/services"
	"github.com/dmitrijs2005/authclient/internal/client/tokenstore"
	"github.com/dmitrijs2005/authclient/internal/common"
	"github.com/dmitrijs2005/authclient/internal/logging"
)

// refreshTimeout bounds a single background refresh attempt.
const refreshTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	session services.SessionService
	logger  logging.Logger
	db      *sql.DB
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp opens the token database and wires the HTTP client, token store and
// session service described by c.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger, err := logging.NewTextLogger(os.Stderr, c.LogLevel)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.TokenDBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.TokenDBPath, "error", err)
		return nil, err
	}

	store := tokenstore.New(metadata.NewSQLiteRepository(db))
	apiClient := client.NewHTTPClient(c.ServerBaseURL,
		client.WithLogger(logger),
		client.WithExpiryThreshold(c.ExpiryThreshold),
	)
	session := services.NewSessionService(apiClient, store, c.ExpiryThreshold, logger)

	return &App{
		config:  c,
		session: session,
		logger:  logger,
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run starts the background refresher and blocks in the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	// the refresher must be gone before the database is closed
	defer wg.Wait()
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.StartTokenRefresher(ctx, a.config.RefreshCheckInterval)
	}()

	printlnFn("Auth CLI (type 'help' for commands)")
	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, a.reader)
	return nil
}

// Close releases the token database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	st, err := a.session.Status(ctx)
	return err == nil && st.LoggedIn
}

func (a *App) getStatus(ctx context.Context) string {
	st, err := a.session.Status(ctx)
	switch {
	case err != nil || !st.LoggedIn:
		return ""
	case !st.Valid:
		return "(expired)"
	case st.ExpiringSoon:
		return "(expiring)"
	default:
		return "(authenticated)"
	}
}

// StartTokenRefresher calls EnsureFresh every interval until ctx ends. A
// missing session is not an error here; it only means nobody logged in yet.
func (a *App) StartTokenRefresher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tctx, cancel := context.WithTimeout(ctx, refreshTimeout)
			refreshed, err := a.session.EnsureFresh(tctx)
			cancel()

			switch {
			case errors.Is(err, common.ErrNotLoggedIn):
			case err != nil:
				a.logger.Warn(ctx, "background refresh failed", "error", err)
			case refreshed:
				a.logger.Info(ctx, "token refreshed in background")
			}

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
