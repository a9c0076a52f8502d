package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/civicops/drconsole/internal/client/client"
	"github.com/civicops/drconsole/internal/client/config"
	"github.com/civicops/drconsole/internal/client/services"
	"github.com/civicops/drconsole/internal/logging"
	"github.com/civicops/drconsole/internal/timex"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// App is one console session: a server connection, the login state and the
// stores and views built over them.
type App struct {
	config  *config.Config
	logger  logging.Logger
	auth    services.AuthService
	console *services.Console
	clock   timex.Clock
	reader  *bufio.Reader
	out     io.Writer

	mu       sync.Mutex
	userName string
	mode     Mode
}

// NewApp connects to the configured server. The connection is opened on the
// first call, so NewApp succeeds even when the server is down.
func NewApp(cfg *config.Config, logger logging.Logger) (*App, error) {
	c, err := client.NewGRPCClient(cfg.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}
	clock := timex.SystemClock{}
	console := services.NewConsole(c, c, clock, logger)
	return newApp(cfg, logger, services.NewAuthService(c), console, clock, os.Stdin, os.Stdout), nil
}

func newApp(cfg *config.Config, logger logging.Logger, auth services.AuthService, console *services.Console,
	clock timex.Clock, in io.Reader, out io.Writer) *App {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &App{
		config:  cfg,
		logger:  logger.With("module", "cli"),
		auth:    auth,
		console: console,
		clock:   clock,
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

// Close releases the server connection.
func (a *App) Close(ctx context.Context) error {
	return a.auth.Close(ctx)
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userName != ""
}

func (a *App) setUser(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userName = name
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		a.logger.Info(context.Background(), "connection mode changed", "mode", mode)
	}
}

func (a *App) status() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.userName
	if a.mode != "" {
		if s != "" {
			s += " "
		}
		s += string(a.mode)
	}
	return s
}

// withTimeout bounds one server round trip.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

// StartOnlineStatusWatcher pings the server every interval and records
// whether it answered, until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) probe(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := a.auth.Ping(pctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
