package cli

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/dmitrijs2005/bankadmin/internal/client/api"
	"github.com/dmitrijs2005/bankadmin/internal/client/config"
	"github.com/dmitrijs2005/bankadmin/internal/client/models"
	"github.com/dmitrijs2005/bankadmin/internal/client/services"
	"github.com/dmitrijs2005/bankadmin/internal/client/session"
	"github.com/dmitrijs2005/bankadmin/internal/client/storage"
	"github.com/dmitrijs2005/bankadmin/internal/client/tracker"
	"github.com/dmitrijs2005/bankadmin/internal/filex"
	"github.com/dmitrijs2005/bankadmin/internal/logging"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	session *session.Store
	tracker *tracker.Tracker
	client  *api.Client

	authService     services.AuthService
	userService     services.UserService
	bankService     services.BankService
	accountService  services.BankAccountService
	withdrawService services.WithdrawService

	reader *bufio.Reader
	out    io.Writer

	mu       sync.Mutex
	userName string
	reloads  chan struct{}
}

// NewApp wires the console. An empty SessionDBPath keeps the session in
// memory only.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)

	a := &App{
		config:  c,
		logger:  logger,
		reader:  bufio.NewReader(in),
		out:     out,
		reloads: make(chan struct{}, 1),
	}

	var persister session.Persister
	if c.SessionDBPath != "" {
		path, err := filex.EnsureParentDir(c.SessionDBPath)
		if err != nil {
			return nil, err
		}
		db, err := storage.InitDatabase(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("error initializing database: %w", err)
		}
		a.db = db
		persister = session.NewMetadataPersister(db)
	}

	a.session = session.NewStore(persister, logger)
	a.session.Subscribe(a.sessionChanged)
	if err := a.session.Restore(ctx); err != nil {
		logger.Warn(ctx, "session not restored", "error", err)
	}
	a.sessionChanged(a.session.IsAuthenticated())

	a.tracker = tracker.New(logger)
	a.tracker.OnChange(func(busy bool) {
		logger.Debug(context.Background(), "busy changed", "busy", busy)
	})

	client, err := api.New(api.Options{
		BaseURL:     c.APIBaseURL,
		HTTPClient:  &http.Client{Timeout: c.RequestTimeout},
		Session:     a.session,
		Tracker:     a.tracker,
		Notifier:    a,
		Reloader:    a,
		ReloadDelay: c.ReloadDelay,
		CacheSize:   c.CacheSize,
		Logger:      logger,
	})
	if err != nil {
		a.closeDB()
		return nil, err
	}
	a.client = client

	a.authService = services.NewAuthService(client, a.session)
	a.userService = services.NewUserService(client)
	a.bankService = services.NewBankService(client)
	a.accountService = services.NewBankAccountService(client)
	a.withdrawService = services.NewWithdrawService(client)

	return a, nil
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Bank admin console (type 'help' for commands)")
	if !a.isLoggedIn() {
		_ = a.Login(ctx)
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	a.client.Close()
	a.closeDB()
}

func (a *App) closeDB() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// Notify prints a transient message for the administrator.
func (a *App) Notify(_ context.Context, msg string) {
	fmt.Fprintf(a.out, "\n!! %s\n", msg)
}

// Reload queues a return to the login prompt; the REPL picks it up before
// reading the next command.
func (a *App) Reload() {
	select {
	case a.reloads <- struct{}{}:
	default:
	}
}

func (a *App) reloadRequested() bool {
	select {
	case <-a.reloads:
		return true
	default:
		return false
	}
}

func (a *App) sessionChanged(authenticated bool) {
	name := ""
	if authenticated {
		var u models.User
		if err := json.Unmarshal(a.session.User(), &u); err == nil {
			name = u.Email
		}
	}

	a.mu.Lock()
	a.userName = name
	a.mu.Unlock()
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) getStatus() string {
	a.mu.Lock()
	s := a.userName
	a.mu.Unlock()

	if a.tracker.IsBusy() {
		s += "*"
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
