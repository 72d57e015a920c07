package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/bankadmin/internal/client/config"
	"github.com/dmitrijs2005/bankadmin/internal/logging"
	"github.com/dmitrijs2005/bankadmin/internal/server/httpapi"
	"github.com/dmitrijs2005/bankadmin/internal/server/models"
	"github.com/dmitrijs2005/bankadmin/internal/server/store"
	"github.com/dmitrijs2005/bankadmin/internal/server/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	srvconfig "github.com/dmitrijs2005/bankadmin/internal/server/config"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// capturePrintln redirects printlnFn into w for the duration of the test.
func capturePrintln(t *testing.T, w io.Writer) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(w, a...) }
	t.Cleanup(func() { printlnFn = orig })
}

func noTerminal(t *testing.T) {
	t.Helper()
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })
}

type backend struct {
	url   string
	store *store.Store
	admin models.User
}

func newBackend(t *testing.T) *backend {
	t.Helper()

	st := store.New()
	us := users.NewService(st, &srvconfig.Config{SecretKey: "cli-test", AccessTokenValidityDuration: time.Hour}).
		WithHashCost(bcrypt.MinCost)
	admin, err := us.EnsureAdmin(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)

	srv := httptest.NewServer(httpapi.NewServer(":0", logging.NewNopLogger(), st, us).Handler())
	t.Cleanup(srv.Close)

	return &backend{url: srv.URL + "/api", store: st, admin: admin}
}

func testConfig(b *backend, dbPath string) *config.Config {
	return &config.Config{
		APIBaseURL:     b.url,
		SessionDBPath:  dbPath,
		ReloadDelay:    10 * time.Millisecond,
		RequestTimeout: 5 * time.Second,
		CacheSize:      16,
		LogLevel:       "error",
	}
}

func newTestApp(t *testing.T, b *backend, dbPath string, input string) (*App, *syncBuffer) {
	t.Helper()
	noTerminal(t)

	out := &syncBuffer{}
	a, err := NewApp(context.Background(), testConfig(b, dbPath), strings.NewReader(input), out)
	require.NoError(t, err)
	return a, out
}

func tempDB(t *testing.T) string {
	return filepath.Join(t.TempDir(), "session.db")
}
