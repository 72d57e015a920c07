package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/bankadmin/internal/client/api"
	"github.com/dmitrijs2005/bankadmin/internal/client/models"
	"github.com/dmitrijs2005/bankadmin/internal/client/session"
	"github.com/dmitrijs2005/bankadmin/internal/common"
	"github.com/dmitrijs2005/bankadmin/internal/logging"
	"github.com/dmitrijs2005/bankadmin/internal/server/httpapi"
	"github.com/dmitrijs2005/bankadmin/internal/server/store"
	"github.com/dmitrijs2005/bankadmin/internal/server/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	srvconfig "github.com/dmitrijs2005/bankadmin/internal/server/config"
	srvmodels "github.com/dmitrijs2005/bankadmin/internal/server/models"
)

// hits counts backend requests per "METHOD path".
type hits struct {
	mu sync.Mutex
	n  map[string]int
}

func (h *hits) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.n[r.Method+" "+r.URL.Path]++
		h.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (h *hits) get(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.n[key]
}

type env struct {
	store    *store.Store
	hits     *hits
	session  *session.Store
	client   *api.Client
	notes    []string
	auth     AuthService
	users    UserService
	banks    BankService
	accounts BankAccountService
	withdraw WithdrawService

	authHeaders []string
	mu          sync.Mutex
}

func newEnv(t *testing.T) *env {
	t.Helper()

	st := store.New()
	us := users.NewService(st, &srvconfig.Config{SecretKey: "svc-test", AccessTokenValidityDuration: time.Hour}).
		WithHashCost(bcrypt.MinCost)
	_, err := us.EnsureAdmin(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)

	e := &env{store: st, hits: &hits{n: map[string]int{}}}
	srv := httptest.NewServer(e.hits.wrap(httpapi.NewServer(":0", logging.NewNopLogger(), st, us).Handler()))
	t.Cleanup(srv.Close)

	e.session = session.NewStore(nil, logging.NewNopLogger())

	recordAuth := func(next api.Handler) api.Handler {
		return func(ctx context.Context, req *api.Request) (*api.Response, error) {
			e.mu.Lock()
			e.authHeaders = append(e.authHeaders, req.Header.Get(common.AuthorizationHeader))
			e.mu.Unlock()
			return next(ctx, req)
		}
	}

	client, err := api.New(api.Options{
		BaseURL: srv.URL + "/api",
		Session: e.session,
		Notifier: api.NotifierFunc(func(_ context.Context, msg string) {
			e.mu.Lock()
			e.notes = append(e.notes, msg)
			e.mu.Unlock()
		}),
		Reloader:    api.ReloaderFunc(func() {}),
		Scheduler:   func(time.Duration, func()) func() bool { return func() bool { return true } },
		Logger:      logging.NewNopLogger(),
		Middlewares: []api.Middleware{recordAuth},
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	e.client = client
	e.auth = NewAuthService(client, e.session)
	e.users = NewUserService(client)
	e.banks = NewBankService(client)
	e.accounts = NewBankAccountService(client)
	e.withdraw = NewWithdrawService(client)
	return e
}

func (e *env) login(t *testing.T) {
	t.Helper()
	_, err := e.auth.Login(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)
}

func (e *env) lastAuthHeader() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.authHeaders) == 0 {
		return ""
	}
	return e.authHeaders[len(e.authHeaders)-1]
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{name: "ok", email: "a@b.com", password: "secret1"},
		{name: "no at", email: "ab.com", password: "secret1", want: ErrInvalidEmail},
		{name: "display name", email: "Ann <a@b.com>", password: "secret1", want: ErrInvalidEmail},
		{name: "short password", email: "a@b.com", password: "12345", want: ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredentials(tt.email, tt.password)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestAuth_LoginThenBearerRequests(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user, err := e.auth.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Contains(t, string(user), `"email":"a@b.com"`)

	token := e.session.Token()
	require.NotEmpty(t, token)
	assert.False(t, e.session.ExpiresAt().IsZero())

	_, err = e.users.List(ctx, UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+token, e.lastAuthHeader())

	assert.True(t, e.auth.Logout(ctx))
	assert.False(t, e.session.IsAuthenticated())
	assert.Zero(t, e.client.CacheLen())
	assert.False(t, e.auth.Logout(ctx))
}

func TestAuth_LoginRejected(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.auth.Login(ctx, "a@b.com", "not-it1")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.ErrorIs(t, err, api.ErrValidation)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
	assert.False(t, e.session.IsAuthenticated())
	assert.Empty(t, e.notes)
	assert.Empty(t, e.lastAuthHeader())

	_, err = e.auth.Login(ctx, "a@b.com", "123")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	assert.Equal(t, 1, e.hits.get("POST /api/auth/admin-login"))
}

func TestUnauthenticatedRequestTriggersGuard(t *testing.T) {
	e := newEnv(t)

	_, err := e.banks.List(context.Background(), BankFilter{})
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, []string{api.SessionExpiredMessage}, e.notes)
	assert.Empty(t, e.lastAuthHeader())
}

func TestUsers_CRUD(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	ctx := context.Background()

	first, err := e.users.List(ctx, UserFilter{Role: models.RoleUser})
	require.NoError(t, err)
	assert.Empty(t, first.Items)
	assert.Equal(t, 1, first.LastPage)

	created, err := e.users.Create(ctx, models.UserInput{FullName: "Ann", Email: "ann@example.com", Password: "secret1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.UserPending, created.Status)

	list, err := e.users.List(ctx, UserFilter{Role: models.RoleUser})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 2, e.hits.get("GET /api/users"))

	updated, err := e.users.Update(ctx, created.ID,
		models.UserInput{FullName: "Ann B", Email: "ann@example.com"},
		&api.File{Name: "ann.png", Data: []byte("png")})
	require.NoError(t, err)
	assert.Equal(t, "Ann B", updated.FullName)
	assert.Equal(t, "uploads/ann.png", updated.Photo)
	assert.Equal(t, 1, e.hits.get("POST /api/users/"+formatID(created.ID)))

	active, err := e.users.SetStatus(ctx, created.ID, models.UserActive)
	require.NoError(t, err)
	assert.Equal(t, models.UserActive, active.Status)

	opts, err := e.users.ActiveDropdown(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Option{{ID: created.ID, Name: "Ann B"}}, opts)

	got, err := e.users.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann B", got.FullName)

	require.NoError(t, e.users.Delete(ctx, created.ID))
	_, err = e.users.Get(ctx, created.ID)
	assert.ErrorIs(t, err, api.ErrNotFound)

	_, err = e.users.Create(ctx, models.UserInput{FullName: "", Email: "bad"}, nil)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 422, apiErr.Status)
}

func TestUsers_WatchReceivesRefetch(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	ctx := context.Background()

	sub, err := e.users.Watch(ctx, UserFilter{Role: models.RoleUser})
	require.NoError(t, err)
	defer sub.Close()

	initial := <-sub.Updates()
	require.NoError(t, initial.Err)
	page, err := api.DecodePage[models.User](initial.Data)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = e.users.Create(ctx, models.UserInput{FullName: "Ann", Email: "ann@example.com", Password: "secret1"}, nil)
	require.NoError(t, err)

	select {
	case u := <-sub.Updates():
		require.NoError(t, u.Err)
		page, err := api.DecodePage[models.User](u.Data)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Ann", page.Items[0].FullName)
	case <-time.After(2 * time.Second):
		t.Fatal("no refetch after mutation")
	}
}

func TestBankAccounts_DoNotInvalidateBanks(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	ctx := context.Background()

	bank, err := e.banks.Create(ctx, models.BankInput{Name: "Nord", Status: models.BankActive})
	require.NoError(t, err)
	user, err := e.users.Create(ctx, models.UserInput{FullName: "Ann", Email: "ann@example.com", Password: "secret1"}, nil)
	require.NoError(t, err)

	_, err = e.banks.List(ctx, BankFilter{})
	require.NoError(t, err)
	_, err = e.accounts.List(ctx, BankAccountFilter{BankID: bank.ID})
	require.NoError(t, err)

	acct, err := e.accounts.Create(ctx, models.BankAccountInput{BankID: bank.ID, UserID: user.ID})
	require.NoError(t, err)
	assert.Len(t, acct.AccountNumber, 10)

	banks, err := e.banks.List(ctx, BankFilter{})
	require.NoError(t, err)
	assert.Len(t, banks.Items, 1)
	assert.Equal(t, 1, e.hits.get("GET /api/banks"), "bank list must stay cached")

	accts, err := e.accounts.List(ctx, BankAccountFilter{BankID: bank.ID})
	require.NoError(t, err)
	assert.Len(t, accts.Items, 1)
	assert.Equal(t, 2, e.hits.get("GET /api/bank-accounts"))

	closed, err := e.accounts.SetOpen(ctx, acct.ID, false)
	require.NoError(t, err)
	assert.False(t, closed.IsOpen)

	open := false
	accts, err = e.accounts.List(ctx, BankAccountFilter{IsOpen: &open})
	require.NoError(t, err)
	assert.Len(t, accts.Items, 1)

	err = e.banks.Delete(ctx, bank.ID)
	assert.ErrorIs(t, err, api.ErrValidation)
	require.NoError(t, e.accounts.Delete(ctx, acct.ID))
	require.NoError(t, e.banks.Delete(ctx, bank.ID))
}

func TestBanks_StatusAndDropdown(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	ctx := context.Background()

	b, err := e.banks.Create(ctx, models.BankInput{Name: "Harbor", AccountType: models.AccountBusiness})
	require.NoError(t, err)
	assert.Equal(t, models.BankPending, b.Status)

	opts, err := e.banks.ActiveDropdown(ctx)
	require.NoError(t, err)
	assert.Empty(t, opts)

	_, err = e.banks.SetStatus(ctx, b.ID, models.BankActive)
	require.NoError(t, err)

	opts, err = e.banks.ActiveDropdown(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Option{{ID: b.ID, Name: "Harbor"}}, opts)

	renamed, err := e.banks.Update(ctx, b.ID, models.BankInput{Name: "Harbor Bank"})
	require.NoError(t, err)
	assert.Equal(t, "Harbor Bank", renamed.Name)

	got, err := e.banks.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Harbor Bank", got.Name)

	found, err := e.banks.List(ctx, BankFilter{Search: "harbor", Status: models.BankActive})
	require.NoError(t, err)
	assert.Len(t, found.Items, 1)
}

func TestWithdraws_SetStatus(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	ctx := context.Background()

	u, err := e.store.CreateUser(srvmodels.User{FullName: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)
	w, err := e.store.CreateWithdraw(srvmodels.Withdraw{UserID: u.ID, Amount: 80, FeeType: "PERCENTAGE"})
	require.NoError(t, err)

	pending, err := e.withdraw.List(ctx, WithdrawFilter{Status: models.WithdrawPending})
	require.NoError(t, err)
	require.Len(t, pending.Items, 1)
	require.NotNil(t, pending.Items[0].User)
	assert.Equal(t, "Ann", pending.Items[0].User.FullName)

	_, err = e.withdraw.SetStatus(ctx, w.ID, models.WithdrawPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = e.withdraw.SetStatus(ctx, w.ID, "LOST")
	assert.ErrorIs(t, err, models.ErrUnknownStatus)

	approved, err := e.withdraw.SetStatus(ctx, w.ID, models.WithdrawApproved)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawApproved, approved.Status)

	pending, err = e.withdraw.List(ctx, WithdrawFilter{Status: models.WithdrawPending})
	require.NoError(t, err)
	assert.Empty(t, pending.Items)

	minAmount := 50.0
	byFee, err := e.withdraw.List(ctx, WithdrawFilter{FeeType: models.FeePercentage, MinAmount: &minAmount, PerPage: 5})
	require.NoError(t, err)
	assert.Len(t, byFee.Items, 1)

	got, err := e.withdraw.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawApproved, got.Status)

	_, err = e.withdraw.List(ctx, WithdrawFilter{StartDate: "yesterday"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "YYYY-MM-DD"))
}
