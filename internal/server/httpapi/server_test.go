package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/dmitrijs2005/bankadmin/internal/logging"
	"github.com/dmitrijs2005/bankadmin/internal/server/auth"
	"github.com/dmitrijs2005/bankadmin/internal/server/config"
	"github.com/dmitrijs2005/bankadmin/internal/server/models"
	"github.com/dmitrijs2005/bankadmin/internal/server/store"
	"github.com/dmitrijs2005/bankadmin/internal/server/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type fixture struct {
	srv   *httptest.Server
	store *store.Store
	admin models.User
	token string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := store.New()
	cfg := &config.Config{SecretKey: testSecret, AccessTokenValidityDuration: time.Hour}
	us := users.NewService(st, cfg).WithHashCost(bcrypt.MinCost)

	admin, err := us.EnsureAdmin(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)

	token, err := auth.GenerateToken(admin.ID, []byte(testSecret), time.Hour)
	require.NoError(t, err)

	srv := httptest.NewServer(NewServer(":0", logging.NewNopLogger(), st, us).Handler())
	t.Cleanup(srv.Close)

	return &fixture{srv: srv, store: st, admin: admin, token: token}
}

func (f *fixture) do(t *testing.T, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodPost, "/api/auth/admin-login", map[string]string{"email": "a@b.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, status)

	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["access_token"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "a@b.com", user["email"])
	assert.NotContains(t, user, "PasswordHash")

	status, body = f.do(t, http.MethodPost, "/api/auth/admin-login", map[string]string{"email": "a@b.com", "password": "nope123"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Invalid email or password", body["errors"])

	status, body = f.do(t, http.MethodPost, "/api/auth/admin-login", map[string]string{}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body["errors"], "email")
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	f := newFixture(t)

	expired, err := auth.GenerateToken(f.admin.ID, []byte(testSecret), -time.Minute)
	require.NoError(t, err)
	forged, err := auth.GenerateToken(f.admin.ID, []byte("other"), time.Hour)
	require.NoError(t, err)

	for name, token := range map[string]string{"missing": "", "expired": expired, "forged": forged} {
		t.Run(name, func(t *testing.T) {
			status, body := f.do(t, http.MethodGet, "/api/users", nil, token)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "Unauthenticated", body["errors"])
		})
	}

	status, _ := f.do(t, http.MethodGet, "/api/users", nil, f.token)
	assert.Equal(t, http.StatusOK, status)
}

func TestListEnvelope(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Seed())

	status, body := f.do(t, http.MethodGet, "/api/users?page=3&role=USER", nil, f.token)
	require.Equal(t, http.StatusOK, status)

	inner := body["data"].(map[string]any)
	assert.EqualValues(t, 3, inner["last_page"])
	assert.Len(t, inner["data"], 4)

	status, body = f.do(t, http.MethodGet, "/api/users?minBalance=abc", nil, f.token)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, map[string]any{"minBalance": "must be a number"}, body["errors"])
}

func TestUsers_CreateUpdateDelete(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodPost, "/api/users", map[string]string{
		"full_name": "Ann", "email": "ann@example.com", "password": "secret1",
	}, f.token)
	require.Equal(t, http.StatusCreated, status)
	id := int64(body["data"].(map[string]any)["id"].(float64))

	status, body = f.do(t, http.MethodPost, "/api/users", map[string]string{
		"full_name": "", "email": "ann@example.com", "password": "secret1",
	}, f.token)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "full_name")
	assert.Contains(t, errs, "email")

	status, body = f.do(t, http.MethodPut, "/api/users/status/"+itoa(id), map[string]string{"status": "ACTIVE"}, f.token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ACTIVE", body["data"].(map[string]any)["status"])

	status, _ = f.do(t, http.MethodGet, "/api/users/dropdown/active", nil, f.token)
	assert.Equal(t, http.StatusOK, status)

	status, _ = f.do(t, http.MethodDelete, "/api/users/"+itoa(id), nil, f.token)
	assert.Equal(t, http.StatusOK, status)

	status, body = f.do(t, http.MethodGet, "/api/users/"+itoa(id), nil, f.token)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Record not found", body["errors"])

	status, _ = f.do(t, http.MethodDelete, "/api/users/"+itoa(f.admin.ID), nil, f.token)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestUsers_MultipartMethodOverride(t *testing.T) {
	f := newFixture(t)
	u, err := f.store.CreateUser(models.User{FullName: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("_method", "PUT"))
	require.NoError(t, mw.WriteField("full_name", "Ann B"))
	part, err := mw.CreateFormFile("photo", "ann.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("png"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, f.srv.URL+"/api/users/"+itoa(u.ID), &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+f.token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got, err := f.store.GetUser(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann B", got.FullName)
	assert.Equal(t, "uploads/ann.png", got.Photo)
	assert.Equal(t, "ann@example.com", got.Email)
}

func TestWithdraws_Status(t *testing.T) {
	f := newFixture(t)
	u, err := f.store.CreateUser(models.User{FullName: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)
	w, err := f.store.CreateWithdraw(models.Withdraw{UserID: u.ID, Amount: 120})
	require.NoError(t, err)

	status, body := f.do(t, http.MethodPut, "/api/withdraws/status/"+itoa(w.ID), map[string]string{"status": "APPROVED"}, f.token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "APPROVED", body["data"].(map[string]any)["status"])

	status, _ = f.do(t, http.MethodPut, "/api/withdraws/status/"+itoa(w.ID), map[string]string{"status": "REJECTED"}, f.token)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, body = f.do(t, http.MethodGet, "/api/withdraws?status=APPROVED&startDate=2000-01-01", nil, f.token)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].(map[string]any)["data"], 1)

	status, _ = f.do(t, http.MethodGet, "/api/withdraws?endDate=yesterday", nil, f.token)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestBankAccounts(t *testing.T) {
	f := newFixture(t)
	u, _ := f.store.CreateUser(models.User{FullName: "Ann", Email: "ann@example.com"})

	status, body := f.do(t, http.MethodPost, "/api/banks", map[string]string{"name": "Nord", "status": "ACTIVE"}, f.token)
	require.Equal(t, http.StatusCreated, status)
	bankID := int64(body["data"].(map[string]any)["id"].(float64))

	status, body = f.do(t, http.MethodPost, "/api/bank-accounts", map[string]any{"bank_id": bankID, "user_id": u.ID, "is_open": true}, f.token)
	require.Equal(t, http.StatusCreated, status)
	acct := body["data"].(map[string]any)
	assert.Equal(t, "Nord", acct["bank"].(map[string]any)["name"])
	acctID := int64(acct["id"].(float64))

	status, body = f.do(t, http.MethodPut, "/api/bank-accounts/status/"+itoa(acctID), map[string]bool{"is_open": false}, f.token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["data"].(map[string]any)["is_open"])

	status, body = f.do(t, http.MethodGet, "/api/bank-accounts?isOpen=false&bank_id="+itoa(bankID), nil, f.token)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].(map[string]any)["data"], 1)

	status, _ = f.do(t, http.MethodDelete, "/api/banks/"+itoa(bankID), nil, f.token)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t)
	status, body := f.do(t, http.MethodGet, "/api/nothing-here", nil, f.token)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not found", body["errors"])
}

func TestRun_StopsOnCancel(t *testing.T) {
	st := store.New()
	us := users.NewService(st, &config.Config{SecretKey: "s", AccessTokenValidityDuration: time.Minute})
	srv := NewServer("127.0.0.1:0", logging.NewNopLogger(), st, us)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
