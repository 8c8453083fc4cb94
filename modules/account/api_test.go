package account_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/userkit/handler"
	"github.com/dmitrymomot/userkit/modules/account"
	"github.com/dmitrymomot/userkit/pkg/metrics"
	"github.com/dmitrymomot/userkit/pkg/rbac"
	"github.com/dmitrymomot/userkit/pkg/ratelimiter"
	accountsvc "github.com/dmitrymomot/userkit/svc/account"
	"github.com/dmitrymomot/userkit/svc/auth"
)

const testSecret = "module-test-secret"

type testAPI struct {
	handler  http.Handler
	dir      *memDirectory
	tokens   *auth.TokenService
	registry *prometheus.Registry
}

type apiOptions struct {
	loginCapacity int
	google        auth.IDTokenValidator
}

func newTestAPI(t *testing.T, opt apiOptions) *testAPI {
	t.Helper()

	roles, err := rbac.NewRegistry(context.Background(), rbac.NewInMemRoleSource("ADMIN_ROLE", "USER_ROLE"))
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(testSecret)
	require.NoError(t, err)

	dir := newMemDirectory()
	hasher := accountsvc.NewBcryptHasher(bcrypt.MinCost)
	reg := prometheus.NewRegistry()
	deps := account.Deps{Metrics: metrics.NewCollector(reg)}

	users := accountsvc.NewService(dir, roles, accountsvc.Config{BcryptCost: bcrypt.MinCost})
	signInOpts := []auth.ServiceOption{auth.WithMetrics(deps.Metrics)}
	if opt.google != nil {
		signInOpts = append(signInOpts, auth.WithGoogle(auth.NewGoogleVerifier(opt.google, "client-id", nil)))
	}
	signIn := auth.NewService(auth.NewCredentialVerifier(dir, hasher, nil), tokens, dir, signInOpts...)
	gate := auth.NewSessionGate(tokens, dir, nil)

	var authOpts []account.AuthOption
	if opt.loginCapacity > 0 {
		store := ratelimiter.NewMemoryStore()
		t.Cleanup(store.Close)
		limiter, err := ratelimiter.New(store, ratelimiter.Config{
			Capacity:       opt.loginCapacity,
			RefillRate:     1,
			RefillInterval: time.Hour,
		})
		require.NoError(t, err)
		authOpts = append(authOpts, account.WithRateLimiter(limiter, deps))
	}

	return &testAPI{
		handler: account.Router(account.RouterOptions{
			Users: account.NewUsersHandler(users, gate, deps),
			Auth:  account.NewAuthHandler(signIn, gate, deps, authOpts...),
		}),
		dir:      dir,
		tokens:   tokens,
		registry: reg,
	}
}

// seed stores an active account directly and returns it with a session token.
func (a *testAPI) seed(t *testing.T, name, email, password string, role accountsvc.Role) (*accountsvc.Account, string) {
	t.Helper()
	acc := &accountsvc.Account{Name: name, Email: email, Role: role, Active: true}
	if password != "" {
		hash, err := accountsvc.NewBcryptHasher(bcrypt.MinCost).Hash(password)
		require.NoError(t, err)
		acc.PasswordHash = hash
	} else {
		acc.Google = true
	}
	require.NoError(t, a.dir.Save(context.Background(), acc))
	token, err := a.tokens.Issue(acc.IDHex())
	require.NoError(t, err)
	return acc, token
}

func (a *testAPI) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

type userJSON struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	Status    bool    `json:"status"`
	Google    bool    `json:"google"`
	Password  *string `json:"password"`
	UpdatedBy string  `json:"updatedBy"`
}

type sessionJSON struct {
	User  userJSON `json:"user"`
	Token string   `json:"token"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[handler.ErrorBody](t, rec).Message
}
