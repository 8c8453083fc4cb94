package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/userkit/pkg/jwt"
	"github.com/dmitrymomot/userkit/svc/account"
	"github.com/dmitrymomot/userkit/svc/auth"
)

func tokenEndpoint(t *testing.T, idToken string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		body := `{"access_token":"at","token_type":"Bearer","expires_in":3600`
		if idToken != "" {
			body += `,"id_token":"` + idToken + `"`
		}
		_, _ = w.Write([]byte(body + "}"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestOAuth(t *testing.T, tokenURL string, dir *MockDirectory, v *MockIDTokenValidator) *auth.GoogleOAuth {
	t.Helper()
	cfg := &oauth2.Config{
		ClientID:     testClientID,
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:3000/api/auth/google/callback",
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.example.com/o/oauth2/auth",
			TokenURL: tokenURL,
		},
	}
	state, err := jwt.NewFromString(testSecret)
	require.NoError(t, err)
	verifier := auth.NewGoogleVerifier(v, testClientID, nil)
	svc, _, _ := newTestService(t, dir, v)
	return auth.NewGoogleOAuth(cfg, state, time.Minute, verifier, svc, nil)
}

func stateFrom(t *testing.T, authURL string) string {
	t.Helper()
	u, err := url.Parse(authURL)
	require.NoError(t, err)
	return u.Query().Get("state")
}

func TestGoogleOAuth_AuthURL(t *testing.T) {
	t.Parallel()

	o := newTestOAuth(t, "http://unused", new(MockDirectory), new(MockIDTokenValidator))
	first, err := o.AuthURL()
	require.NoError(t, err)
	second, err := o.AuthURL()
	require.NoError(t, err)

	u, err := url.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, "accounts.example.com", u.Host)
	assert.Equal(t, testClientID, u.Query().Get("client_id"))
	assert.Equal(t, "select_account", u.Query().Get("prompt"))
	assert.NotEmpty(t, stateFrom(t, first))
	assert.NotEqual(t, stateFrom(t, first), stateFrom(t, second))
}

func TestGoogleOAuth_Callback(t *testing.T) {
	t.Parallel()

	t.Run("rejects forged state", func(t *testing.T) {
		t.Parallel()
		o := newTestOAuth(t, "http://unused", new(MockDirectory), new(MockIDTokenValidator))
		_, err := o.Callback(context.Background(), "not-a-token", "good-code")
		assert.ErrorIs(t, err, auth.ErrInvalidOAuthState)
	})

	t.Run("rejects a session token used as state", func(t *testing.T) {
		t.Parallel()
		tokens, err := auth.NewTokenService(testSecret)
		require.NoError(t, err)
		sessionToken, err := tokens.Issue(bson.NewObjectID().Hex())
		require.NoError(t, err)

		o := newTestOAuth(t, "http://unused", new(MockDirectory), new(MockIDTokenValidator))
		_, err = o.Callback(context.Background(), sessionToken, "good-code")
		assert.ErrorIs(t, err, auth.ErrInvalidOAuthState)
	})

	t.Run("rejects missing code", func(t *testing.T) {
		t.Parallel()
		o := newTestOAuth(t, "http://unused", new(MockDirectory), new(MockIDTokenValidator))
		authURL, err := o.AuthURL()
		require.NoError(t, err)
		_, err = o.Callback(context.Background(), stateFrom(t, authURL), "")
		assert.ErrorIs(t, err, auth.ErrInvalidExternalToken)
	})

	t.Run("failed exchange", func(t *testing.T) {
		t.Parallel()
		srv := tokenEndpoint(t, "id-token")
		o := newTestOAuth(t, srv.URL, new(MockDirectory), new(MockIDTokenValidator))
		authURL, err := o.AuthURL()
		require.NoError(t, err)
		_, err = o.Callback(context.Background(), stateFrom(t, authURL), "bad-code")
		assert.ErrorIs(t, err, auth.ErrInvalidExternalToken)
	})

	t.Run("token response without id_token", func(t *testing.T) {
		t.Parallel()
		srv := tokenEndpoint(t, "")
		o := newTestOAuth(t, srv.URL, new(MockDirectory), new(MockIDTokenValidator))
		authURL, err := o.AuthURL()
		require.NoError(t, err)
		_, err = o.Callback(context.Background(), stateFrom(t, authURL), "good-code")
		assert.ErrorIs(t, err, auth.ErrInvalidExternalToken)
	})

	t.Run("signs in with the exchanged id token", func(t *testing.T) {
		t.Parallel()
		existing := &account.Account{
			ID:            bson.NewObjectID(),
			Email:         "ann@example.com",
			Role:          account.RoleUser,
			Active:        true,
			Google:        true,
			AuthProviders: []account.AuthProvider{{Name: "google", ID: "google-sub-1"}},
		}
		v := new(MockIDTokenValidator)
		v.On("Validate", mock.Anything, "id-token", testClientID).Return(googlePayload("ann@example.com", true), nil)
		dir := new(MockDirectory)
		dir.On("FindByEmail", mock.Anything, "ann@example.com").Return(existing, nil)

		srv := tokenEndpoint(t, "id-token")
		o := newTestOAuth(t, srv.URL, dir, v)
		authURL, err := o.AuthURL()
		require.NoError(t, err)

		sess, err := o.Callback(context.Background(), stateFrom(t, authURL), "good-code")
		require.NoError(t, err)
		assert.Same(t, existing, sess.User)
		assert.NotEmpty(t, sess.Token)
		v.AssertExpectations(t)
	})
}
