package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"google.golang.org/api/idtoken"

	"github.com/dmitrymomot/userkit/svc/account"
	"github.com/dmitrymomot/userkit/svc/auth"
)

func newTestService(t *testing.T, dir *MockDirectory, validator auth.IDTokenValidator) (*auth.Service, *auth.TokenService, *spyRecorder) {
	t.Helper()
	tokens, err := auth.NewTokenService(testSecret)
	require.NoError(t, err)
	spy := &spyRecorder{}
	opts := []auth.ServiceOption{auth.WithMetrics(spy)}
	if validator != nil {
		opts = append(opts, auth.WithGoogle(auth.NewGoogleVerifier(validator, testClientID, nil)))
	}
	svc := auth.NewService(auth.NewCredentialVerifier(dir, testHasher, nil), tokens, dir, opts...)
	return svc, tokens, spy
}

func googlePayload(email string, verified bool) *idtoken.Payload {
	claims := map[string]any{
		"name":           "Ann Lee",
		"picture":        "https://lh3.googleusercontent.com/a/photo",
		"email_verified": verified,
	}
	if email != "" {
		claims["email"] = email
	}
	return &idtoken.Payload{Subject: "google-sub-1", Claims: claims}
}

func TestService_Login(t *testing.T) {
	t.Parallel()

	t.Run("success issues a token for the account", func(t *testing.T) {
		t.Parallel()
		acc := passwordAccount(t, "secret1")
		dir := new(MockDirectory)
		dir.On("FindByEmail", mock.Anything, "ann@example.com").Return(acc, nil)

		svc, tokens, spy := newTestService(t, dir, nil)
		sess, err := svc.Login(context.Background(), "ann@example.com", "secret1")
		require.NoError(t, err)
		assert.Same(t, acc, sess.User)

		sub, err := tokens.Verify(sess.Token)
		require.NoError(t, err)
		assert.Equal(t, acc.IDHex(), sub)
		assert.Equal(t, []string{"password:success"}, spy.Logins())
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		t.Parallel()
		dir := new(MockDirectory)
		dir.On("FindByEmail", mock.Anything, "ann@example.com").Return(passwordAccount(t, "secret1"), nil)

		svc, _, spy := newTestService(t, dir, nil)
		sess, err := svc.Login(context.Background(), "ann@example.com", "nope")
		assert.ErrorIs(t, err, auth.ErrBadCredential)
		assert.Empty(t, sess.Token)
		assert.Equal(t, []string{"password:rejected"}, spy.Logins())
	})

	t.Run("storage failure is an error outcome", func(t *testing.T) {
		t.Parallel()
		dir := new(MockDirectory)
		dir.On("FindByEmail", mock.Anything, "ann@example.com").Return(nil, errors.Join(account.ErrStorage, errors.New("down")))

		svc, _, spy := newTestService(t, dir, nil)
		_, err := svc.Login(context.Background(), "ann@example.com", "secret1")
		assert.ErrorIs(t, err, auth.ErrStorageUnavailable)
		assert.Equal(t, []string{"password:error"}, spy.Logins())
	})
}

func TestService_GoogleSignIn(t *testing.T) {
	t.Parallel()

	t.Run("not configured", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestService(t, new(MockDirectory), nil)
		_, err := svc.GoogleSignIn(context.Background(), "token")
		assert.ErrorIs(t, err, auth.ErrOAuthNotConfigured)
	})

	t.Run("invalid token", func(t *testing.T) {
		t.Parallel()
		v := new(MockIDTokenValidator)
		v.On("Validate", mock.Anything, "bad", testClientID).Return(nil, errors.New("signature"))

		svc, _, spy := newTestService(t, new(MockDirectory), v)
		_, err := svc.GoogleSignIn(context.Background(), "bad")
		assert.ErrorIs(t, err, auth.ErrInvalidExternalToken)
		assert.Equal(t, []string{"google:rejected"}, spy.Logins())
	})

	t.Run("first sign-in creates a user account", func(t *testing.T) {
		t.Parallel()
		v := new(MockIDTokenValidator)
		v.On("Validate", mock.Anything, "tok", testClientID).Return(googlePayload("ann@example.com", true), nil)

		dir := new(MockDirectory)
		dir.On("FindByEmail", mock.Anything, "ann@example.com").Return(nil, account.ErrNotFound)
		dir.On("Save", mock.Anything, mock.MatchedBy(func(acc *account.Account) bool {
			return acc.ID.IsZero() && acc.Google && acc.Role == account.RoleUser && acc.Active &&
				acc.PasswordHash == "" && acc.Name == "Ann Lee"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*account.Account).ID = bson.NewObjectID()
		}).Return(nil).Once()

		svc, tokens, spy := newTestService(t, dir, v)
		sess, err := svc.GoogleSignIn(context.Background(), "tok")
		require.NoError(t, err)
		require.NotNil(t, sess.User)
		assert.Equal(t, "ann@example.com", sess.User.Email)
		require.Len(t, sess.User.AuthProviders, 1)
		assert.Equal(t, "google-sub-1", sess.User.AuthProviders[0].ID)

		sub, err := tokens.Verify(sess.Token)
		require.NoError(t, err)
		assert.Equal(t, sess.User.IDHex(), sub)
		assert.Equal(t, []string{"google:success"}, spy.Logins())
		dir.AssertExpectations(t)
	})

	t.Run("returning google account is not saved again", func(t *testing.T) {
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
		v.On("Validate", mock.Anything, "tok", testClientID).Return(googlePayload("ann@example.com", true), nil)
		dir := new(MockDirectory)
		dir.On("FindByEmail", mock.Anything, "ann@example.com").Return(existing, nil)

		svc, _, _ := newTestService(t, dir, v)
		sess, err := svc.GoogleSignIn(context.Background(), "tok")
		require.NoError(t, err)
		assert.Same(t, existing, sess.User)
		dir.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("blocked account", func(t *testing.T) {
		t.Parallel()
		blocked := &account.Account{ID: bson.NewObjectID(), Email: "ann@example.com", Google: true, Active: false}
		v := new(MockIDTokenValidator)
		v.On("Validate", mock.Anything, "tok", testClientID).Return(googlePayload("ann@example.com", true), nil)
		dir := new(MockDirectory)
		dir.On("FindByEmail", mock.Anything, "ann@example.com").Return(blocked, nil)

		svc, _, spy := newTestService(t, dir, v)
		_, err := svc.GoogleSignIn(context.Background(), "tok")
		assert.ErrorIs(t, err, auth.ErrAccountBlocked)
		assert.Equal(t, []string{"google:rejected"}, spy.Logins())
	})

	t.Run("unverified email does not take over a password account", func(t *testing.T) {
		t.Parallel()
		v := new(MockIDTokenValidator)
		v.On("Validate", mock.Anything, "tok", testClientID).Return(googlePayload("ann@example.com", false), nil)
		dir := new(MockDirectory)
		dir.On("FindByEmail", mock.Anything, "ann@example.com").Return(passwordAccount(t, "secret1"), nil)

		svc, _, _ := newTestService(t, dir, v)
		_, err := svc.GoogleSignIn(context.Background(), "tok")
		assert.ErrorIs(t, err, auth.ErrInvalidExternalToken)
		dir.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("verified email links a password account", func(t *testing.T) {
		t.Parallel()
		acc := passwordAccount(t, "secret1")
		v := new(MockIDTokenValidator)
		v.On("Validate", mock.Anything, "tok", testClientID).Return(googlePayload("ann@example.com", true), nil)
		dir := new(MockDirectory)
		dir.On("FindByEmail", mock.Anything, "ann@example.com").Return(acc, nil)
		dir.On("Save", mock.Anything, acc).Return(nil).Once()

		svc, _, _ := newTestService(t, dir, v)
		_, err := svc.GoogleSignIn(context.Background(), "tok")
		require.NoError(t, err)
		assert.False(t, acc.Google)
		require.Len(t, acc.AuthProviders, 1)
		assert.Equal(t, "google", acc.AuthProviders[0].Name)
		dir.AssertExpectations(t)
	})

	t.Run("missing email claim is rejected", func(t *testing.T) {
		t.Parallel()
		v := new(MockIDTokenValidator)
		v.On("Validate", mock.Anything, "tok", testClientID).Return(googlePayload("", true), nil)
		dir := new(MockDirectory)

		svc, _, _ := newTestService(t, dir, v)
		_, err := svc.GoogleSignIn(context.Background(), "tok")
		assert.ErrorIs(t, err, auth.ErrInvalidExternalToken)
		dir.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})

	t.Run("concurrent first sign-in reuses the winner", func(t *testing.T) {
		t.Parallel()
		winner := &account.Account{ID: bson.NewObjectID(), Email: "ann@example.com", Google: true, Active: true,
			AuthProviders: []account.AuthProvider{{Name: "google", ID: "google-sub-1"}}}
		v := new(MockIDTokenValidator)
		v.On("Validate", mock.Anything, "tok", testClientID).Return(googlePayload("ann@example.com", true), nil)
		dir := new(MockDirectory)
		dir.On("FindByEmail", mock.Anything, "ann@example.com").Return(nil, account.ErrNotFound).Once()
		dir.On("Save", mock.Anything, mock.Anything).Return(account.ErrEmailTaken).Once()
		dir.On("FindByEmail", mock.Anything, "ann@example.com").Return(winner, nil).Once()

		svc, _, _ := newTestService(t, dir, v)
		sess, err := svc.GoogleSignIn(context.Background(), "tok")
		require.NoError(t, err)
		assert.Same(t, winner, sess.User)
		dir.AssertExpectations(t)
	})
}
