package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"google.golang.org/api/idtoken"

	"github.com/dmitrymomot/userkit/svc/account"
)

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockDirectory) FindByID(ctx context.Context, id string) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockDirectory) Save(ctx context.Context, acc *account.Account) error {
	return m.Called(ctx, acc).Error(0)
}

func (m *MockDirectory) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDirectory) FindActivePage(ctx context.Context, offset, limit int64) ([]account.Account, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]account.Account), args.Error(1)
}

type MockIDTokenValidator struct {
	mock.Mock
}

func (m *MockIDTokenValidator) Validate(ctx context.Context, idToken, audience string) (*idtoken.Payload, error) {
	args := m.Called(ctx, idToken, audience)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idtoken.Payload), args.Error(1)
}

type spyRecorder struct {
	mu     sync.Mutex
	logins []string
}

func (s *spyRecorder) RecordLogin(method, outcome string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logins = append(s.logins, method+":"+outcome)
}

func (s *spyRecorder) RecordRejection(string, string) {}
func (s *spyRecorder) RecordRateLimited(string) {}
func (s *spyRecorder) RecordHTTPRequest(string, string, int, time.Duration) {}

func (s *spyRecorder) Logins() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.logins...)
}
