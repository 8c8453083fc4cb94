package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/userkit/pkg/logger"
	"github.com/dmitrymomot/userkit/pkg/sanitizer"
	"github.com/dmitrymomot/userkit/pkg/validator"
)

// RoleValidator rejects role names that are not registered.
type RoleValidator interface {
	Validate(role string) error
}

// CreateInput is the payload for Create.
type CreateInput struct {
	Name     string
	Email    string
	Password string
	Img      string
	Role     Role
}

// UpdateInput is a partial update. Nil fields are left unchanged; email and
// the google flag cannot be changed.
type UpdateInput struct {
	Name     *string
	Img      *string
	Role     *Role
	Password *string
}

// Service implements user management on top of a Directory.
type Service struct {
	dir    Directory
	hasher Hasher
	roles  RoleValidator
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithHasher(h Hasher) ServiceOption {
	return func(s *Service) {
		if h != nil {
			s.hasher = h
		}
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(dir Directory, roles RoleValidator, cfg Config, opts ...ServiceOption) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 5
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = max(cfg.DefaultLimit, 100)
	}
	s := &Service{
		dir:    dir,
		hasher: NewBcryptHasher(cfg.BcryptCost),
		roles:  roles,
		cfg:    cfg,
		logger: logger.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates in, checks the email is free and stores a new active
// account. The existence check runs before any write so a duplicate never
// reaches the database.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Account, error) {
	in.Name = sanitizer.NormalizeName(in.Name)
	in.Email = sanitizer.NormalizeEmail(in.Email)
	if in.Role == "" {
		in.Role = RoleUser
	}

	rules := append(nameRules(in.Name),
		validator.Required("email", in.Email),
		validator.ValidEmail("email", in.Email),
		s.roleRule(in.Role),
	)
	if err := validator.Apply(append(rules, passwordRules(in.Password)...)...); err != nil {
		return nil, err
	}

	switch _, err := s.dir.FindByEmail(ctx, in.Email); {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acc := &Account{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Img:          in.Img,
		Role:         in.Role,
		Active:       true,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.dir.Save(ctx, acc); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "account created",
		logger.UserID(acc.IDHex()),
		logger.Role(acc.Role.String()),
		logger.Component("account"),
	)
	return acc, nil
}

// Get returns the account with the given id, active or not.
func (s *Service) Get(ctx context.Context, id string) (*Account, error) {
	if err := validator.Apply(validator.ValidObjectID("id", id)); err != nil {
		return nil, err
	}
	return s.dir.FindByID(ctx, id)
}

// List returns a page of active accounts. The count and the page are
// fetched concurrently.
func (s *Service) List(ctx context.Context, offset, limit int64) (Page, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	limit = min(limit, s.cfg.MaxLimit)
	offset = max(offset, 0)

	var page Page
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.dir.CountActive(gctx)
		page.Total = n
		return err
	})
	g.Go(func() error {
		users, err := s.dir.FindActivePage(gctx, offset, limit)
		page.Users = users
		return err
	})
	if err := g.Wait(); err != nil {
		return Page{}, err
	}
	if page.Users == nil {
		page.Users = []Account{}
	}
	return page, nil
}

// Update applies in to the account id on behalf of editor. Only
// administrators may change roles.
func (s *Service) Update(ctx context.Context, id string, editor *Account, in UpdateInput) (*Account, error) {
	acc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var rules []validator.Rule
	if in.Name != nil {
		*in.Name = sanitizer.NormalizeName(*in.Name)
		rules = append(rules, nameRules(*in.Name)...)
	}
	if in.Password != nil {
		rules = append(rules, validator.Custom("password", "cannot be set on a Google account", func() bool { return !acc.Google }))
		rules = append(rules, passwordRules(*in.Password)...)
	}
	if in.Role != nil {
		rules = append(rules, s.roleRule(*in.Role))
	}
	if err := validator.Apply(rules...); err != nil {
		return nil, err
	}

	if in.Role != nil && *in.Role != acc.Role && (editor == nil || editor.Role != RoleAdmin) {
		return nil, ErrRoleChangeDenied
	}

	if in.Name != nil {
		acc.Name = *in.Name
	}
	if in.Img != nil {
		acc.Img = *in.Img
	}
	if in.Role != nil {
		acc.Role = *in.Role
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		acc.PasswordHash = hash
	}

	s.stamp(acc, editor)
	if err := s.dir.Save(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// Deactivate soft-deletes the account. Its record stays so the email
// remains reserved.
func (s *Service) Deactivate(ctx context.Context, id string, editor *Account) (*Account, error) {
	acc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	acc.Active = false
	s.stamp(acc, editor)
	if err := s.dir.Save(ctx, acc); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "account deactivated",
		logger.UserID(acc.IDHex()),
		slog.String("by", editorID(editor)),
		logger.Component("account"),
	)
	return acc, nil
}

func (s *Service) stamp(acc *Account, editor *Account) {
	acc.UpdatedAt = s.now().UTC()
	acc.UpdatedBy = editorID(editor)
}

func (s *Service) roleRule(role Role) validator.Rule {
	return validator.Custom("role", fmt.Sprintf("role %s is not registered", role), func() bool {
		return s.roles.Validate(role.String()) == nil
	})
}

func nameRules(name string) []validator.Rule {
	return []validator.Rule{
		validator.Required("name", name),
		validator.MinLen("name", name, 2),
		validator.MaxLen("name", name, 50),
	}
}

// passwordRules bounds a plaintext password. bcrypt rejects input longer
// than 72 bytes.
func passwordRules(password string) []validator.Rule {
	return []validator.Rule{
		validator.MinLen("password", password, 6),
		validator.MaxBytes("password", password, 72),
	}
}

func editorID(editor *Account) string {
	if editor == nil {
		return ""
	}
	return editor.IDHex()
}
