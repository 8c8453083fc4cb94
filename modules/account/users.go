package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/userkit/binder"
	"github.com/dmitrymomot/userkit/handler"
	accountsvc "github.com/dmitrymomot/userkit/svc/account"
	"github.com/dmitrymomot/userkit/svc/auth"
)

// UsersHandler serves the /api/users resource.
type UsersHandler struct {
	users   *accountsvc.Service
	session handler.Interceptor
	errors  handler.ErrorHandler
}

func NewUsersHandler(users *accountsvc.Service, session handler.Interceptor, deps Deps) *UsersHandler {
	return &UsersHandler{
		users:   users,
		session: session,
		errors:  NewErrorHandler(deps),
	}
}

// Handle returns the users router. Updates are limited to the account
// owner or an administrator, deactivation to administrators.
func (h *UsersHandler) Handle() http.Handler {
	r := chi.NewRouter()
	path := binder.Path(chi.URLParam)

	r.Get("/", handler.Wrap(h.list,
		handler.WithBinders(binder.Query()),
		handler.WithErrorHandler(h.errors),
	))
	r.Post("/", handler.Wrap(h.create,
		handler.WithBinders(binder.JSON()),
		handler.WithErrorHandler(h.errors),
	))
	r.Get("/{id}", handler.Wrap(h.get,
		handler.WithBinders(path),
		handler.WithErrorHandler(h.errors),
	))
	r.Put("/{id}", handler.Wrap(h.update,
		handler.WithInterceptors(h.session, auth.OwnerOnly("id", accountsvc.RoleAdmin)),
		handler.WithBinders(binder.JSON(), path),
		handler.WithErrorHandler(h.errors),
	))
	r.Delete("/{id}", handler.Wrap(h.deactivate,
		handler.WithInterceptors(h.session, auth.AdminOnly),
		handler.WithBinders(path),
		handler.WithErrorHandler(h.errors),
	))
	return r
}

func (h *UsersHandler) list(ctx handler.Context, req listRequest) handler.Response {
	offset, limit := req.page()
	page, err := h.users.List(ctx, offset, limit)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(page)
}

func (h *UsersHandler) get(ctx handler.Context, req idRequest) handler.Response {
	acc, err := h.users.Get(ctx, req.ID)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(acc)
}

func (h *UsersHandler) create(ctx handler.Context, req createRequest) handler.Response {
	acc, err := h.users.Create(ctx, req.input())
	if err != nil {
		return handler.Fail(err)
	}
	return handler.Created(acc)
}

func (h *UsersHandler) update(ctx handler.Context, req updateRequest) handler.Response {
	editor, _ := auth.AccountFromContext(ctx)
	acc, err := h.users.Update(ctx, req.ID, editor, req.input())
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(acc)
}

func (h *UsersHandler) deactivate(ctx handler.Context, req idRequest) handler.Response {
	editor, _ := auth.AccountFromContext(ctx)
	acc, err := h.users.Deactivate(ctx, req.ID, editor)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(acc)
}
