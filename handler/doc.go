// Package handler adapts typed request handlers to net/http.
//
// Wrap builds the single dispatcher for a route: an ordered list of
// Interceptors (authentication, authorization, ownership) runs first and
// may enrich the Context or stop the request with an error. Binders then
// fill the typed request value, the HandlerFunc returns a Response, and
// the Response renders itself. Every failure along the way ends up in the
// ErrorHandler, which for APIs is NewErrorHandler's JSON renderer.
//
//	errs := handler.NewErrorHandler(log, handler.WithErrorMapper(mapDomainError))
//
//	r.Get("/api/auth/me", handler.Wrap(func(ctx handler.Context, _ struct{}) handler.Response {
//		acc, _ := auth.AccountFromContext(ctx)
//		return handler.JSON(acc)
//	}, handler.WithInterceptors(sessionGate), handler.WithErrorHandler(errs)))
package handler
