// Package binder decodes HTTP requests into typed structs for handler.Wrap.
//
// Each binder reads one source: JSON reads the body, Query reads fields
// tagged `query:"..."` and Path reads fields tagged `path:"..."`. Binders
// run in the order they are given, so later ones overwrite earlier ones
// for fields they both set. Every error wraps one of the package
// sentinels; IsBindingError tells callers to answer 400.
package binder
