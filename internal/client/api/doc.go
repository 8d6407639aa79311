// Package api is the ScholarScout backend client.
//
// # Overview
//
// The package provides:
//  1. Client, which performs one HTTP request against the configured base
//     URL, attaches the stored bearer token, and maps failures to typed
//     errors.
//  2. One small API type per backend area (AuthAPI, ProfileAPI, OAuthAPI,
//     ScholarshipAPI, ReviewAPI, PlatformAPI) exposing one method per
//     backend operation.
//
// # Error Handling
//
// Every failure is an *Error carrying the HTTP status and a display-ready
// message. Match the kind with errors.Is: ErrNetwork, ErrUnauthenticated,
// ErrValidation, ErrNotFound, ErrServer, ErrUnexpected, ErrNotImplemented.
// A 401 or 403 response removes the stored token before the error is
// returned. Nothing is retried.
//
// Two read endpoints treat "not found" as an empty state instead of an
// error: ProfileAPI.MyProfile returns nil and ProfileAPI.Summary returns
// models.DefaultProfileSummary.
//
// # Concurrency & Contexts
//
// Client is safe for concurrent use. All operations accept a
// context.Context and stop when it is cancelled.
package api
