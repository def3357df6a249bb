// Package services defines the [ListAPI] interface for the personal list operations and implements it twice.
//
// # ListService
//
// [ListService] is the in-process implementation used by the HTTP server and the CLI.
// It validates input, calls the injected [models.ListStore] exactly once per operation and
// classifies failures. There is no retry and no state kept between calls.
//
// # APIService
//
// [APIService] talks to a running server over HTTP and decodes the same wire shape the server writes,
// so CLI commands behave identically against a local database or a remote instance.
//
// # Pagination
//
// [ParseListQuery] reads userId, page (default 1) and limit (default 10) from URL parameters.
// Non-numeric values fall back to the default, values below 1 are clamped to the default and
// limit is capped by the configured maximum page size. Page p covers rows [(p-1)*limit, (p-1)*limit+limit-1].
//
// # Error Handling
//
// Failures are [*Error] values tagged with an [ErrorKind]:
//   - [KindValidation] : missing or wrongly typed fields (HTTP 400)
//   - [KindStorage] : any failure reported by the store (HTTP 500)
//   - [KindRateLimited] : request rejected by the limiter (HTTP 429)
//   - [KindInternal] : anything else (HTTP 500)
//
// [Result] carries either rows or an error and serializes to {"data": ...} or {"error": "..."}.
package services
