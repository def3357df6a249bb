// Package tasks orchestrates multi-user list exports with real-time progress reporting.
//
// # Core Operations
//
//  1. [ExportEngine.FetchAll] : Walk every page of one user's list
//     - Requests pages of the engine's page size until the reported count is reached
//     - Returns all entries with the total count
//
//  2. [ExportEngine.BulkExport] : Export many users' lists concurrently
//     - Fetches each list under a rate limiter
//     - Writes one file per user from a bounded worker pool
//     - Records per-user outcomes in export_manifest.json
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data.
// Updates use select with default to prevent blocking.
//
// # Implementation
//
// [ExportEngine] depends only on [services.ListAPI], so it runs the same way against a local
// store (via services.ListService) or a remote server (via services.APIService).
package tasks
