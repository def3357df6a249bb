// Package server provides HTTP routing, middleware, and handlers for the personal list service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Endpoints
//
// [ListHandler] serves the three list endpoints and dispatches on path:
//
//	POST   /api/my-list/add     {userId, contentId, contentType} → 200 {data}
//	GET    /api/my-list/list    ?userId=&page=&limit=            → 200 {data, count}
//	DELETE /api/my-list/remove  {userId, contentId, contentType} → 200 {data}
//	GET    /health                                               → 200 {status}
//
// Failures are written as {"error": "message"} with 400 for validation errors, 429 when rate limited
// and 500 for storage failures.
//
// # Middleware
//
// [NewRouter] installs, outermost first: [RequestID], [Recover], [Logging] and [RateLimit].
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
