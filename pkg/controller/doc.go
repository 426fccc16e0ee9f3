// Package controller contains HTTP middlewares and helper handlers used by the API server.
//
// Provided middlewares:
//   - WithCORS: Adds the CORS headers browser clients expect and handles OPTIONS preflight.
//   - WithLogger: Attaches a request-scoped logger and request ID to the context and logs access info.
//   - WithTimeout: Bounds request handling time and answers with a JSON error envelope.
//   - RateLimiter.Middleware: Limits requests per client IP with token buckets.
//
// Provided helpers:
//   - WriteJSON, WriteError, ErrorBody: Write the JSON response envelope.
//   - Pprof: Serves net/http/pprof handlers below a configurable prefix.
package controller
