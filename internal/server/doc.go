// Package server hosts the Fiber HTTP service that exposes the cache namespace
// store to local tools: request middleware (recover, request IDs, access log),
// the /v1/caches routes that probe or atomically materialize tagged
// namespaces, and /-/ diagnostics. Keep exports narrow and accept explicit
// dependencies so the CLI and tests can inject their own store and logger.
package server
