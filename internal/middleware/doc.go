// Package middleware provides the HTTP middleware chain of the catalog
// server: CORS headers, request IDs, W3C access logging, Prometheus request
// metrics and gzip compression of text responses.
package middleware
