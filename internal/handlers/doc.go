// Package handlers provides the HTTP handlers of the portfolio catalog API.
//
// It includes handlers for:
//   - Listing entries and reading a single entry
//   - Serving thumbnails, headers, assets and text bodies
//   - Requesting a catalog reload
//   - Health checks, version and metrics
package handlers
