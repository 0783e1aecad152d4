// Package api serves the pipeline over HTTP with gin.
//
// Routes live under /api/v1: health, normalize and preprocess run a single
// text through the shared Models; stats, reviews and runs expose the store
// and the batch runner. Request and response bodies use snake_case JSON and
// errors are always {"error": "..."}. When a bearer token is configured
// every route except health requires it.
//
// Server wraps the gin engine in an http.Server with fixed timeouts and a
// graceful shutdown, mirroring how the daemon hosts it.
package api
