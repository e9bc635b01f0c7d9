// Package server serves the now-playing feed and poster images over a local
// HTTP API, together with health and Prometheus endpoints.
package server
