// Package server runs the campus-api HTTP service.
//
// New opens and migrates the database, builds one Resource per entity kind,
// and mounts them behind the auth gate. API routes pass through a middleware
// chain (outermost first):
//
//	metrics -> request id -> panic recovery -> rate limit -> logging
//
// /health, /health/ready, and the Prometheus endpoint sit outside the chain.
//
// Run listens on server.http_addr, or on a Tailscale node when
// tailscale.enabled is set, and serves until its context is canceled.
package server
