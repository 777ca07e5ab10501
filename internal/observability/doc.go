// Package observability provides structured logging, metrics, and tracing
// for the secure access gateway.
//
// This package implements:
//   - Structured logging (zap-based)
//   - Prometheus metrics for logins and bearer-token outcomes
//   - OpenTelemetry tracer lookup for the auth pipeline
//
// Secrets (passwords, raw tokens) are never passed to any of these sinks.
package observability
