// Package server serves runner status over HTTP for local dashboards and
// Prometheus scrapes. It never starts or controls sessions.
//
// Routes:
//   - GET /health: uptime, session counts and registry statistics
//   - GET /metrics: Prometheus exposition
//   - GET /sessions: all sessions known to the manager
//   - GET /sessions/:id: one session
//   - GET /services: registered tool providers
package server
