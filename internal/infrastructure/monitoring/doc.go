/*
Package monitoring provides metrics collection for linutil.

# Overview

Prometheus collectors for process sessions, their I/O and the service tool
calls that drive them. Every collector lives on a private registry so that
several Metrics values can coexist (one per test, for example).

# Features

- Session lifecycle (spawned, active, finished by outcome, duration)
- Output bytes, input deliveries, kill signals, log exports
- Service tool call counts and latency

# Usage

	metrics := monitoring.NewMetrics()

	timer := monitoring.NewTimer(metrics, "terminal", "terminal.read")
	// ... perform operation ...
	timer.Stop("success")

# Metrics Endpoint

	http.Handle("/metrics", metrics.Handler())
*/
package monitoring
