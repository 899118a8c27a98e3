// Package server exposes the HTTP surface: telemetry ingestion and query
// endpoints, farm management CRUD, the WebSocket and SSE realtime
// endpoints, health probes, and Prometheus metrics.
package server
