// Package ingest is the write path for telemetry. It validates incoming
// payloads, persists them, and hands the resulting events to the realtime
// broadcaster. Persistence failures stop the pipeline; broadcast and audit
// failures never do.
package ingest
