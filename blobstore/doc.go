// Package blobstore provides resilient blob storage for the Larkmail server.
//
// Store is the interface for reading, writing and deleting opaque blobs
// addressed by raw byte keys. Implementations must be safe for concurrent
// use: every call carries its own retry state and backends hold nothing
// mutable beyond their configuration.
//
// # Built-in Implementations
//
//   - s3.Backend: AWS S3 (and S3-compatible endpoints in path-style mode)
//   - minio.Backend: MinIO and other S3-compatible services
//   - MemoryStore: in-memory store for tests and embedders
//
// # Error Model
//
// Absence is not an error: Get returns nil for a missing key and Delete
// returns false. Server-side failures (5xx) are retried with capped
// exponential backoff up to the configured budget and then surfaced as a
// *StatusError. Transport failures (connection, DNS, TLS) are surfaced
// immediately as a *TransportError and never retried; only HTTP-status-level
// server failures consume retry budget.
package blobstore
