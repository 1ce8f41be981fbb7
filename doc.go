// Package store provides the storage core for the Larkmail server.
//
// It ships two independent building blocks consumed by the higher-level
// record store:
//
//   - blobstore: a resilient object-storage backend that maps raw byte keys
//     to storage paths and performs get/put/delete against S3-compatible
//     services, transparently retrying transient server failures with
//     capped exponential backoff.
//   - snowflake: a lock-free generator of 64-bit, time-sortable,
//     collision-resistant identifiers that needs no coordination between
//     nodes.
//
// # Quick Start
//
// Blob storage:
//
//	cfg := blobstore.DefaultConfig("mail-blobs", "us-east-1")
//	cfg.KeyPrefix = "tenant-a/"
//	backend, _ := s3.New(ctx, cfg)
//
//	_ = backend.Put(ctx, key, data)
//	data, _ := backend.Get(ctx, key, blobstore.FullRange())
//	deleted, _ := backend.Delete(ctx, key)
//
// MinIO and other S3-compatible services work through the same Config by
// setting Endpoint, either with the minio backend or the s3 backend in
// path-style mode.
//
// ID generation:
//
//	gen := snowflake.New()
//	id := gen.Generate()
//
// IDs sort numerically in generation order, carry their creation time in the
// top 43 bits, and stay unique across nodes as long as every node runs with
// a distinct node id.
//
// # Concurrency
//
// Backends hold no mutable state beyond their immutable configuration; any
// number of operations may run concurrently. The generator's only shared
// state is an atomic sequence counter, so Generate is safe for unbounded
// concurrent callers without locks.
package store
