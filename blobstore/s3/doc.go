// Package s3 provides an AWS S3 implementation of the blobstore.Store
// interface.
//
// # Usage
//
//	cfg := blobstore.DefaultConfig("mail-blobs", "us-east-1")
//	backend, err := s3.New(ctx, cfg)
//
//	data, err := backend.Get(ctx, key, blobstore.FullRange())
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Exponential backoff retries on server-side (5xx) failures
//   - Custom endpoints with path-style addressing for S3-compatible services
//   - Configurable key prefix for multi-tenant isolation
//
// The SDK's own retryer is disabled: this layer owns the retry budget, so
// every HTTP status the service returns drives exactly one policy decision.
package s3
