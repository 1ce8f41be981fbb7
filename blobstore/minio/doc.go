// Package minio provides a MinIO implementation of the blobstore.Store
// interface for MinIO and other S3-compatible services.
//
// # Usage
//
//	cfg := blobstore.DefaultConfig("mail-blobs", "us-east-1")
//	cfg.Endpoint = "https://minio.internal:9000"
//	backend, err := minio.New(ctx, cfg)
//
// Semantics match the s3 backend: absence is not an error, 5xx responses
// are retried with capped exponential backoff, transport failures surface
// immediately. The driver's own retries are disabled so this layer's budget
// is authoritative.
package minio
