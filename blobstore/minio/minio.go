package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/time/rate"

	"github.com/larkmail/store"
	"github.com/larkmail/store/blobstore"
)

// errAbsent marks a 404 outcome inside the retry loop. It never escapes the
// package: absence surfaces as (nil, nil) or (false, nil).
var errAbsent = errors.New("blob absent")

// Backend implements blobstore.Store for MinIO and S3-compatible storage.
type Backend struct {
	client  *minio.Client
	cfg     blobstore.Config
	retry   blobstore.RetryPolicy
	enc     blobstore.KeyEncoder
	limiter *rate.Limiter
	logger  *store.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithKeyEncoder overrides the default base32 key encoder.
func WithKeyEncoder(enc blobstore.KeyEncoder) Option {
	return func(b *Backend) {
		b.enc = enc
	}
}

// WithLogger configures structured logging for blob operations.
func WithLogger(l *store.Logger) Option {
	return func(b *Backend) {
		b.logger = l
	}
}

// WithRateLimit caps outgoing requests (retries included) at rps requests
// per second.
func WithRateLimit(rps float64) Option {
	return func(b *Backend) {
		b.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithSleep overrides the backoff sleep function. Tests inject a recorder
// here so retry sequences run without wall-clock delays.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(b *Backend) {
		b.retry.Sleep = sleep
	}
}

// New creates a MinIO backend for cfg. When cfg.Endpoint is empty the
// regional AWS host is used. Construction performs no requests; failures
// are reported as *blobstore.ConfigError.
func New(_ context.Context, cfg blobstore.Config, opts ...Option) (*Backend, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("s3.%s.amazonaws.com", cfg.Region)
	}
	secure := !strings.HasPrefix(endpoint, "http://")
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		secure = u.Scheme != "http"
		endpoint = u.Host
	}

	var creds *credentials.Credentials
	switch {
	case cfg.AccessKey != "":
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, cfg.Token())
	case cfg.Profile != "":
		creds = credentials.NewFileAWSCredentials("", cfg.Profile)
	default:
		creds = credentials.NewEnvAWS()
	}

	// The driver has no per-request deadline knob; bounding the wait for
	// response headers is the closest equivalent.
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.Timeout

	lookup := minio.BucketLookupAuto
	if cfg.Endpoint != "" {
		lookup = minio.BucketLookupPath
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:        creds,
		Secure:       secure,
		Region:       cfg.Region,
		Transport:    transport,
		BucketLookup: lookup,
		MaxRetries:   1, // this layer owns the retry budget
	})
	if err != nil {
		return nil, blobstore.NewConfigError("endpoint", err)
	}

	b := &Backend{
		client: client,
		cfg:    cfg,
		retry:  blobstore.RetryPolicy{MaxRetries: cfg.MaxRetries},
		enc:    blobstore.Base32Encoder{},
		logger: store.NoopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Get fetches the blob stored under key, or the byte range rng of it.
// A missing blob yields (nil, nil).
func (b *Backend) Get(ctx context.Context, key []byte, rng blobstore.Range) ([]byte, error) {
	path := blobstore.BuildKey(b.enc, b.cfg.KeyPrefix, key)

	var data []byte
	err := b.do(ctx, "get", path, func() (bool, error) {
		getOpts := minio.GetObjectOptions{}
		if !rng.IsFull() {
			end := int64(0) // zero end reads to the end of the object
			if rng.End > 0 {
				end = int64(rng.End) - 1
			}
			if err := getOpts.SetRange(int64(rng.Start), end); err != nil {
				return false, fmt.Errorf("invalid range %q: %w", rng.Header(), err)
			}
		}

		obj, err := b.client.GetObject(ctx, b.cfg.Bucket, path, getOpts)
		if err != nil {
			return b.mapError("get", err, true)
		}
		defer func() { _ = obj.Close() }()

		// The driver issues the request lazily, so errors surface on read.
		data, err = io.ReadAll(obj)
		if err != nil {
			return b.mapError("get", err, true)
		}
		return false, nil
	})
	if errors.Is(err, errAbsent) {
		b.logger.LogGet(ctx, path, 0, false, nil)
		return nil, nil
	}
	b.logger.LogGet(ctx, path, len(data), err == nil, err)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Put durably writes data under key.
func (b *Backend) Put(ctx context.Context, key []byte, data []byte) error {
	path := blobstore.BuildKey(b.enc, b.cfg.KeyPrefix, key)

	err := b.do(ctx, "put", path, func() (bool, error) {
		_, err := b.client.PutObject(ctx, b.cfg.Bucket, path,
			bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{DisableMultipart: true})
		if err != nil {
			// A put has no "not found" outcome: 404 is terminal.
			return b.mapError("put", err, false)
		}
		return false, nil
	})
	b.logger.LogPut(ctx, path, len(data), err)
	return err
}

// Delete removes the blob stored under key, reporting whether the service
// acknowledged a deletion. A 404 yields (false, nil).
func (b *Backend) Delete(ctx context.Context, key []byte) (bool, error) {
	path := blobstore.BuildKey(b.enc, b.cfg.KeyPrefix, key)

	err := b.do(ctx, "delete", path, func() (bool, error) {
		err := b.client.RemoveObject(ctx, b.cfg.Bucket, path, minio.RemoveObjectOptions{})
		if err != nil {
			return b.mapError("delete", err, true)
		}
		return false, nil
	})
	if errors.Is(err, errAbsent) {
		b.logger.LogDelete(ctx, path, false, nil)
		return false, nil
	}
	b.logger.LogDelete(ctx, path, err == nil, err)
	if err != nil {
		return false, err
	}
	return true, nil
}

// do runs one request attempt loop under the retry policy and the optional
// rate limiter, logging each reattempt.
func (b *Backend) do(ctx context.Context, op, path string, fn func() (bool, error)) error {
	attempt := uint32(0)
	return b.retry.Do(ctx, func() (bool, error) {
		if b.limiter != nil {
			if err := b.limiter.Wait(ctx); err != nil {
				return false, err
			}
		}
		retry, err := fn()
		if retry && attempt < b.retry.MaxRetries {
			var se *blobstore.StatusError
			status := 0
			if errors.As(err, &se) {
				status = se.Code
			}
			b.logger.LogRetry(ctx, op, path, status, attempt, b.retry.Backoff(attempt))
		}
		attempt++
		return retry, err
	})
}

// mapError turns a failed request into a retry decision. Errors without an
// HTTP status are transport failures and terminal by policy; 404 is absence
// when the operation has one; 5xx is retryable; everything else is a
// terminal status failure.
func (b *Backend) mapError(op string, err error, absentOK bool) (bool, error) {
	resp := minio.ToErrorResponse(err)
	if resp.StatusCode == 0 {
		return false, blobstore.NewTransportError(op, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound && absentOK:
		return false, errAbsent
	case resp.StatusCode >= 500 && resp.StatusCode <= 599:
		return true, &blobstore.StatusError{Op: op, Code: resp.StatusCode, Body: respMessage(resp, err)}
	default:
		return false, &blobstore.StatusError{Op: op, Code: resp.StatusCode, Body: respMessage(resp, err)}
	}
}

// respMessage extracts the service's diagnostic text from a driver error.
func respMessage(resp minio.ErrorResponse, err error) string {
	if resp.Message != "" {
		return fmt.Sprintf("%s: %s", resp.Code, resp.Message)
	}
	if resp.Code != "" {
		return fmt.Sprint(resp.Code)
	}
	return err.Error()
}
