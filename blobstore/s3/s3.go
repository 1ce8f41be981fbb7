package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"golang.org/x/time/rate"

	"github.com/larkmail/store"
	"github.com/larkmail/store/blobstore"
)

// errAbsent marks a 404 outcome inside the retry loop. It never escapes the
// package: absence surfaces as (nil, nil) or (false, nil).
var errAbsent = errors.New("blob absent")

// Backend implements blobstore.Store for S3.
type Backend struct {
	client  Client
	cfg     blobstore.Config
	retry   blobstore.RetryPolicy
	enc     blobstore.KeyEncoder
	limiter *rate.Limiter
	logger  *store.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithClient injects an S3 API client, skipping AWS config resolution.
// Used by tests and by callers sharing one client across backends.
func WithClient(client Client) Option {
	return func(b *Backend) {
		b.client = client
	}
}

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

// New creates an S3 backend for cfg. Construction resolves credentials and
// client configuration but performs no requests; configuration failures are
// reported as *blobstore.ConfigError.
func New(ctx context.Context, cfg blobstore.Config, opts ...Option) (*Backend, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Backend{
		cfg:    cfg,
		retry:  blobstore.RetryPolicy{MaxRetries: cfg.MaxRetries},
		enc:    blobstore.Base32Encoder{},
		logger: store.NoopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.client == nil {
		loadOpts := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
			config.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		}
		if cfg.Profile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.Profile))
		}
		if cfg.AccessKey != "" {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, cfg.Token()),
			))
		}

		awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, blobstore.NewConfigError("credentials", err)
		}

		b.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			// This layer owns the retry budget.
			o.Retryer = aws.NopRetryer{}
			// Non-AWS endpoints reject trailer checksums on plain puts.
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
				o.UsePathStyle = true
			}
		})
	}

	return b, nil
}

// Get fetches the blob stored under key, or the byte range rng of it.
// A missing blob yields (nil, nil).
func (b *Backend) Get(ctx context.Context, key []byte, rng blobstore.Range) ([]byte, error) {
	path := blobstore.BuildKey(b.enc, b.cfg.KeyPrefix, key)

	var data []byte
	err := b.do(ctx, "get", path, func() (bool, error) {
		in := &s3.GetObjectInput{
			Bucket: aws.String(b.cfg.Bucket),
			Key:    aws.String(path),
		}
		if !rng.IsFull() {
			in.Range = aws.String(rng.Header())
		}

		resp, err := b.client.GetObject(ctx, in)
		if err != nil {
			return b.mapError("get", err, true)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return false, blobstore.NewTransportError("get", err)
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
		_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(b.cfg.Bucket),
			Key:           aws.String(path),
			Body:          bytes.NewReader(data),
			ContentLength: aws.Int64(int64(len(data))),
		})
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
		_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(b.cfg.Bucket),
			Key:    aws.String(path),
		})
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

// mapError turns a failed S3 request into a retry decision. Requests that
// never produced an HTTP response are transport failures and terminal by
// policy; 404 is absence when the operation has one; 5xx is retryable;
// everything else is a terminal status failure.
func (b *Backend) mapError(op string, err error, absentOK bool) (bool, error) {
	// The SDK wraps dial and send failures in a ResponseError with a zero
	// status code, so status 0 is still a transport failure.
	var re *awshttp.ResponseError
	if !errors.As(err, &re) || re.HTTPStatusCode() == 0 {
		return false, blobstore.NewTransportError(op, err)
	}

	status := re.HTTPStatusCode()
	switch {
	case status == http.StatusNotFound && absentOK:
		return false, errAbsent
	case status >= 500 && status <= 599:
		return true, &blobstore.StatusError{Op: op, Code: status, Body: apiMessage(err)}
	default:
		return false, &blobstore.StatusError{Op: op, Code: status, Body: apiMessage(err)}
	}
}

// apiMessage extracts the service's diagnostic text from an SDK error.
func apiMessage(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() + ": " + apiErr.ErrorMessage()
	}
	return err.Error()
}
