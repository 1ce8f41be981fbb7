package blobstore

import (
	"errors"
	"time"
)

// Defaults applied by Config.WithDefaults.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
)

// Config carries everything a remote backend needs to reach its bucket.
// It is immutable after backend construction; credential resolution beyond
// the fields below (environment, shared config files) is the driver's job.
type Config struct {
	// Region identifies the service region. Required unless Endpoint is set.
	Region string

	// Endpoint, when set, switches the backend to custom-endpoint mode
	// (path-style addressing) against the given URL or host.
	Endpoint string

	// Static credentials. All optional; when AccessKey is empty the driver
	// falls back to its default credential chain.
	AccessKey     string
	SecretKey     string
	SecurityToken string
	SessionToken  string

	// Profile selects a shared-config credentials profile.
	Profile string

	// Bucket is the bucket or container holding the blobs. Required.
	Bucket string

	// Timeout bounds each individual request. Zero means DefaultTimeout.
	Timeout time.Duration

	// MaxRetries is the per-call budget of reattempts after server-side
	// failures. Zero is a legal budget (fail on the first 5xx).
	MaxRetries uint32

	// KeyPrefix, when set, is joined with every raw key before path
	// encoding, isolating multiple stores sharing one bucket.
	KeyPrefix string
}

// DefaultConfig returns a Config for bucket in region with the default
// timeout and retry budget.
func DefaultConfig(bucket, region string) Config {
	return Config{
		Region:     region,
		Bucket:     bucket,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
	}
}

// WithDefaults returns a copy of c with unset fields replaced by defaults.
func (c Config) WithDefaults() Config {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Validate reports the first unusable field as a *ConfigError.
func (c Config) Validate() error {
	if c.Bucket == "" {
		return NewConfigError("bucket", errors.New("bucket is required"))
	}
	if c.Region == "" && c.Endpoint == "" {
		return NewConfigError("region", errors.New("region is required when no endpoint is set"))
	}
	if c.Timeout < 0 {
		return NewConfigError("timeout", errors.New("timeout must not be negative"))
	}
	return nil
}

// Token returns the session token to sign requests with. SessionToken wins
// over the legacy SecurityToken field when both are set.
func (c Config) Token() string {
	if c.SessionToken != "" {
		return c.SessionToken
	}
	return c.SecurityToken
}
