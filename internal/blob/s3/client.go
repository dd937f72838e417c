// Package s3blob stores dataset archives in an S3 bucket through AWS SDK
// v2. Any S3-compatible endpoint (MinIO, Cloudflare R2) works via the
// Endpoint override; the tracker only needs Put/Get/List on one bucket.
package s3blob

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ClientConfig locates the archive bucket. Endpoint is empty for standard
// AWS S3; set it to point at a compatible provider instead.
type ClientConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string

	// PlainHTTP uses http:// when the endpoint carries no scheme. Archives
	// go over https otherwise.
	PlainHTTP bool

	// ForcePathStyle puts the bucket in the URL path instead of the
	// subdomain. Most self-hosted S3 stand-ins need this.
	ForcePathStyle bool
}

// Client wraps the SDK client with the archive bucket name. The reader and
// writer types in this package are built on top of it.
type Client struct {
	s3     *s3.Client
	bucket string
}

// New builds the archive client with static credentials, since the tracker
// is configured through its own TOML/env config rather than the AWS shared
// config chain.
func New(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3blob: bucket name is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("s3blob: region is required")
	}

	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("s3blob: load aws config: %w", err)
	}

	var opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := resolveEndpoint(cfg.Endpoint, cfg.PlainHTTP)
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}
	if cfg.ForcePathStyle {
		opts = append(opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return &Client{
		s3:     s3.NewFromConfig(awsCfg, opts...),
		bucket: cfg.Bucket,
	}, nil
}

// Health verifies the archive bucket is reachable with the configured
// credentials.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		return fmt.Errorf("s3blob: head bucket %s: %w", c.bucket, err)
	}
	return nil
}

// Close is a no-op; the SDK's HTTP client needs no teardown.
func (c *Client) Close() error {
	return nil
}

// S3 exposes the SDK client to the reader and writer in this package.
func (c *Client) S3() *s3.Client {
	return c.s3
}

// Bucket returns the archive bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// resolveEndpoint prepends a scheme when the configured endpoint has none,
// defaulting to https.
func resolveEndpoint(endpoint string, plainHTTP bool) string {
	parsed, err := url.Parse(endpoint)
	if err == nil && parsed.Scheme != "" {
		return endpoint
	}
	if plainHTTP {
		return "http://" + endpoint
	}
	return "https://" + endpoint
}
