package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"dircmp-go/internal/dircmp"
)

// S3Vault stores records as objects in an S3 bucket under an optional key
// prefix. Uploads go through the transfer manager so large records are
// sent multipart without buffering in memory.
type S3Vault struct {
	name     string
	bucket   string
	prefix   string
	client   *s3.Client
	uploader *manager.Uploader
}

// S3Options configures access to the bucket. AccessKeyID/SecretAccessKey
// are optional; when empty the default AWS credential chain is used.
type S3Options struct {
	Bucket          string
	Prefix          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// NewS3Vault creates a vault backed by an S3 bucket.
func NewS3Vault(name string, opts S3Options) (*S3Vault, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 vault requires a bucket")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3Vault{
		name:     name,
		bucket:   opts.Bucket,
		prefix:   strings.Trim(opts.Prefix, "/"),
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

// key maps a record name to its object key under the configured prefix.
func (v *S3Vault) key(name string) string {
	if v.prefix == "" {
		return name
	}
	return v.prefix + "/" + name
}

// Put uploads a record, replacing any previous object under the same key.
func (v *S3Vault) Put(name string, r io.Reader, size int64) error {
	if err := validateName(name); err != nil {
		return err
	}

	_, err := v.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.key(name)),
		Body:   r,
	})
	if err != nil {
		return fmt.Errorf("uploading record to s3: %w", err)
	}
	return nil
}

// Get downloads the record stored under name and writes it to w.
func (v *S3Vault) Get(name string, w io.Writer) error {
	if err := validateName(name); err != nil {
		return err
	}

	out, err := v.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.key(name)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return fmt.Errorf("record not found in vault: %s", name)
		}
		return fmt.Errorf("downloading record from s3: %w", err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("reading record from s3: %w", err)
	}
	return nil
}

// Exists reports whether an object is stored under the record's key.
func (v *S3Vault) Exists(name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}

	_, err := v.client.HeadObject(context.Background(), &s3.HeadObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.key(name)),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("checking record in s3: %w", err)
	}
	return true, nil
}

// ValidateSetup verifies the bucket is reachable with the configured
// credentials.
func (v *S3Vault) ValidateSetup() error {
	_, err := v.client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(v.bucket),
	})
	if err != nil {
		return fmt.Errorf("s3 bucket not accessible: %w", err)
	}
	return nil
}

// Compile-time check that S3Vault implements the Vault interface
var _ dircmp.Vault = (*S3Vault)(nil)
