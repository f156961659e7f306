package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/spf13/afero"
)

// S3API defines the subset of S3 client methods used by this package.
// This enables mocking in tests.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config holds connection settings for NewS3Client.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3Client builds an S3 client. Static credentials and a path-style
// endpoint are used when set; otherwise the default AWS chain applies.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	if cfg.Region == "" {
		cfg.Region = "eu-central-1"
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3Store keeps blobs as objects named Prefix/sha256/<hex>. Bytes are staged
// on a local filesystem while the stream is written, since the object key
// is only known once the stream ends.
type S3Store struct {
	client     S3API
	bucket     string
	prefix     string
	staging    afero.Fs
	stagingDir string
}

// S3Option configures an S3Store.
type S3Option func(*S3Store)

// WithPrefix sets the key prefix. Defaults to "blobs".
func WithPrefix(prefix string) S3Option {
	return func(s *S3Store) { s.prefix = prefix }
}

// WithStaging sets where streams are staged before upload.
func WithStaging(fs afero.Fs, dir string) S3Option {
	return func(s *S3Store) { s.staging, s.stagingDir = fs, dir }
}

// NewS3Store returns a store writing to bucket.
func NewS3Store(client S3API, bucket string, opts ...S3Option) *S3Store {
	s := &S3Store{
		client:     client,
		bucket:     bucket,
		prefix:     "blobs",
		staging:    afero.NewOsFs(),
		stagingDir: os.TempDir(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *S3Store) key(id string) (string, error) {
	h, err := HexID(id)
	if err != nil {
		return "", err
	}
	return path.Join(s.prefix, "sha256", h), nil
}

// Add implements Store.
func (s *S3Store) Add(ctx context.Context) (Writer, error) {
	staged, err := newStagedFile(s.staging, s.stagingDir)
	if err != nil {
		return nil, err
	}
	return &s3Writer{store: s, staged: staged}, nil
}

// Get implements Store.
func (s *S3Store) Get(ctx context.Context, id string) (io.ReadCloser, error) {
	key, err := s.key(id)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get object: %w", err)
	}
	return out.Body, nil
}

// Has implements Store.
func (s *S3Store) Has(ctx context.Context, id string) (bool, error) {
	key, err := s.key(id)
	if err != nil {
		return false, err
	}
	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("head object: %w", err)
	}
	return true, nil
}

// Delete implements Store.
func (s *S3Store) Delete(ctx context.Context, id string) error {
	key, err := s.key(id)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}

type s3Writer struct {
	store  *S3Store
	staged *stagedFile
}

func (w *s3Writer) Write(p []byte) (int, error) { return w.staged.Write(p) }

// Commit uploads the staged bytes. A staging file that cannot be removed
// afterwards is reported together with the id of the uploaded blob.
func (w *s3Writer) Commit(ctx context.Context) (string, error) {
	id, err := w.upload(ctx)
	if derr := w.staged.discard(); derr != nil {
		return id, errors.Join(err, derr)
	}
	return id, err
}

func (w *s3Writer) upload(ctx context.Context) (string, error) {
	id, err := w.staged.seal()
	if err != nil {
		return "", err
	}
	key, _ := w.store.key(id)

	f, err := w.store.staging.Open(w.staged.name())
	if err != nil {
		return "", fmt.Errorf("reopen staging file: %w", err)
	}
	defer f.Close()

	_, err = w.store.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(w.store.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(w.staged.size),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return id, nil
}

func (w *s3Writer) Abort() error { return w.staged.discard() }
