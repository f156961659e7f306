package source

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API defines the S3 client methods an S3 handle needs.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// FromS3 returns a handle over an S3 object. Metadata comes from HeadObject;
// each Open issues a GetObject.
func FromS3(ctx context.Context, client S3API, bucket, key string, hints ...Hint) (*Handle, error) {
	out, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("head s3://%s/%s: %w", bucket, key, err)
	}

	m := Metadata{URL: fmt.Sprintf("s3://%s/%s", bucket, key)}
	m.apply(firstHint(hints))
	if m.Name == "" {
		m.Name = path.Base(key)
	}
	if out.ContentDisposition != nil {
		if name := ParseContentDisposition(*out.ContentDisposition); name != "" {
			m.Name = name
		}
	}
	if out.ContentType != nil && *out.ContentType != "" {
		m.MimeType = *out.ContentType
	}
	if out.ContentLength != nil && *out.ContentLength > 0 {
		m.Size = *out.ContentLength
	}
	if out.LastModified != nil {
		m.LastModified = *out.LastModified
	}
	m.guessType()

	return &Handle{
		kind: KindS3,
		meta: m,
		open: func(ctx context.Context) (io.ReadCloser, error) {
			obj, err := client.GetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(bucket),
				Key:    aws.String(key),
			})
			if err != nil {
				return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
			}
			return obj.Body, nil
		},
	}, nil
}
