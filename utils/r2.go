// utils/r2.go
package utils

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// DeleteObjects accepts at most this many keys per request.
const maxDeleteBatch = 1000

// ObjectDeleter is the slice of the S3 API the store needs.
type ObjectDeleter interface {
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// R2Store removes meme media from a Cloudflare R2 bucket.
type R2Store struct {
	client     ObjectDeleter
	bucket     string
	cdnBaseURL string
}

func NewR2Store(ctx context.Context, accountID, accessKeyID, accessKeySecret, bucket, cdnBaseURL string) (*R2Store, error) {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	if cdnBaseURL == "" {
		cdnBaseURL = endpoint + "/" + bucket
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return NewR2StoreWithClient(client, bucket, cdnBaseURL), nil
}

func NewR2StoreWithClient(client ObjectDeleter, bucket, cdnBaseURL string) *R2Store {
	return &R2Store{client: client, bucket: bucket, cdnBaseURL: strings.TrimRight(cdnBaseURL, "/")}
}

// KeyFromURL maps a public media URL back to its object key. URLs that are
// not served from our CDN report false.
func (r *R2Store) KeyFromURL(raw string) (string, bool) {
	prefix := r.cdnBaseURL + "/"
	if !strings.HasPrefix(raw, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(raw, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	return key, key != ""
}

// RemoveObjects deletes the objects behind urls and returns how many keys
// were sent for deletion. Foreign URLs are skipped.
func (r *R2Store) RemoveObjects(ctx context.Context, urls []string) (int, error) {
	var ids []types.ObjectIdentifier
	for _, u := range urls {
		if key, ok := r.KeyFromURL(u); ok {
			ids = append(ids, types.ObjectIdentifier{Key: aws.String(key)})
		}
	}

	removed := 0
	for start := 0; start < len(ids); start += maxDeleteBatch {
		end := min(start+maxDeleteBatch, len(ids))
		out, err := r.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(r.bucket),
			Delete: &types.Delete{
				Objects: ids[start:end],
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return removed, fmt.Errorf("failed to delete from R2: %w", err)
		}
		if len(out.Errors) > 0 {
			e := out.Errors[0]
			return removed, fmt.Errorf("R2 rejected %d deletions, first %s: %s", len(out.Errors), aws.ToString(e.Key), aws.ToString(e.Message))
		}
		removed += end - start
	}
	return removed, nil
}
