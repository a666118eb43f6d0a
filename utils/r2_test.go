package utils

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

type fakeDeleter struct {
	calls [][]string
	err   error
}

func (f *fakeDeleter) DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	keys := make([]string, 0, len(in.Delete.Objects))
	for _, o := range in.Delete.Objects {
		keys = append(keys, aws.ToString(o.Key))
	}
	f.calls = append(f.calls, keys)
	return &s3.DeleteObjectsOutput{}, nil
}

func TestKeyFromURL(t *testing.T) {
	store := NewR2StoreWithClient(&fakeDeleter{}, "memes", "https://cdn.memeverse.app/")

	key, ok := store.KeyFromURL("https://cdn.memeverse.app/memes/abc%20def.png?v=2")
	require.True(t, ok)
	require.Equal(t, "memes/abc def.png", key)

	_, ok = store.KeyFromURL("https://imgur.com/abc.png")
	require.False(t, ok)

	_, ok = store.KeyFromURL("https://cdn.memeverse.app/")
	require.False(t, ok)
}

func TestRemoveObjectsSkipsForeignAndBatches(t *testing.T) {
	fake := &fakeDeleter{}
	store := NewR2StoreWithClient(fake, "memes", "https://cdn.test")

	urls := []string{"https://elsewhere.test/x.png"}
	for i := 0; i < maxDeleteBatch+5; i++ {
		urls = append(urls, fmt.Sprintf("https://cdn.test/memes/%d.png", i))
	}

	n, err := store.RemoveObjects(context.Background(), urls)
	require.NoError(t, err)
	require.Equal(t, maxDeleteBatch+5, n)
	require.Len(t, fake.calls, 2)
	require.Len(t, fake.calls[0], maxDeleteBatch)
	require.Equal(t, []string{"memes/1000.png", "memes/1001.png", "memes/1002.png", "memes/1003.png", "memes/1004.png"}, fake.calls[1])
}

func TestRemoveObjectsPropagatesErrors(t *testing.T) {
	store := NewR2StoreWithClient(&fakeDeleter{err: errors.New("boom")}, "memes", "https://cdn.test")

	_, err := store.RemoveObjects(context.Background(), []string{"https://cdn.test/a.png"})
	require.ErrorContains(t, err, "boom")
}
