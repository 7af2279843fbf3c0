package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"toolfinder-backend/internal/shared/storage/object"
)

type fakeS3 struct {
	objects map[string][]byte
	lastPut *s3.PutObjectInput
	pages   [][]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = body
	f.lastPut = in
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	page := 0
	if in.ContinuationToken != nil {
		page = int(aws.ToString(in.ContinuationToken)[0] - '0')
	}
	out := &s3.ListObjectsV2Output{}
	for _, k := range f.pages[page] {
		out.Contents = append(out.Contents, s3types.Object{Key: aws.String(k)})
	}
	if page+1 < len(f.pages) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(string(rune('0' + page + 1)))
	}
	return out, nil
}

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "snapshots/demo.json", want: "snapshots/demo.json"},
		{name: "simple prefix", prefix: "root", key: "snapshots/demo.json", want: "root/snapshots/demo.json"},
		{name: "prefix trailing slash", prefix: "root/", key: "snapshots/demo.json", want: "root/snapshots/demo.json"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/snapshots/demo.json", want: "root/snapshots/demo.json"},
		{name: "nested prefix", prefix: "root/sub", key: "snapshots/demo.json", want: "root/sub/snapshots/demo.json"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestPutUsesPrefixAndEncryption(t *testing.T) {
	fake := newFakeS3()
	store := NewWithClient(fake, "bucket", "/toolfinder/", "kms-key")

	n, err := store.Put(context.Background(), "snapshots/a.json", "application/json", bytes.NewReader([]byte("{}")))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 bytes, got %d", n)
	}
	if got := aws.ToString(fake.lastPut.Key); got != "toolfinder/snapshots/a.json" {
		t.Fatalf("unexpected object key %q", got)
	}
	if fake.lastPut.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || aws.ToString(fake.lastPut.SSEKMSKeyId) != "kms-key" {
		t.Fatalf("expected KMS encryption, got %v", fake.lastPut.ServerSideEncryption)
	}

	plain := NewWithClient(fake, "bucket", "", "")
	if _, err := plain.Put(context.Background(), "x.json", "application/json", bytes.NewReader(nil)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if fake.lastPut.ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("expected AES256 default, got %v", fake.lastPut.ServerSideEncryption)
	}
}

func TestOpenMissingKey(t *testing.T) {
	store := NewWithClient(newFakeS3(), "bucket", "p", "")
	if _, err := store.Open(context.Background(), "snapshots/none.json"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListFollowsContinuation(t *testing.T) {
	fake := newFakeS3()
	fake.pages = [][]string{
		{"p/snapshots/b.json"},
		{"p/snapshots/a.json"},
	}
	store := NewWithClient(fake, "bucket", "p", "")

	keys, err := store.List(context.Background(), "snapshots")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 2 || keys[0] != "snapshots/a.json" || keys[1] != "snapshots/b.json" {
		t.Fatalf("unexpected keys %v", keys)
	}
}
