package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/wayfarer-dev/wayfarer/pkg/history"
)

// fakeS3 implements s3API over a map.
type fakeS3 struct {
	objects map[string]string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	raw, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = string(raw)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	raw, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(raw))}, nil
}

func TestS3StoreRoundTrip(t *testing.T) {
	tbl, o := testRoutes(t)
	fake := &fakeS3{objects: map[string]string{}}
	store := &S3Store{client: fake, bucket: "b", prefix: "history/"}
	ctx := context.Background()

	snap := Snapshot{
		Index:   0,
		Entries: []history.Entry{entryFor(t, "/users/3", tbl, o)},
	}
	if err := store.Save(ctx, "sess-9", snap); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	if _, ok := fake.objects["history/sess-9.json"]; !ok {
		t.Fatalf("object keys = %v, want history/sess-9.json", fake.objects)
	}

	got, err := store.Load(ctx, "sess-9")
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if got.Entries[0].Action.Type != "USER" {
		t.Errorf("loaded type = %q, want USER", got.Entries[0].Action.Type)
	}
	if id := got.Entries[0].Action.Params["id"]; id != "3" {
		t.Errorf("loaded param id = %v, want \"3\"", id)
	}
}

func TestS3StoreMissingKeyIsNotFound(t *testing.T) {
	store := &S3Store{client: &fakeS3{objects: map[string]string{}}, bucket: "b", prefix: "history/"}
	_, err := store.Load(context.Background(), "never-saved")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() = %v, want ErrNotFound", err)
	}
}
