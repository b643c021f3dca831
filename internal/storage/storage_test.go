package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worldcup-api/apiserver/config"
)

type memBackend struct {
	objects map[string][]byte
	types   map[string]string
	ensured bool
}

func newMemBackend() *memBackend {
	return &memBackend{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memBackend) EnsureBucket(ctx context.Context) error {
	m.ensured = true
	return nil
}

func (m *memBackend) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memBackend) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, ObjectInfo{}, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), ObjectInfo{ContentType: m.types[key], Size: int64(len(data))}, nil
}

func (m *memBackend) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memBackend) Bucket() string { return "mem" }

func TestStorage_DelegatesToBackend(t *testing.T) {
	backend := newMemBackend()
	s := NewStorage(backend)
	ctx := context.Background()

	require.NoError(t, s.EnsureBucket(ctx))
	assert.True(t, backend.ensured)
	assert.Equal(t, "mem", s.Bucket())

	require.NoError(t, s.Put(ctx, "flags/1.png", bytes.NewReader([]byte("png")), 3, "image/png"))

	rc, info, err := s.Get(ctx, "flags/1.png")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "image/png", info.ContentType)

	require.NoError(t, s.Delete(ctx, "flags/1.png"))
	_, _, err = s.Get(ctx, "flags/1.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestNewFromConfig(t *testing.T) {
	s, err := NewFromConfig(context.Background(), config.StorageConfig{})
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = NewFromConfig(context.Background(), config.StorageConfig{Backend: "ftp"})
	assert.Error(t, err)

	_, err = NewFromConfig(context.Background(), config.StorageConfig{Backend: "minio"})
	assert.Error(t, err)
}

func TestNewMinioClient_Validation(t *testing.T) {
	_, err := NewMinioClient(config.MinioConfig{})
	assert.EqualError(t, err, "minio endpoint is required")

	_, err = NewMinioClient(config.MinioConfig{Endpoint: "localhost:9000", Bucket: "b"})
	assert.EqualError(t, err, "minio access key and secret key are required")

	_, err = NewMinioClient(config.MinioConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"})
	assert.EqualError(t, err, "minio bucket is required")
}
