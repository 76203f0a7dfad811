package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPutter struct {
	mock.Mock
}

func (m *MockPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestBackupUpload(t *testing.T) {
	putter := new(MockPutter)
	b := NewBackup(putter, "bucket", "/backups/")
	b.now = func() time.Time { return time.Date(2024, 3, 5, 7, 8, 9, 0, time.FixedZone("X", 3600)) }
	data := []byte(`{"portfolios": []}`)
	sum := sha256.Sum256(data)

	putter.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return *in.Bucket == "bucket" &&
			*in.Key == "backups/20240305T060809Z/data.json" &&
			*in.ContentType == "application/json" &&
			in.Metadata["sha256"] == hex.EncodeToString(sum[:]) &&
			string(body) == string(data)
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	key, err := b.Upload(context.Background(), "data/data.json", "application/json", data)
	require.NoError(t, err)
	assert.Equal(t, "backups/20240305T060809Z/data.json", key)
	putter.AssertExpectations(t)
}

func TestBackupUploadError(t *testing.T) {
	putter := new(MockPutter)
	b := NewBackup(putter, "bucket", "")
	putter.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("denied"))

	_, err := b.Upload(context.Background(), "admin_activity.log", "text/plain", []byte("x"))
	assert.ErrorContains(t, err, "denied")
}

func TestS3ConfigEndpoint(t *testing.T) {
	assert.Equal(t, "", S3Config{Provider: ProviderAWS}.endpoint())
	assert.Equal(t, "https://s3.eu-west-1.wasabisys.com", S3Config{Provider: ProviderWasabi, Region: "eu-west-1"}.endpoint())
	assert.Equal(t, "http://minio:9000", S3Config{Endpoint: "http://minio:9000"}.endpoint())
	assert.Equal(t, "https://minio.local", S3Config{Endpoint: "minio.local"}.endpoint())
	assert.False(t, S3Config{Bucket: "b"}.Enabled())

	_, err := NewS3Client(context.Background(), S3Config{})
	assert.ErrorIs(t, err, ErrBackupNotConfigured)
}
