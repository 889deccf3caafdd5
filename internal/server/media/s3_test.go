package media

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "images/redsquare.jpg", ObjectKey("redsquare.jpg"))
}

func TestS3Sink_Put(t *testing.T) {
	p := &fakePutter{}
	s := &S3Sink{client: p, bucket: "landmarks"}

	png := []byte("\x89PNG\r\n\x1a\n....")
	require.NoError(t, s.Put(context.Background(), "kremlin.png", png))

	assert.Equal(t, "landmarks", aws.ToString(p.in.Bucket))
	assert.Equal(t, "images/kremlin.png", aws.ToString(p.in.Key))
	assert.Equal(t, "image/png", aws.ToString(p.in.ContentType))
	assert.Equal(t, int64(len(png)), aws.ToInt64(p.in.ContentLength))
	assert.Equal(t, png, p.body)
}

func TestS3Sink_PutErrors(t *testing.T) {
	p := &fakePutter{err: errors.New("AccessDenied")}
	s := &S3Sink{client: p, bucket: "landmarks"}

	err := s.Put(context.Background(), "x.jpg", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")

	p.in = nil
	require.Error(t, s.Put(context.Background(), "a/b.jpg", []byte("x")))
	assert.Nil(t, p.in, "invalid names never reach S3")
}

func TestNewS3Sink_ConfiguresPathStyleClient(t *testing.T) {
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() { loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew })

	var opts s3.Options
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		var lo config.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-central-1", lo.Region)
		return aws.Config{Region: lo.Region}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return s3.NewFromConfig(cfg, optFns...)
	}

	s, err := NewS3Sink(context.Background(), S3Config{
		RootUser: "u", RootPassword: "p", Bucket: "landmarks",
		Region: "eu-central-1", BaseEndpoint: "http://127.0.0.1:9000/",
	})
	require.NoError(t, err)
	assert.Equal(t, "landmarks", s.bucket)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "http://127.0.0.1:9000/", aws.ToString(opts.BaseEndpoint))
}

func TestNewS3Sink_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Sink(context.Background(), S3Config{Bucket: "b"})
	require.Error(t, err)
}
