package publish

import (
	"context"
	"testing"

	"lessonscript/internal/domain/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "doc/intro.txt", ObjectKey("", "/doc/intro.txt"))
	assert.Equal(t, "course/v1/doc/intro.txt", ObjectKey("/course/v1/", "doc/intro.txt"))
	assert.Equal(t, "course/manifest.json", ObjectKey("course", " manifest.json "))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/plain; charset=utf-8", ContentType("doc/a.txt"))
	assert.Equal(t, "application/json", ContentType("manifest.JSON"))
	assert.Equal(t, "application/octet-stream", ContentType("blob"))
}

func TestNewS3Store(t *testing.T) {
	cfg := config.PublishConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "scripts",
		Prefix:    "course",
	}
	s, err := NewS3Store(cfg)
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", s.region)
	assert.Equal(t, "course", s.prefix)

	for name, mutate := range map[string]func(*config.PublishConfig){
		"endpoint": func(c *config.PublishConfig) { c.Endpoint = " " },
		"keys":     func(c *config.PublishConfig) { c.SecretKey = "" },
		"bucket":   func(c *config.PublishConfig) { c.Bucket = "" },
	} {
		bad := cfg
		mutate(&bad)
		_, err := NewS3Store(bad)
		assert.Error(t, err, name)
	}
}

func TestPutRejectsEmptyPath(t *testing.T) {
	var s *S3Store
	assert.Error(t, s.Put(context.Background(), "doc/a.txt", nil))

	s, err := NewS3Store(config.PublishConfig{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s", Bucket: "b"})
	require.NoError(t, err)
	assert.Error(t, s.Put(context.Background(), "  ", []byte("x")))
}
