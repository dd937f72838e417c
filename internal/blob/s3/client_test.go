package s3blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEndpointDefaultsToHTTPS(t *testing.T) {
	assert.Equal(t, "https://minio.internal:9000", resolveEndpoint("minio.internal:9000", false))
	assert.Equal(t, "http://localhost:9000", resolveEndpoint("localhost:9000", true))
	assert.Equal(t, "http://localhost:9000", resolveEndpoint("http://localhost:9000", false))
	assert.Equal(t, "https://r2.example.com", resolveEndpoint("https://r2.example.com", true))
}

func TestNewRejectsIncompleteConfig(t *testing.T) {
	_, err := New(context.Background(), ClientConfig{Region: "us-east-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket")

	_, err = New(context.Background(), ClientConfig{Bucket: "ronin-archives"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "region")
}
