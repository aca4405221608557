package moderation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateContentType(t *testing.T) {
	assert.True(t, ValidateContentType("image/jpeg"))
	assert.True(t, ValidateContentType("image/png"))
	assert.True(t, ValidateContentType("image/webp"))
	assert.False(t, ValidateContentType("image/gif"))
	assert.False(t, ValidateContentType("application/pdf"))
	assert.False(t, ValidateContentType(""))
}

func TestValidateFileSize(t *testing.T) {
	assert.True(t, ValidateFileSize(1))
	assert.True(t, ValidateFileSize(MaxUploadBytes))
	assert.False(t, ValidateFileSize(MaxUploadBytes+1))
	assert.False(t, ValidateFileSize(0))
	assert.False(t, ValidateFileSize(-1))
}

func TestCheckImageContentPassThrough(t *testing.T) {
	result, err := CheckImageContent(context.Background(), "user-1/physique_input/photo")
	require.NoError(t, err)
	assert.True(t, result.Approved)
	assert.Empty(t, result.Reasons)
}
