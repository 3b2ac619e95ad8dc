package gemini

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWords(t *testing.T) {
	got, err := ParseWords(`["Sea Otter", "whale", "r2d2", "WHALE", "hippopotamus", "eel"]`, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"sea otter", "whale", "eel"}, got)
}

func TestParseWordsFencedAndCapped(t *testing.T) {
	got, err := ParseWords("```json\n[\"apple\", \"pear\", \"fig\"]\n```", 2, 14)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "pear"}, got)
}

func TestParseWordsErrors(t *testing.T) {
	_, err := ParseWords(`{"words": []}`, 5, 14)
	assert.Error(t, err)

	_, err = ParseWords(`["123", "!!"]`, 5, 14)
	assert.ErrorIs(t, err, ErrNoWords)
}

func TestGenerateWords(t *testing.T) {
	projectID := os.Getenv("GCP_PROJECT_ID")
	if projectID == "" {
		t.Skip("GCP_PROJECT_ID not set, skipping integration test")
	}

	ctx := context.Background()
	c, err := NewClient(ctx, projectID, os.Getenv("GCP_REGION"))
	require.NoError(t, err)
	defer c.Close()

	got, err := c.GenerateWords(ctx, "ocean animals", 8, 14)
	require.NoError(t, err)
	assert.NotEmpty(t, got)
	t.Logf("generated: %v", got)
}
