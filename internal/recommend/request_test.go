package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestRequiresImageURL(t *testing.T) {
	_, err := NewRequest("", "", "", "", nil, nil)

	var badRequest *BadRequestError
	require.ErrorAs(t, err, &badRequest)
}

func TestNewRequestCustomTextWithoutImage(t *testing.T) {
	req, err := NewRequest("", "", "focus music", "", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, ModeCustomText, req.Mode)
	assert.False(t, req.NeedsImage())
}

func TestNewRequestCustomTextWinsOverGenre(t *testing.T) {
	req, err := NewRequest("https://x/p.jpg", "jazz", "focus music", "", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, ModeCustomText, req.Mode)
}

func TestNewRequestGenreMode(t *testing.T) {
	req, err := NewRequest("https://x/p.jpg", "jazz", "", "u1", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, ModeGenre, req.Mode)
	assert.True(t, req.NeedsImage())
	assert.Equal(t, "u1", req.CallerID)
}

func TestNewRequestSurpriseMode(t *testing.T) {
	req, err := NewRequest("https://x/p.jpg", "  ", "  ", "", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, ModeSurprise, req.Mode)
}
