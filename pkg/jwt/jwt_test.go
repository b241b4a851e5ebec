package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := Generate("s3cret", Identity{UserID: "u1", BranchID: "b1", Role: "supervisor"}, "test", 5)
	require.NoError(t, err)

	id, err := Parse("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "u1", BranchID: "b1", Role: "supervisor"}, id)
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := Generate("s3cret", Identity{UserID: "u1"}, "test", 5)
	require.NoError(t, err)
	_, err = Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	tok, err := Generate("s3cret", Identity{UserID: "u1"}, "test", -1)
	require.NoError(t, err)
	_, err = Parse("s3cret", tok)
	assert.Error(t, err)
}

func TestGenerate_EmptySecret(t *testing.T) {
	_, err := Generate("", Identity{UserID: "u1"}, "test", 5)
	assert.Error(t, err)
}
