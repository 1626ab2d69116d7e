package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.NoError(t, h.Compare(hash, "s3cret"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), ErrMismatch)
}

func TestBcryptHasher_HashesAreSalted(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	first, err := h.Hash("s3cret")
	require.NoError(t, err)
	second, err := h.Hash("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NoError(t, h.Compare(first, "s3cret"))
	assert.NoError(t, h.Compare(second, "s3cret"))
}

func TestBcryptHasher_CorruptHashIsNotMismatch(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	err := h.Compare("not-a-bcrypt-hash", "s3cret")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMismatch)
}
