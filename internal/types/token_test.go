package types

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSecureToken(t *testing.T) {
	token, err := GenerateSecureToken(16)
	assert.NoError(t, err)
	assert.Len(t, token, 32)

	_, err = hex.DecodeString(token)
	assert.NoError(t, err)

	other, err := GenerateSecureToken(16)
	assert.NoError(t, err)
	assert.NotEqual(t, token, other)
}
