package cryptox_test

import (
	"testing"

	"github.com/aussiebroadwan/doorman/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	tok, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.Len(t, tok, 43)

	other, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.NotEqual(t, tok, other)
}

func TestGenerateTokenRejectsBadSize(t *testing.T) {
	t.Parallel()

	_, err := cryptox.GenerateToken(0)
	require.Error(t, err)
	_, err = cryptox.GenerateToken(-4)
	require.Error(t, err)
}
