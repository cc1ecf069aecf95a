package cryptox_test

import (
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/doorman/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := filepath.Abs("testdata")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))
	m.Run()
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := cryptox.HashPassword("Secret123")
	require.NoError(t, err)
	require.Contains(t, hash, "$argon2id$v=19$")

	require.NoError(t, cryptox.VerifyPassword("Secret123", hash))
	require.ErrorIs(t, cryptox.VerifyPassword("wrong", hash), cryptox.ErrPasswordMismatch)
}

func TestHashIsSalted(t *testing.T) {
	a, err := cryptox.HashPassword("Secret123")
	require.NoError(t, err)
	b, err := cryptox.HashPassword("Secret123")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	require.Error(t, cryptox.VerifyPassword("x", "not-a-hash"))
	require.Error(t, cryptox.VerifyPassword("x", "$bcrypt$v=19$m=1,t=1,p=1$a$b"))
	require.Error(t, cryptox.VerifyPassword("x", "$argon2id$v=18$m=1,t=1,p=1$a$b"))
}
