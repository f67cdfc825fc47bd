package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgonRoundTrip(t *testing.T) {
	a := NewArgon()

	encoded, err := a.GenerateFromPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	ok, err := a.VerifyPasswd("correct horse battery staple", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestArgonWrongPassword(t *testing.T) {
	a := NewArgon()

	encoded, err := a.GenerateFromPassword("password1")
	require.NoError(t, err)

	ok, err := a.VerifyPasswd("password2", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgonUniqueSalts(t *testing.T) {
	a := NewArgon()

	h1, err := a.GenerateFromPassword("samepassword")
	require.NoError(t, err)

	h2, err := a.GenerateFromPassword("samepassword")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestArgonInvalidHashFormat(t *testing.T) {
	a := NewArgon()

	_, err := a.VerifyPasswd("whatever", "not-a-phc-string")
	assert.Error(t, err)
}
