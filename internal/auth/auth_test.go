package auth

import (
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/roll/internal/config"
)

func TestCreateAuth(t *testing.T) {
	m, err := CreateAuth(nil)
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = CreateAuth(&config.AuthConfig{Type: config.AuthTypeNone})
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = CreateAuth(&config.AuthConfig{Type: config.AuthTypeToken, Token: "t0k"})
	require.NoError(t, err)
	basic, ok := m.(*http.BasicAuth)
	require.True(t, ok)
	assert.Equal(t, "token", basic.Username)
	assert.Equal(t, "t0k", basic.Password)

	m, err = CreateAuth(&config.AuthConfig{Type: config.AuthTypeBasic, Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, &http.BasicAuth{Username: "u", Password: "p"}, m)

	_, err = CreateAuth(&config.AuthConfig{Type: config.AuthTypeToken})
	assert.Error(t, err)

	_, err = CreateAuth(&config.AuthConfig{Type: config.AuthTypeSSH, KeyPath: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)

	_, err = CreateAuth(&config.AuthConfig{Type: "kerberos"})
	assert.Error(t, err)
}
