// Package auth turns configured credentials into go-git transport auth methods.
package auth

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"git.home.luguber.info/inful/roll/internal/config"
)

// CreateAuth returns the auth method for authCfg, or nil when none is configured.
func CreateAuth(authCfg *config.AuthConfig) (transport.AuthMethod, error) {
	if authCfg.IsZero() {
		return nil, nil
	}
	switch authCfg.Type {
	case config.AuthTypeToken:
		if authCfg.Token == "" {
			return nil, fmt.Errorf("token authentication requires a token")
		}
		// Most Git hosting services accept any username alongside a token.
		return &http.BasicAuth{Username: "token", Password: authCfg.Token}, nil
	case config.AuthTypeBasic:
		if authCfg.Username == "" {
			return nil, fmt.Errorf("basic authentication requires a username")
		}
		return &http.BasicAuth{Username: authCfg.Username, Password: authCfg.Password}, nil
	case config.AuthTypeSSH:
		keyPath := authCfg.KeyPath
		if keyPath == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("resolve home directory: %w", err)
			}
			keyPath = filepath.Join(home, ".ssh", "id_rsa")
		}
		user := authCfg.Username
		if user == "" {
			user = "git"
		}
		keys, err := ssh.NewPublicKeysFromFile(user, keyPath, authCfg.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to load SSH key from %s: %w", keyPath, err)
		}
		return keys, nil
	default:
		return nil, fmt.Errorf("unsupported auth type: %s", authCfg.Type)
	}
}
