package git

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"scribe-hq/proofread/pkg/config"
)

// Auth kinds.
const (
	AuthNone  = "none"
	AuthToken = "token"
	AuthSSH   = "ssh"
)

// Auth resolves the credentials used to clone and pull the script
// repository. Credentials are read on every Method call, so a rotated
// token or key is picked up by the next sync.
type Auth struct {
	kind       string
	token      string
	keyPath    string
	passphrase string
}

// NewAuth validates cfg. A nil cfg or empty type means anonymous access.
// A token written as "$NAME" is read from the environment variable NAME.
func NewAuth(cfg *config.GitAuthConfig) (*Auth, error) {
	if cfg == nil || cfg.Type == "" || cfg.Type == AuthNone {
		return &Auth{kind: AuthNone}, nil
	}

	switch cfg.Type {
	case AuthToken:
		if cfg.Token == "" {
			return nil, fmt.Errorf("token auth requires a token")
		}
		return &Auth{kind: AuthToken, token: cfg.Token}, nil
	case AuthSSH:
		if cfg.SSHKeyPath == "" {
			return nil, fmt.Errorf("ssh auth requires ssh_key_path")
		}
		return &Auth{kind: AuthSSH, keyPath: cfg.SSHKeyPath, passphrase: cfg.SSHKeyPassphrase}, nil
	default:
		return nil, fmt.Errorf("unknown auth type %q", cfg.Type)
	}
}

// Kind returns "none", "token" or "ssh".
func (a *Auth) Kind() string {
	return a.kind
}

// Method returns the go-git transport credentials, nil for anonymous access.
func (a *Auth) Method() (transport.AuthMethod, error) {
	switch a.kind {
	case AuthToken:
		token := a.token
		if name, ok := strings.CutPrefix(token, "$"); ok {
			token = os.Getenv(name)
		}
		if token == "" {
			return nil, fmt.Errorf("token is empty")
		}
		// hosts accept any non-empty user name with an access token
		return &http.BasicAuth{Username: "proofread", Password: token}, nil

	case AuthSSH:
		info, err := os.Stat(a.keyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to access ssh key: %w", err)
		}
		if perm := info.Mode().Perm(); perm&0o077 != 0 {
			return nil, fmt.Errorf("ssh key %s is too open (%o), want 0600", a.keyPath, perm)
		}
		keys, err := ssh.NewPublicKeysFromFile("git", a.keyPath, a.passphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to load ssh key: %w", err)
		}
		return keys, nil

	default:
		return nil, nil
	}
}
