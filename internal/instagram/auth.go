package instagram

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Davincible/goinsta/v3"

	"newsreel/internal/logger"
)

// Auth builds authenticated sessions, reusing the saved session file when
// it still validates and falling back to a fresh login otherwise.
type Auth struct {
	Username    string
	Password    string
	SessionFile string
}

// Client returns a working session. forceLogin skips session reuse, for
// an explicit logout or a known-dead session.
func (a *Auth) Client(forceLogin bool) (Session, error) {
	if a.Username == "" || a.Password == "" {
		return nil, fmt.Errorf("instagram credentials are not set")
	}

	if !forceLogin {
		if sess, err := a.resume(); err == nil {
			return sess, nil
		} else if !os.IsNotExist(err) {
			logger.Warn("saved session invalid, re-login required", "error", err)
			if err := os.Remove(a.SessionFile); err != nil && !os.IsNotExist(err) {
				logger.Warn("failed to remove stale session file", "error", err)
			}
		}
	}

	return a.login()
}

func (a *Auth) resume() (Session, error) {
	if _, err := os.Stat(a.SessionFile); err != nil {
		return nil, err
	}

	logger.Info("loading saved session", "path", a.SessionFile)
	insta, err := goinsta.Import(a.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("failed to import session: %w", err)
	}

	sess := &igSession{insta: insta}
	if err := sess.Validate(); err != nil {
		return nil, err
	}

	logger.Info("saved session is valid")
	return sess, nil
}

func (a *Auth) login() (Session, error) {
	insta := goinsta.New(a.Username, a.Password)
	if err := insta.Login(); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	logger.Info("logged in", "username", a.Username)

	sess := &igSession{insta: insta}

	if dir := filepath.Dir(a.SessionFile); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			logger.Warn("failed to create session dir", "error", err)
			return sess, nil
		}
	}
	if err := sess.Export(a.SessionFile); err != nil {
		logger.Warn("failed to save session", "error", err)
	} else {
		logger.Info("session saved", "path", a.SessionFile)
	}

	return sess, nil
}
