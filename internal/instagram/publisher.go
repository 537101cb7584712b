package instagram

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"newsreel/internal/fetcher"
	"newsreel/internal/logger"
	"newsreel/internal/metrics"
	"newsreel/internal/retry"
)

// Connector builds an authenticated session; Auth.Client in production,
// a fake in tests.
type Connector func(forceLogin bool) (Session, error)

// Error signatures that mean the stored session is dead. When the final
// upload failure carries one, the session file is deleted so the next run
// performs a fresh login instead of looping on a stale credential cache.
var loginExpirySignatures = []string{
	"login_required",
	"challenge_required",
	"user has logged out",
}

// Publisher uploads a run's slides as a single carousel post.
type Publisher struct {
	connect     Connector
	sessionFile string
	retryCfg    retry.Config
}

func NewPublisher(auth *Auth, attempts int, delay time.Duration) *Publisher {
	return &Publisher{
		connect:     auth.Client,
		sessionFile: auth.SessionFile,
		retryCfg: retry.Config{
			MaxAttempts: attempts,
			Delay:       delay,
		},
	}
}

// PostCarousel uploads the ordered slide files with a caption built from
// the headline list. Fewer than 2 slides is a no-op failure: a carousel
// needs at least two images, and retrying cannot change that.
func (p *Publisher) PostCarousel(ctx context.Context, paths []string, items []fetcher.NewsItem) error {
	if len(paths) < 2 {
		err := fmt.Errorf("carousel needs at least 2 slides, got %d", len(paths))
		logger.Warn("skipping upload", "error", err)
		return err
	}

	caption := BuildCaption(items)
	logger.Info("posting carousel", "slides", len(paths), "caption_length", len(caption))

	err := retry.Do(ctx, p.retryCfg, func() error {
		sess, err := p.connect(false)
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}
		return sess.UploadAlbum(paths, caption)
	})
	if err != nil {
		if isLoginExpired(err) {
			logger.Warn("session expired, removing session file", "path", p.sessionFile)
			if rmErr := os.Remove(p.sessionFile); rmErr != nil && !os.IsNotExist(rmErr) {
				logger.Warn("failed to remove session file", "error", rmErr)
			}
		}
		metrics.Global.SetError(err.Error())
		logger.Error("carousel upload failed", "error", err)
		return err
	}

	metrics.Global.IncrementCarouselsPosted()
	logger.Info("carousel posted", "slides", len(paths))
	return nil
}

func isLoginExpired(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, signature := range loginExpirySignatures {
		if strings.Contains(msg, signature) {
			return true
		}
	}
	return false
}
