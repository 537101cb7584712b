package instagram

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsreel/internal/logger"
	"newsreel/internal/retry"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type fakeSession struct {
	uploadErr   error
	uploads     int
	lastPaths   []string
	lastCaption string
}

func (f *fakeSession) Validate() error { return nil }

func (f *fakeSession) UploadAlbum(paths []string, caption string) error {
	f.uploads++
	f.lastPaths = paths
	f.lastCaption = caption
	return f.uploadErr
}

func (f *fakeSession) Export(path string) error { return nil }

func newTestPublisher(sess *fakeSession, sessionFile string) (*Publisher, *int) {
	connects := 0
	return &Publisher{
		connect: func(forceLogin bool) (Session, error) {
			connects++
			return sess, nil
		},
		sessionFile: sessionFile,
		retryCfg:    retry.Config{MaxAttempts: 3, Delay: time.Millisecond},
	}, &connects
}

func slidePaths(n int) []string {
	paths := make([]string, n)
	for i := range paths {
		paths[i] = filepath.Join("slides", "0"+string(rune('1'+i))+"_news.jpg")
	}
	return paths
}

func TestPostCarouselSuccess(t *testing.T) {
	sess := &fakeSession{}
	p, _ := newTestPublisher(sess, "")

	err := p.PostCarousel(context.Background(), slidePaths(4), items("Some description."))

	require.NoError(t, err)
	assert.Equal(t, 1, sess.uploads)
	assert.Len(t, sess.lastPaths, 4)
	assert.Contains(t, sess.lastCaption, "Story 1:")
}

func TestPostCarouselTooFewSlides(t *testing.T) {
	sess := &fakeSession{}
	p, connects := newTestPublisher(sess, "")

	err := p.PostCarousel(context.Background(), slidePaths(1), nil)

	assert.Error(t, err)
	assert.Equal(t, 0, sess.uploads, "no upload attempt for a single slide")
	assert.Equal(t, 0, *connects, "no session built for a no-op failure")
}

func TestPostCarouselRetriesThenFails(t *testing.T) {
	sess := &fakeSession{uploadErr: errors.New("transient network error")}
	p, _ := newTestPublisher(sess, "")

	err := p.PostCarousel(context.Background(), slidePaths(3), nil)

	assert.Error(t, err)
	assert.Equal(t, 3, sess.uploads, "bounded retry count")
}

func TestPostCarouselRetriesThenSucceeds(t *testing.T) {
	sess := &fakeSession{uploadErr: errors.New("transient")}
	p, _ := newTestPublisher(sess, "")

	// Fail once, then recover.
	attempts := 0
	p.connect = func(forceLogin bool) (Session, error) {
		attempts++
		if attempts >= 2 {
			sess.uploadErr = nil
		}
		return sess, nil
	}

	err := p.PostCarousel(context.Background(), slidePaths(2), nil)

	require.NoError(t, err)
	assert.Equal(t, 2, sess.uploads)
}

func TestPostCarouselLoginExpiryDeletesSession(t *testing.T) {
	sessionFile := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(sessionFile, []byte("{}"), 0600))

	sess := &fakeSession{uploadErr: errors.New("400 Bad Request: login_required")}
	p, _ := newTestPublisher(sess, sessionFile)

	err := p.PostCarousel(context.Background(), slidePaths(2), nil)

	assert.Error(t, err)
	_, statErr := os.Stat(sessionFile)
	assert.True(t, os.IsNotExist(statErr), "stale session file should be deleted")
}

func TestPostCarouselOtherErrorKeepsSession(t *testing.T) {
	sessionFile := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(sessionFile, []byte("{}"), 0600))

	sess := &fakeSession{uploadErr: errors.New("500 upstream hiccup")}
	p, _ := newTestPublisher(sess, sessionFile)

	err := p.PostCarousel(context.Background(), slidePaths(2), nil)

	assert.Error(t, err)
	_, statErr := os.Stat(sessionFile)
	assert.NoError(t, statErr, "session file survives a non-auth failure")
}

func TestIsLoginExpired(t *testing.T) {
	assert.True(t, isLoginExpired(errors.New("login_required")))
	assert.True(t, isLoginExpired(errors.New("failed after 3 attempts: challenge_required")))
	assert.False(t, isLoginExpired(errors.New("connection reset by peer")))
}
