package instagram

import (
	"fmt"
	"io"
	"os"

	"github.com/Davincible/goinsta/v3"
)

// Session is the authenticated upload handle. The publisher only ever
// talks to this interface, so tests inject fakes and nothing in the
// process holds a hidden module-level client.
type Session interface {
	// Validate performs a lightweight read call to prove the session
	// still works.
	Validate() error
	// UploadAlbum posts the ordered images as one carousel.
	UploadAlbum(paths []string, caption string) error
	// Export persists the session credential cache to a file.
	Export(path string) error
}

// igSession backs Session with the unofficial Instagram client.
type igSession struct {
	insta *goinsta.Instagram
}

func (s *igSession) Validate() error {
	if s.insta.Account == nil {
		return fmt.Errorf("session has no account")
	}
	if err := s.insta.Account.Sync(); err != nil {
		return fmt.Errorf("session validation failed: %w", err)
	}
	return nil
}

func (s *igSession) UploadAlbum(paths []string, caption string) error {
	readers := make([]io.Reader, 0, len(paths))
	closers := make([]io.Closer, 0, len(paths))
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open slide %s: %w", path, err)
		}
		readers = append(readers, f)
		closers = append(closers, f)
	}

	_, err := s.insta.Upload(&goinsta.UploadOptions{
		Album:   readers,
		Caption: caption,
	})
	if err != nil {
		return fmt.Errorf("album upload failed: %w", err)
	}
	return nil
}

func (s *igSession) Export(path string) error {
	return s.insta.Export(path)
}
