package slides

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"newsreel/internal/fetcher"
	"newsreel/internal/logger"
	"newsreel/internal/metrics"
)

const (
	slideSize    = 1080
	lineBudget   = 900 // pixel width available for headline text
	maxTextLines = 4   // headline line cap per slide
	jpegQuality  = 95
)

// Renderer turns a run's headlines into an ordered set of 1080x1080 JPEG
// slides in Dir, replacing whatever the previous run left there.
type Renderer struct {
	dir    string
	client *http.Client
	now    func() time.Time

	regular *truetype.Font
	bold    *truetype.Font
}

func NewRenderer(dir string, imageTimeout time.Duration) (*Renderer, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}

	return &Renderer{
		dir:     dir,
		client:  &http.Client{Timeout: imageTimeout},
		now:     time.Now,
		regular: regular,
		bold:    bold,
	}, nil
}

func (r *Renderer) face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size})
}

// GenerateAll writes the title card plus one slide per item and returns
// the ordered file paths. Zero-padded index prefixes make lexicographic
// order equal display order, which is what the publisher uploads in.
func (r *Renderer) GenerateAll(ctx context.Context, items []fetcher.NewsItem) ([]string, error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create slides dir: %w", err)
	}
	if err := r.clearOldSlides(); err != nil {
		return nil, err
	}

	total := len(items) + 1
	paths := make([]string, 0, total)

	titlePath := filepath.Join(r.dir, "01_title.jpg")
	if err := r.saveJPEG(r.renderTitleSlide(ctx), titlePath); err != nil {
		return nil, err
	}
	paths = append(paths, titlePath)

	for i, item := range items {
		path := filepath.Join(r.dir, fmt.Sprintf("%02d_news.jpg", i+2))
		if err := r.saveJPEG(r.renderNewsSlide(ctx, item, i+1, total), path); err != nil {
			return nil, err
		}
		logger.Info("generated slide", "index", i+1, "title", item.Title)
		paths = append(paths, path)
	}

	metrics.Global.AddSlidesRendered(len(paths))
	return paths, nil
}

func (r *Renderer) clearOldSlides() error {
	old, err := filepath.Glob(filepath.Join(r.dir, "*.jpg"))
	if err != nil {
		return err
	}
	for _, path := range old {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to clear old slide %s: %w", path, err)
		}
	}
	return nil
}

func (r *Renderer) renderTitleSlide(ctx context.Context) image.Image {
	bg := r.background(ctx, "", 0)
	d := designFor(0)

	dc := gg.NewContext(slideSize, slideSize)
	dc.DrawImage(bg, 0, 0)
	applyOverlay(dc, d)

	dc.SetColor(d.headline)
	dc.SetFontFace(r.face(r.bold, 100))
	dc.DrawStringAnchored("TODAY'S", 540, 400, 0.5, 0.5)
	dc.DrawStringAnchored("HEADLINES", 540, 500, 0.5, 0.5)

	dc.SetColor(d.accent)
	dc.SetFontFace(r.face(r.regular, 40))
	dc.DrawStringAnchored(r.now().Format("02 January 2006"), 540, 600, 0.5, 0.5)

	dc.SetFontFace(r.face(r.regular, 50))
	dc.DrawStringAnchored("Swipe right →", 540, 950, 0.5, 0.5)

	return dc.Image()
}

func (r *Renderer) renderNewsSlide(ctx context.Context, item fetcher.NewsItem, index, total int) image.Image {
	bg := r.background(ctx, item.ImageURL, index)
	d := designFor(index)

	dc := gg.NewContext(slideSize, slideSize)
	dc.DrawImage(bg, 0, 0)
	applyOverlay(dc, d)

	dc.SetColor(d.headline)
	dc.SetFontFace(r.face(r.bold, 120))
	dc.DrawStringAnchored(fmt.Sprintf("%d/%d", index, total-1), 100, 140, 0, 0.5)

	headlineFace := r.face(r.bold, 60)
	dc.SetFontFace(headlineFace)
	measure := func(s string) float64 {
		w, _ := dc.MeasureString(s)
		return w
	}

	y := 380.0
	for _, line := range WrapText(measure, item.Title, lineBudget, maxTextLines) {
		dc.DrawStringAnchored(line, 540, y, 0.5, 0.5)
		y += 70
	}

	dc.SetColor(d.accent)
	dc.SetFontFace(r.face(r.regular, 35))
	dc.DrawStringAnchored("Find details in caption ↓", 540, 950, 0.5, 0.5)

	return dc.Image()
}

func applyOverlay(dc *gg.Context, d design) {
	dc.SetColor(d.overlay)
	dc.DrawRectangle(0, 0, slideSize, slideSize)
	dc.Fill()
}

// background fetches the topical image, stretched to the slide square;
// any failure falls back to a generated gradient so one dead image URL
// never blocks the run.
func (r *Renderer) background(ctx context.Context, imageURL string, index int) image.Image {
	if imageURL == "" {
		return gradientBackground(index)
	}

	img, err := r.fetchImage(ctx, imageURL)
	if err != nil {
		logger.Warn("background fetch failed, using gradient", "url", imageURL, "error", err)
		return gradientBackground(index)
	}

	fitted := image.NewRGBA(image.Rect(0, 0, slideSize, slideSize))
	draw.ApproxBiLinear.Scale(fitted, fitted.Bounds(), img, img.Bounds(), draw.Src, nil)
	return fitted
}

func (r *Renderer) fetchImage(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}
	return img, nil
}

func (r *Renderer) saveJPEG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create slide file: %w", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("failed to encode slide: %w", err)
	}
	return nil
}
