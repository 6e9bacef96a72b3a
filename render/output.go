package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"
	"github.com/google/uuid"
)

var ErrMapSize = errors.New("map image size does not match calibration")

// PlainMapColor fills the base map when no image is configured.
var PlainMapColor = color.RGBA{R: 236, G: 236, B: 232, A: 255}

// FramePath returns the file of frame k inside dir.
func FramePath(dir string, k int) string {
	return filepath.Join(dir, fmt.Sprintf("frame_%04d.png", k))
}

// FramePattern is the ffmpeg input pattern matching FramePath.
func FramePattern(dir string) string {
	return filepath.Join(dir, "frame_%04d.png")
}

// NewRunDir creates <outputDir>/<YYYY-MM-DD>-<run id> for the frames of one
// movie.
func NewRunDir(outputDir string, now time.Time) (string, error) {
	dir := filepath.Join(outputDir, now.Format("2006-01-02")+"-"+uuid.NewString()[:8])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// LoadBaseMap loads the map image at path and checks it has the calibrated
// size. An empty path yields a plain w x h canvas.
func LoadBaseMap(path string, w, h int) (image.Image, error) {
	if path == "" {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(img, img.Bounds(), image.NewUniform(PlainMapColor), image.Point{}, draw.Src)
		return img, nil
	}
	img, err := gg.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("load map %s: %w", path, err)
	}
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		return nil, fmt.Errorf("%w: %s is %dx%d, want %dx%d", ErrMapSize, path, b.Dx(), b.Dy(), w, h)
	}
	return img, nil
}

// SaveFrame writes img as PNG.
func SaveFrame(path string, img image.Image) error {
	return gg.SavePNG(path, img)
}
