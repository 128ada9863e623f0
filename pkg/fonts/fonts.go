// Package fonts provides embedded font faces for raster and SVG rendering.
//
// The Go font family ships embedded in golang.org/x/image, making faces
// available without external font files or fontconfig lookups.
package fonts

import (
	"encoding/base64"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// RegularTTF returns the Go Regular TTF data.
func RegularTTF() []byte {
	return goregular.TTF
}

// BoldTTF returns the Go Bold TTF data.
func BoldTTF() []byte {
	return gobold.TTF
}

var (
	parseOnce sync.Once
	regular   *truetype.Font
	bold      *truetype.Font
	parseErr  error

	faceMu    sync.Mutex
	faceCache = map[faceKey]font.Face{}
)

type faceKey struct {
	points float64
	bold   bool
}

func parse() error {
	parseOnce.Do(func() {
		regular, parseErr = truetype.Parse(goregular.TTF)
		if parseErr != nil {
			return
		}
		bold, parseErr = truetype.Parse(gobold.TTF)
	})
	return parseErr
}

// Face returns a Go Regular font face at the given point size.
// Faces are cached; repeated calls with the same size return the same face.
// The returned face is not safe for concurrent glyph measurement, so
// renderers should not share one face across goroutines.
func Face(points float64) (font.Face, error) {
	return face(points, false)
}

// BoldFace returns a Go Bold font face at the given point size.
// Caching behaves as in [Face].
func BoldFace(points float64) (font.Face, error) {
	return face(points, true)
}

func face(points float64, useBold bool) (font.Face, error) {
	if err := parse(); err != nil {
		return nil, err
	}

	faceMu.Lock()
	defer faceMu.Unlock()

	key := faceKey{points: points, bold: useBold}
	if f, ok := faceCache[key]; ok {
		return f, nil
	}

	src := regular
	if useBold {
		src = bold
	}
	f := truetype.NewFace(src, &truetype.Options{Size: points})
	faceCache[key] = f
	return f, nil
}

// Cache for the base64-encoded regular font (computed once on first access).
var (
	regularBase64     string
	regularBase64Once sync.Once
)

// RegularBase64 returns the Go Regular TTF data as a base64 string,
// suitable for inlining into an SVG @font-face declaration.
// The result is cached after first computation.
func RegularBase64() string {
	regularBase64Once.Do(func() {
		regularBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return regularBase64
}

// FontFamily is the CSS font-family name for the embedded Go font.
const FontFamily = "Go"

// FallbackFontFamily provides fallback fonts for viewers without the embedded font.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Helvetica, Arial, sans-serif`
