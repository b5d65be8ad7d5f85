package texture

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"strings"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// AssetLoadError reports a texture asset that is missing, unreadable or not
// a decodable image.
type AssetLoadError struct {
	Key string
	Err error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("loading texture %q: %v", e.Key, e.Err)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}

// ErrNotImage is reported for assets whose content is not a raster image.
var ErrNotImage = errors.New("not an image")

// sniffLen is the header length filetype needs to match every format.
const sniffLen = 262

// Decode reads an image and converts it to non-premultiplied RGBA8 with its
// origin at (0,0). png, jpeg, gif, bmp, tiff and webp are supported.
func Decode(r io.Reader) (*image.NRGBA, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(head) == 0 {
		return nil, fmt.Errorf("empty asset: %w", ErrNotImage)
	}
	if !filetype.IsImage(head) {
		kind, _ := filetype.Match(head)
		if kind == filetype.Unknown {
			return nil, ErrNotImage
		}
		return nil, fmt.Errorf("content is %s: %w", kind.MIME.Value, ErrNotImage)
	}
	img, format, err := image.Decode(br)
	if err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decoding %s: image has no pixels", format)
	}
	return toNRGBA(img), nil
}

// Load opens and decodes the asset named key from fsys. Keys ending in
// ".9.png" are decoded as nine-patch images.
//
// All failures are reported as *AssetLoadError.
func Load(fsys fs.FS, key string) (*Texture, error) {
	f, err := fsys.Open(key)
	if err != nil {
		return nil, &AssetLoadError{Key: key, Err: err}
	}
	defer f.Close()
	img, err := Decode(f)
	if err != nil {
		return nil, &AssetLoadError{Key: key, Err: err}
	}
	if IsNinePatch(key) {
		return DecodeNinePatch(img).Texture(key), nil
	}
	return FromImage(key, img), nil
}

// IsNinePatch reports whether key names an Android style nine-patch asset.
func IsNinePatch(key string) bool {
	return strings.HasSuffix(strings.ToLower(key), ".9.png")
}

// toNRGBA converts img to an *image.NRGBA whose bounds start at the origin,
// copying only when necessary.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if nrgba, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return nrgba
	}
	out := image.NewNRGBA(image.Rectangle{Max: b.Size()})
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
