package graphics

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"sync"

	"chunkmesh/internal/atlas"

	"github.com/go-gl/gl/v4.1-core/gl"
)

var (
	textureCache = make(map[string]uint32)
	cacheMutex   sync.RWMutex
)

// LoadTexture loads a 2D texture from a file. Any format registered with
// the image package decodes, including the atlas package's bmp/tiff/webp.
func LoadTexture(path string) (uint32, int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}
	return uploadImage(img), img.Bounds().Dx(), img.Bounds().Dy(), nil
}

func uploadImage(img image.Image) uint32 {
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)

	// Nearest filtering keeps atlas cells from bleeding into each other
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(rgba.Rect.Size().X),
		int32(rgba.Rect.Size().Y),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(rgba.Pix),
	)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texture
}

// GetTexture returns a cached texture ID for the given path.
func GetTexture(path string) (uint32, error) {
	cacheMutex.RLock()
	if tex, ok := textureCache[path]; ok {
		cacheMutex.RUnlock()
		return tex, nil
	}
	cacheMutex.RUnlock()

	cacheMutex.Lock()
	defer cacheMutex.Unlock()

	// Double check locking
	if tex, ok := textureCache[path]; ok {
		return tex, nil
	}

	tex, _, _, err := LoadTexture(path)
	if err != nil {
		return 0, err
	}

	textureCache[path] = tex
	return tex, nil
}

// LoadAtlas uploads an atlas image and checks it against the expected layout.
func LoadAtlas(path string, want atlas.Layout) (uint32, error) {
	got, _, err := atlas.Inspect(path, want.CellPixels)
	if err != nil {
		return 0, err
	}
	if got.RowCapacity != want.RowCapacity {
		return 0, fmt.Errorf("%w: %s holds %d cells per row, catalog expects %d",
			atlas.ErrInvalidLayout, path, got.RowCapacity, want.RowCapacity)
	}
	return GetTexture(path)
}

// CheckerAtlas builds a placeholder atlas that tints each cell so faces are
// distinguishable without an image file.
func CheckerAtlas(layout atlas.Layout) uint32 {
	cell := layout.CellPixels
	if cell <= 0 {
		cell = atlas.DefaultCellPixels
	}
	size := layout.RowCapacity * cell
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			cu, cv := x/cell, y/cell
			shade := uint8(90)
			if (x/(cell/2+1)+y/(cell/2+1))%2 == 0 {
				shade = 140
			}
			i := img.PixOffset(x, y)
			img.Pix[i+0] = shade + uint8(cu*7)
			img.Pix[i+1] = shade + uint8(cv*7)
			img.Pix[i+2] = shade
			img.Pix[i+3] = 255
		}
	}
	return uploadImage(img)
}
