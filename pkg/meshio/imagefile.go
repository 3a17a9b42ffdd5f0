package meshio

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/mrigankad-go/phototrace/pkg/material"
	"github.com/mrigankad-go/phototrace/pkg/rterr"
)

// LoadFaceTexture reads and decodes a cube-map face texture from path. Cube
// map faces are treated as gamma-encoded and converted to linear RGB
// (srgb=true, the convention used for other artist-authored color textures
// in this ingest path).
func LoadFaceTexture(path string) (*material.ImageTexture, error) {
	img, err := decodeImageFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeTexture(img, true)
}

// decodeImageFile opens and decodes a PNG or JPEG file referenced by an
// external glTF image URI.
func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, rterr.Wrap(rterr.AssetIoError, fmt.Sprintf("open texture %q", path), err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, rterr.Wrap(rterr.AssetIoError, fmt.Sprintf("decode texture %q", path), err)
	}
	return img, nil
}
