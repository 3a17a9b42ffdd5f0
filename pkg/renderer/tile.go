// Package renderer implements the CPU tile/worker-pool render driver: each
// sample pass jitters one camera ray per pixel through the radiance kernel
// and folds it into a running-mean accumulator, publishing a tonemapped
// snapshot once per completed sample.
package renderer

import "image"

const defaultTileSize = 32

// Tile is one rectangular region of the frame, owned by exactly one worker
// for the duration of a sample pass. Per-pixel RNG is seeded independently
// of tiling (see NewDeterministicSource) so results stay stable regardless
// of worker count or tile size.
type Tile struct {
	Bounds image.Rectangle
}

// splitTiles partitions a width*height frame into tileSize*tileSize tiles;
// the last row/column may be smaller.
func splitTiles(width, height, tileSize int) []Tile {
	if tileSize <= 0 {
		tileSize = defaultTileSize
	}
	var tiles []Tile
	for y := 0; y < height; y += tileSize {
		for x := 0; x < width; x += tileSize {
			maxX := min(x+tileSize, width)
			maxY := min(y+tileSize, height)
			tiles = append(tiles, Tile{Bounds: image.Rect(x, y, maxX, maxY)})
		}
	}
	return tiles
}
