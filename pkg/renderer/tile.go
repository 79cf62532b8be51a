package renderer

import "image"

// DefaultTileSize is the edge length in pixels of a square tile
const DefaultTileSize = 32

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int             // Number of passes completed for this tile
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
	}
}

// NewTileGrid creates a grid of tiles covering the entire image.
// Tiles never overlap and together cover every pixel exactly once.
func NewTileGrid(width, height, tileSize int) []*Tile {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}

	var tiles []*Tile
	tileID := 0

	// Calculate number of tiles in each dimension
	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1)))
			tileID++
		}
	}

	return tiles
}
