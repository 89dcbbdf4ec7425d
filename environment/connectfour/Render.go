package connectfour

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
)

// Size in pixels of a single board cell in rendered images
const cellSize = 80

// Render draws the current board and saves it as a PNG at path. The
// agent's pieces are drawn in red, the adversary's in yellow, and
// empty cells in white.
func (c *ConnectFour) Render(path string) error {
	dc := gg.NewContext(numCols*cellSize, numRows*cellSize)
	dc.SetColor(color.RGBA{R: 25, G: 75, B: 140, A: 255})
	dc.Clear()

	for i := 0; i < numRows; i++ {
		for j := 0; j < numCols; j++ {
			switch c.board.At(i, j) {
			case agentPiece:
				dc.SetColor(color.RGBA{R: 220, G: 50, B: 47, A: 255})
			case adversaryPiece:
				dc.SetColor(color.RGBA{R: 240, G: 200, B: 60, A: 255})
			default:
				dc.SetColor(color.RGBA{R: 245, G: 245, B: 245, A: 255})
			}

			x := float64(j*cellSize + cellSize/2)
			y := float64(i*cellSize + cellSize/2)
			dc.DrawCircle(x, y, 0.4*cellSize)
			dc.Fill()
		}
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("render: could not save board image: %v", err)
	}
	return nil
}
