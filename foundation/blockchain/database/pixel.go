package database

import (
	"math"
)

// maxCreditsScale bounds the radial component of a pixel's base cost so
// the most distant pixel costs one percent of the total representable
// currency. Frozen with the canonical encoding.
const maxCreditsScale = math.MaxInt32

// CanvasPixel is the current state of one canvas position: the latest
// committed purchase wins.
type CanvasPixel struct {
	Position Point   `json:"position"`
	Color    Color   `json:"color"`
	Owner    Hash    `json:"owner"`
	Value    Credits `json:"value"`
	Height   uint64  `json:"height"`
}

// PixelBaseCost computes the cost of a virgin pixel at the specified
// position. Cost rises radially from the canvas center.
func PixelBaseCost(position Point) Credits {
	x := float64(position.X)
	y := float64(position.Y)

	// Distance to the center of the canvas, scaled back so the highest
	// base cost is 1% of the total currency scale.
	radius := math.Sqrt(x*x+y*y) * 0.01

	return 1 + Credits(radius*float64(maxCreditsScale-1))
}

// PixelCost computes the price the specified buyer pays for a pixel, as
// observed up to and including the specified height: the radial base cost
// multiplied by one plus the number of distinct prior owners other than
// the buyer. Contested pixels grow more expensive with every change of
// hands.
func (db *Database) PixelCost(buyer Hash, position Point, asOfHeight uint64) Credits {
	baseCost := PixelBaseCost(position)

	var priorOwners int
	for _, owner := range db.PixelOwners(position, asOfHeight) {
		if owner != buyer {
			priorOwners++
		}
	}

	return baseCost + baseCost*Credits(priorOwners)
}

// PixelOwners returns the distinct owners that have purchased the
// specified position, observed up to and including the specified height,
// in order of first purchase. The owner of a purchase is the public key
// hash funding the transaction that carries the pixel output.
func (db *Database) PixelOwners(position Point, asOfHeight uint64) []Hash {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var owners []Hash
	seen := make(map[Hash]struct{})

	for height, blockHash := range db.order {
		if uint64(height) > asOfHeight {
			break
		}

		for _, tx := range db.blocks[blockHash].Transactions {
			buyer, funded := tx.SpenderHash()
			if !funded {
				continue
			}

			for _, out := range tx.Outputs {
				if out.Kind != OutputToPixel || out.Position != position {
					continue
				}

				if _, exists := seen[buyer]; !exists {
					seen[buyer] = struct{}{}
					owners = append(owners, buyer)
				}
			}
		}
	}

	return owners
}

// Canvas returns the current state of every purchased pixel: for each
// position, the latest committed purchase.
func (db *Database) Canvas() []CanvasPixel {
	db.mu.RLock()
	defer db.mu.RUnlock()

	latest := make(map[Point]CanvasPixel)
	var positions []Point

	for height, blockHash := range db.order {
		for _, tx := range db.blocks[blockHash].Transactions {
			buyer, funded := tx.SpenderHash()
			if !funded {
				continue
			}

			for _, out := range tx.Outputs {
				if out.Kind != OutputToPixel {
					continue
				}

				if _, exists := latest[out.Position]; !exists {
					positions = append(positions, out.Position)
				}

				latest[out.Position] = CanvasPixel{
					Position: out.Position,
					Color:    out.Color,
					Owner:    buyer,
					Value:    out.Value,
					Height:   uint64(height),
				}
			}
		}
	}

	canvas := make([]CanvasPixel, 0, len(positions))
	for _, position := range positions {
		canvas = append(canvas, latest[position])
	}

	return canvas
}
