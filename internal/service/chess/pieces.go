package chess

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"sync"

	nchess "github.com/corentings/chess/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed assets/pieces/*.svg
var pieceFiles embed.FS

var pieceAssets = map[nchess.Piece]string{
	nchess.WhiteKing:   "wK",
	nchess.WhiteQueen:  "wQ",
	nchess.WhiteRook:   "wR",
	nchess.WhiteBishop: "wB",
	nchess.WhiteKnight: "wN",
	nchess.WhitePawn:   "wP",
	nchess.BlackKing:   "bK",
	nchess.BlackQueen:  "bQ",
	nchess.BlackRook:   "bR",
	nchess.BlackBishop: "bB",
	nchess.BlackKnight: "bN",
	nchess.BlackPawn:   "bP",
}

type pieceCacheKey struct {
	piece nchess.Piece
	size  int
}

var (
	pieceCache   = map[pieceCacheKey]image.Image{}
	pieceCacheMu sync.RWMutex
)

// renderPieceImage rasterises the piece's SVG into a size x size tile.
// Tiles are cached per piece and size.
func renderPieceImage(piece nchess.Piece, size int) (image.Image, error) {
	key := pieceCacheKey{piece: piece, size: size}

	pieceCacheMu.RLock()
	img, ok := pieceCache[key]
	pieceCacheMu.RUnlock()
	if ok {
		return img, nil
	}

	name, ok := pieceAssets[piece]
	if !ok {
		return nil, fmt.Errorf("no asset for piece %d", piece)
	}
	path := "assets/pieces/" + name + ".svg"
	data, err := pieceFiles.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read piece asset %s: %w", path, err)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg %s: %w", path, err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)

	pieceCacheMu.Lock()
	pieceCache[key] = rgba
	pieceCacheMu.Unlock()

	return rgba, nil
}
