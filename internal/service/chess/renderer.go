package chess

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"math"
	"strings"

	nchess "github.com/corentings/chess/v2"
	corechess "github.com/park285/chess-api/internal/chess"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

type RenderOptions struct {
	Highlight *corechess.Move
	HUDHeader string
	HUDTurn   string
}

type BoardRenderer interface {
	RenderPNG(ctx context.Context, board *corechess.Board, opts RenderOptions) ([]byte, error)
}

type svgBoardRenderer struct {
	face font.Face
}

func NewSVGBoardRenderer() BoardRenderer {
	return &svgBoardRenderer{face: basicfont.Face7x13}
}

var (
	ranks = []nchess.Rank{nchess.Rank8, nchess.Rank7, nchess.Rank6, nchess.Rank5, nchess.Rank4, nchess.Rank3, nchess.Rank2, nchess.Rank1}
	files = []nchess.File{nchess.FileA, nchess.FileB, nchess.FileC, nchess.FileD, nchess.FileE, nchess.FileF, nchess.FileG, nchess.FileH}
)

func (r *svgBoardRenderer) RenderPNG(ctx context.Context, board *corechess.Board, opts RenderOptions) ([]byte, error) {
	if board == nil {
		return nil, fmt.Errorf("board is nil")
	}

	const (
		squareSize       = 64
		boardSize        = squareSize * corechess.Size
		sideMargin       = 28
		topMargin        = 72
		bottomMargin     = 28
		panelHeight      = 28
		gapBetweenPanels = 8
		gapToBoard       = 12
		panelRadius      = 10
		panelPaddingX    = 18
		panelMinWidth    = 120
		shadowOffsetY    = 4
	)

	totalWidth := boardSize + sideMargin*2
	totalHeight := boardSize + topMargin + bottomMargin
	boardOrigin := image.Point{X: sideMargin, Y: topMargin}
	boardRect := image.Rect(
		boardOrigin.X,
		boardOrigin.Y,
		boardOrigin.X+boardSize,
		boardOrigin.Y+boardSize,
	)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	nb := toBoard(board)
	img := image.NewRGBA(image.Rect(0, 0, totalWidth, totalHeight))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	hud := hudLayout{
		boardRect:        boardRect,
		radius:           panelRadius,
		panelHeight:      panelHeight,
		gapBetweenPanels: gapBetweenPanels,
		gapToBoard:       gapToBoard,
		paddingX:         panelPaddingX,
		minWidth:         panelMinWidth,
		shadowOffsetY:    shadowOffsetY,
	}
	painter := newShapePainter(img)
	drawHUD(img, painter, r.face, opts, hud)
	drawBoardShadow(img, boardRect)
	drawSquares(img, squareSize, boardOrigin)
	if err := drawPieces(img, nb, squareSize, boardOrigin); err != nil {
		return nil, err
	}
	drawHighlight(img, painter, nb, opts.Highlight, squareSize, boardOrigin)
	drawCoordinates(img, r.face, squareSize, boardOrigin, sideMargin)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	return pngBuf.Bytes(), nil
}

var (
	backgroundColor           = color.RGBA{R: 22, G: 24, B: 36, A: 255}
	lightSquare               = color.RGBA{233, 207, 163, 255}
	darkSquare                = color.RGBA{187, 136, 96, 255}
	whiteMoveHighlightFill    = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	blackMoveHighlightArrow   = color.NRGBA{R: 148, G: 207, B: 255, A: 170}
	neutralMoveHighlightArrow = color.NRGBA{R: 182, G: 184, B: 190, A: 140}
	hudPanelColor             = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudTurnPanelColor         = color.NRGBA{R: 32, G: 35, B: 52, A: 245}
	hudShadowColor            = color.NRGBA{0, 0, 0, 50}
	hudTextPrimary            = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	hudTurnTextColor          = color.NRGBA{R: 204, G: 210, B: 236, A: 255}
	boardShadowColor          = color.NRGBA{0, 0, 0, 60}
	coordinateTextColor       = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
)

func drawBoardShadow(img *image.RGBA, boardRect image.Rectangle) {
	shadowRect := image.Rect(
		boardRect.Min.X+4,
		boardRect.Min.Y+6,
		boardRect.Max.X+6,
		boardRect.Max.Y+8,
	)
	imagedraw.Draw(img, shadowRect, image.NewUniform(boardShadowColor), image.Point{}, imagedraw.Over)
}

func drawSquares(dst imagedraw.Image, squareSize int, origin image.Point) {
	for row, rank := range ranks {
		for col, file := range files {
			x := origin.X + col*squareSize
			y := origin.Y + row*squareSize
			clr := squareColor(nchess.NewSquare(file, rank))
			imagedraw.Draw(dst, image.Rect(x, y, x+squareSize, y+squareSize), image.NewUniform(clr), image.Point{}, imagedraw.Src)
		}
	}
}

func drawPieces(dst imagedraw.Image, board *nchess.Board, squareSize int, origin image.Point) error {
	boardMap := board.SquareMap()
	for row, rank := range ranks {
		for col, file := range files {
			piece := boardMap[nchess.NewSquare(file, rank)]
			if piece == nchess.NoPiece {
				continue
			}
			img, err := renderPieceImage(piece, squareSize)
			if err != nil {
				return err
			}
			x := origin.X + col*squareSize
			y := origin.Y + row*squareSize
			imagedraw.Draw(dst, image.Rect(x, y, x+squareSize, y+squareSize), img, image.Point{}, imagedraw.Over)
		}
	}
	return nil
}

// drawHighlight marks white moves with filled squares and black moves with
// an arrow; the mover is whoever now stands on the destination.
func drawHighlight(img *image.RGBA, painter *shapePainter, board *nchess.Board, mv *corechess.Move, squareSize int, origin image.Point) {
	if mv == nil || !mv.From.Valid() || !mv.To.Valid() {
		return
	}
	from, to := toSquare(mv.From), toSquare(mv.To)
	switch piece := board.Piece(to); {
	case piece != nchess.NoPiece && piece.Color() == nchess.Black:
		drawArrow(painter, from, to, squareSize, origin, blackMoveHighlightArrow)
	case piece != nchess.NoPiece && piece.Color() == nchess.White:
		drawSquareOverlay(img, from, squareSize, origin, whiteMoveHighlightFill)
		drawSquareOverlay(img, to, squareSize, origin, whiteMoveHighlightFill)
	default:
		drawArrow(painter, from, to, squareSize, origin, neutralMoveHighlightArrow)
	}
}

type hudLayout struct {
	boardRect        image.Rectangle
	radius           int
	panelHeight      int
	gapBetweenPanels int
	gapToBoard       int
	paddingX         int
	minWidth         int
	shadowOffsetY    int
}

// drawHUD stacks a title panel above a centred turn panel.
func drawHUD(img *image.RGBA, painter *shapePainter, face font.Face, opts RenderOptions, l hudLayout) {
	drawer := &font.Drawer{Dst: img, Face: face}

	title := strings.TrimSpace(opts.HUDHeader)
	if title == "" {
		title = "Chess"
	}
	turnText := strings.TrimSpace(opts.HUDTurn)

	turnBottom := l.boardRect.Min.Y - l.gapToBoard
	turnTop := turnBottom - l.panelHeight
	titleBottom := turnTop - l.gapBetweenPanels
	titleTop := titleBottom - l.panelHeight

	maxWidth := l.boardRect.Dx()
	titleWidth := panelWidth(drawer, title, l.paddingX, l.minWidth, maxWidth)
	titleRect := image.Rect(l.boardRect.Min.X, titleTop, l.boardRect.Min.X+titleWidth, titleBottom)
	title = truncateWithEllipsis(face, title, titleRect.Dx()-l.paddingX*2)

	painter.roundRect(titleRect.Add(image.Pt(0, l.shadowOffsetY)), l.radius, hudShadowColor)
	painter.roundRect(titleRect, l.radius, hudPanelColor)
	drawCenteredString(drawer, titleRect, title, hudTextPrimary)

	if turnText == "" {
		return
	}
	turnWidth := panelWidth(drawer, turnText, l.paddingX, l.minWidth, maxWidth-40)
	turnLeft := l.boardRect.Min.X + (l.boardRect.Dx()-turnWidth)/2
	turnRect := image.Rect(turnLeft, turnTop, turnLeft+turnWidth, turnBottom)
	turnText = truncateWithEllipsis(face, turnText, turnRect.Dx()-l.paddingX*2)

	painter.roundRect(turnRect.Add(image.Pt(0, l.shadowOffsetY)), l.radius, hudShadowColor)
	painter.roundRect(turnRect, l.radius, hudTurnPanelColor)
	drawCenteredString(drawer, turnRect, turnText, hudTurnTextColor)
}

func panelWidth(drawer *font.Drawer, text string, paddingX, minWidth, maxWidth int) int {
	width := drawer.MeasureString(text).Round() + paddingX*2
	if width < minWidth {
		width = minWidth
	}
	if width > maxWidth {
		width = maxWidth
	}
	return width
}

func drawSquareOverlay(img *image.RGBA, sq nchess.Square, squareSize int, origin image.Point, clr color.Color) {
	rect := squareRect(sq, squareSize, origin)
	imagedraw.Draw(img, rect, image.NewUniform(clr), image.Point{}, imagedraw.Over)
}

func drawArrow(painter *shapePainter, from, to nchess.Square, squareSize int, origin image.Point, clr color.Color) {
	if from == to {
		return
	}
	startRect := squareRect(from, squareSize, origin)
	endRect := squareRect(to, squareSize, origin)
	start := image.Pt(startRect.Min.X+squareSize/2, startRect.Min.Y+squareSize/2)
	end := image.Pt(endRect.Min.X+squareSize/2, endRect.Min.Y+squareSize/2)

	dx := float64(end.X - start.X)
	dy := float64(end.Y - start.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}

	dirX := dx / length
	dirY := dy / length
	perpX := -dirY
	perpY := dirX

	baseLength := length - float64(squareSize)*0.45
	if baseLength < float64(squareSize)*0.35 {
		baseLength = length * 0.6
	}
	halfWidth := float64(squareSize) * 0.18
	headWidth := float64(squareSize) * 0.32

	baseX := float64(start.X) + dirX*baseLength
	baseY := float64(start.Y) + dirY*baseLength

	painter.polygon(clr,
		pointF{X: float64(start.X) - perpX*halfWidth, Y: float64(start.Y) - perpY*halfWidth},
		pointF{X: float64(start.X) + perpX*halfWidth, Y: float64(start.Y) + perpY*halfWidth},
		pointF{X: baseX + perpX*halfWidth, Y: baseY + perpY*halfWidth},
		pointF{X: baseX + perpX*headWidth/2, Y: baseY + perpY*headWidth/2},
		pointF{X: float64(end.X), Y: float64(end.Y)},
		pointF{X: baseX - perpX*headWidth/2, Y: baseY - perpY*headWidth/2},
		pointF{X: baseX - perpX*halfWidth, Y: baseY - perpY*halfWidth},
	)
}

func drawCoordinates(dst imagedraw.Image, face font.Face, squareSize int, origin image.Point, margin int) {
	drawer := &font.Drawer{
		Dst:  dst,
		Face: face,
		Src:  image.NewUniform(coordinateTextColor),
	}
	ascent := face.Metrics().Ascent.Ceil()
	boardEndY := origin.Y + len(ranks)*squareSize

	for row, rank := range ranks {
		rankCenter := origin.Y + row*squareSize + squareSize/2
		drawCenteredText(drawer, rank.String(), origin.X-margin/2, rankCenter+ascent/2)
	}
	for col, file := range files {
		fileCenter := origin.X + col*squareSize + squareSize/2
		drawCenteredText(drawer, file.String(), fileCenter, boardEndY+ascent+4)
	}
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 || face == nil {
		return trimmed
	}

	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}

	ellipsis := "..."
	if drawer.MeasureString(ellipsis).Round() > maxWidth {
		return ""
	}

	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := rect.Min.X + (rect.Dx()-width)/2
	if x < rect.Min.X {
		x = rect.Min.X
	}
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}

func squareColor(sq nchess.Square) color.Color {
	if (int(sq.File())+int(sq.Rank()))%2 == 0 {
		return darkSquare
	}
	return lightSquare
}

func squareRect(sq nchess.Square, squareSize int, origin image.Point) image.Rectangle {
	row := 7 - int(sq.Rank())
	col := int(sq.File())
	x := origin.X + col*squareSize
	y := origin.Y + row*squareSize
	return image.Rect(x, y, x+squareSize, y+squareSize)
}
