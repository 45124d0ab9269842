package chess

import (
	"image"
	"image/color"

	"github.com/srwiley/rasterx"
)

type pointF struct {
	X float64
	Y float64
}

// shapePainter fills anti-aliased vector shapes over an RGBA canvas.
type shapePainter struct {
	scanner *rasterx.ScannerGV
	filler  *rasterx.Filler
}

func newShapePainter(img *image.RGBA) *shapePainter {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	return &shapePainter{scanner: scanner, filler: rasterx.NewFiller(w, h, scanner)}
}

func (p *shapePainter) roundRect(rect image.Rectangle, radius int, clr color.Color) {
	if rect.Empty() {
		return
	}
	r := float64(max(radius, 0))
	p.scanner.SetColor(clr)
	rasterx.AddRoundRect(
		float64(rect.Min.X), float64(rect.Min.Y),
		float64(rect.Max.X), float64(rect.Max.Y),
		r, r, 0, rasterx.RoundGap, p.filler,
	)
	p.flush()
}

func (p *shapePainter) polygon(clr color.Color, pts ...pointF) {
	if len(pts) < 3 {
		return
	}
	p.scanner.SetColor(clr)
	p.filler.Start(rasterx.ToFixedP(pts[0].X, pts[0].Y))
	for _, pt := range pts[1:] {
		p.filler.Line(rasterx.ToFixedP(pt.X, pt.Y))
	}
	p.filler.Stop(true)
	p.flush()
}

func (p *shapePainter) flush() {
	p.filler.Draw()
	p.filler.Clear()
}
