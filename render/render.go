// Package render draws snapshots of the simulated arm for offline inspection.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"

	"go.viam.com/stemsolvers/control"
	"go.viam.com/stemsolvers/kinematics"
	"go.viam.com/stemsolvers/motionplan"
	"go.viam.com/stemsolvers/spatialmath"
)

var font *truetype.Font

func init() {
	var err error
	font, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// Options are the scene parameters a Renderer needs. They replace any global screen state.
type Options struct {
	Width     int
	Height    int
	Bounds    kinematics.Bounds
	DriveBase r2.Rect
	// Overlay draws the intercept points and the text panel.
	Overlay  bool
	FontSize float64
}

var (
	backgroundColor = color.RGBA{240, 240, 240, 255}
	boundsColor     = color.RGBA{90, 90, 90, 255}
	driveBaseColor  = color.RGBA{60, 90, 160, 255}
	telescopeColor  = color.RGBA{30, 30, 30, 255}
	umbrellaColor   = color.RGBA{230, 150, 30, 255}
	pointColor      = color.RGBA{255, 69, 0, 255}
	interceptColor  = color.Black
	validColor      = color.RGBA{50, 205, 50, 255}
	invalidColor    = color.RGBA{220, 20, 60, 255}
)

// Renderer draws arm snapshots into images.
type Renderer struct {
	opts  Options
	frame spatialmath.ScreenFrame
	val   *motionplan.Validator
}

// NewRenderer returns a renderer for a scene. The validator supplies the intercept overlay.
func NewRenderer(opts Options, val *motionplan.Validator) (*Renderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.Errorf("render size must be positive, got %dx%d", opts.Width, opts.Height)
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 12
	}
	return &Renderer{
		opts:  opts,
		frame: spatialmath.ScreenFrame{Height: float64(opts.Height)},
		val:   val,
	}, nil
}

// DrawFrame renders one snapshot.
func (r *Renderer) DrawFrame(snap control.Snapshot) image.Image {
	dc := gg.NewContext(r.opts.Width, r.opts.Height)
	dc.SetColor(backgroundColor)
	dc.Clear()

	r.drawRect(dc, r.opts.Bounds.Rect(), boundsColor, false)
	r.drawRect(dc, r.opts.DriveBase, driveBaseColor, true)

	mp := snap.Points.ToScreen(r.frame)
	dc.SetColor(telescopeColor)
	dc.SetLineWidth(4)
	dc.DrawLine(mp.PivotBase.X, mp.PivotBase.Y, mp.WristAxel.X, mp.WristAxel.Y)
	dc.Stroke()

	corners := mp.UmbrellaCorners()
	dc.SetColor(umbrellaFill(snap.Plan))
	dc.MoveTo(corners[0].X, corners[0].Y)
	for _, c := range corners[1:] {
		dc.LineTo(c.X, c.Y)
	}
	dc.ClosePath()
	dc.Fill()

	if !r.opts.Overlay {
		return dc.Image()
	}

	dc.SetColor(pointColor)
	for _, p := range mp.Checked() {
		dc.DrawRectangle(p.X-2, p.Y-2, 5, 5)
		dc.Fill()
	}
	if r.val != nil {
		intercepts := r.val.Intercepts(snap.Current)
		dc.SetColor(interceptColor)
		for _, li := range []motionplan.LineIntercepts{intercepts.Wrist, intercepts.Telescope} {
			if !li.Crosses {
				continue
			}
			for _, p := range []r2.Point{li.Top, li.Bottom} {
				s := r.frame.ToScreen(p)
				dc.DrawRectangle(s.X-2, s.Y-2, 5, 5)
				dc.Fill()
			}
		}
	}
	r.drawPanel(dc, snap)
	return dc.Image()
}

// umbrellaFill fades the plate toward the invalid color as more axes are held on the tick.
func umbrellaFill(plan motionplan.Plan) color.Color {
	held := plan.Count(motionplan.Hold)
	if held == 0 {
		return umbrellaColor
	}
	from, _ := colorful.MakeColor(umbrellaColor)
	to, _ := colorful.MakeColor(invalidColor)
	return from.BlendLab(to, float64(held)/float64(len(kinematics.Axes))).Clamped()
}

func (r *Renderer) drawRect(dc *gg.Context, rect r2.Rect, c color.Color, fill bool) {
	s := r.frame.RectToScreen(rect)
	dc.SetColor(c)
	dc.DrawRectangle(s.X.Lo, s.Y.Lo, s.X.Length(), s.Y.Length())
	if fill {
		dc.Fill()
		return
	}
	dc.SetLineWidth(2)
	dc.Stroke()
}

func (r *Renderer) drawPanel(dc *gg.Context, snap control.Snapshot) {
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: r.opts.FontSize}))

	stateColor := validColor
	if !snap.Valid {
		stateColor = invalidColor
	}
	lines := []struct {
		text string
		c    color.Color
	}{
		{fmt.Sprintf("Tick: %d", snap.Tick), telescopeColor},
		{fmt.Sprintf("Current: %s", snap.Current.Normalized()), telescopeColor},
		{fmt.Sprintf("Target: %s", snap.Target.Normalized()), telescopeColor},
		{fmt.Sprintf("Plan: %s", snap.Plan), telescopeColor},
		{fmt.Sprintf("State Valid: %t", snap.Valid), stateColor},
	}
	y := 10 + r.opts.FontSize
	for _, l := range lines {
		dc.SetColor(l.c)
		dc.DrawString(l.text, 10, y)
		y += r.opts.FontSize * 1.5
	}
}

// SavePNG writes an image to a PNG file.
func SavePNG(img image.Image, path string) error {
	return errors.Wrapf(gg.SavePNG(path, img), "failed to save %q", path)
}
