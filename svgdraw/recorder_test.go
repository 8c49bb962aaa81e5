package svgdraw

import (
	"image"
	"image/color"
	"testing"

	"github.com/benoitkugler/svgpicture/svgpath"
	"github.com/tdewolff/test"
)

func commandTypes(cmds []Command) []CommandType {
	out := make([]CommandType, len(cmds))
	for i, c := range cmds {
		out[i] = c.Type()
	}
	return out
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder(100, 50)
	rec.Save()
	rec.Concat(svgpath.Identity.Translate(10, 10))
	rec.ClipRect(Rect{0, 0, 100, 50})
	paint := NewFillPaint()
	paint.Color = color.NRGBA{R: 0xff, A: 0xff}
	rec.DrawPath(Rect{0, 0, 5, 5}.Path(), paint)
	rec.SaveLayer(127)
	rec.DrawImage(image.NewRGBA(image.Rect(0, 0, 1, 1)), Rect{0, 0, 10, 10})
	rec.Restore()
	rec.Restore()
	rec.Restore() // unbalanced, ignored
	rec.SaveLayer(10)
	pic := rec.FinishRecording()

	test.Float(t, pic.Width(), 100)
	test.Float(t, pic.Height(), 50)
	test.T(t, commandTypes(pic.Commands()), []CommandType{
		CmdSave, CmdConcat, CmdClipRect, CmdDrawPath, CmdSaveLayer,
		CmdDrawImage, CmdRestore, CmdRestore, CmdSaveLayer, CmdRestore,
	})

	// the recorded paint is a snapshot
	paint.Color = color.NRGBA{B: 0xff, A: 0xff}
	draw := pic.Commands()[3].(DrawPathCommand)
	test.T(t, draw.Paint.Color, color.NRGBA{R: 0xff, A: 0xff})
}

func TestPlayback(t *testing.T) {
	rec := NewRecorder(10, 10)
	rec.Save()
	rec.ClipPath(Rect{1, 1, 2, 2}.Path())
	dash := NewStrokePaint()
	dash.Dash = &Dash{Intervals: []float64{1, 2}}
	rec.DrawPath(Rect{0, 0, 5, 5}.Path(), dash)
	rec.DrawText("abc", 1, 2, NewFillPaint())
	rec.Restore()
	pic := rec.FinishRecording()

	target := NewRecorder(10, 10)
	pic.Playback(target)
	test.T(t, commandTypes(target.commands), commandTypes(pic.Commands()))
	test.T(t, target.depth, 0)
}

func TestPaintClone(t *testing.T) {
	p := NewStrokePaint()
	p.Dash = &Dash{Intervals: []float64{1, 2}, Offset: 3}
	c := p.Clone()
	c.Dash.Intervals[0] = 10
	c.StrokeWidth = 5
	test.Float(t, p.Dash.Intervals[0], 1)
	test.Float(t, p.StrokeWidth, 1)
	test.That(t, (*Paint)(nil).Clone() == nil)
}

func TestMeasureText(t *testing.T) {
	p := NewFillPaint()
	w1, err := MeasureText("hello", p)
	test.Error(t, err)
	test.That(t, w1 > 0)

	p.TextSize = 24
	w2, err := MeasureText("hello", p)
	test.Error(t, err)
	test.That(t, w2 > w1*1.9 && w2 < w1*2.1, w1, w2)

	p.Typeface.Family = "Courier New"
	wi, err := MeasureText("i", p)
	test.Error(t, err)
	wm, err := MeasureText("m", p)
	test.Error(t, err)
	test.Float(t, wi, wm) // monospace fallback
}
