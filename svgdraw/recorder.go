package svgdraw

import (
	"image"

	"github.com/benoitkugler/svgpicture/svgpath"
)

var _ Canvas = (*Recorder)(nil) // assert interface conformance

// Recorder is a Canvas capturing the drawing operations
// as typed commands.
type Recorder struct {
	width, height float64
	commands      []Command
	depth         int // number of pending Save and SaveLayer
}

// NewRecorder creates a new Recorder for a canvas with the given dimensions.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{
		width:    width,
		height:   height,
		commands: make([]Command, 0, 64),
	}
}

// FinishRecording returns an immutable Picture containing all the recorded commands.
// Pending Save calls are closed.
// After calling FinishRecording, the Recorder should not be used again.
func (r *Recorder) FinishRecording() *Picture {
	for ; r.depth > 0; r.depth-- {
		r.commands = append(r.commands, RestoreCommand{})
	}
	return &Picture{width: r.width, height: r.height, commands: r.commands}
}

// Save implements Canvas.
func (r *Recorder) Save() {
	r.depth++
	r.commands = append(r.commands, SaveCommand{})
}

// SaveLayer implements Canvas.
func (r *Recorder) SaveLayer(alpha uint8) {
	r.depth++
	r.commands = append(r.commands, SaveLayerCommand{Alpha: alpha})
}

// Restore implements Canvas.
// If there is no pending Save, this is a no-op.
func (r *Recorder) Restore() {
	if r.depth == 0 {
		return
	}
	r.depth--
	r.commands = append(r.commands, RestoreCommand{})
}

// Concat implements Canvas.
func (r *Recorder) Concat(m svgpath.Matrix2D) {
	r.commands = append(r.commands, ConcatCommand{Matrix: m})
}

// ClipRect implements Canvas.
func (r *Recorder) ClipRect(rect Rect) {
	r.commands = append(r.commands, ClipRectCommand{Rect: rect})
}

// ClipPath implements Canvas.
func (r *Recorder) ClipPath(p svgpath.Path) {
	r.commands = append(r.commands, ClipPathCommand{Path: p.Copy()})
}

// DrawPath implements Canvas.
func (r *Recorder) DrawPath(p svgpath.Path, paint *Paint) {
	r.commands = append(r.commands, DrawPathCommand{Path: p.Copy(), Paint: *paint.Clone()})
}

// DrawImage implements Canvas.
func (r *Recorder) DrawImage(img image.Image, dst Rect) {
	r.commands = append(r.commands, DrawImageCommand{Image: img, Dst: dst})
}

// DrawText implements Canvas.
func (r *Recorder) DrawText(text string, x, y float64, paint *Paint) {
	r.commands = append(r.commands, DrawTextCommand{Text: text, X: x, Y: y, Paint: *paint.Clone()})
}

// MeasureText implements Canvas, using the Go fonts.
func (r *Recorder) MeasureText(text string, paint *Paint) float64 {
	w, err := MeasureText(text, paint)
	if err != nil {
		return 0
	}
	return w
}

// Picture is an immutable list of drawing commands.
// It is safe to replay it concurrently.
type Picture struct {
	width, height float64
	commands      []Command
}

// Width returns the width of the picture canvas.
func (p *Picture) Width() float64 { return p.width }

// Height returns the height of the picture canvas.
func (p *Picture) Height() float64 { return p.height }

// Commands returns the recorded commands. The slice must not be modified.
func (p *Picture) Commands() []Command { return p.commands }

// Playback replays the picture on the given canvas.
func (p *Picture) Playback(c Canvas) {
	for _, cmd := range p.commands {
		cmd.playTo(c)
	}
}
