package svgdraw

import (
	"image"

	"github.com/benoitkugler/svgpicture/svgpath"
)

// CommandType identifies the type of a recorded command.
type CommandType uint8

const (
	// state commands
	CmdSave      CommandType = iota // Save current state
	CmdSaveLayer                    // Save state and open a layer
	CmdRestore                      // Restore previous state
	CmdConcat                       // Concat a transform
	CmdClipRect                     // Clip to a rectangle
	CmdClipPath                     // Clip to a path

	// drawing commands
	CmdDrawPath  // Fill or stroke a path
	CmdDrawImage // Draw an image
	CmdDrawText  // Draw text
)

var commandTypeNames = [...]string{
	CmdSave:      "Save",
	CmdSaveLayer: "SaveLayer",
	CmdRestore:   "Restore",
	CmdConcat:    "Concat",
	CmdClipRect:  "ClipRect",
	CmdClipPath:  "ClipPath",
	CmdDrawPath:  "DrawPath",
	CmdDrawImage: "DrawImage",
	CmdDrawText:  "DrawText",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is implemented by all the recorded operations.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType

	// replay the command on c
	playTo(c Canvas)
}

// SaveCommand saves the current transform and clip.
type SaveCommand struct{}

// SaveLayerCommand saves the state and opens a group opacity layer.
type SaveLayerCommand struct {
	Alpha uint8
}

// RestoreCommand restores the previously saved state.
type RestoreCommand struct{}

// ConcatCommand multiplies the current transform.
type ConcatCommand struct {
	Matrix svgpath.Matrix2D
}

// ClipRectCommand intersects the clip with a rectangle.
type ClipRectCommand struct {
	Rect Rect
}

// ClipPathCommand intersects the clip with a path.
type ClipPathCommand struct {
	Path svgpath.Path
}

// DrawPathCommand fills or strokes a path.
type DrawPathCommand struct {
	Path  svgpath.Path
	Paint Paint
}

// DrawImageCommand paints an image in a rectangle.
type DrawImageCommand struct {
	Image image.Image
	Dst   Rect
}

// DrawTextCommand paints a text run.
type DrawTextCommand struct {
	Text  string
	X, Y  float64
	Paint Paint
}

func (SaveCommand) Type() CommandType      { return CmdSave }
func (SaveLayerCommand) Type() CommandType { return CmdSaveLayer }
func (RestoreCommand) Type() CommandType   { return CmdRestore }
func (ConcatCommand) Type() CommandType    { return CmdConcat }
func (ClipRectCommand) Type() CommandType  { return CmdClipRect }
func (ClipPathCommand) Type() CommandType  { return CmdClipPath }
func (DrawPathCommand) Type() CommandType  { return CmdDrawPath }
func (DrawImageCommand) Type() CommandType { return CmdDrawImage }
func (DrawTextCommand) Type() CommandType  { return CmdDrawText }

func (SaveCommand) playTo(c Canvas)          { c.Save() }
func (cmd SaveLayerCommand) playTo(c Canvas) { c.SaveLayer(cmd.Alpha) }
func (RestoreCommand) playTo(c Canvas)       { c.Restore() }
func (cmd ConcatCommand) playTo(c Canvas)    { c.Concat(cmd.Matrix) }
func (cmd ClipRectCommand) playTo(c Canvas)  { c.ClipRect(cmd.Rect) }
func (cmd ClipPathCommand) playTo(c Canvas)  { c.ClipPath(cmd.Path) }
func (cmd DrawPathCommand) playTo(c Canvas) {
	paint := cmd.Paint
	c.DrawPath(cmd.Path, &paint)
}
func (cmd DrawImageCommand) playTo(c Canvas) { c.DrawImage(cmd.Image, cmd.Dst) }
func (cmd DrawTextCommand) playTo(c Canvas) {
	paint := cmd.Paint
	c.DrawText(cmd.Text, cmd.X, cmd.Y, &paint)
}
