// Package visdebug implements a minimal Gio-based live view of the fleet:
// a top-down projection of buildings, the depot, and every agent colored
// by task type, redrawn from the latest snapshot pushed to a Board. It is the
// debug-only counterpart to internal/vis's full MAPF-HET visualizer,
// scaled down to what one running match needs to be watched rather than
// replayed.
package visdebug

import (
	"image"
	"image/color"
	"strconv"
	"sync"

	"gioui.org/app"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/uav-fleet-controller/internal/model"
)

// AgentSnapshot is one agent's position and task for a single tick.
type AgentSnapshot struct {
	No       int
	Loc      model.Coordinate
	TaskType model.TaskType
}

// Snapshot is the full board state for one tick, pushed by the scheduler
// loop to the visualizer through a Board.
type Snapshot struct {
	Tick      int
	MapRangeX int
	MapRangeY int
	Parking   model.Coordinate
	Buildings []model.Box
	Agents    []AgentSnapshot
}

// Board holds the latest snapshot under a mutex; Run's frame loop reads it
// on every paint, the feeder goroutine writes it on every tick.
type Board struct {
	mu       sync.Mutex
	snapshot Snapshot
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Push replaces the board's current snapshot.
func (b *Board) Push(s Snapshot) {
	b.mu.Lock()
	b.snapshot = s
	b.mu.Unlock()
}

func (b *Board) current() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot
}

var taskColors = map[model.TaskType]color.NRGBA{
	model.NoTask:        {R: 140, G: 140, B: 140, A: 255},
	model.ToRandomPoint:  {R: 90, G: 160, B: 220, A: 255},
	model.ToCharge:       {R: 230, G: 200, B: 60, A: 255},
	model.AttackEnemy:    {R: 220, G: 70, B: 70, A: 255},
	model.ToGoodsEnd:     {R: 70, G: 200, B: 110, A: 255},
	model.ToGoodsStart:   {R: 70, G: 150, B: 200, A: 255},
}

// Run starts the window event loop. It returns when the window closes.
func Run(w *app.Window, board *Board) error {
	th := material.NewTheme()
	var ops op.Ops

	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			paint.Fill(gtx.Ops, color.NRGBA{R: 20, G: 20, B: 24, A: 255})
			drawBoard(gtx, th, board.current())
			e.Frame(gtx.Ops)
			w.Invalidate()
		}
	}
}

func drawBoard(gtx layout.Context, th *material.Theme, snap Snapshot) {
	if snap.MapRangeX <= 0 || snap.MapRangeY <= 0 {
		return
	}
	size := gtx.Constraints.Max
	cellW := float32(size.X) / float32(snap.MapRangeX+1)
	cellH := float32(size.Y) / float32(snap.MapRangeY+1)

	toScreen := func(c model.Coordinate) (float32, float32) {
		return float32(c.X) * cellW, float32(c.Y) * cellH
	}

	for _, b := range snap.Buildings {
		x0, y0 := float32(b.X1)*cellW, float32(b.Y1)*cellH
		x1, y1 := (float32(b.X2)+1)*cellW, (float32(b.Y2)+1)*cellH
		drawRect(gtx, x0, y0, x1, y1, color.NRGBA{R: 80, G: 80, B: 90, A: 255})
	}

	px, py := toScreen(snap.Parking)
	drawRect(gtx, px, py, px+cellW, py+cellH, color.NRGBA{R: 200, G: 160, B: 60, A: 200})

	for _, a := range snap.Agents {
		cx, cy := toScreen(a.Loc)
		col, ok := taskColors[a.TaskType]
		if !ok {
			col = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		}
		drawDot(gtx, cx+cellW/2, cy+cellH/2, minF(cellW, cellH)/2.2, col)
	}

	label := material.Caption(th, tickLabel(snap.Tick))
	label.Color = color.NRGBA{R: 230, G: 230, B: 230, A: 255}
	layout.Inset{Top: unit.Dp(4), Left: unit.Dp(4)}.Layout(gtx, label.Layout)
}

func drawRect(gtx layout.Context, x0, y0, x1, y1 float32, col color.NRGBA) {
	rect := image.Rect(int(x0), int(y0), int(x1), int(y1))
	paint.FillShape(gtx.Ops, col, clip.Rect(rect).Op())
}

func drawDot(gtx layout.Context, cx, cy, radius float32, col color.NRGBA) {
	rect := image.Rect(int(cx-radius), int(cy-radius), int(cx+radius), int(cy+radius))
	paint.FillShape(gtx.Ops, col, clip.Ellipse(rect).Op(gtx.Ops))
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func tickLabel(tick int) string {
	return "tick " + strconv.Itoa(tick)
}
