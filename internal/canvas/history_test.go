package canvas

import (
	"image"
	"slices"
	"testing"
)

func snapshot(c *Canvas) []Color {
	out := make([]Color, c.Width()*c.Height())
	for i := range out {
		out[i] = c.Pixel(i)
	}
	return out
}

func stroke(c *Canvas, pts ...image.Point) {
	c.BeginStroke()
	prev := pts[0]
	for _, p := range pts {
		c.Draw(prev, p)
		prev = p
	}
	c.EndStroke()
}

func TestStrokeDedupKeepsFirstBeforeLastAfter(t *testing.T) {
	s := Stroke{
		{Index: 5, Before: 1, After: 2},
		{Index: 3, Before: 7, After: 8},
		{Index: 5, Before: 2, After: 3},
	}
	got := s.Dedup()
	want := Stroke{
		{Index: 3, Before: 7, After: 8},
		{Index: 5, Before: 1, After: 3},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestUndoRestoresPreStroke(t *testing.T) {
	c := New(40, 30, WithBrushSize(4))
	before := snapshot(c)
	stroke(c, image.Pt(2, 2), image.Pt(30, 20), image.Pt(5, 25))
	if slices.Equal(before, snapshot(c)) {
		t.Fatal("stroke did not paint anything")
	}
	if !c.Undo() {
		t.Fatal("undo reported nothing to undo")
	}
	if !slices.Equal(before, snapshot(c)) {
		t.Fatal("undo did not restore pre-stroke pixels")
	}
}

func TestUndoRedoIdempotent(t *testing.T) {
	c := New(32, 32, WithBrushSize(3))
	stroke(c, image.Pt(1, 1), image.Pt(20, 5))
	stroke(c, image.Pt(10, 0), image.Pt(10, 31))
	c.Undo()
	afterUndo := snapshot(c)
	c.Redo()
	c.Undo()
	if !slices.Equal(afterUndo, snapshot(c)) {
		t.Fatal("undo/redo/undo drifted")
	}
}

func TestRedoRestoresAfterKUndos(t *testing.T) {
	c := New(50, 50, WithBrushSize(2))
	paths := [][]image.Point{
		{image.Pt(0, 0), image.Pt(49, 49)},
		{image.Pt(49, 0), image.Pt(0, 49)},
		{image.Pt(25, 0), image.Pt(25, 49)},
		{image.Pt(0, 25), image.Pt(49, 25)},
	}
	for _, p := range paths {
		stroke(c, p...)
	}
	final := snapshot(c)
	for k := 0; k <= len(paths); k++ {
		for i := 0; i < k; i++ {
			c.Undo()
		}
		for i := 0; i < k; i++ {
			c.Redo()
		}
		if !slices.Equal(final, snapshot(c)) {
			t.Fatalf("k=%d: redo did not restore final state", k)
		}
	}
}

func TestNewStrokeClearsRedo(t *testing.T) {
	c := New(20, 20)
	stroke(c, image.Pt(1, 1), image.Pt(10, 10))
	c.Undo()
	if !c.History().CanRedo() {
		t.Fatal("expected redo to be available")
	}
	stroke(c, image.Pt(5, 1), image.Pt(5, 15))
	if c.Redo() {
		t.Fatal("redo should be a no-op after a new stroke")
	}
}

func TestEmptyStrokeNotPushed(t *testing.T) {
	c := New(10, 10)
	c.BeginStroke()
	if c.EndStroke() {
		t.Fatal("empty stroke was pushed")
	}
	if done, undone := c.History().Depth(); done != 0 || undone != 0 {
		t.Fatalf("depth = %d,%d", done, undone)
	}
}

func TestUndoOnEmptyHistory(t *testing.T) {
	c := New(4, 4)
	before := snapshot(c)
	if c.Undo() || c.Redo() {
		t.Fatal("expected no-ops on empty history")
	}
	if !slices.Equal(before, snapshot(c)) {
		t.Fatal("raster changed")
	}
}

func TestHistoryClear(t *testing.T) {
	c := New(10, 10)
	stroke(c, image.Pt(0, 0), image.Pt(9, 9))
	c.BeginStroke()
	c.Draw(image.Pt(0, 9), image.Pt(9, 0))
	c.ClearHistory()
	if c.Drawing() || c.History().CanUndo() || c.History().CanRedo() {
		t.Fatal("history not cleared")
	}
}
