package term

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Canvas is a grid of styled cells.
type Canvas interface {
	SetCell(x, y int, r rune, style tcell.Style)
	Size() (width, height int)
	Clear()
	Show()
}

type screenCanvas struct {
	screen tcell.Screen
}

func (c screenCanvas) SetCell(x, y int, r rune, style tcell.Style) {
	c.screen.SetContent(x, y, r, nil, style)
}

func (c screenCanvas) Size() (int, int) { return c.screen.Size() }
func (c screenCanvas) Clear()           { c.screen.Clear() }
func (c screenCanvas) Show()            { c.screen.Show() }

type cell struct {
	r     rune
	style tcell.Style
}

// Buffer is an in-memory Canvas. Tests render into it and compare String
// output against golden files.
type Buffer struct {
	width, height int
	cells         []cell
	shows         int
}

// NewBuffer creates a blank buffer.
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Resize discards the contents and changes the size.
func (b *Buffer) Resize(width, height int) {
	b.width, b.height = width, height
	b.cells = make([]cell, width*height)
	b.Clear()
}

func (b *Buffer) SetCell(x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	b.cells[y*b.width+x] = cell{r: r, style: style}
}

func (b *Buffer) Size() (int, int) { return b.width, b.height }

func (b *Buffer) Clear() {
	for i := range b.cells {
		b.cells[i] = cell{r: ' ', style: tcell.StyleDefault}
	}
}

// Show counts frames; the buffer has nothing to flush.
func (b *Buffer) Show() { b.shows++ }

// Shows returns how many times Show was called.
func (b *Buffer) Shows() int { return b.shows }

// Cell returns the rune and style at (x, y).
func (b *Buffer) Cell(x, y int) (rune, tcell.Style) {
	c := b.cells[y*b.width+x]
	return c.r, c.style
}

// String returns the buffer's text, one line per row, with trailing spaces
// removed. Continuation cells of wide runes are skipped.
func (b *Buffer) String() string {
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		var row strings.Builder
		for x := 0; x < b.width; x++ {
			if r := b.cells[y*b.width+x].r; r != 0 {
				row.WriteRune(r)
			}
		}
		sb.WriteString(strings.TrimRight(row.String(), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// DrawText writes s starting at (x, y), clipped to the canvas width, and
// returns the number of columns used. Wide runes take two columns.
func DrawText(c Canvas, x, y int, s string, style tcell.Style) int {
	width, _ := c.Size()
	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > width {
			break
		}
		c.SetCell(col, y, r, style)
		for i := 1; i < w; i++ {
			c.SetCell(col+i, y, 0, style)
		}
		col += w
	}
	return col - x
}

// TextWidth returns the number of columns s occupies.
func TextWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Fill sets every cell of the rectangle to r.
func Fill(c Canvas, x, y, w, h int, r rune, style tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			c.SetCell(col, row, r, style)
		}
	}
}

// Frame draws a single-line border around the rectangle with an optional
// title on the top edge.
func Frame(c Canvas, x, y, w, h int, title string, style tcell.Style) {
	if w < 2 || h < 2 {
		return
	}
	right, bottom := x+w-1, y+h-1
	for col := x + 1; col < right; col++ {
		c.SetCell(col, y, '─', style)
		c.SetCell(col, bottom, '─', style)
	}
	for row := y + 1; row < bottom; row++ {
		c.SetCell(x, row, '│', style)
		c.SetCell(right, row, '│', style)
	}
	c.SetCell(x, y, '┌', style)
	c.SetCell(right, y, '┐', style)
	c.SetCell(x, bottom, '└', style)
	c.SetCell(right, bottom, '┘', style)
	if title != "" && w > 4 {
		DrawText(clip{c, right}, x+2, y, " "+title+" ", style)
	}
}

// clip limits a canvas to columns before maxX.
type clip struct {
	Canvas
	maxX int
}

func (c clip) Size() (int, int) {
	_, h := c.Canvas.Size()
	return c.maxX, h
}
