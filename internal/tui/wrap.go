package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/adaptype/internal/charset"
)

// spaceMark makes pending spaces visible.
const spaceMark = "·"

type cell struct {
	s       string
	width   int
	isSpace bool
}

func buildCells(line []charset.Glyph, cursor int) []cell {
	out := make([]cell, 0, len(line))
	for i, g := range line {
		text, style := glyphText(g)
		if i < cursor {
			style = correctStyle
			if g.Kind == charset.KindSpace {
				text = " "
			}
		}
		if i == cursor {
			style = style.Underline(true)
		}
		out = append(out, cell{
			s:       style.Render(text),
			width:   runewidth.StringWidth(text),
			isSpace: g.Kind == charset.KindSpace,
		})
	}
	return out
}

func glyphText(g charset.Glyph) (string, lipgloss.Style) {
	switch g.Kind {
	case charset.KindSpace:
		return spaceMark, labelStyle
	case charset.KindControl:
		return charset.Label(g.Char), controlStyle
	case charset.KindAccented:
		return string(g.Char), accentedStyle
	default:
		return string(g.Char), pendingStyle
	}
}

type span struct {
	start int
	end   int
}

// wrapCells splits cells into rows of at most width columns, breaking after
// the last space when one is available. Spaces stay on the row they end so
// every cell keeps a screen position.
func wrapCells(cells []cell, width int) []span {
	if width <= 0 {
		return []span{{0, len(cells)}}
	}
	var rows []span
	start, lineWidth, lastSpace := 0, 0, -1
	for i := 0; i < len(cells); {
		item := cells[i]
		if lineWidth+item.width > width && i > start {
			end := i
			if lastSpace >= start {
				end = lastSpace + 1
			}
			rows = append(rows, span{start, end})
			start = end
			lineWidth = widthOf(cells[start:i])
			lastSpace = lastSpaceIndex(cells, start, i)
			continue
		}
		lineWidth += item.width
		if item.isSpace {
			lastSpace = i
		}
		i++
	}
	return append(rows, span{start, len(cells)})
}

func renderCells(cells []cell) string {
	var b strings.Builder
	for _, item := range cells {
		b.WriteString(item.s)
	}
	return b.String()
}

func widthOf(cells []cell) int {
	total := 0
	for _, item := range cells {
		total += item.width
	}
	return total
}

func lastSpaceIndex(cells []cell, start, end int) int {
	for i := end - 1; i >= start; i-- {
		if cells[i].isSpace {
			return i
		}
	}
	return -1
}
