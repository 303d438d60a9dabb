package tui

import (
	"testing"

	"github.com/verte-zerg/adaptype/internal/charset"
)

func glyphs(s string) []charset.Glyph {
	out := []charset.Glyph{}
	for _, r := range s {
		kind := charset.KindNormal
		switch {
		case r == ' ':
			kind = charset.KindSpace
		case r < 0x20:
			kind = charset.KindControl
		case r > 0x7f:
			kind = charset.KindAccented
		}
		out = append(out, charset.Glyph{Char: r, Kind: kind})
	}
	return out
}

func TestBuildCellsCursor(t *testing.T) {
	cells := buildCells(glyphs("ab"), 1)
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}
	if cells[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first cell")
	}
	if cells[1].s != pendingStyle.Underline(true).Render("b") {
		t.Fatalf("expected cursor style for second cell")
	}
}

func TestBuildCellsNoCursorWhenComplete(t *testing.T) {
	cells := buildCells(glyphs("a"), 1)
	if cells[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for completed cell")
	}
}

func TestBuildCellsKinds(t *testing.T) {
	cells := buildCells(glyphs("\x05 å"), 0)
	if cells[0].width != 2 {
		t.Fatalf("expected control label width 2, got %d", cells[0].width)
	}
	if cells[0].s != controlStyle.Underline(true).Render("^E") {
		t.Fatalf("expected control label with cursor: %q", cells[0].s)
	}
	if !cells[1].isSpace || cells[1].s != labelStyle.Render(spaceMark) {
		t.Fatalf("expected visible pending space")
	}
	if cells[2].s != accentedStyle.Render("å") {
		t.Fatalf("expected accented style")
	}
}

func TestBuildCellsTypedSpaceIsBlank(t *testing.T) {
	cells := buildCells(glyphs("a b"), 2)
	if cells[1].s != correctStyle.Render(" ") {
		t.Fatalf("expected typed space to render blank")
	}
}

func TestWrapCellsBreaksAfterSpace(t *testing.T) {
	cells := buildCells(glyphs("ab cd ef"), 0)
	rows := wrapCells(cells, 4)
	want := []span{{0, 3}, {3, 6}, {6, 8}}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %v", len(want), rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("row %d: expected %v, got %v", i, want[i], rows[i])
		}
	}
}

func TestWrapCellsHardBreakWithoutSpace(t *testing.T) {
	cells := buildCells(glyphs("abcdefg"), 0)
	rows := wrapCells(cells, 3)
	want := []span{{0, 3}, {3, 6}, {6, 7}}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %v", len(want), rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("row %d: expected %v, got %v", i, want[i], rows[i])
		}
	}
}

func TestWrapCellsNoWidth(t *testing.T) {
	rows := wrapCells(buildCells(glyphs("abc"), 0), 0)
	if len(rows) != 1 || rows[0] != (span{0, 3}) {
		t.Fatalf("expected single row, got %v", rows)
	}
}
