package core

import (
	"strings"
	"testing"
	"time"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	// Check that it's initialized with spaces
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Errorf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, 'X')
	if s.Get(5, 5) != 'X' {
		t.Errorf("Get(5, 5) = %q, expected 'X'", s.Get(5, 5))
	}

	// Out of bounds should be silent
	s.Set(-1, 0, 'A')  // Should not panic
	s.Set(100, 0, 'A') // Should not panic
	s.Set(0, -1, 'A')  // Should not panic
	s.Set(0, 100, 'A') // Should not panic

	// Out of bounds get should return space
	if s.Get(-1, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
	if s.Get(100, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(10, 10)

	// Fill with some characters
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			s.Set(x, y, 'X')
		}
	}

	s.Clear()

	// Should all be spaces now
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if s.Get(x, y) != ' ' {
				t.Errorf("After Clear, expected space at (%d, %d), got %q", x, y, s.Get(x, y))
			}
		}
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawText(2, 1, "Hello")

	expected := "Hello"
	for i, ch := range expected {
		if s.Get(2+i, 1) != ch {
			t.Errorf("DrawText: expected %q at (%d, 1), got %q", ch, 2+i, s.Get(2+i, 1))
		}
	}

	// Text should be clipped at boundaries
	s.DrawText(18, 0, "Hello") // Only "He" should fit
	if s.Get(18, 0) != 'H' || s.Get(19, 0) != 'e' {
		t.Error("Text should be clipped at right boundary")
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(20, 5)
	text := "Hi"
	s.DrawTextCentered(2, text)

	// "Hi" is 2 chars, centered in 20 chars should start at position 9
	x := (20 - 2) / 2
	if s.Get(x, 2) != 'H' || s.Get(x+1, 2) != 'i' {
		t.Errorf("DrawTextCentered failed, text not at expected position")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	r := NewRect(1, 1, 5, 4)
	s.DrawBox(r)

	// Check corners
	if s.Get(1, 1) != '┌' {
		t.Errorf("Top-left corner should be '┌', got %q", s.Get(1, 1))
	}
	if s.Get(5, 1) != '┐' {
		t.Errorf("Top-right corner should be '┐', got %q", s.Get(5, 1))
	}
	if s.Get(1, 4) != '└' {
		t.Errorf("Bottom-left corner should be '└', got %q", s.Get(1, 4))
	}
	if s.Get(5, 4) != '┘' {
		t.Errorf("Bottom-right corner should be '┘', got %q", s.Get(5, 4))
	}

	// Check horizontal edges
	for x := 2; x < 5; x++ {
		if s.Get(x, 1) != '─' {
			t.Errorf("Top edge should be '─' at x=%d, got %q", x, s.Get(x, 1))
		}
		if s.Get(x, 4) != '─' {
			t.Errorf("Bottom edge should be '─' at x=%d, got %q", x, s.Get(x, 4))
		}
	}

	// Check vertical edges
	for y := 2; y < 4; y++ {
		if s.Get(1, y) != '│' {
			t.Errorf("Left edge should be '│' at y=%d, got %q", y, s.Get(1, y))
		}
		if s.Get(5, y) != '│' {
			t.Errorf("Right edge should be '│' at y=%d, got %q", y, s.Get(5, y))
		}
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawText(0, 0, "AAAAA")
	s.DrawText(0, 1, "BBBBB")
	s.DrawText(0, 2, "CCCCC")

	result := s.String()
	expected := "AAAAA\nBBBBB\nCCCCC"

	if result != expected {
		t.Errorf("String() = %q, expected %q", result, expected)
	}
}

func TestScreenRow(t *testing.T) {
	s := NewScreen(10, 5)
	s.DrawText(0, 2, "Test")

	row := s.Row(2)
	if !strings.HasPrefix(row, "Test") {
		t.Errorf("Row(2) should start with 'Test', got %q", row)
	}
	if len(row) != 10 {
		t.Errorf("Row length should be 10, got %d", len(row))
	}

	// Out of bounds row
	outOfBounds := s.Row(-1)
	if outOfBounds != "          " {
		t.Errorf("Out of bounds row should be spaces, got %q", outOfBounds)
	}
}

func TestScreenDrawIconTransparency(t *testing.T) {
	s := NewScreen(6, 3)
	s.DrawText(0, 0, "......")
	s.DrawText(0, 1, "......")

	icon := NewIcon(ColorRed, "A B", " C ")
	s.DrawIcon(1, 0, icon)

	if s.Get(1, 0) != 'A' || s.Get(3, 0) != 'B' {
		t.Errorf("Row 0 = %q, expected icon runes at 1 and 3", s.Row(0))
	}
	if s.Get(2, 0) != '.' {
		t.Errorf("Space in icon should be transparent, got %q", s.Get(2, 0))
	}
	if s.Get(2, 1) != 'C' || s.Get(1, 1) != '.' {
		t.Errorf("Row 1 = %q, expected \".C\" around x=1..2", s.Row(1))
	}
	if c := s.GetCell(1, 0); c.Color != ColorRed {
		t.Errorf("Icon color = %v, expected red", c.Color)
	}
}

func TestScreenDrawIconUsesPen(t *testing.T) {
	s := NewScreen(4, 2)
	s.SetColor(ColorYellow)
	s.DrawIcon(0, 0, NewIcon(ColorDefault, "##"))

	if c := s.GetCell(0, 0); c.Color != ColorYellow {
		t.Errorf("Uncolored icon should take pen color, got %v", c.Color)
	}

	s.Clear()
	if c := s.GetCell(0, 0); c.Rune != ' ' || c.Color != ColorDefault {
		t.Errorf("Clear should reset cells, got %+v", c)
	}
}

func TestScreenDrawIconClipped(t *testing.T) {
	s := NewScreen(3, 2)
	// Partially off-screen in every direction, must not panic
	s.DrawIcon(-1, -1, NewIcon(ColorDefault, "abcde", "fghij", "klmno"))

	if s.Get(0, 0) != 'g' {
		t.Errorf("Expected clipped icon to show 'g' at origin, got %q", s.Get(0, 0))
	}
	if s.Get(2, 1) != 'n' {
		t.Errorf("Expected 'n' at (2, 1), got %q", s.Get(2, 1))
	}
}

func TestAnimationAdvancesWithClock(t *testing.T) {
	now := time.Unix(0, 0)
	a := &Animation{
		Frames:   []*Icon{NewIcon(ColorDefault, "1"), NewIcon(ColorDefault, "2"), NewIcon(ColorDefault, "3")},
		Interval: 100 * time.Millisecond,
		now:      func() time.Time { return now },
	}
	a.Start()

	tests := []struct {
		elapsed  time.Duration
		expected string
	}{
		{0, "1"},
		{99 * time.Millisecond, "1"},
		{100 * time.Millisecond, "2"},
		{250 * time.Millisecond, "3"},
		{300 * time.Millisecond, "1"}, // wraps around
	}

	for _, tc := range tests {
		now = time.Unix(0, 0).Add(tc.elapsed)
		got := a.Current().Rows[0]
		if got != tc.expected {
			t.Errorf("Current() after %v = %q, expected %q", tc.elapsed, got, tc.expected)
		}
	}

	s := NewScreen(2, 1)
	now = time.Unix(0, 0).Add(120 * time.Millisecond)
	s.DrawAnimation(0, 0, a)
	if s.Get(0, 0) != '2' {
		t.Errorf("DrawAnimation drew %q, expected current frame '2'", s.Get(0, 0))
	}
}
