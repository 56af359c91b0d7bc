package entity

import (
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestRenderItemLinesFoldsAlternatives(t *testing.T) {
	items := []RequestItem{
		{ID: "a", Brand: "Lenovo", Model: "T480", Amount: 5},
		{ID: "b", Brand: "Dell", Model: "E7450", Amount: 5, AlternativeFor: strPtr("a")},
		{ID: "c", Brand: "HP", Model: "840", Amount: 5, AlternativeFor: strPtr("b")},
		{ID: "d", Brand: "Epson", Model: "ET-2720", Amount: 1, UpTo: true},
	}

	lines := RenderItemLines(items)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "5x Lenovo T480 or 5x Dell E7450 or 5x HP 840" {
		t.Errorf("unexpected chain line: %q", lines[0])
	}
	if lines[1] != "up to 1x Epson ET-2720" {
		t.Errorf("unexpected up-to line: %q", lines[1])
	}
}

func TestRenderItemLinesTerminatesOnCycle(t *testing.T) {
	// b substitutes a and a substitutes b. The renderer must not loop.
	items := []RequestItem{
		{ID: "a", Brand: "Lenovo", Model: "T480", Amount: 2, AlternativeFor: strPtr("b")},
		{ID: "b", Brand: "Dell", Model: "E7450", Amount: 2, AlternativeFor: strPtr("a")},
		{ID: "c", Brand: "HP", Model: "840", Amount: 1},
	}

	lines := RenderItemLines(items)
	if len(lines) != 1 {
		t.Fatalf("expected only the cycle-free line, got %v", lines)
	}
	if lines[0] != "1x HP 840" {
		t.Errorf("unexpected line: %q", lines[0])
	}
}

func TestChangeLogEntryRendersHeaderAndItems(t *testing.T) {
	request := &Request{
		Goal: "School lab",
		Items: []RequestItem{
			{ID: "a", Brand: "Lenovo", Model: "T480", Amount: 5},
		},
	}
	entry := request.ChangeLogEntry()
	if !strings.HasPrefix(entry, "School lab\n") {
		t.Errorf("entry should start with the goal: %q", entry)
	}
	if !strings.Contains(entry, "- 5x Lenovo T480\n") {
		t.Errorf("entry should list the item: %q", entry)
	}
}

func TestItemStringFallsBackToType(t *testing.T) {
	item := RequestItem{Type: ItemTypeHardware, Amount: 3}
	if got := item.String(); got != "3x hardware" {
		t.Errorf("got %q", got)
	}
}
