// Package notes turns a transcript into a short summary and structured
// sticky-note study points via the remote chat-completion endpoint.
package notes

import "strings"

// NoteType categorizes a sticky note. The extraction prompt enumerates these
// and anything else coming back from the model is coerced to TypeImportant.
type NoteType string

const (
	TypeExam       NoteType = "exam"
	TypeDeadline   NoteType = "deadline"
	TypeFormula    NoteType = "formula"
	TypeDefinition NoteType = "definition"
	TypeImportant  NoteType = "important"
	TypeReminder   NoteType = "reminder"
	TypeTask       NoteType = "task"
	TypeFocus      NoteType = "focus"
	TypeTodo       NoteType = "todo"
	TypeTip        NoteType = "tip"
)

// NoteColor is the display color of a sticky note.
type NoteColor string

const (
	ColorYellow NoteColor = "yellow"
	ColorPink   NoteColor = "pink"
	ColorBlue   NoteColor = "blue"
	ColorGreen  NoteColor = "green"
	ColorOrange NoteColor = "orange"
	ColorPurple NoteColor = "purple"
)

// Priority ranks a sticky note.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// maxContentWords caps sticky-note content length. Notes over the cap are
// dropped, never truncated: a clipped study note is worse than no note.
const maxContentWords = 15

// StickyNote is one extracted study point.
type StickyNote struct {
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Type     NoteType  `json:"type"`
	Color    NoteColor `json:"color"`
	Priority Priority  `json:"priority"`
}

var validTypes = map[NoteType]bool{
	TypeExam: true, TypeDeadline: true, TypeFormula: true, TypeDefinition: true,
	TypeImportant: true, TypeReminder: true, TypeTask: true, TypeFocus: true,
	TypeTodo: true, TypeTip: true,
}

var validColors = map[NoteColor]bool{
	ColorYellow: true, ColorPink: true, ColorBlue: true,
	ColorGreen: true, ColorOrange: true, ColorPurple: true,
}

var validPriorities = map[Priority]bool{
	PriorityHigh: true, PriorityMedium: true, PriorityLow: true,
}

// sanitize coerces out-of-enum fields to their defaults. Unknown JSON fields
// were already discarded during decoding.
func sanitize(n StickyNote) StickyNote {
	if !validTypes[n.Type] {
		n.Type = TypeImportant
	}
	if !validColors[n.Color] {
		n.Color = ColorYellow
	}
	if !validPriorities[n.Priority] {
		n.Priority = PriorityMedium
	}
	return n
}

// withinWordLimit reports whether a note's content fits the word cap.
func withinWordLimit(n StickyNote) bool {
	return len(strings.Fields(n.Content)) <= maxContentWords
}
