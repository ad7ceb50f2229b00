// CLAUDE:SUMMARY Key name to CDP key event mapping, modifier bitmask constants.
package input

import (
	"strings"
	"unicode"
)

// Modifier bitmask, CDP convention.
const (
	ModAlt   = 1
	ModCtrl  = 2
	ModMeta  = 4
	ModShift = 8
)

// keyDef carries the CDP fields for one key event.
type keyDef struct {
	Key  string // DOM KeyboardEvent.key
	Code string // DOM KeyboardEvent.code
	VK   int    // Windows virtual key code
	Text string // text emitted by the char event, empty for non-printing keys
}

// namedKeys maps caller-facing key names to their CDP definitions.
var namedKeys = map[string]keyDef{
	"enter":      {Key: "Enter", Code: "Enter", VK: 13, Text: "\r"},
	"tab":        {Key: "Tab", Code: "Tab", VK: 9},
	"escape":     {Key: "Escape", Code: "Escape", VK: 27},
	"backspace":  {Key: "Backspace", Code: "Backspace", VK: 8},
	"delete":     {Key: "Delete", Code: "Delete", VK: 46},
	"arrowup":    {Key: "ArrowUp", Code: "ArrowUp", VK: 38},
	"arrowdown":  {Key: "ArrowDown", Code: "ArrowDown", VK: 40},
	"arrowleft":  {Key: "ArrowLeft", Code: "ArrowLeft", VK: 37},
	"arrowright": {Key: "ArrowRight", Code: "ArrowRight", VK: 39},
	"home":       {Key: "Home", Code: "Home", VK: 36},
	"end":        {Key: "End", Code: "End", VK: 35},
	"pageup":     {Key: "PageUp", Code: "PageUp", VK: 33},
	"pagedown":   {Key: "PageDown", Code: "PageDown", VK: 34},
	"space":      {Key: " ", Code: "Space", VK: 32, Text: " "},
}

// LookupKey resolves a key name ("Enter", "ArrowDown", aliases like "esc")
// or a single literal character to its CDP definition.
func LookupKey(name string) (keyDef, bool) {
	lower := strings.ToLower(name)
	switch lower {
	case "esc":
		lower = "escape"
	case "return":
		lower = "enter"
	case "up", "down", "left", "right":
		lower = "arrow" + lower
	}
	if def, ok := namedKeys[lower]; ok {
		return def, true
	}
	runes := []rune(name)
	if len(runes) == 1 {
		return charKey(runes[0]), true
	}
	return keyDef{}, false
}

// charKey builds a best-effort key definition for one printable character.
// Letters and digits get proper codes and virtual key codes; anything else
// still types correctly through the char event's text.
func charKey(r rune) keyDef {
	def := keyDef{Key: string(r), Text: string(r)}
	switch {
	case r >= 'a' && r <= 'z':
		def.Code = "Key" + strings.ToUpper(string(r))
		def.VK = int(unicode.ToUpper(r))
	case r >= 'A' && r <= 'Z':
		def.Code = "Key" + string(r)
		def.VK = int(r)
	case r >= '0' && r <= '9':
		def.Code = "Digit" + string(r)
		def.VK = int(r)
	case r == ' ':
		def.Code = "Space"
		def.VK = 32
	}
	return def
}
