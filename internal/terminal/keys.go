package terminal

import (
	"bytes"
	"sort"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// escape sequences we recognize. Anything else that looks like a CSI or
// SS3 sequence is consumed and dropped.
var sequences = map[string]tea.KeyType{
	"\x1b[Z":  tea.KeyShiftTab,
	"\x1b[A":  tea.KeyUp,
	"\x1b[B":  tea.KeyDown,
	"\x1b[C":  tea.KeyRight,
	"\x1b[D":  tea.KeyLeft,
	"\x1bOA":  tea.KeyUp,
	"\x1bOB":  tea.KeyDown,
	"\x1bOC":  tea.KeyRight,
	"\x1bOD":  tea.KeyLeft,
	"\x1b[H":  tea.KeyHome,
	"\x1b[F":  tea.KeyEnd,
	"\x1b[1~": tea.KeyHome,
	"\x1b[4~": tea.KeyEnd,
	"\x1b[3~": tea.KeyDelete,
	"\x1b[5~": tea.KeyPgUp,
	"\x1b[6~": tea.KeyPgDown,
}

// sequenceKeys holds the keys of sequences, longest first.
var sequenceKeys = func() []string {
	keys := make([]string, 0, len(sequences))
	for k := range sequences {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// Decode turns raw-mode input bytes into key messages. Control bytes map
// to their tea control key (0x09 is tab, 0x03 is ctrl+c), printable runes
// become one KeyRunes message each. ESC followed by a rune is reported as
// esc and then the rune; no binding uses alt, and a quick Esc then q must
// still quit.
func Decode(b []byte) []tea.KeyMsg {
	keys, _ := decode(b, true)
	return keys
}

// decodePartial is Decode for a stream read in chunks. An escape sequence
// or UTF-8 rune cut off at the end of b is returned undecoded in rest so
// the caller can prepend it to the next read. A lone trailing ESC is the
// Esc key, not a partial sequence.
func decodePartial(b []byte) (keys []tea.KeyMsg, rest []byte) {
	return decode(b, false)
}

func decode(b []byte, final bool) ([]tea.KeyMsg, []byte) {
	keys := []tea.KeyMsg{}
	for len(b) > 0 {
		if b[0] == 0x1b {
			if !final && partialEscape(b) {
				return keys, b
			}
			k, n := decodeEscape(b)
			if n == 0 {
				n = 1
			}
			if k != nil {
				keys = append(keys, *k)
			}
			b = b[n:]
			continue
		}

		if b[0] < 0x20 || b[0] == 0x7f {
			keys = append(keys, tea.KeyMsg{Type: tea.KeyType(b[0])})
			b = b[1:]
			continue
		}

		if !final && !utf8.FullRune(b) {
			return keys, b
		}
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		if r == utf8.RuneError {
			continue
		}
		keys = append(keys, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return keys, nil
}

// partialEscape reports whether b, which starts with ESC, ends before its
// CSI or SS3 sequence is complete.
func partialEscape(b []byte) bool {
	if len(b) < 2 {
		return false
	}
	switch b[1] {
	case '[':
		for i := 2; i < len(b); i++ {
			if b[i] >= 0x40 && b[i] <= 0x7e {
				return false
			}
		}
		return true
	case 'O':
		return len(b) < 3
	}
	return false
}

// decodeEscape handles input starting with ESC. It returns the key (nil
// when the sequence is dropped) and how many bytes were consumed.
func decodeEscape(b []byte) (*tea.KeyMsg, int) {
	if len(b) == 1 {
		return &tea.KeyMsg{Type: tea.KeyEsc}, 1
	}

	for _, seq := range sequenceKeys {
		if bytes.HasPrefix(b, []byte(seq)) {
			return &tea.KeyMsg{Type: sequences[seq]}, len(seq)
		}
	}

	switch b[1] {
	case '[':
		// CSI: parameters, then one final byte in 0x40-0x7e.
		for i := 2; i < len(b); i++ {
			if b[i] >= 0x40 && b[i] <= 0x7e {
				return nil, i + 1
			}
		}
		return nil, len(b)
	case 'O':
		if len(b) >= 3 {
			return nil, 3
		}
		return nil, len(b)
	}

	return &tea.KeyMsg{Type: tea.KeyEsc}, 1
}
