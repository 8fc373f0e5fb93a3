package gcode

import (
	"fmt"
	"strings"
)

// Kind tells whether a Line is a motion command or anything else.
type Kind int

const (
	// KindOther is any line that does not move the tool in work coordinates: blank lines,
	// comments, system commands and non-motion G/M commands.
	KindOther Kind = iota
	// KindMotion is a G0, G1, G2 or G3 command, either explicit or modal.
	KindMotion
)

func (k Kind) String() string {
	switch k {
	case KindOther:
		return "Other"
	case KindMotion:
		return "Motion"
	default:
		panic(fmt.Sprintf("unexpected Kind: %d", int(k)))
	}
}

type comment struct {
	// open holds the opening delimiter plus any leading spaces.
	open string
	text string
	// close holds any trailing spaces plus the closing delimiter.
	close string
}

func newComment(value string) *comment {
	var open, body, close string
	if strings.HasPrefix(value, "(") && strings.HasSuffix(value, ")") {
		open, body, close = "(", value[1:len(value)-1], ")"
	} else {
		open, body = value[:1], value[1:]
	}
	trimmedLeft := strings.TrimLeft(body, " \t")
	open += body[:len(body)-len(trimmedLeft)]
	text := strings.TrimRight(trimmedLeft, " \t\r")
	close = trimmedLeft[len(text):] + close
	return &comment{open: open, text: text, close: close}
}

func (c *comment) String() string {
	return c.open + c.text + c.close
}

// segment is a piece of a line: either a word, a comment or verbatim text.
type segment struct {
	text    string
	word    *Word
	comment *comment
	// checksum marks a "*NN" text segment.
	checksum bool
}

func (s segment) String() string {
	if s.word != nil {
		return s.word.String()
	}
	if s.comment != nil {
		return s.comment.String()
	}
	return s.text
}

// Line is a single parsed line of a program. It keeps every piece of the original text, so that
// String() reproduces it exactly, unless it was mutated with SetArgument or SetComment.
type Line struct {
	// Number is the 1-based line number at the source.
	Number uint
	// Kind tells whether this is a motion command.
	Kind Kind
	// Block holds the parsed block, or nil for lines without one (blank, comment only or program
	// delimiter).
	Block *Block
	// DistanceMode holds the distance mode (G90 / G91) in effect for this line.
	DistanceMode *Word
	segments     []segment
	newLine      string
	// mutated is set once SetArgument or SetComment changes the line.
	mutated bool
}

// IsMotion returns true for motion commands.
func (l *Line) IsMotion() bool {
	return l.Kind == KindMotion
}

// IsIncremental returns true if the line is under incremental distance mode (G91).
func (l *Line) IsIncremental() bool {
	return l.DistanceMode != nil && l.DistanceMode.NormalizedString() == "G91"
}

// Argument returns the number of the argument with given letter, or nil if absent.
func (l *Line) Argument(letter rune) (*float64, error) {
	if l.Block == nil || !l.Block.IsCommand() {
		return nil, nil
	}
	number, err := l.Block.GetArgumentNumber(letter)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", l.Number, err)
	}
	return number, nil
}

// HasArgument returns true if any of the given letters is an argument of the line.
func (l *Line) HasArgument(letters ...rune) bool {
	if l.Block == nil || !l.Block.IsCommand() {
		return false
	}
	for _, letter := range letters {
		if l.Block.HasArgument(letter) {
			return true
		}
	}
	return false
}

// Arguments returns a map of each argument letter to its number.
func (l *Line) Arguments() (map[rune]float64, error) {
	arguments := map[rune]float64{}
	if l.Block == nil || !l.Block.IsCommand() {
		return arguments, nil
	}
	for _, w := range l.Block.Arguments() {
		if _, ok := arguments[w.Letter()]; ok {
			return nil, fmt.Errorf("line %d: %s: multiple arguments for letter %c", l.Number, l.Block, w.Letter())
		}
		arguments[w.Letter()] = w.Number()
	}
	return arguments, nil
}

var axesOrder = map[rune]int{'X': 1, 'Y': 2, 'Z': 3}

// insertionPoint returns the word after which a new argument with given letter should be added:
// the last command, line number or preceding axis word. Nil means before the first word.
func (l *Line) insertionPoint(letter rune) *Word {
	var prev *Word
	for _, w := range l.Block.Words() {
		if w.IsCommand() || w.Letter() == 'N' {
			prev = w
			continue
		}
		if order, ok := axesOrder[w.Letter()]; ok && order < axesOrder[letter] {
			prev = w
		}
	}
	return prev
}

func (l *Line) spaced() bool {
	for _, s := range l.segments {
		if s.word == nil && s.comment == nil && strings.TrimLeft(s.text, " \t") == "" {
			return true
		}
	}
	return false
}

// SetArgument sets the number for the argument with given letter. If the argument is not present,
// a new word is added after the line's commands and preceding axes.
func (l *Line) SetArgument(letter rune, number float64) error {
	if l.Block == nil || !l.Block.IsCommand() {
		return fmt.Errorf("line %d: can't set argument %c for line without command", l.Number, letter)
	}
	set, err := l.Block.SetArgumentNumber(letter, number)
	if err != nil {
		return fmt.Errorf("line %d: %w", l.Number, err)
	}
	l.mutated = true
	if set {
		return nil
	}

	word := NewWord(letter, number)
	prev := l.insertionPoint(letter)
	l.Block.insertWordAfter(prev, word)

	var inserted []segment
	idx := 0
	if prev != nil {
		for i, s := range l.segments {
			if s.word == prev {
				idx = i + 1
				break
			}
		}
		if l.spaced() {
			inserted = append(inserted, segment{text: " "})
		}
		inserted = append(inserted, segment{word: word})
	} else {
		for i, s := range l.segments {
			if s.word != nil {
				idx = i
				break
			}
		}
		inserted = append(inserted, segment{word: word})
		if l.spaced() {
			inserted = append(inserted, segment{text: " "})
		}
	}
	l.segments = append(l.segments[:idx], append(inserted, l.segments[idx:]...)...)
	return nil
}

// Comment returns the text of the first comment of the line, without delimiters and surrounding
// spaces.
func (l *Line) Comment() (string, bool) {
	for _, s := range l.segments {
		if s.comment != nil {
			return s.comment.text, true
		}
	}
	return "", false
}

// SetComment replaces the text of the first comment of the line, keeping its delimiters. If the
// line has no comment, a semicolon comment is appended.
func (l *Line) SetComment(text string) {
	l.mutated = true
	for _, s := range l.segments {
		if s.comment != nil {
			s.comment.text = text
			return
		}
	}
	if len(l.segments) > 0 {
		l.segments = append(l.segments, segment{text: " "})
	}
	l.segments = append(l.segments, segment{comment: &comment{open: "; ", text: text}})
}

// Copy returns a deep copy of the line: mutating the copy does not affect the original.
func (l *Line) Copy() *Line {
	nl := *l
	words := map[*Word]*Word{}
	nl.segments = make([]segment, len(l.segments))
	for i, s := range l.segments {
		if s.word != nil {
			nw := s.word.Copy()
			words[s.word] = nw
			s.word = nw
		}
		if s.comment != nil {
			c := *s.comment
			s.comment = &c
		}
		nl.segments[i] = s
	}
	if l.Block != nil {
		nl.Block = l.Block.copyWith(words)
	}
	return &nl
}

// String returns the line text, without the trailing new line. Once the line is mutated, its
// checksum, if any, is recomputed as the XOR of all bytes before it.
func (l *Line) String() string {
	var b strings.Builder
	for _, s := range l.segments {
		if s.checksum && l.mutated {
			fmt.Fprintf(&b, "*%d", checksum(b.String()))
			continue
		}
		b.WriteString(s.String())
	}
	return b.String()
}

func checksum(s string) byte {
	var sum byte
	for i := 0; i < len(s); i++ {
		sum ^= s[i]
	}
	return sum
}

// NewLine returns the new line sequence that terminated the line at the source, which is empty
// for a last line without one.
func (l *Line) NewLine() string {
	return l.newLine
}
