package gcode

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"unicode"

	iFmt "github.com/fornellas/gxform/internal/fmt"
)

// ArgumentDecimals is the number of decimal places used when serializing mutated arguments.
const ArgumentDecimals = 4

// Word may either give a command or provide an argument to a command.
type Word struct {
	letter rune
	number float64
	// The original string that declared this word. This is used to avoid parsing / serializing
	// upper/lowercase letters or float point representation differences, for consistency on output.
	originalStr *string
	// text holds the value of quoted string parameters, which have no number.
	text *string
}

// NewWord creates a Word from given letter and number.
// letter must be capitalised, or it'll panic.
func NewWord(letter rune, number float64) *Word {
	if letter < 'A' || letter > 'Z' {
		panic(fmt.Sprintf("bug: attempting to create word with letter not between A-Z: %c", letter))
	}
	return &Word{letter: letter, number: number}
}

// NewWordParse creates a Word from given letter and a raw number string.
func NewWordParse(letter rune, number string) (*Word, error) {
	return newWordParse(letter, number, string(letter)+number)
}

func newWordParse(letter rune, number, originalStr string) (*Word, error) {
	parsedNumber, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return nil, err
	}
	return &Word{letter: unicode.ToUpper(letter), number: parsedNumber, originalStr: &originalStr}, nil
}

func newWordText(letter rune, text, originalStr string) *Word {
	return &Word{letter: unicode.ToUpper(letter), text: &text, originalStr: &originalStr}
}

func (w *Word) Letter() rune {
	return w.letter
}

func (w *Word) Number() float64 {
	return w.number
}

// Text returns the quoted value of a string parameter, including the quotes.
func (w *Word) Text() (string, bool) {
	if w.text == nil {
		return "", false
	}
	return *w.text, true
}

// IsText returns true for quoted string parameters such as `P "MK3S"`.
func (w *Word) IsText() bool {
	return w.text != nil
}

func (w *Word) SetNumber(number float64) {
	w.number = number
	w.originalStr = nil
}

func (w *Word) Equal(ow *Word) bool {
	return w.NormalizedString() == ow.NormalizedString()
}

// Copy returns an independent copy of the word.
func (w *Word) Copy() *Word {
	nw := *w
	return &nw
}

// String gives the representation of the word. If it has not been mutated, then it returns the
// exact original string (thus preserving letter casing and float point representation), otherwise
// it creates a new representation after the mutation.
func (w *Word) String() string {
	if w.originalStr != nil {
		return *w.originalStr
	}
	return w.NormalizedString()
}

// NormalizedString is similar to String(), but always return a consistent representation using
// uppercase letters, single point float precision for commands and up to ArgumentDecimals points
// precision for arguments, with trailing zeros removed.
func (w *Word) NormalizedString() string {
	if w.text != nil {
		return fmt.Sprintf("%c%s", w.letter, *w.text)
	}
	if w.IsCommand() {
		int, frac := math.Modf(w.number)
		if frac == 0 {
			return fmt.Sprintf("%c%.0f", w.letter, int)
		} else {
			return fmt.Sprintf("%c%.1f", w.letter, w.number)
		}
	}
	return fmt.Sprintf("%c%s", w.letter, iFmt.SprintFloat(w.number, ArgumentDecimals))
}

// IsCommand returns true if the word is a command (letter G or M).
func (w *Word) IsCommand() bool {
	return w.text == nil && (w.letter == 'G' || w.letter == 'M')
}

// Block is a line which may include commands to do several different things.
type Block struct {
	system *string
	words  []*Word
	// message is the free text of M117 / M118, which always comes after all words.
	message *string
}

func NewBlockSystem(system string) *Block {
	return &Block{system: &system}
}

func NewBlockCommand(words ...*Word) *Block {
	return &Block{words: words}
}

func (b *Block) IsSystem() bool {
	return b.system != nil
}

func (b *Block) IsCommand() bool {
	return len(b.words) > 0
}

func (b *Block) AppendCommandWords(words ...*Word) {
	if !b.IsCommand() {
		panic("bug: attempting to add word to a block that's not command")
	}
	b.words = append(b.words, words...)
}

// Message returns the free text given to M117 / M118.
func (b *Block) Message() (string, bool) {
	if b.message == nil {
		return "", false
	}
	return *b.message, true
}

// insertWordAfter inserts word right after prev, or at the beginning when prev is nil.
func (b *Block) insertWordAfter(prev, word *Word) {
	idx := 0
	if prev != nil {
		idx = -1
		for i, w := range b.words {
			if w == prev {
				idx = i + 1
				break
			}
		}
		if idx < 0 {
			panic(fmt.Sprintf("bug: word %s is not part of block %s", prev, b))
		}
	}
	b.words = append(b.words, nil)
	copy(b.words[idx+1:], b.words[idx:])
	b.words[idx] = word
}

// copyWith returns a copy of the block, with its words swapped by the ones in given map.
func (b *Block) copyWith(words map[*Word]*Word) *Block {
	nb := &Block{}
	if b.system != nil {
		system := *b.system
		nb.system = &system
	}
	if b.message != nil {
		message := *b.message
		nb.message = &message
	}
	for _, w := range b.words {
		nw, ok := words[w]
		if !ok {
			nw = w.Copy()
		}
		nb.words = append(nb.words, nw)
	}
	return nb
}

func (b *Block) String() string {
	var buff bytes.Buffer
	if b.system != nil {
		buff.WriteString(string(*b.system))
	}
	for _, w := range b.words {
		buff.WriteString(w.String())
	}
	if b.message != nil {
		buff.WriteString(*b.message)
	}
	return buff.String()
}

// Words returns all words in the block, in order.
func (b *Block) Words() []*Word {
	return b.words
}

// Commands returns all G/M words in the block.
func (b *Block) Commands() []*Word {
	var cmds []*Word
	for _, w := range b.words {
		if w.IsCommand() {
			cmds = append(cmds, w)
		}
	}
	return cmds
}

// Arguments returns all numeric non-command words in the block.
func (b *Block) Arguments() []*Word {
	var args []*Word
	for _, w := range b.words {
		if !w.IsCommand() && !w.IsText() {
			args = append(args, w)
		}
	}
	return args
}

// HasArgument returns true if any argument word with given letter is present.
func (b *Block) HasArgument(letter rune) bool {
	for _, w := range b.Arguments() {
		if w.Letter() == letter {
			return true
		}
	}
	return false
}

func (b *Block) GetArgumentNumber(letter rune) (*float64, error) {
	if !b.IsCommand() {
		panic("bug: can't fetch argument for system block")
	}
	var number *float64
	for _, w := range b.Arguments() {
		if w.Letter() == letter {
			if number != nil {
				return nil, fmt.Errorf("%s: multiple arguments for letter %c", b, letter)
			}
			n := w.Number()
			number = &n
		}
	}
	return number, nil
}

// SetArgumentNumber updates the number of an existing argument. It returns false if no argument
// with the letter exists. An argument that already holds number keeps its original text.
func (b *Block) SetArgumentNumber(letter rune, number float64) (bool, error) {
	if !b.IsCommand() {
		return false, fmt.Errorf("%s: can't set argument for system block", b)
	}
	var word *Word
	for _, w := range b.Arguments() {
		if w.Letter() == letter {
			if word != nil {
				return false, fmt.Errorf("%s: duplicated letter %c", b, letter)
			}
			word = w
		}
	}
	if word == nil {
		return false, nil
	}
	if word.Number() != number {
		word.SetNumber(number)
	}
	return true, nil
}

// Empty returns true if no system or command is defined.
func (b *Block) Empty() bool {
	return b.system == nil && len(b.words) == 0
}
