package gcode

import (
	"errors"
	"fmt"
	"io"
	"slices"
)

// Modal Groups state.
// See https://www.linuxcnc.org/docs/2.4/html/gcode_overview.html#sec:Modal-Groups and
// https://github.com/gnea/grbl/wiki/Grbl-v1.1-Commands
type ModalGroup struct {
	// Motion (Group 1)
	Motion *Word

	// Plane selection (Group 2)
	PlaneSelection *Word

	// Distance Mode (Group 3)
	DistanceMode *Word

	// Arc IJK Distance Mode (Group 4)
	ArcIjkDistanceMode *Word

	// Feed Rate Mode (Group 5)
	FeedRateMode *Word

	// Units (Group 6)
	Units *Word

	// Cutter Diameter Compensation (Group 7)
	CutterDiameterCompensation *Word

	// Tool Length Offset (Group 8)
	ToolLengthOffset *Block

	// Coordinate System Select (Group 12)
	CoordinateSystemSelect *Word

	// Control Mode (Group 13)
	ControlMode *Word

	// Stopping (Group 4)
	Stopping *Word

	// Spindle (Group 7)
	Spindle *Word

	// Coolant (Group 8)
	Coolant []*Word

	// Override Control (Grbl specific - M56)
	// OverrideControl *Block
}

func (m *ModalGroup) Copy() *ModalGroup {
	nm := *m
	nm.Coolant = slices.Clone(m.Coolant)
	return &nm
}

//gocyclo:ignore
func (m *ModalGroup) UpdateFromWord(word *Word) error {
	switch word.NormalizedString() {
	case "G0", "G1", "G2", "G3", "G38.2", "G38.3", "G38.4", "G38.5", "G80":
		m.Motion = word
	case "G17", "G18", "G19":
		m.PlaneSelection = word
	case "G90", "G91":
		m.DistanceMode = word
	case "G91.1":
		m.ArcIjkDistanceMode = word
	case "G93", "G94":
		m.FeedRateMode = word
	case "G20", "G21":
		m.Units = word
	case "G40":
		m.CutterDiameterCompensation = word
	case "G43.1":
		return errors.New("can't update from word G43.1: it must be from a block with Z axis")
	case "G49":
		m.ToolLengthOffset = NewBlockCommand(word)
	case "G54", "G55", "G56", "G57", "G58", "G59":
		m.CoordinateSystemSelect = word
	case "G61":
		m.ControlMode = word
	case "M0", "M1", "M2", "M30":
		m.Stopping = word
	case "M3", "M4", "M5":
		m.Spindle = word
	case "M7", "M8":
		skip := false
		for _, w := range m.Coolant {
			if w.NormalizedString() == word.NormalizedString() {
				skip = true
				break
			}
		}
		if skip {
			break
		}
		newCoolant := []*Word{}
		for _, w := range m.Coolant {
			if w.NormalizedString() == "M9" {
				continue
			}
			newCoolant = append(newCoolant, w)
		}
		m.Coolant = newCoolant
		m.Coolant = append(m.Coolant, word)
	case "M9":
		m.Coolant = []*Word{word}
	}

	return nil
}

func (m *ModalGroup) UpdateFromBlock(block *Block) error {
	for _, word := range block.Commands() {
		if word.NormalizedString() == "G43.1" {
			var z *float64
			for _, argWord := range block.Arguments() {
				if argWord.Letter() == 'Z' {
					zv := argWord.Number()
					z = &zv
				}
			}
			if z == nil {
				return fmt.Errorf("G43.1 requires Z argument")
			}
			m.ToolLengthOffset = NewBlockCommand(NewWord('G', 43.1), NewWord('Z', *z))
		} else {
			if err := m.UpdateFromWord(word); err != nil {
				return err
			}
		}
	}
	return nil
}

// DefaultModalGroup holds Grbl default modal group states.
// See: https://github.com/gnea/grbl/wiki/Grbl-v1.1-Commands.
var DefaultModalGroup ModalGroup = ModalGroup{
	Motion:                     NewWord('G', 0),
	PlaneSelection:             NewWord('G', 17),
	DistanceMode:               NewWord('G', 90),
	ArcIjkDistanceMode:         NewWord('G', 91.1),
	FeedRateMode:               NewWord('G', 94),
	Units:                      NewWord('G', 21),
	CutterDiameterCompensation: NewWord('G', 40),
	ToolLengthOffset:           NewBlockCommand(NewWord('G', 49)),
	CoordinateSystemSelect:     NewWord('G', 54),
	ControlMode:                NewWord('G', 61),
	Stopping:                   nil,
	Spindle:                    NewWord('M', 5),
	Coolant:                    []*Word{NewWord('M', 9)},
}

var motionCommands = map[string]bool{
	"G0": true, // Coordinated Motion at Rapid Rate
	"G1": true, // Coordinated Motion at Feed Rate
	"G2": true, // Coordinated CW Motion at Feed Rate
	"G3": true, // Coordinated CCW Motion at Feed Rate
}

// Commands that consume axis words for something else than a motion in work coordinates.
var axisWordsCommands = map[string]bool{
	"G10":   true, // Set Work Coordinate Offsets
	"G28":   true, // Go to Pre-Defined Position
	"G28.1": true, // Set Pre-Defined Position
	"G30":   true, // Go to Pre-Defined Position
	"G30.1": true, // Set Pre-Defined Position
	"G43.1": true, // Dynamic Tool Length Offset
	"G53":   true, // Move in Absolute Coordinates
	"G92":   true, // Coordinate Offset
}

var axisLetters = []rune{'X', 'Y', 'Z', 'A', 'B', 'C'}

// Parser can parse Grbl flavour G-Code, plus the Marlin / slicer dialect bits the Lexer accepts.
type Parser struct {
	// ModalGroup holds the state of each modal group as parsing progresses by caling Parser.Next().
	// DefaultModalGroup is used for the initial state.
	ModalGroup  ModalGroup
	Lexer       *Lexer
	number      uint
	line        *Line
	system      *string
	words       []*Word
	letter      *rune
	letterStr   string // letter token plus any spaces after it
	letterToken string
	message     *string
}

func NewParser(r io.Reader) *Parser {
	return &Parser{
		ModalGroup: DefaultModalGroup,
		Lexer:      NewLexer(r),
	}
}

func (p *Parser) kind(block *Block) Kind {
	if block == nil || !block.IsCommand() {
		return KindOther
	}
	var explicitMotion, mCommand bool
	for _, w := range block.Commands() {
		commandStr := w.NormalizedString()
		if axisWordsCommands[commandStr] {
			return KindOther
		}
		if motionCommands[commandStr] {
			explicitMotion = true
		}
		if w.Letter() == 'M' {
			mCommand = true
		}
	}
	if explicitMotion {
		return KindMotion
	}
	// Axis words of M commands are their parameters, such as M201 X1000 (max acceleration).
	if mCommand {
		return KindOther
	}
	if p.ModalGroup.Motion == nil || !motionCommands[p.ModalGroup.Motion.NormalizedString()] {
		return KindOther
	}
	for _, letter := range axisLetters {
		if block.HasArgument(letter) {
			return KindMotion
		}
	}
	return KindOther
}

func (p *Parser) finishLine(newLine string) error {
	p.flushLetter()
	var block *Block
	if p.system != nil {
		block = NewBlockSystem(*p.system)
	} else if len(p.words) > 0 {
		block = NewBlockCommand(p.words...)
		block.message = p.message
	}
	if block != nil && block.IsCommand() {
		if err := p.ModalGroup.UpdateFromBlock(block); err != nil {
			return fmt.Errorf("line %d: %w", p.number, err)
		}
	}
	p.line.Block = block
	p.line.Kind = p.kind(block)
	p.line.DistanceMode = p.ModalGroup.DistanceMode
	p.line.newLine = newLine
	return nil
}

func (p *Parser) clearLetter() {
	p.letter = nil
	p.letterStr = ""
	p.letterToken = ""
}

// flushLetter adds a pending letter without number as a flag word, such as the W of "G28 W".
func (p *Parser) flushLetter() {
	if p.letter == nil {
		return
	}
	word := newWordText(*p.letter, "", p.letterToken)
	p.words = append(p.words, word)
	p.line.segments = append(p.line.segments, segment{word: word})
	if spaces := p.letterStr[len(p.letterToken):]; spaces != "" {
		p.line.segments = append(p.line.segments, segment{text: spaces})
	}
	p.clearLetter()
}

func (p *Parser) handleTokenTypeLetter(token *Token) error {
	if p.system != nil {
		return fmt.Errorf("line %d: command words cannot follow system command", p.number)
	}
	p.flushLetter()
	letter := rune(token.Value[0])
	p.letter = &letter
	p.letterStr = token.Value
	p.letterToken = token.Value
	return nil
}

func (p *Parser) handleTokenTypeNumber(token *Token) error {
	if p.letter == nil {
		return fmt.Errorf("line %d: unexpected word number %q without preceding letter", p.number, token.Value)
	}
	word, err := newWordParse(*p.letter, token.Value, p.letterStr+token.Value)
	if err != nil {
		return fmt.Errorf("line %d: bad number: %#v: %w", p.number, token.Value, err)
	}
	p.words = append(p.words, word)
	p.line.segments = append(p.line.segments, segment{word: word})
	p.clearLetter()
	return nil
}

func (p *Parser) handleTokenTypeString(token *Token) {
	if p.letter == nil {
		p.line.segments = append(p.line.segments, segment{text: token.Value})
		return
	}
	word := newWordText(*p.letter, token.Value, p.letterStr+token.Value)
	p.words = append(p.words, word)
	p.line.segments = append(p.line.segments, segment{word: word})
	p.clearLetter()
}

func (p *Parser) handleTokenTypeMessage(token *Token) error {
	if p.letter != nil || len(p.words) == 0 {
		return fmt.Errorf("line %d: unexpected message %q", p.number, token.Value)
	}
	message := token.Value
	p.message = &message
	p.line.segments = append(p.line.segments, segment{text: token.Value})
	return nil
}

func (p *Parser) handleTokenTypeSystem(token *Token) error {
	if len(p.words) > 0 || p.letter != nil || p.system != nil {
		return fmt.Errorf("line %d: system command cannot follow command words", p.number)
	}
	system := token.Value
	p.system = &system
	p.line.segments = append(p.line.segments, segment{text: token.Value})
	return nil
}

// handleToken processes the token, returning true when the end of the line is reached.
func (p *Parser) handleToken(token *Token) (bool, error) {
	switch token.Type {
	case TokenTypeEOF:
		return true, p.finishLine("")
	case TokenTypeSpace:
		if p.letter != nil {
			// Grbl ignores spaces between a word letter and its number
			p.letterStr += token.Value
			return false, nil
		}
		p.line.segments = append(p.line.segments, segment{text: token.Value})
		return false, nil
	case TokenTypeComment:
		p.flushLetter()
		p.line.segments = append(p.line.segments, segment{comment: newComment(token.Value)})
		return false, nil
	case TokenTypeSystem:
		return false, p.handleTokenTypeSystem(token)
	case TokenTypeDelimiter:
		if len(p.words) > 0 || p.letter != nil || p.system != nil {
			return false, fmt.Errorf("line %d: program delimiter cannot follow commands", p.number)
		}
		p.line.segments = append(p.line.segments, segment{text: token.Value})
		return false, nil
	case TokenTypeWordLetter:
		return false, p.handleTokenTypeLetter(token)
	case TokenTypeWordNumber:
		return false, p.handleTokenTypeNumber(token)
	case TokenTypeString:
		p.handleTokenTypeString(token)
		return false, nil
	case TokenTypeMessage:
		return false, p.handleTokenTypeMessage(token)
	case TokenTypeChecksum:
		p.flushLetter()
		p.line.segments = append(p.line.segments, segment{text: token.Value, checksum: true})
		return false, nil
	case TokenTypeNewLine:
		return true, p.finishLine(token.Value)
	default:
		panic(fmt.Sprintf("unknown token type: %#v", token))
	}
}

// Next parses and returns the next line. The returned bool indicates EOF: when true, parsing is
// complete. At EOF, the returned line is nil, unless the input did not end with a new line.
// Tokens contains all tokens for the parsed line.
func (p *Parser) Next() (bool, *Line, Tokens, error) {
	p.number++
	p.line = &Line{Number: p.number}
	p.system = nil
	p.words = nil
	p.clearLetter()
	p.message = nil
	var tokens Tokens
	for {
		token, err := p.Lexer.Next()
		if err != nil {
			return false, nil, nil, err
		}
		tokens = append(tokens, token)
		eol, err := p.handleToken(token)
		if err != nil {
			return false, nil, nil, err
		}
		if eol {
			eof := token.Type == TokenTypeEOF
			if eof && len(p.line.segments) == 0 {
				return true, nil, tokens, nil
			}
			return eof, p.line, tokens, nil
		}
	}
}

// Program parses and returns all remaining lines from the parser.
// It calls Next() repeatedly until all lines are consumed or an error occurs.
func (p *Parser) Program() (Program, error) {
	program := Program{}
	for {
		eof, line, _, err := p.Next()
		if err != nil {
			return nil, err
		}
		if line != nil {
			program = append(program, line)
		}
		if eof {
			return program, nil
		}
	}
}
