package gcode

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type TokenType int

const (
	TokenTypeEOF TokenType = iota
	TokenTypeSpace
	TokenTypeComment
	TokenTypeSystem
	TokenTypeDelimiter
	TokenTypeWordLetter
	TokenTypeWordNumber
	TokenTypeNewLine
	// TokenTypeString is a non numeric parameter value: either double quoted, such as the P of
	// `M862.3 P "MK3S"`, or a version, such as the U of `M115 U3.13.2`.
	TokenTypeString
	// TokenTypeMessage is the free text that follows M117 / M118, up to the end of the line.
	TokenTypeMessage
	// TokenTypeChecksum is a `*NN` line checksum.
	TokenTypeChecksum
)

var tokenTypeNames = map[TokenType]string{
	TokenTypeEOF:        "EOF",
	TokenTypeSpace:      "Space",
	TokenTypeComment:    "Comment",
	TokenTypeSystem:     "System",
	TokenTypeDelimiter:  "Delimiter",
	TokenTypeWordLetter: "WordLetter",
	TokenTypeWordNumber: "WordNumber",
	TokenTypeNewLine:    "NewLine",
	TokenTypeString:     "String",
	TokenTypeMessage:    "Message",
	TokenTypeChecksum:   "Checksum",
}

func (tt TokenType) String() string {
	if name, ok := tokenTypeNames[tt]; ok {
		return name
	}
	panic(fmt.Sprintf("unexpected TokenType: %d", tt))
}

type Token struct {
	Value string
	Type  TokenType
}

func (t *Token) String() string {
	return t.Value
}

// Tokens holds all tokens from a single line.
type Tokens []*Token

// String returns the exact text the tokens were read from.
func (ts Tokens) String() string {
	var b strings.Builder
	for _, t := range ts {
		b.WriteString(t.Value)
	}
	return b.String()
}

// Lexer tokenizes G-Code. Its implementation is derived directly from Grbl source code, with the
// addition of what CAM software and slicers commonly emit: tab spacing, "%" program delimiters,
// M117 / M118 messages, quoted string parameters and "*NN" checksums.
type Lexer struct {
	// Line holds the number of new lines read so far.
	Line    uint
	scanner *bufio.Scanner
	// letter is the last word letter, while its number is pending.
	letter rune
	// message is set after M117 / M118, until the message token or a new line.
	message bool
}

// NewLexer creates a new Lexer.
func NewLexer(rd io.Reader) *Lexer {
	lx := &Lexer{}
	scanner := bufio.NewScanner(bufio.NewReader(rd))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(lx.split)
	lx.scanner = scanner
	return lx
}

// messageCommands take free text up to the end of the line.
var messageCommands = map[float64]bool{
	117: true, // Set LCD Message
	118: true, // Serial print
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func isParenthesisCommentStart(c byte) bool {
	return c == '('
}

func isSemicolonCommentStart(c byte) bool {
	return c == ';'
}

func isCommentStart(c byte) bool {
	return isParenthesisCommentStart(c) || isSemicolonCommentStart(c)
}

func isSystemStart(c byte) bool {
	return c == '$'
}

func isDelimiterStart(c byte) bool {
	return c == '%'
}

func isLetterStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNumberStart(c byte) bool {
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

func isNewLineStart(c byte) bool {
	return c == '\n' || c == '\r'
}

func isStringStart(c byte) bool {
	return c == '"'
}

func isChecksumStart(c byte) bool {
	return c == '*'
}

// splitToEndOfLine returns everything up to, but excluding, the next new line.
func splitToEndOfLine(data []byte, atEOF bool) (advance int, token []byte, err error) {
	i := 1
	for i < len(data) {
		if data[i] == '\n' {
			if i > 1 && data[i-1] == '\r' {
				i--
				return i, data[:i], nil
			}
			return i, data[:i], nil
		}
		i++
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

//gocyclo:ignore
func split(data []byte, atEOF bool) (advance int, token []byte, err error) {
	// EOF
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	// Space
	if isSpace(data[0]) {
		i := 0
		for i < len(data) && isSpace(data[i]) {
			i++
		}
		if i == len(data) && !atEOF {
			return 0, nil, nil
		}
		return i, data[:i], nil
	}

	// Comment
	if isParenthesisCommentStart(data[0]) {
		i := 1
		for i < len(data) {
			if data[i] == ')' {
				i++
				return i, data[:i], nil
			}
			if data[i] == '\n' {
				return 0, nil, errors.New("end of line reached without closing parenthesis")
			}
			i++
		}
		if atEOF {
			return 0, nil, errors.New("end of file reached without closing parenthesis")
		}
		return 0, nil, nil
	}
	if isSemicolonCommentStart(data[0]) {
		return splitToEndOfLine(data, atEOF)
	}

	// System
	if isSystemStart(data[0]) {
		return splitToEndOfLine(data, atEOF)
	}

	// Delimiter
	if isDelimiterStart(data[0]) {
		return splitToEndOfLine(data, atEOF)
	}

	// String
	if isStringStart(data[0]) {
		i := 1
		for i < len(data) {
			if data[i] == '"' {
				i++
				return i, data[:i], nil
			}
			if isNewLineStart(data[i]) {
				return 0, nil, errors.New("end of line reached without closing quote")
			}
			i++
		}
		if atEOF {
			return 0, nil, errors.New("end of file reached without closing quote")
		}
		return 0, nil, nil
	}

	// Checksum
	if isChecksumStart(data[0]) {
		i := 1
		for i < len(data) && data[i] >= '0' && data[i] <= '9' {
			i++
		}
		if i == len(data) && !atEOF {
			return 0, nil, nil
		}
		if i == 1 {
			return 0, nil, errors.New("checksum without digits")
		}
		return i, data[:i], nil
	}

	// WordLetter
	if isLetterStart(data[0]) {
		return 1, data[:1], nil
	}

	// WordNumber
	if isNumberStart(data[0]) {
		i := 0
		if data[i] == '-' || data[i] == '+' {
			i++
		}
		ndigit := 0
		// more than one point gives a version, such as the U of "M115 U3.13.2"
		for i < len(data) {
			c := data[i]
			if c >= '0' && c <= '9' {
				ndigit++
			} else if c != '.' {
				break
			}
			i++
		}
		if i == len(data) && !atEOF {
			return 0, nil, nil
		}
		if ndigit == 0 {
			return 0, nil, fmt.Errorf("invalid number: %s", data[:i])
		}
		return i, data[:i], nil
	}

	// NewLine
	if data[0] == '\n' {
		return 1, data[:1], nil
	}
	if data[0] == '\r' {
		if len(data) > 1 {
			if data[1] == '\n' {
				return 2, data[:2], nil
			}
		} else {
			if atEOF {
				return 0, nil, fmt.Errorf("CR before EOF")
			}
			return 0, nil, nil
		}
	}

	return 0, nil, fmt.Errorf("unexpected char: %q", data[0])
}

// split is the lexer's bufio.SplitFunc: when a message is pending, everything up to the end of
// the line is a single token.
func (lx *Lexer) split(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if lx.message && len(data) > 0 && !isSpace(data[0]) && !isNewLineStart(data[0]) {
		return splitToEndOfLine(data, atEOF)
	}
	return split(data, atEOF)
}

// track updates the lexer state that depends on previous tokens of the line.
func (lx *Lexer) track(token *Token) {
	switch token.Type {
	case TokenTypeSpace:
	case TokenTypeWordLetter:
		lx.letter = unicode.ToUpper(rune(token.Value[0]))
	case TokenTypeWordNumber:
		if lx.letter == 'M' {
			if number, err := strconv.ParseFloat(token.Value, 64); err == nil && messageCommands[number] {
				lx.message = true
			}
		}
		lx.letter = 0
	default:
		lx.letter = 0
		lx.message = false
	}
}

// Next returns the next token. When input is exhausted, a token of type TokenTypeEOF is returned.
func (lx *Lexer) Next() (*Token, error) {
	if !lx.scanner.Scan() {
		if err := lx.scanner.Err(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lx.Line+1, err)
		}
		return &Token{Type: TokenTypeEOF}, nil
	}

	value := lx.scanner.Text()
	if len(value) == 0 {
		panic(fmt.Sprintf("bug: empty token received at line %d", lx.Line+1))
	}

	token := lx.token(value)
	lx.track(token)
	return token, nil
}

func (lx *Lexer) token(value string) *Token {
	if lx.message && !isSpace(value[0]) && !isNewLineStart(value[0]) {
		return &Token{Value: value, Type: TokenTypeMessage}
	}

	if isSpace(value[0]) {
		return &Token{Value: value, Type: TokenTypeSpace}
	}

	if isCommentStart(value[0]) {
		return &Token{Value: value, Type: TokenTypeComment}
	}

	if isSystemStart(value[0]) {
		return &Token{Value: value, Type: TokenTypeSystem}
	}

	if isDelimiterStart(value[0]) {
		return &Token{Value: value, Type: TokenTypeDelimiter}
	}

	if isLetterStart(value[0]) {
		return &Token{Value: value, Type: TokenTypeWordLetter}
	}

	if isNumberStart(value[0]) {
		if strings.Count(value, ".") > 1 {
			return &Token{Value: value, Type: TokenTypeString}
		}
		return &Token{Value: value, Type: TokenTypeWordNumber}
	}

	if isStringStart(value[0]) {
		return &Token{Value: value, Type: TokenTypeString}
	}

	if isChecksumStart(value[0]) {
		return &Token{Value: value, Type: TokenTypeChecksum}
	}

	if isNewLineStart(value[0]) {
		lx.Line++
		return &Token{Value: value, Type: TokenTypeNewLine}
	}

	panic(fmt.Sprintf("bug: unexpected value at line %d: %v", lx.Line+1, value))
}
