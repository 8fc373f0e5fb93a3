package gcode

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLexer(t *testing.T) {
	matches, err := filepath.Glob("testdata/*.*")
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no files found in gcode/testdata")

	for _, path := range matches {
		t.Run(path, func(t *testing.T) {
			f, err := os.Open(path)
			require.NoError(t, err, "failed to open %s", path)
			defer func() { require.NoError(t, f.Close()) }()

			var buf bytes.Buffer
			lx := NewLexer(f)
			for {
				token, err := lx.Next()
				require.NoError(t, err)
				if token.Type == TokenTypeEOF {
					break
				}
				buf.WriteString(token.Value)
			}

			orig, err := os.ReadFile(path)
			require.NoError(t, err)
			require.Equal(t, string(orig), buf.String())
		})
	}
}

func TestLexerTokens(t *testing.T) {
	testCases := []struct {
		gcode    string
		expected []Token
	}{
		{
			gcode: "G1 X-.5\t; foo\r\n",
			expected: []Token{
				{Value: "G", Type: TokenTypeWordLetter},
				{Value: "1", Type: TokenTypeWordNumber},
				{Value: " ", Type: TokenTypeSpace},
				{Value: "X", Type: TokenTypeWordLetter},
				{Value: "-.5", Type: TokenTypeWordNumber},
				{Value: "\t", Type: TokenTypeSpace},
				{Value: "; foo", Type: TokenTypeComment},
				{Value: "\r\n", Type: TokenTypeNewLine},
			},
		},
		{
			gcode: "M117 Hi (there)\nM862.3 P\"MK3S\" U3.13.2*12\n",
			expected: []Token{
				{Value: "M", Type: TokenTypeWordLetter},
				{Value: "117", Type: TokenTypeWordNumber},
				{Value: " ", Type: TokenTypeSpace},
				{Value: "Hi (there)", Type: TokenTypeMessage},
				{Value: "\n", Type: TokenTypeNewLine},
				{Value: "M", Type: TokenTypeWordLetter},
				{Value: "862.3", Type: TokenTypeWordNumber},
				{Value: " ", Type: TokenTypeSpace},
				{Value: "P", Type: TokenTypeWordLetter},
				{Value: "\"MK3S\"", Type: TokenTypeString},
				{Value: " ", Type: TokenTypeSpace},
				{Value: "U", Type: TokenTypeWordLetter},
				{Value: "3.13.2", Type: TokenTypeString},
				{Value: "*12", Type: TokenTypeChecksum},
				{Value: "\n", Type: TokenTypeNewLine},
			},
		},
		{
			// M1 takes no message, only M117 and M118 do
			gcode: "M1 P1",
			expected: []Token{
				{Value: "M", Type: TokenTypeWordLetter},
				{Value: "1", Type: TokenTypeWordNumber},
				{Value: " ", Type: TokenTypeSpace},
				{Value: "P", Type: TokenTypeWordLetter},
				{Value: "1", Type: TokenTypeWordNumber},
			},
		},
		{
			gcode: "(a)$H\n%",
			expected: []Token{
				{Value: "(a)", Type: TokenTypeComment},
				{Value: "$H", Type: TokenTypeSystem},
				{Value: "\n", Type: TokenTypeNewLine},
				{Value: "%", Type: TokenTypeDelimiter},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.gcode, func(t *testing.T) {
			lx := NewLexer(strings.NewReader(tc.gcode))
			var tokens []Token
			for {
				token, err := lx.Next()
				require.NoError(t, err)
				if token.Type == TokenTypeEOF {
					break
				}
				tokens = append(tokens, *token)
			}
			require.Equal(t, tc.expected, tokens)
		})
	}
}

func TestLexerErrors(t *testing.T) {
	for gcode, errorContains := range map[string]string{
		"G1 (foo\nX1":        "end of line reached without closing parenthesis",
		"G1 (foo":            "end of file reached without closing parenthesis",
		"G1 X.":              "invalid number",
		"G0 #":               "unexpected char",
		"G1 X-":              "invalid number",
		"G1 X1\rY2\n":        "unexpected char",
		"G1 X1\r":            "CR before EOF",
		"G1 X1\nG1 X.":       "line 2",
		"M862.3 P\"MK3S\nX1": "end of line reached without closing quote",
		"M862.3 P\"MK3S":     "end of file reached without closing quote",
		"G1 X1*":             "checksum without digits",
	} {
		t.Run(gcode, func(t *testing.T) {
			lx := NewLexer(strings.NewReader(gcode))
			for {
				token, err := lx.Next()
				if err != nil {
					require.ErrorContains(t, err, errorContains)
					return
				}
				require.NotEqual(t, TokenTypeEOF, token.Type, "expected error")
			}
		})
	}
}
