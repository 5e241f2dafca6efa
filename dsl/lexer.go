package dsl

import (
	"fmt"
	"strings"
)

// LexError reports a character the lexer cannot start a token with.
type LexError struct {
	Line int
	Col  int
	Char rune
	Msg  string
}

func (e *LexError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("%d:%d: unrecognized character %q", e.Line, e.Col, e.Char)
}

// reserved lists every keyword with its token type. The first spelling of a
// token type is the one used in messages.
var reserved = []struct {
	word string
	typ  TokenType
}{
	{"all", TokenAll},
	{"alpha", TokenAlpha},
	{"as", TokenAs},
	{"asthistory", TokenASTHistory},
	{"cast", TokenCast},
	{"casterror", TokenCasterror},
	{"csv", TokenCSV},
	{"cwd", TokenCWD},
	{"dataframe", TokenDataframe},
	{"delete", TokenDelete},
	{"describe", TokenDescribe},
	{"displayast", TokenDisplayAST},
	{"environment", TokenEnvironment},
	{"fillin", TokenFillin},
	{"float", TokenFloat},
	{"from", TokenFrom},
	{"header", TokenHeader},
	{"history", TokenHistory},
	{"in", TokenIn},
	{"integer", TokenInteger},
	{"labels", TokenLabels},
	{"label", TokenLabels},
	{"list", TokenList},
	{"load", TokenLoad},
	{"merge", TokenMerge},
	{"new", TokenNew},
	{"noheader", TokenNoheader},
	{"nonalpha", TokenNonalpha},
	{"ocwd", TokenOCWD},
	{"parameter", TokenParameter},
	{"parameters", TokenParameter},
	{"parquet", TokenParquet},
	{"plugin", TokenPlugin},
	{"pythonshell", TokenPythonShell},
	{"rcwd", TokenRCWD},
	{"real", TokenReal},
	{"rename", TokenRename},
	{"replace", TokenReplace},
	{"results", TokenResults},
	{"runplugin", TokenRunPlugin},
	{"save", TokenSave},
	{"select", TokenSelect},
	{"separator", TokenSeparator},
	{"series", TokenSeries},
	{"session", TokenSession},
	{"set", TokenSet},
	{"show", TokenShow},
	{"to", TokenTo},
	{"where", TokenWhere},
}

var (
	keywords        = make(map[string]TokenType, len(reserved))
	keywordSpelling = make(map[TokenType]string, len(reserved))
)

func init() {
	for _, r := range reserved {
		keywords[r.word] = r.typ
		if _, ok := keywordSpelling[r.typ]; !ok {
			keywordSpelling[r.typ] = r.word
		}
	}
}

// Lexer tokenizes a single DSL statement
type Lexer struct {
	input []rune
	pos   int
	line  int
	col   int
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	return &Lexer{input: []rune(input), line: 1, col: 1}
}

// at returns the rune at offset from the current position, or 0 past the end
func (l *Lexer) at(offset int) rune {
	i := l.pos + offset
	if i < 0 || i >= len(l.input) {
		return 0
	}
	return l.input[i]
}

// advance consumes n runes, keeping line and column current
func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.input); i++ {
		if l.input[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

// skipWhitespace skips whitespace characters, counting newlines
func (l *Lexer) skipWhitespace() {
	for {
		switch l.at(0) {
		case ' ', '\t', '\r', '\n':
			l.advance(1)
		default:
			return
		}
	}
}

func isWordChar(ch rune) bool {
	return ch == '_' || isLetter(ch) || isDigit(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// filename and path segments also allow hyphens
func isSegmentChar(ch rune) bool {
	return isWordChar(ch) || ch == '-'
}

const operatorChars = "/><@=+-*,;:.\\|!~"

func isOperatorChar(ch rune) bool {
	return ch != 0 && strings.ContainsRune(operatorChars, ch)
}

// matchNumber returns the length of a numeric literal at the current position:
// [-+]? digits [. digits] [(e|E) [-+]? digits], or 0 when none starts here.
func (l *Lexer) matchNumber() int {
	n := 0
	if c := l.at(0); c == '+' || c == '-' {
		n++
	}
	digits := 0
	for isDigit(l.at(n)) {
		n++
		digits++
	}
	if l.at(n) == '.' && isDigit(l.at(n+1)) {
		n++
		for isDigit(l.at(n)) {
			n++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	if c := l.at(n); c == 'e' || c == 'E' {
		m := n + 1
		if s := l.at(m); s == '+' || s == '-' {
			m++
		}
		if isDigit(l.at(m)) {
			for isDigit(l.at(m)) {
				m++
			}
			n = m
		}
	}
	return n
}

// matchFilename returns the length of a base name followed by one or more
// dot-extensions, or 0 when none starts here. Relative directory parts
// (data/STI.csv) are part of the filename.
func (l *Lexer) matchFilename() int {
	if !isSegmentChar(l.at(0)) {
		return 0
	}
	n, extensions := 0, 0
	for {
		if isSegmentChar(l.at(n)) {
			n++
			continue
		}
		sep := l.at(n)
		if (sep != '.' && sep != '/') || !isSegmentChar(l.at(n+1)) {
			break
		}
		if sep == '/' {
			extensions = 0
		} else {
			extensions++
		}
		n++
	}
	if extensions == 0 {
		return 0
	}
	return n
}

// matchPath returns the length of an absolute path: one or more /segment
// parts, or a drive letter form such as C:/data or C:\data.
func (l *Lexer) matchPath() int {
	n := 0
	if isLetter(l.at(0)) && l.at(1) == ':' && (l.at(2) == '/' || l.at(2) == '\\') && isSegmentChar(l.at(3)) {
		n = 2
	} else if l.at(0) != '/' || !isSegmentChar(l.at(1)) {
		return 0
	}
	for {
		sep := l.at(n)
		if (sep != '/' && sep != '\\') || !(isSegmentChar(l.at(n+1)) || l.at(n+1) == '.') {
			break
		}
		n++
		for isSegmentChar(l.at(n)) || l.at(n) == '.' {
			n++
		}
	}
	if l.at(n) == '/' || l.at(n) == '\\' {
		n++ // trailing separator
	}
	return n
}

// readString reads a quoted string; the opening quote is at the current
// position. Doubled quotes and backslash escapes are unescaped.
func (l *Lexer) readString(quote rune) (string, error) {
	startLine, startCol := l.line, l.col
	var result strings.Builder
	l.advance(1) // skip opening quote

	for {
		ch := l.at(0)
		switch {
		case ch == 0 || ch == '\n':
			return "", &LexError{Line: startLine, Col: startCol, Char: quote, Msg: "unterminated string"}
		case ch == quote && l.at(1) == quote:
			result.WriteRune(quote)
			l.advance(2)
		case ch == quote:
			l.advance(1) // skip closing quote
			return result.String(), nil
		case ch == '\\':
			l.advance(1)
			switch esc := l.at(0); esc {
			case 'n':
				result.WriteRune('\n')
			case 't':
				result.WriteRune('\t')
			case 0:
				return "", &LexError{Line: startLine, Col: startCol, Char: quote, Msg: "unterminated string"}
			default:
				result.WriteRune(esc)
			}
			l.advance(1)
		default:
			result.WriteRune(ch)
			l.advance(1)
		}
	}
}

// readOperator reads a run of operator characters. A sign directly followed
// by a digit ends the run so that it can start a number.
func (l *Lexer) readOperator() string {
	var result strings.Builder
	for isOperatorChar(l.at(0)) {
		if result.Len() > 0 && (l.at(0) == '-' || l.at(0) == '+') && isDigit(l.at(1)) {
			break
		}
		result.WriteRune(l.at(0))
		l.advance(1)
	}
	return result.String()
}

var symbols = map[string]TokenType{
	",":  TokenComma,
	":":  TokenColon,
	";":  TokenSemicolon,
	"\\": TokenBackslash,
	"|":  TokenBar,
	".":  TokenDot,
	"+":  TokenPlus,
	"-":  TokenMinus,
	"*":  TokenTimes,
	"/":  TokenDivide,
	"=":  TokenEqual,
	"!=": TokenNotEqual,
	"<":  TokenLess,
	">":  TokenGreater,
	"<=": TokenLessEqual,
	">=": TokenGreaterEqual,
}

// NextToken returns the next token, or a LexError for an unrecognized
// character or an unterminated string.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	line, col := l.line, l.col
	tok := Token{Line: line, Col: col}
	ch := l.at(0)

	switch {
	case ch == 0:
		tok.Type = TokenEOF
	case ch == '\'' || ch == '"':
		value, err := l.readString(ch)
		if err != nil {
			return Token{Type: TokenError, Line: line, Col: col}, err
		}
		tok.Type, tok.Value = TokenString, value
	default:
		if n := l.matchPath(); n > 0 {
			tok.Type, tok.Value = TokenFolder, string(l.input[l.pos:l.pos+n])
			l.advance(n)
			break
		}
		numLen, fileLen := l.matchNumber(), l.matchFilename()
		if fileLen > numLen {
			tok.Type, tok.Value = TokenFilename, string(l.input[l.pos:l.pos+fileLen])
			l.advance(fileLen)
			break
		}
		if numLen > 0 {
			tok.Type, tok.Value = TokenNumber, string(l.input[l.pos:l.pos+numLen])
			l.advance(numLen)
			break
		}
		if isLetter(ch) || ch == '_' {
			n := 0
			for isWordChar(l.at(n)) {
				n++
			}
			word := string(l.input[l.pos : l.pos+n])
			l.advance(n)
			tok.Type = identifierType(word)
			if tok.Type.IsKeyword() {
				word = strings.ToLower(word)
			}
			tok.Value = word
			break
		}
		if isOperatorChar(ch) {
			op := l.readOperator()
			tok.Value = op
			if kind, ok := symbols[op]; ok {
				tok.Type = kind
			} else {
				tok.Type = TokenDelimiter
			}
			break
		}
		l.advance(1)
		return Token{Type: TokenError, Value: string(ch), Line: line, Col: col}, &LexError{Line: line, Col: col, Char: ch}
	}

	return tok, nil
}

// identifierType determines if an identifier is a keyword. Keywords are
// matched case-insensitively.
func identifierType(ident string) TokenType {
	if tokType, ok := keywords[strings.ToLower(ident)]; ok {
		return tokType
	}
	return TokenIdent
}

// Tokenize returns all tokens from the input, ending with TokenEOF. Lexing
// stops at the first error.
func Tokenize(input string) ([]Token, error) {
	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok, err := lexer.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}

	return tokens, nil
}
