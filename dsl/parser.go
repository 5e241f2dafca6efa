package dsl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a token sequence that matches no statement form.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// Parser turns the tokens of one statement into a Statement
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a new parser
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// current returns the current token
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return p.eof()
	}
	return p.tokens[p.pos]
}

// peek returns the next token without advancing
func (p *Parser) peek() Token {
	if p.pos+1 >= len(p.tokens) {
		return p.eof()
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) eof() Token {
	if n := len(p.tokens); n > 0 {
		last := p.tokens[n-1]
		return Token{Type: TokenEOF, Line: last.Line, Col: last.Col + len(last.Value)}
	}
	return Token{Type: TokenEOF, Line: 1, Col: 1}
}

// advance moves to the next token
func (p *Parser) advance() {
	p.pos++
}

func (p *Parser) errorf(format string, args ...any) *ParseError {
	tok := p.current()
	return &ParseError{Line: tok.Line, Col: tok.Col, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) unexpected(want string) *ParseError {
	tok := p.current()
	if tok.Value == "" {
		return p.errorf("expected %s, got %v", want, tok.Type)
	}
	return p.errorf("expected %s, got %v %q", want, tok.Type, tok.Value)
}

// expect checks if current token matches expected type and advances
func (p *Parser) expect(tokType TokenType) error {
	if p.current().Type != tokType {
		return p.unexpected(tokType.String())
	}
	p.advance()
	return nil
}

// accept advances past the current token when it has type tokType
func (p *Parser) accept(tokType TokenType) bool {
	if p.current().Type == tokType {
		p.advance()
		return true
	}
	return false
}

// Parse parses one DSL statement. Lexing failures are returned as *LexError,
// grammar failures as *ParseError.
func Parse(line string) (Statement, error) {
	if err := ValidateStatement(line); err != nil {
		return nil, &ParseError{Line: 1, Col: 1, Msg: err.Error()}
	}

	tokens, err := Tokenize(line)
	if err != nil {
		return nil, err
	}

	if err := ValidateTokens(tokens); err != nil {
		return nil, &ParseError{Line: 1, Col: 1, Msg: err.Error()}
	}

	parser := NewParser(tokens)
	stmt, err := parser.parseStatement()
	if err != nil {
		return nil, err
	}

	if parser.current().Type != TokenEOF {
		return nil, parser.errorf("unexpected trailing tokens after statement: %s", parser.current().Value)
	}

	return stmt, nil
}

// ParseRecord parses a statement and returns its canonical record
func ParseRecord(line string) (Record, error) {
	stmt, err := Parse(line)
	if err != nil {
		return nil, err
	}
	return stmt.Record(), nil
}

func (p *Parser) parseStatement() (Statement, error) {
	tok := p.current()
	switch tok.Type {
	case TokenEOF:
		return nil, p.errorf("%s", ErrEmptyStatement)
	case TokenSet:
		p.advance()
		return p.parseSet()
	case TokenLoad:
		p.advance()
		return p.parseLoad()
	case TokenCast:
		p.advance()
		return p.parseCast()
	case TokenShow:
		p.advance()
		return p.parseShow()
	case TokenDescribe:
		p.advance()
		name, err := p.parseName("dataframe name")
		if err != nil {
			return nil, err
		}
		return &Describe{Dataframe: name}, nil
	case TokenPythonShell:
		p.advance()
		return &PythonShell{}, nil
	case TokenNew:
		p.advance()
		return p.parseNew()
	case TokenDelete:
		p.advance()
		return p.parseDelete()
	case TokenSelect:
		p.advance()
		return p.parseSelect()
	case TokenRunPlugin:
		p.advance()
		name, err := p.parseName("parameter set name")
		if err != nil {
			return nil, err
		}
		return &RunPlugin{Set: name}, nil
	case TokenRename:
		p.advance()
		return p.parseRename()
	case TokenMerge:
		p.advance()
		return p.parseMerge()
	case TokenSave:
		p.advance()
		return p.parseSave()
	default:
		return nil, p.unexpected("statement keyword")
	}
}

// parseName reads a user-supplied name: an identifier, quoted string,
// filename-like word or number, kept exactly as typed.
func (p *Parser) parseName(what string) (string, error) {
	tok := p.current()
	switch tok.Type {
	case TokenIdent, TokenString, TokenFilename, TokenNumber:
		if err := ValidateName(tok.Value); err != nil {
			return "", p.errorf("%s: %v", what, err)
		}
		p.advance()
		return tok.Value, nil
	default:
		return "", p.unexpected(what)
	}
}

// parsePath reads a file or folder operand
func (p *Parser) parsePath(what string) (string, error) {
	tok := p.current()
	switch tok.Type {
	case TokenFilename, TokenFolder, TokenString, TokenIdent:
		if err := ValidatePath(tok.Value); err != nil {
			return "", p.errorf("%s: %v", what, err)
		}
		p.advance()
		return tok.Value, nil
	default:
		return "", p.unexpected(what)
	}
}

// parseSet parses: set <setting> <value>
func (p *Parser) parseSet() (Statement, error) {
	tok := p.current()
	switch tok.Type {
	case TokenDisplayAST, TokenHeader:
		p.advance()
		v := p.current()
		if v.Type != TokenIdent && v.Type != TokenString && v.Type != TokenNumber {
			return nil, p.unexpected("setting value")
		}
		p.advance()
		return &SetStatement{Setting: tok.Value, Value: v.Value}, nil
	case TokenCWD, TokenRCWD:
		p.advance()
		path, err := p.parsePath("folder")
		if err != nil {
			return nil, err
		}
		return &SetStatement{Setting: tok.Value, Value: path}, nil
	case TokenOCWD:
		p.advance()
		return &SetStatement{Setting: SettingOCWD}, nil
	case TokenSeparator:
		p.advance()
		v := p.current()
		if !v.Type.isSymbol() && v.Type != TokenString && v.Type != TokenIdent {
			return nil, p.unexpected("separator")
		}
		p.advance()
		return &SetStatement{Setting: SettingSeparator, Value: v.Value}, nil
	case TokenFillin:
		p.advance()
		v := p.current()
		if v.Type != TokenNumber && v.Type != TokenIdent && v.Type != TokenString {
			return nil, p.unexpected("fill-in value")
		}
		p.advance()
		return &SetStatement{Setting: SettingFillin, Value: v.Value}, nil
	case TokenCasterror:
		p.advance()
		v := p.current()
		switch v.Type {
		case TokenReplace, TokenFillin, TokenIdent:
		default:
			return nil, p.unexpected("cast error policy")
		}
		p.advance()
		return &SetStatement{Setting: SettingCastError, Value: strings.ToLower(v.Value)}, nil
	case TokenParameter:
		p.advance()
		return p.parseSetParameter()
	default:
		return nil, p.unexpected("setting name")
	}
}

// parseSetParameter parses: set parameter <name> in <set> as <value>
func (p *Parser) parseSetParameter() (Statement, error) {
	var name string
	tok := p.current()
	switch {
	case tok.Type.IsKeyword():
		name = keywordSpelling[tok.Type]
		p.advance()
	default:
		var err error
		if name, err = p.parseName("parameter name"); err != nil {
			return nil, err
		}
	}
	if err := p.expect(TokenIn); err != nil {
		return nil, err
	}
	set, err := p.parseName("parameter set name")
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenAs); err != nil {
		return nil, err
	}
	v := p.current()
	switch v.Type {
	case TokenIdent, TokenString, TokenNumber, TokenFilename, TokenFolder:
	default:
		if !v.Type.IsKeyword() {
			return nil, p.unexpected("parameter value")
		}
	}
	p.advance()
	return &SetParameter{Name: name, Set: set, Value: v.Value}, nil
}

// parseLoad parses the load family:
//
//	load csv <file> as <name>
//	load noheader csv <file> as <name>
//	load parquet <file> as <name>
//	load session <file>
func (p *Parser) parseLoad() (Statement, error) {
	switch p.current().Type {
	case TokenSession:
		p.advance()
		file, err := p.parsePath("session file")
		if err != nil {
			return nil, err
		}
		return &LoadSession{File: file}, nil
	case TokenParquet:
		p.advance()
		file, name, err := p.parseFileAsName()
		if err != nil {
			return nil, err
		}
		return &LoadParquet{File: file, Name: name}, nil
	case TokenNoheader:
		p.advance()
		if err := p.expect(TokenCSV); err != nil {
			return nil, err
		}
		file, name, err := p.parseFileAsName()
		if err != nil {
			return nil, err
		}
		return &LoadCSV{File: file, Name: name, NoHeader: true}, nil
	case TokenCSV:
		p.advance()
		file, name, err := p.parseFileAsName()
		if err != nil {
			return nil, err
		}
		return &LoadCSV{File: file, Name: name}, nil
	default:
		return nil, p.unexpected("'csv', 'noheader', 'parquet' or 'session'")
	}
}

func (p *Parser) parseFileAsName() (string, string, error) {
	file, err := p.parsePath("file name")
	if err != nil {
		return "", "", err
	}
	if err := p.expect(TokenAs); err != nil {
		return "", "", err
	}
	name, err := p.parseName("dataframe name")
	if err != nil {
		return "", "", err
	}
	return file, name, nil
}

// parseCast parses: cast <series,...|all> in <df> as <type>
func (p *Parser) parseCast() (Statement, error) {
	var series []string
	if p.accept(TokenAll) {
		series = []string{"all"}
	} else {
		for {
			name, err := p.parseName("series name")
			if err != nil {
				return nil, err
			}
			series = append(series, name)
			if !p.accept(TokenComma) {
				break
			}
		}
	}
	if err := p.expect(TokenIn); err != nil {
		return nil, err
	}
	df, err := p.parseName("dataframe name")
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenAs); err != nil {
		return nil, err
	}
	tok := p.current()
	switch tok.Type {
	case TokenAlpha, TokenNonalpha, TokenFloat, TokenReal, TokenInteger:
		p.advance()
	default:
		return nil, p.unexpected("cast type")
	}
	return &Cast{Type: tok.Value, Dataframe: df, Series: series}, nil
}

// parseShow parses: show <target> [name]
func (p *Parser) parseShow() (Statement, error) {
	tok := p.current()
	switch tok.Type {
	case TokenASTHistory, TokenEnvironment, TokenHistory, TokenSession:
		p.advance()
		return &Show{Target: tok.Value}, nil
	case TokenPlugin:
		p.advance()
		if p.accept(TokenList) {
			return &Show{Target: "pluginlist"}, nil
		}
		name, err := p.parseName("plugin name")
		if err != nil {
			return nil, err
		}
		return &Show{Target: "plugindata", Extra: name}, nil
	case TokenDataframe, TokenParameter:
		p.advance()
		show := &Show{Target: keywordSpelling[tok.Type]}
		if p.current().Type != TokenEOF {
			name, err := p.parseName("name")
			if err != nil {
				return nil, err
			}
			show.Extra = name
		}
		return show, nil
	default:
		return nil, p.unexpected("show target")
	}
}

// parseNew parses:
//
//	new <plugin> parameter as <name>
//	new <name> dataframe from <set> results|dataframe
func (p *Parser) parseNew() (Statement, error) {
	first, err := p.parseName("name")
	if err != nil {
		return nil, err
	}
	switch p.current().Type {
	case TokenParameter:
		p.advance()
		if err := p.expect(TokenAs); err != nil {
			return nil, err
		}
		name, err := p.parseName("parameter set name")
		if err != nil {
			return nil, err
		}
		return &NewParameter{Plugin: first, Name: name}, nil
	case TokenDataframe:
		p.advance()
		if err := p.expect(TokenFrom); err != nil {
			return nil, err
		}
		set, err := p.parseName("parameter set name")
		if err != nil {
			return nil, err
		}
		loc := p.current()
		if loc.Type != TokenResults && loc.Type != TokenDataframe {
			return nil, p.unexpected("'results' or 'dataframe'")
		}
		p.advance()
		return &NewDataframe{Name: first, Set: set, Location: loc.Value}, nil
	default:
		return nil, p.unexpected("'parameter' or 'dataframe'")
	}
}

// parseDelete parses: delete dataframe|parameter <name>
func (p *Parser) parseDelete() (Statement, error) {
	switch p.current().Type {
	case TokenDataframe:
		p.advance()
		name, err := p.parseName("dataframe name")
		if err != nil {
			return nil, err
		}
		return &DeleteDataframe{Name: name}, nil
	case TokenParameter:
		p.advance()
		name, err := p.parseName("parameter set name")
		if err != nil {
			return nil, err
		}
		return &DeleteParameter{Name: name}, nil
	default:
		return nil, p.unexpected("'dataframe' or 'parameter'")
	}
}

// parseSelect parses: select from <df> as <new> [where [<series>] <binop> <value>]
func (p *Parser) parseSelect() (Statement, error) {
	if err := p.expect(TokenFrom); err != nil {
		return nil, err
	}
	source, err := p.parseName("dataframe name")
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenAs); err != nil {
		return nil, err
	}
	target, err := p.parseName("dataframe name")
	if err != nil {
		return nil, err
	}
	if !p.accept(TokenWhere) {
		return &DuplicateFrame{Source: source, Target: target}, nil
	}

	if p.current().Type.isSymbol() {
		op := p.parseBinop()
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		return &GreedySearch{Source: source, Target: target, Op: op, Value: value}, nil
	}

	series, err := p.parseName("series name")
	if err != nil {
		return nil, err
	}
	if !p.current().Type.isSymbol() {
		return nil, p.unexpected("comparison operator")
	}
	op := p.parseBinop()
	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &IDSearch{Source: source, Target: target, Series: series, Op: op, Value: value}, nil
}

// parseBinop consumes one operator token. Anything but the six comparators
// becomes the wildcard.
func (p *Parser) parseBinop() Comparator {
	tok := p.current()
	p.advance()
	if !tok.Type.IsComparator() {
		return Wildcard
	}
	return NormalizeComparator(tok.Value)
}

// parseValue reads a filter value: numbers become float64, everything else
// stays a string.
func (p *Parser) parseValue() (any, error) {
	tok := p.current()
	switch tok.Type {
	case TokenNumber:
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
				return nil, p.errorf("number out of range: %s", tok.Value)
			}
			return nil, p.errorf("invalid number: %s", tok.Value)
		}
		p.advance()
		return f, nil
	case TokenIdent, TokenString, TokenFilename:
		p.advance()
		return tok.Value, nil
	default:
		return nil, p.unexpected("value")
	}
}

// parseRename parses: rename series|labels in <df> from <old> to <new>
func (p *Parser) parseRename() (Statement, error) {
	kind := p.current().Type
	if kind != TokenSeries && kind != TokenLabels {
		return nil, p.unexpected("'series' or 'labels'")
	}
	p.advance()
	if err := p.expect(TokenIn); err != nil {
		return nil, err
	}
	df, err := p.parseName("dataframe name")
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenFrom); err != nil {
		return nil, err
	}
	oldName, err := p.parseName("old name")
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenTo); err != nil {
		return nil, err
	}
	newName, err := p.parseName("new name")
	if err != nil {
		return nil, err
	}
	if kind == TokenSeries {
		return &RenameSeries{Dataframe: df, Old: oldName, New: newName}, nil
	}
	return &RenameLabel{Dataframe: df, Old: oldName, New: newName}, nil
}

// parseMerge parses:
//
//	merge series <s> from <src> to <dst>
//	merge [replace] labels from <src> to <dst>
func (p *Parser) parseMerge() (Statement, error) {
	if p.accept(TokenSeries) {
		series, err := p.parseName("series name")
		if err != nil {
			return nil, err
		}
		src, dst, err := p.parseFromTo()
		if err != nil {
			return nil, err
		}
		return &MergeSeries{Series: series, Source: src, Target: dst}, nil
	}

	replace := p.accept(TokenReplace)
	if err := p.expect(TokenLabels); err != nil {
		return nil, err
	}
	src, dst, err := p.parseFromTo()
	if err != nil {
		return nil, err
	}
	return &MergeLabels{Source: src, Target: dst, Replace: replace}, nil
}

func (p *Parser) parseFromTo() (string, string, error) {
	if err := p.expect(TokenFrom); err != nil {
		return "", "", err
	}
	src, err := p.parseName("source dataframe")
	if err != nil {
		return "", "", err
	}
	if err := p.expect(TokenTo); err != nil {
		return "", "", err
	}
	dst, err := p.parseName("target dataframe")
	if err != nil {
		return "", "", err
	}
	return src, dst, nil
}

// parseSave parses:
//
//	save dataframe <df> as csv|parquet <file>
//	save session as <file>
func (p *Parser) parseSave() (Statement, error) {
	switch p.current().Type {
	case TokenSession:
		p.advance()
		if err := p.expect(TokenAs); err != nil {
			return nil, err
		}
		file, err := p.parsePath("session file")
		if err != nil {
			return nil, err
		}
		return &SaveSession{File: file}, nil
	case TokenDataframe:
		p.advance()
		df, err := p.parseName("dataframe name")
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenAs); err != nil {
			return nil, err
		}
		format := p.current().Type
		if format != TokenCSV && format != TokenParquet {
			return nil, p.unexpected("'csv' or 'parquet'")
		}
		p.advance()
		file, err := p.parsePath("file name")
		if err != nil {
			return nil, err
		}
		if format == TokenCSV {
			return &SaveCSV{Dataframe: df, File: file}, nil
		}
		return &SaveParquet{Dataframe: df, File: file}, nil
	default:
		return nil, p.unexpected("'dataframe' or 'session'")
	}
}
