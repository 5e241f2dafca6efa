package dsl

// TokenType represents the type of a token
type TokenType int

const (
	// Keywords
	TokenAll TokenType = iota
	TokenAlpha
	TokenAs
	TokenASTHistory
	TokenCast
	TokenCasterror
	TokenCSV
	TokenCWD
	TokenDataframe
	TokenDelete
	TokenDescribe
	TokenDisplayAST
	TokenEnvironment
	TokenFillin
	TokenFloat
	TokenFrom
	TokenHeader
	TokenHistory
	TokenIn
	TokenInteger
	TokenLabels
	TokenList
	TokenLoad
	TokenMerge
	TokenNew
	TokenNoheader
	TokenNonalpha
	TokenOCWD
	TokenParameter
	TokenParquet
	TokenPlugin
	TokenPythonShell
	TokenRCWD
	TokenReal
	TokenRename
	TokenReplace
	TokenResults
	TokenRunPlugin
	TokenSave
	TokenSelect
	TokenSeparator
	TokenSeries
	TokenSession
	TokenSet
	TokenShow
	TokenTo
	TokenWhere

	// Punctuation
	TokenComma     // ,
	TokenColon     // :
	TokenSemicolon // ;
	TokenBackslash // \
	TokenBar       // |
	TokenDot       // .
	TokenPlus      // +
	TokenMinus     // -
	TokenTimes     // *
	TokenDivide    // /
	TokenDelimiter // any other run of operator characters

	// Operators
	TokenEqual        // =
	TokenNotEqual     // !=
	TokenLess         // <
	TokenGreater      // >
	TokenLessEqual    // <=
	TokenGreaterEqual // >=

	// Literals
	TokenString
	TokenNumber
	TokenIdent
	TokenFilename
	TokenFolder

	// Special
	TokenEOF
	TokenError
)

var tokenNames = map[TokenType]string{
	TokenComma:        "','",
	TokenColon:        "':'",
	TokenSemicolon:    "';'",
	TokenBackslash:    "'\\'",
	TokenBar:          "'|'",
	TokenDot:          "'.'",
	TokenPlus:         "'+'",
	TokenMinus:        "'-'",
	TokenTimes:        "'*'",
	TokenDivide:       "'/'",
	TokenDelimiter:    "delimiter",
	TokenEqual:        "'='",
	TokenNotEqual:     "'!='",
	TokenLess:         "'<'",
	TokenGreater:      "'>'",
	TokenLessEqual:    "'<='",
	TokenGreaterEqual: "'>='",
	TokenString:       "string",
	TokenNumber:       "number",
	TokenIdent:        "identifier",
	TokenFilename:     "filename",
	TokenFolder:       "folder",
	TokenEOF:          "end of statement",
	TokenError:        "invalid input",
}

// String returns a readable name for the token type, used in parse errors.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	if word, ok := keywordSpelling[t]; ok {
		return "'" + word + "'"
	}
	return "unknown"
}

// IsKeyword reports whether the token type is a reserved word.
func (t TokenType) IsKeyword() bool {
	return t >= TokenAll && t <= TokenWhere
}

// IsComparator reports whether the token type is one of the six relational
// operators.
func (t TokenType) IsComparator() bool {
	return t >= TokenEqual && t <= TokenGreaterEqual
}

// isSymbol reports whether the token type is punctuation, a delimiter run or a
// relational operator.
func (t TokenType) isSymbol() bool {
	return t >= TokenComma && t <= TokenGreaterEqual
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
	Line  int // 1-based
	Col   int // 1-based
}

// Comparator is the normalized relational operator of a select filter.
type Comparator string

// Comparators accepted in a where clause. Wildcard matches every value.
const (
	OpEqual        Comparator = "="
	OpNotEqual     Comparator = "!="
	OpLess         Comparator = "<"
	OpGreater      Comparator = ">"
	OpLessEqual    Comparator = "<="
	OpGreaterEqual Comparator = ">="
	Wildcard       Comparator = "*"
)

// NormalizeComparator maps any operator text to one of the six comparators,
// or to Wildcard when the text is not a recognized comparator.
func NormalizeComparator(text string) Comparator {
	switch c := Comparator(text); c {
	case OpEqual, OpNotEqual, OpLess, OpGreater, OpLessEqual, OpGreaterEqual:
		return c
	default:
		return Wildcard
	}
}
