package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"fortio.org/log"

	"github.com/vegasq/tapps/dsl"
	"github.com/vegasq/tapps/session"
)

// LineReader supplies input lines. ReadLine returns io.EOF when input ends.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// ScannerReader reads lines from a stream without echoing a prompt
type ScannerReader struct {
	scanner *bufio.Scanner
}

// NewScannerReader creates a LineReader over r
func NewScannerReader(r io.Reader) *ScannerReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), dsl.MaxStatementLength+1)
	return &ScannerReader{scanner: scanner}
}

func (s *ScannerReader) ReadLine(string) (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Result describes one processed line
type Result struct {
	// Index is the statement counter the line was recorded under
	Index int
	// Quit is set by the quit and exit directives
	Quit bool
	// Err is the failure that aborted the statement, if any
	Err error
	// Warnings lists recoverable problems reported while it ran
	Warnings []*Report
}

// Interpreter reads, parses and dispatches statements against one session.
// It is not safe for concurrent use.
type Interpreter struct {
	session *session.Session
	out     io.Writer
	errOut  io.Writer
	input   LineReader
	prompt  string

	// runContext scopes one plugin run
	runContext func(context.Context) (context.Context, context.CancelFunc)

	warnings []*Report
}

// Option configures an Interpreter
type Option func(*Interpreter)

// WithOutput sets the writers for results and diagnostics
func WithOutput(out, errOut io.Writer) Option {
	return func(in *Interpreter) {
		in.out, in.errOut = out, errOut
	}
}

// WithRunContext sets how the context of a single plugin run is made. The
// returned cancel func is called when the run ends, so a cancelled run leaves
// later runs unaffected.
func WithRunContext(f func(parent context.Context) (context.Context, context.CancelFunc)) Option {
	return func(in *Interpreter) {
		in.runContext = f
	}
}

// WithPrompt sets the prompt format; it may hold one %d for the counter
func WithPrompt(prompt string) Option {
	return func(in *Interpreter) {
		in.prompt = prompt
	}
}

// New creates an interpreter owning s
func New(s *session.Session, opts ...Option) *Interpreter {
	in := &Interpreter{
		session:    s,
		out:        io.Discard,
		errOut:     io.Discard,
		prompt:     "TAPPS: %d> ",
		runContext: context.WithCancel,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Session returns the session the interpreter owns
func (in *Interpreter) Session() *session.Session {
	return in.session
}

// Prompt returns the prompt for the next statement
func (in *Interpreter) Prompt() string {
	if strings.Contains(in.prompt, "%d") {
		return fmt.Sprintf(in.prompt, in.session.Counter)
	}
	return in.prompt
}

// Run reads and executes lines until quit, exit or the end of input. Input
// errors other than io.EOF are returned; statement failures never are.
func (in *Interpreter) Run(lines LineReader) error {
	in.input = lines
	defer func() { in.input = nil }()
	for {
		line, err := lines.ReadLine(in.Prompt())
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if res := in.Execute(line); res.Quit {
			return nil
		}
	}
}

// Execute processes one line. Blank lines and # comments are ignored and do
// not advance the counter. Every other line is recorded in the history and
// advances the counter whether or not it succeeds.
func (in *Interpreter) Execute(line string) (res Result) {
	line = strings.TrimSpace(line)
	res.Index = in.session.Counter
	if line == "" || strings.HasPrefix(line, "#") {
		return res
	}

	in.session.Record(line)
	in.warnings = nil
	defer func() {
		if r := recover(); r != nil {
			res.Err = errorf(CodeInternal, "statement failed: %v", r)
			in.report(res.Err)
		}
		res.Warnings = in.warnings
		// load session moves the counter; report where the line was recorded
		res.Index = in.session.Counter
		in.session.Advance()
	}()

	if d, ok := lookupDirective(line); ok {
		log.LogVf("directive %s", d)
		res.Quit = in.directive(d)
		return res
	}

	stmt, err := dsl.Parse(line)
	if err != nil {
		res.Err = err
		in.report(err)
		return res
	}
	rec := stmt.Record()
	in.session.RecordParse(rec)
	if in.session.Env.DisplayAST {
		fmt.Fprintln(in.out, rec.String())
	}

	log.LogVf("dispatch %s", rec)
	if err := in.dispatch(stmt); err != nil {
		res.Err = err
		in.report(err)
	}
	return res
}

// warn records a warning for the current statement and prints it
func (in *Interpreter) warn(r *Report) {
	in.warnings = append(in.warnings, r)
	in.report(r)
}

func (in *Interpreter) report(err error) {
	var (
		lexErr   *dsl.LexError
		parseErr *dsl.ParseError
		report   *Report
	)
	switch {
	case errors.As(err, &report):
		fmt.Fprintln(in.errOut, report.Error())
	case errors.As(err, &lexErr):
		fmt.Fprintf(in.errOut, "LexError: %v\n", lexErr)
	case errors.As(err, &parseErr):
		fmt.Fprintf(in.errOut, "ParseError: %v\n", parseErr)
	default:
		fmt.Fprintf(in.errOut, "Error: %v\n", err)
	}
}
