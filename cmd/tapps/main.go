package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"github.com/peterh/liner"

	"github.com/vegasq/tapps/frame"
	"github.com/vegasq/tapps/internal/config"
	"github.com/vegasq/tapps/session"
	"github.com/vegasq/tapps/shell"
)

var (
	configFlag     = flag.String("config", "", "YAML configuration file")
	scriptFlag     = flag.String("script", "", "Run statements from a file (- for stdin) instead of the prompt")
	pluginsFlag    = flag.String("plugins", "", "Directory of external plugins (overrides plugin_dir)")
	displayASTFlag = flag.Bool("displayast", false, "Print the parsed record of every statement")
	verboseFlag    = flag.Bool("v", false, "Verbose logging")
	historyFlag    = flag.String("history", "", "Prompt history file (default ~/.tapps_history)")
)

const defaultHistoryFile = ".tapps_history"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "An interactive shell for technical analysis and applied statistics.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -script analysis.tapps\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -config tapps.yaml -plugins ./plugins\n", os.Args[0])
	}

	flag.Parse()

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments: %s\n\n", strings.Join(flag.Args(), " "))
		flag.Usage()
		os.Exit(1)
	}

	log.SetLogLevel(log.Warning)
	if *verboseFlag {
		log.SetLogLevel(log.Verbose)
	}

	cfg := config.Default()
	if *configFlag != "" {
		var err error
		cfg, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *pluginsFlag != "" {
		cfg.PluginDir = *pluginsFlag
	}
	if *displayASTFlag {
		cfg.DisplayAST = true
	}
	if *historyFlag != "" {
		cfg.HistoryFile = *historyFlag
	}

	s, err := newSession(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	in := shell.New(s,
		shell.WithOutput(os.Stdout, os.Stderr),
		shell.WithRunContext(interruptContext),
		shell.WithPrompt(cfg.Prompt),
	)

	if *scriptFlag != "" {
		if err := runScript(in, *scriptFlag, os.Stdin); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runInteractive(in, historyPath(cfg.HistoryFile)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// interruptContext lets Ctrl-C stop the plugin being run. SIGINT is only
// captured while the run lasts.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}

// newEnvironment applies the configuration over the default environment
func newEnvironment(cfg config.Config) (session.Environment, error) {
	env := session.DefaultEnvironment()
	policy, err := frame.ParseCastPolicy(cfg.CastError)
	if err != nil {
		return env, err
	}
	env.Separator = cfg.Separator
	env.Newline = cfg.Newline
	env.Header = cfg.Header
	env.DisplayAST = cfg.DisplayAST
	env.CastPolicy = policy
	env.FillIn = cfg.FillInValue()
	env.PluginDir = cfg.PluginDir
	return env, nil
}

// newSession creates the session and loads the external plugins. Plugins
// that fail their checks are reported and skipped.
func newSession(cfg config.Config) (*session.Session, error) {
	env, err := newEnvironment(cfg)
	if err != nil {
		return nil, err
	}
	s := session.New(env)

	dir := env.PluginDir
	if dir != "" && !filepath.IsAbs(dir) {
		dir = filepath.Join(env.Cwd, dir)
	}
	results, err := s.Plugins.Discover(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read plugin directory: %w", err)
	}
	for _, res := range results {
		if !res.OK() {
			fmt.Fprintf(os.Stderr, "Warning: plugin %s\n", res)
		}
	}
	return s, nil
}

// runScript executes the statements of path, or of stdin for "-"
func runScript(in *shell.Interpreter, path string, stdin io.Reader) error {
	r := stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer func() { _ = file.Close() }()
		r = file
	}
	return in.Run(shell.NewScannerReader(r))
}

func historyPath(configured string) string {
	if configured != "" {
		return configured
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, defaultHistoryFile)
}

// promptReader adapts a liner prompt to shell.LineReader. Ctrl-C abandons
// the current line and yields an empty one.
type promptReader struct {
	state *liner.State
}

func (p *promptReader) ReadLine(prompt string) (string, error) {
	line, err := p.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		p.state.AppendHistory(line)
	}
	return line, nil
}

func runInteractive(in *shell.Interpreter, histPath string) error {
	fmt.Println(shell.Banner)

	ln := liner.NewLiner()
	defer func() { _ = ln.Close() }()
	ln.SetCtrlCAborts(true)

	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			} else {
				log.Warnf("cannot write history %s: %v", histPath, err)
			}
		}()
	}

	return in.Run(&promptReader{state: ln})
}
