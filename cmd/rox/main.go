package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/oarkflow/log"
	"github.com/peterh/liner"
	"gopkg.in/yaml.v3"

	"github.com/indierusty/rox"
)

const (
	appName            = "rox"
	defaultHistoryFile = ".rox_history"
	defaultPromptMain  = "==> "
	defaultPromptCont  = "... "
)

var banner = fmt.Sprintf("rox %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", rox.Version)

// Config is the optional ~/.rox.yaml tool configuration. Absent file and
// absent keys both fall back to defaults.
type Config struct {
	History    string `yaml:"history"`
	Prompt     string `yaml:"prompt"`
	PromptCont string `yaml:"prompt_cont"`
	Color      bool   `yaml:"color"`
	Verbose    bool   `yaml:"verbose"`
}

func loadConfig() Config {
	cfg := Config{
		History:    defaultHistoryFile,
		Prompt:     defaultPromptMain,
		PromptCont: defaultPromptCont,
		Color:      true,
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}
	raw, err := os.ReadFile(filepath.Join(home, ".rox.yaml"))
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%s: ignoring malformed ~/.rox.yaml: %v\n", appName, err)
	}
	return cfg
}

func newLogger(cfg Config) *log.Logger {
	logger := log.DefaultLogger
	logger.Level = log.InfoLevel
	if cfg.Verbose {
		logger.Level = log.DebugLevel
	}
	return &logger
}

func red(s string, enabled bool) string {
	if !enabled {
		return s
	}
	return "\x1b[31m" + s + "\x1b[0m"
}

func blue(s string, enabled bool) string {
	if !enabled {
		return s
	}
	return "\x1b[94m" + s + "\x1b[0m"
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl())
	case "version":
		fmt.Println(rox.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`rox %s

Usage:
  %s run <file.rox>    Run a script.
  %s repl              Start the REPL.
  %s version           Print the version.

`, rox.Version, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.rox>\n", appName)
		return 2
	}
	cfg := loadConfig()
	logger := newLogger(cfg)

	file := args[0]
	raw, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}
	src := string(raw)

	start := time.Now()
	prog, diags := rox.ParseProgram(src)
	logger.Debug().
		Str("file", file).
		Int("statements", len(prog)).
		Int("diagnostics", len(diags)).
		Dur("elapsed", time.Since(start)).
		Msg("parsed")

	for _, d := range diags {
		fmt.Fprintln(os.Stderr, red(rox.WrapErrorWithSource(d, src).Error(), cfg.Color))
	}

	ip := rox.NewInterpreter()
	start = time.Now()
	errs := ip.Run(prog)
	logger.Debug().
		Str("file", file).
		Int("runtime_errors", len(errs)).
		Dur("elapsed", time.Since(start)).
		Msg("evaluated")

	for _, e := range errs {
		fmt.Fprintln(os.Stderr, red(e.Error(), cfg.Color))
	}

	if len(diags) > 0 || len(errs) > 0 {
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl() int {
	cfg := loadConfig()
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, cfg.History)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := rox.NewInterpreter()

	for {
		code, ok := readByParseProbe(ln, cfg.Prompt, cfg.PromptCont)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(code)
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return 0
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}
		if trimmed == "" {
			continue
		}

		v, err := ip.EvalPersistentSource(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(rox.WrapErrorWithSource(err, code).Error(), cfg.Color))
			continue
		}
		fmt.Println(blue(rox.FormatValue(v), cfg.Color))
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	return 0
}

// readByParseProbe accumulates lines until the buffer parses without an
// incomplete-at-EOF diagnostic, so multi-line blocks can be typed
// naturally.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		_, diags := rox.ParseProgramInteractive(b.String())
		if rox.HasIncomplete(diags) {
			continue
		}
		return b.String(), true
	}
}
