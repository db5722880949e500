package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/callsnap/internal/config"
	"github.com/hpungsan/callsnap/internal/db"
	"github.com/hpungsan/callsnap/internal/logger"
	"github.com/hpungsan/callsnap/internal/mcp"
	"github.com/hpungsan/callsnap/internal/ops"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"create": true, "get": true, "list": true,
	"process": true, "resummarize": true,
	"transcript": true, "summary": true,
	"search": true, "export": true, "minutes": true, "captions": true,
	"stats": true, "status": true, "serve": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v"
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
    ____      _ _ ____
   / ___|__ _| | / ___| _ __   __ _ _ __
  | |   / _' | | \___ \| '_ \ / _' | '_ \
  | |__| (_| | | |___) | | | | (_| | |_) |
   \____\__,_|_|_|____/|_| |_|\__,_| .__/
                                   |_|
  Meeting transcripts, summaries and minutes

  Usage: callsnap <command> [options]
         callsnap --help

  MCP server mode requires piped input.`)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before opening the store
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fatalf("%v", err)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if !isCLIMode() && len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'callsnap --help' for usage.\n")
		os.Exit(1)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fatalf("could not determine home directory: %v", err)
	}
	baseDir := filepath.Join(homeDir, ".callsnap")

	cwd, err := os.Getwd()
	if err != nil {
		fatalf("could not determine working directory: %v", err)
	}
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fatalf("failed to load config: %v", err)
	}
	if err := config.ApplyEnv(cfg, os.Getenv); err != nil {
		fatalf("%v", err)
	}
	if err := cfg.Validate(); err != nil {
		fatalf("invalid config: %v", err)
	}

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		fatalf("failed to configure logging: %v", err)
	}
	defer logger.Close()

	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		logger.Warnf("ignoring unknown disabled_tools: %v", unknown)
	}

	st, err := db.OpenStore(context.Background(), cfg, baseDir)
	if err != nil {
		fatalf("failed to open meeting store: %v", err)
	}
	defer st.Close()

	env := ops.NewEnv(st, cfg)

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(env)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintln(os.Stderr, err)
			st.Close()
			logger.Close()
			os.Exit(1)
		}
		return
	}

	// MCP server mode (default)
	if err := mcp.Run(env, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		st.Close()
		logger.Close()
		os.Exit(1)
	}
}
