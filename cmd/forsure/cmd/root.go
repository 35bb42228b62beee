// ============================================================================
// ForSure - Project Structure Toolkit
// ============================================================================
//
// Package:     cmd
// Description: Root command, global flags and shared helpers of the CLI
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	fserr "github.com/msto63/forsure/foundation/core/error"
	fslog "github.com/msto63/forsure/foundation/core/log"
	"github.com/msto63/forsure/foundation/forsure"
	"github.com/msto63/forsure/foundation/forsure/parser"
	"github.com/msto63/forsure/foundation/forsure/tree"
	"github.com/msto63/forsure/foundation/utils/filex"
	"github.com/msto63/forsure/pkg/core/config"
	"github.com/msto63/forsure/pkg/core/logging"
)

var (
	cfgFile   string
	verbose   bool
	logFormat string

	appConfig *config.Config
	cfgPath   string
	logger    *fslog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "forsure",
	Short: "ForSure - describe project structures as text",
	Long: `ForSure reads project structure documents written in the ForSure
markup and turns them into directory trees, or the other way round.

A document uses headings for projects and directories, list items for
entries, <file> and <directory> blocks for nested structure and content
tags such as <description> or <command> for annotations.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the CLI and returns the process exit status
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(err)
		return exitCode(err)
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./forsure.toml or ~/.config/forsure/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console, text, json or logfmt")
}

// setup loads the configuration and builds the logger before every command
func setup(cmd *cobra.Command, args []string) error {
	cfg, path, err := config.Resolve(cfgFile)
	if err != nil {
		return err
	}
	if logFormat != "" {
		cfg.General.LogFormat = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	appConfig = cfg
	cfgPath = path
	logger = logging.FromConfig(cfg.General, verbose)
	fslog.SetDefault(logger)

	if path != "" {
		logger.Debug("Configuration loaded", fslog.String("path", path))
	}
	return nil
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	var e *fserr.Error
	if verbose && errors.As(err, &e) {
		fmt.Fprintln(os.Stderr, e.String())
	}
}

func exitCode(err error) int {
	return fserr.GetCode(err).ExitCode()
}

func parserOptions(source string) parser.Options {
	return parser.Options{
		Logger:         logger,
		MaxInputLength: appConfig.Parser.MaxInputSize,
		Source:         source,
	}
}

// readDocument parses the document at path; "-" reads standard input
func readDocument(path string) (*tree.Document, error) {
	if path != "-" {
		return forsure.ParseFileWithOptions(path, parserOptions(path))
	}

	data, err := readStdin(int64(appConfig.Parser.MaxInputSize))
	if err != nil {
		return nil, err
	}
	return forsure.ParseWithOptions(string(data), parserOptions("<stdin>"))
}

// readSource returns the raw text of path or, for "-", of standard input
func readSource(path string) ([]byte, error) {
	limit := int64(appConfig.Parser.MaxInputSize)
	if path == "-" {
		return readStdin(limit)
	}
	if limit <= 0 {
		limit = parser.DefaultMaxInputLength
	}

	data, err := filex.ReadLimited(path, limit)
	if err != nil {
		code := fserr.CodeIOError
		switch {
		case errors.Is(err, os.ErrNotExist):
			code = fserr.CodeNotFound
		case errors.Is(err, filex.ErrTooLarge):
			code = fserr.CodeInputTooLarge
		}
		return nil, fserr.Wrap(err, "failed to read document").
			WithCode(code).
			WithDetail("path", path)
	}
	return data, nil
}

func readStdin(limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = parser.DefaultMaxInputLength
	}
	data, err := io.ReadAll(io.LimitReader(os.Stdin, limit+1))
	if err != nil {
		return nil, fserr.Wrap(err, "failed to read standard input").
			WithCode(fserr.CodeIOError)
	}
	if int64(len(data)) > limit {
		return nil, fserr.Newf("standard input exceeds %d bytes", limit).
			WithCode(fserr.CodeInputTooLarge)
	}
	return data, nil
}

// colorOutput reports whether styled output should go to w
func colorOutput(w io.Writer, disabled bool) bool {
	if disabled || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
