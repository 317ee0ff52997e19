// Package commands implements the postboard command line.
package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"postboard/app/config"
	"postboard/app/repositories"
	"postboard/app/repositories/sqlite"
)

// Version is the release reported by the version command.
const Version = "1.0.0"

// ErrUsage is returned for unknown commands and missing arguments.
var ErrUsage = errors.New("invalid usage")

// CLI runs postboard subcommands.
type CLI struct {
	Out        io.Writer
	In         io.Reader
	LoadConfig func() (*config.Config, error)

	// onListen is called with the bound address once serve is accepting.
	onListen func(net.Addr)
}

// New returns a CLI wired to the process stdio and environment.
func New() *CLI {
	return &CLI{
		Out: os.Stdout,
		In:  os.Stdin,
		LoadConfig: func() (*config.Config, error) {
			return config.Load()
		},
	}
}

// Run executes the subcommand named by args[0]. serve returns when ctx is
// done.
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) < 1 {
		c.printHelp()
		return ErrUsage
	}

	cmd := strings.ToLower(args[0])
	switch cmd {
	case "help", "-h", "--help":
		c.printHelp()
		return nil
	case "version":
		fmt.Fprintf(c.Out, "postboard version %s\n", Version)
		return nil
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	switch cmd {
	case "serve":
		return c.serve(ctx, cfg)
	case "init":
		return c.initDB(cfg)
	case "clean":
		return c.clean(cfg, hasYes(args[1:]))
	case "backup":
		return c.backup(ctx, cfg)
	case "restore":
		rest := withoutFlags(args[1:])
		if len(rest) < 1 {
			fmt.Fprintln(c.Out, "Error: backup file path required for restore")
			return ErrUsage
		}
		return c.restore(cfg, rest[0], hasYes(args[1:]))
	case "alerts":
		return c.alerts(ctx, cfg, args[1:])
	default:
		fmt.Fprintf(c.Out, "Unknown command: %s\n\n", args[0])
		c.printHelp()
		return ErrUsage
	}
}

func (c *CLI) printHelp() {
	helpText := `Usage: postboard <command> [options]

Commands:
  serve                          Run the blog API server
  init                           Create the database and apply migrations
  clean [-y]                     Delete the database
  backup                         Write a backup into the backup directory
  restore <file> [-y]            Replace the database with a backup
  alerts add <keyword> <author>  Register a keyword alert
  alerts list                    List keyword alerts
  version                        Show version information
  help                           Display this help message

Configuration is read from POSTBOARD_* environment variables and .env.`
	fmt.Fprintln(c.Out, helpText)
}

// confirm asks a yes/no question on In; anything but y or Y is no.
func (c *CLI) confirm(question string) bool {
	fmt.Fprintf(c.Out, "%s [y/N] ", question)
	scanner := bufio.NewScanner(c.In)
	if !scanner.Scan() {
		return false
	}
	answer := strings.TrimSpace(scanner.Text())
	return answer == "y" || answer == "Y"
}

func hasYes(args []string) bool {
	for _, a := range args {
		if a == "-y" || a == "--yes" {
			return true
		}
	}
	return false
}

func withoutFlags(args []string) []string {
	var out []string
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			out = append(out, a)
		}
	}
	return out
}

// openStore opens the store selected by cfg.
func openStore(cfg *config.Config) (repositories.Store, error) {
	switch cfg.Store {
	case config.StoreBadger:
		store, err := repositories.OpenBadger(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// storePath is the on-disk location of the configured store.
func storePath(cfg *config.Config) string {
	if cfg.Store == config.StoreBadger {
		return cfg.BadgerPath
	}
	return cfg.SQLitePath
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
