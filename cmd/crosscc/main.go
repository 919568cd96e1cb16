// Command crosscc resolves C/C++ cross toolchain descriptors from the environment.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tmaxmax/crosscc/internal/config"
)

// version can be overridden at build time via -ldflags.
var version = "0.1.0-dev"

var rootCmd = &cobra.Command{
	Use:   "crosscc",
	Short: "Resolve C/C++ cross toolchain descriptors from the environment",
	Long: `crosscc infers a C/C++ toolchain descriptor for a build orchestrator from
CROSS_TARGET, CROSS_TOOLCHAIN_PREFIX, CROSS_TOOLCHAIN_SUFFIX and PATH.
When neither the target nor the prefix is set, a stub descriptor that no
platform can select is produced.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// settings are shared by every subcommand once setup ran.
var settings struct {
	cfg    config.Config
	logger *log.Logger
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(flagsCmd)

	rootCmd.PersistentFlags().String("config", "", "TOML config file (default $"+config.EnvVar+")")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log resolution steps to stderr")
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()

	colorMode, err := flags.GetString("color")
	if err != nil {
		return err
	}
	switch colorMode {
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("unsupported color mode: %s (supported: auto, on, off)", colorMode)
	}

	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return err
	}
	settings.logger = log.New(io.Discard, "", 0)
	if verbose {
		settings.logger = log.New(os.Stderr, "crosscc: ", 0)
	}

	path, err := flags.GetString("config")
	if err != nil {
		return err
	}
	settings.cfg, err = config.Load(path)
	return err
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
