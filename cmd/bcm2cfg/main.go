// Bcm2cfg reads, edits and re-encodes Broadcom cable-modem nonvolatile
// settings dumps (gwsettings.bin, permnv and dynnv images).
//
// It auto-detects the container family, the device profile and - for
// encrypted gwsettings files - the AES key, then exposes the contained
// settings groups as a tree of named values.
//
// Usage:
//
//	bcm2cfg [command] [flags]
//
// See 'bcm2cfg --help' for available commands. Diagnostics go to stderr;
// set BCM2_LOG_LEVEL or --log-level to raise verbosity.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viro24/bcm2cfg/internal/logging"
	"github.com/viro24/bcm2cfg/internal/version"
)

func main() {
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var ue usageError
		if errors.As(err, &ue) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// usageError marks bad command-line usage; it maps to exit code 2 while
// everything else exits 1.
type usageError struct {
	err error
}

func (u usageError) Error() string { return u.err.Error() }
func (u usageError) Unwrap() error { return u.err }

func usageErrorf(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// exactArgs is cobra.ExactArgs with usage-error exit semantics.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageErrorf("%s requires exactly %d argument(s), got %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}

var rootCmd = &cobra.Command{
	Use:   "bcm2cfg",
	Short: "Broadcom cable modem nonvol settings utility",
	Long: `A utility for inspecting and editing Broadcom cable modem nonvolatile
settings dumps: gwsettings.bin files and permnv/dynnv flash images.

Containers are identified automatically where possible. Device profiles
supply the MD5 checksum key and the default AES keys for encrypted files;
unknown groups are preserved byte-for-byte.`,
	Version:       version.Full(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bcm2cfg %s\n", version.Full())
	},
}
