package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/streampad/cli/pkg/cli"
	"github.com/streampad/cli/pkg/console"
	"github.com/streampad/cli/pkg/constants"
	"github.com/streampad/cli/pkg/validation"
)

// Build-time variables set by GoReleaser
var (
	version = "dev"
)

// Global flags
var verbose bool

var rootCmd = &cobra.Command{
	Use:   constants.CLIName,
	Short: "StreamPad plugin tooling",
	Long: `Tooling for StreamPad plugin packages.

A plugin package is a ` + constants.PluginSuffix + ` directory containing a ` + constants.ManifestFileName + `,
the plugin code and its assets. The validate command checks a package against
the manifest and layout rules before it is submitted or installed.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <package>...",
	Short: "Validate StreamPad plugin packages",
	Long: `Validate one or more plugin packages and report every problem found.

Each package is checked for a well-formed manifest, resolvable file
references, unique action identifiers, a reachable support URL and, for
encoder actions, valid layout documents.

Examples:
  ` + constants.CLIName + ` validate com.example.counter` + constants.PluginSuffix + `
  ` + constants.CLIName + ` validate --watch com.example.counter` + constants.PluginSuffix + `
  ` + constants.CLIName + ` validate -v plugins/*` + constants.PluginSuffix,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		watch, _ := cmd.Flags().GetBool("watch")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		err := cli.ValidatePlugins(args, cli.ValidateOptions{
			Verbose: verbose,
			Watch:   watch,
			Timeout: timeout,
		})
		if err != nil {
			// Findings were already reported; only unexpected faults
			// need their own line.
			if !errors.Is(err, cli.ErrValidationFailed) {
				fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			}
			os.Exit(1)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(console.FormatInfoMessage(fmt.Sprintf("%s version %s", constants.CLIName, version)))
	},
}

func init() {
	// Add global verbose flag to root command
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output showing detailed information")

	validateCmd.Flags().BoolP("watch", "w", false, "Watch packages for changes and revalidate automatically")
	validateCmd.Flags().Duration("timeout", validation.DefaultProbeTimeout, "Timeout for the support URL probe")

	// Add all commands to root
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	// Set version information in the CLI package
	cli.SetVersionInfo(version)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(console.FormatErrorMessage(err.Error()))
		os.Exit(1)
	}
}
