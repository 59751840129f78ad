package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sysmod/magicmount/pkg/logging"
)

// Populated at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	verbosity int
	cfgFile   string

	rootCmd = &cobra.Command{
		Use:   "magicmount",
		Short: "Systemless module mounting for read-only system partitions",
		Long: `magicmount presents a modified view of the root filesystem with module
content inserted, overridden, or hidden, without writing to the underlying
partitions. Modifications are assembled in a scratch tmpfs and applied
purely through bind and move mounts, so a reboot restores the pristine
system.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command. It is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/magicmount.toml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(mountCmd)
	rootCmd.AddCommand(listCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("magicmount version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}
