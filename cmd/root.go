// Package cmd implements the command-line interface for the kindergarten
// collector.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tknemuru/kindergarten-collecting/cmd/collect"
	"github.com/tknemuru/kindergarten-collecting/cmd/common"
	cmdschedule "github.com/tknemuru/kindergarten-collecting/cmd/schedule"
)

var rootCmd = &cobra.Command{
	Use:   "kinder-collector",
	Short: "Collect nursery facility pages into a CSV table",
	Long: `kinder-collector downloads listing pages, follows their detail links,
and extracts every detail page into one CSV with a column per field label.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $CONFIG_PATH or ./config.yml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.String("log-level", "", "override logging.level (debug, info, warn, error)")

	cobra.OnInitialize(bindFlags)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", common.ServiceName, common.Version)
		},
	})
	rootCmd.AddCommand(collect.Command())
	rootCmd.AddCommand(cmdschedule.Command())
}

// bindFlags binds the persistent flags to viper. APP_DEBUG also enables
// debug logging.
func bindFlags() {
	flags := rootCmd.PersistentFlags()
	_ = viper.BindPFlag(common.KeyConfig, flags.Lookup("config"))
	_ = viper.BindPFlag(common.KeyDebug, flags.Lookup("debug"))
	_ = viper.BindPFlag(common.KeyLogLevel, flags.Lookup("log-level"))
	_ = viper.BindEnv(common.KeyDebug, "APP_DEBUG")
}
