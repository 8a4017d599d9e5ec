// Package cmd wires configuration, logging and storage into the plantr
// command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sadopc/plantr/internal/config"
)

// NewRootCmd builds the command tree. Running it without a subcommand opens
// the TUI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "plantr",
		Short: "Keep track of watering, fertilizing and repotting your plants",
		Long: `plantr remembers when each of your plants was last watered,
fertilized and repotted, and tells you what needs doing next.

Running plantr without a command opens the interactive garden view.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runTUI,
	}

	root.PersistentFlags().String("config", "", "config file (default .plantr.yaml)")
	root.PersistentFlags().String("db", "", "database path (default ~/.config/plantr/plantr.db)")
	root.PersistentFlags().String("log-level", "", "debug, info, warn or error")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return initConfig(cmd)
	}

	root.AddCommand(
		newListCmd(),
		newShowCmd(),
		newAddCmd(),
		newCareCmd("water", "Record that a plant was watered just now"),
		newCareCmd("fertilize", "Record that a plant was fertilized just now"),
		newCareCmd("repot", "Record that a plant was repotted just now"),
		newDeleteCmd(),
		newSearchCmd(),
		newExportCmd(),
		newServeCmd(),
	)
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".plantr")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	config.BindEnv()

	if f := cmd.Flags().Lookup("db"); f != nil {
		if err := viper.BindPFlag("db_path", f); err != nil {
			return err
		}
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		viper.Set("log_level", f.Value.String())
	}

	// Without --config a missing file is fine; defaults apply.
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}
