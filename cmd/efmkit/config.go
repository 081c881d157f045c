package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openefiling/efmkit/internal/config"
	"github.com/openefiling/efmkit/internal/home"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a default config file to the efmkit home directory, creating
the directory if needed. Refuses to overwrite an existing config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := dir.EnsureExists(); err != nil {
			return err
		}
		if dir.ConfigExists() {
			return fmt.Errorf("config already exists at %s", dir.ConfigPath())
		}
		if err := config.WriteDefault(dir.ConfigPath()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", dir.ConfigPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}
