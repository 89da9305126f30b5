package main

import (
	"encoding/json"
	"fmt"
	"os"

	"qber/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage client configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default .qber/config.json in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := os.Getwd()
		if err != nil {
			return err
		}

		cfg := config.DefaultConfig()
		if endpointFlag != "" {
			cfg.Endpoint = endpointFlag
		}
		cfg.Defaults.ProjectID = projectFlag
		cfg.Defaults.QuestionnaireID = questionnaireFlag
		if err := cfg.Save(root); err != nil {
			return err
		}

		if token := os.Getenv("QBER_TOKEN"); token != "" {
			creds := &config.Credentials{Token: token}
			if err := creds.Save(root); err != nil {
				return err
			}
			fmt.Println("Wrote .qber/config.json and .qber/credentials.toml")
			return nil
		}

		fmt.Println("Wrote .qber/config.json (set QBER_TOKEN or edit .qber/credentials.toml to authenticate)")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := os.Getwd()
		if err != nil {
			return err
		}

		cfg, err := config.LoadConfig(root)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
