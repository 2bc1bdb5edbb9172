package main

import (
	"github.com/spf13/cobra"
)

var countriesFormat string

func init() {
	countriesCmd.Flags().StringVar(&countriesFormat, "format", styleTable, "output format: table, json, compact")
	rootCmd.AddCommand(countriesCmd)
}

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List the country profiles that can be scraped.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validStyle(countriesFormat); err != nil {
			return err
		}

		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}

		registry, err := loadProfiles(cfg)
		if err != nil {
			return err
		}

		return printCountries(cmd.OutOrStdout(), registry.All(), countriesFormat)
	},
}
