package main

import (
	"github.com/pevans/ussdcodes/dataset"
	"github.com/spf13/cobra"
)

var (
	datasetsDir    string
	datasetsFormat string
)

func init() {
	datasetsCmd.Flags().StringVarP(&datasetsDir, "out-dir", "o", "", "directory holding the datasets")
	datasetsCmd.Flags().StringVar(&datasetsFormat, "format", styleTable, "output format: table, json, compact")
	rootCmd.AddCommand(datasetsCmd)
}

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List exported JSON datasets in the output directory.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validStyle(datasetsFormat); err != nil {
			return err
		}

		overrides := make(map[string]any)
		if cmd.Flags().Changed("out-dir") {
			overrides["output.dir"] = datasetsDir
		}

		cfg, err := loadConfig(cmd, overrides)
		if err != nil {
			return err
		}

		store, err := dataset.NewStore(cfg.Output.Dir)
		if err != nil {
			return err
		}

		result, err := store.List()
		if err != nil {
			return err
		}

		return printDatasets(cmd.OutOrStdout(), store.Dir(), result, datasetsFormat)
	},
}
