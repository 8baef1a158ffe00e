package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		sceneMode bool
		dataDir   string
	)

	cmd := &cobra.Command{
		Use:   "validate [paths...]",
		Short: "Check dialogue scripts and scene manifests",
		Long: "Decodes each file strictly and reports structural errors. Warnings\n" +
			"do not fail the run. Pass --scene to check scene manifests instead of\n" +
			"scripts; their scripts are then loaded from --data-dir. With no paths,\n" +
			"every file under --data-dir is checked.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := &Validator{out: cmd.OutOrStdout(), dataDir: dataDir}
			if len(args) == 0 {
				if err := v.ValidateAll(cmd.Context(), sceneMode); err != nil {
					return err
				}
				return v.Report()
			}
			for _, path := range args {
				if sceneMode {
					v.ValidateSceneFile(cmd.Context(), path)
				} else {
					v.ValidateScriptFile(path)
				}
			}
			return v.Report()
		},
	}
	cmd.Flags().BoolVar(&sceneMode, "scene", false, "treat paths as scene manifests")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "data directory holding scripts/ and scenes/ (default ./data with no paths, else two levels above a manifest)")
	return cmd
}
