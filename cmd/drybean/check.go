package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the artifacts and run the self-check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := a.newLoader()
			if err != nil {
				return err
			}
			pipeline, report, err := loader.Load(cmd.Context())
			if err != nil {
				return err
			}
			defer pipeline.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "source:   %s\n", loader.Source())
			fmt.Fprintf(out, "features: %d\n", report.Features)
			fmt.Fprintf(out, "classes:  %s\n", strings.Join(report.Classes, ", "))
			fmt.Fprintf(out, "probe:    %s\n", report.ProbeLabel)
			return nil
		},
	}
}
