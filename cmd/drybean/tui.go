package main

import (
	"github.com/spf13/cobra"

	"drybean/tui"
)

func newTUICmd(a *app) *cobra.Command {
	var style string
	cmd := &cobra.Command{
		Use:         "tui",
		Short:       "Fill in the form in the terminal",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{quietAnnotation: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			holder, _, err := a.loadHolder(cmd.Context())
			if err != nil {
				return err
			}
			defer holder.Close()
			return tui.Run(holder, tui.Options{GlamourStyle: style})
		},
	}
	cmd.Flags().StringVar(&style, "style", "", "glamour style: dark, light, notty (default: detect)")
	return cmd
}
