package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newEnterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enter",
		Short: "Resolve the manifest and enter the environment as a shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Enter(cmd.Context(), runOptionsFromFlags(cmd))
		},
	}
}
