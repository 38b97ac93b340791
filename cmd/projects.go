package cmd

import (
	"io"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the projects supported by PaperMC",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := newClient(cmd).Projects(cmd.Context())
		if err != nil {
			return err
		}

		return render(cmd, list, func(w io.Writer) { printProjects(w, list) })
	},
}

func init() {
	RootCmd.AddCommand(projectsCmd)
}
