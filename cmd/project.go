package cmd

import (
	"fmt"
	"io"

	"github.com/CloudNativeWorks/paperctl/internal/papermc"
	"github.com/spf13/cobra"
)

var (
	projectName  string
	projectGroup string
	projectVer   string
	buildID      string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Show information about a project, version group or version",
	Long: `Show information about a project. With --group the version group is shown,
with --version the version and its build numbers.`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: checkProjectFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient(cmd)
		ctx := cmd.Context()

		switch {
		case projectVer != "":
			version, err := client.Version(ctx, projectName, projectVer)
			if err != nil {
				return err
			}
			return render(cmd, version, func(w io.Writer) { printVersion(w, version) })

		case projectGroup != "":
			group, err := client.VersionGroup(ctx, projectName, projectGroup)
			if err != nil {
				return err
			}
			return render(cmd, group, func(w io.Writer) { printVersionGroup(w, group) })

		default:
			project, err := client.Project(ctx, projectName)
			if err != nil {
				return err
			}
			return render(cmd, project, func(w io.Writer) { printProject(w, project) })
		}
	},
}

var buildsCmd = &cobra.Command{
	Use:   "builds",
	Short: "Show the builds of a version or version group",
	Long: `Show the builds of the version or version group selected on the parent command.
With --build the details of that single build are shown; "latest" picks the newest one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient(cmd)
		ctx := cmd.Context()
		buildSet := cmd.Flags().Changed("build")

		switch {
		case projectVer != "":
			if !buildSet {
				version, err := client.Version(ctx, projectName, projectVer)
				if err != nil {
					return err
				}
				return render(cmd, version, func(w io.Writer) { printVersion(w, version) })
			}

			build, err := client.ResolveBuild(ctx, projectName, projectVer, buildID)
			if err != nil {
				return err
			}
			info, err := client.VersionBuild(ctx, projectName, projectVer, build)
			if err != nil {
				return err
			}
			return render(cmd, info, func(w io.Writer) { printVersionBuild(w, info) })

		case projectGroup != "":
			var n int
			if buildSet && !papermc.IsLatest(buildID) {
				// Validate before contacting the server
				var err error
				if n, err = papermc.ParseBuild(buildID); err != nil {
					return err
				}
			}

			group, err := client.VersionGroupBuilds(ctx, projectName, projectGroup)
			if err != nil {
				return err
			}
			if !buildSet {
				return render(cmd, group, func(w io.Writer) { printVersionGroupBuilds(w, group) })
			}

			if papermc.IsLatest(buildID) {
				if len(group.Builds) == 0 {
					return fmt.Errorf("version group %s has no builds", group.VersionGroup.VersionGroup)
				}
				n = group.Builds[len(group.Builds)-1].Number()
			}

			build, err := papermc.FindBuild(group, n)
			if err != nil {
				return err
			}
			gb := &groupBuild{VersionGroup: group.VersionGroup, Build: build}
			return render(cmd, gb, func(w io.Writer) { printGroupBuild(w, gb) })

		default:
			return fmt.Errorf("group or version required to display build information")
		}
	},
}

// checkProjectFlags runs the root setup and rejects conflicting selectors
func checkProjectFlags(cmd *cobra.Command, args []string) error {
	if err := initConfig(); err != nil {
		return err
	}
	if projectGroup != "" && projectVer != "" {
		return fmt.Errorf("--group and --version cannot be used together")
	}
	return nil
}

func init() {
	projectCmd.PersistentFlags().StringVarP(&projectName, "project", "p", "", "the project to gather information about")
	projectCmd.PersistentFlags().StringVarP(&projectGroup, "group", "g", "", "a version group of the project")
	projectCmd.PersistentFlags().StringVarP(&projectVer, "version", "v", "", "a version of the project")
	_ = projectCmd.MarkPersistentFlagRequired("project")

	buildsCmd.Flags().StringVarP(&buildID, "build", "b", "", `the targeted build number, or "latest"`)

	projectCmd.AddCommand(buildsCmd)
	RootCmd.AddCommand(projectCmd)
}
