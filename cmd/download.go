package cmd

import (
	"fmt"

	"github.com/CloudNativeWorks/paperctl/internal/operations/artifact"
	"github.com/CloudNativeWorks/paperctl/internal/papermc"
	"github.com/CloudNativeWorks/paperctl/pkg/logger"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	downloadPath    string
	downloadProject string
	downloadVersion string
	downloadBuild   string
	downloadVerify  bool
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download a build artifact",
	Long: `Download the application jar of a build. --version and --build accept "latest",
which resolves to the newest entry the API lists. When --path is an existing
directory the file keeps its published name.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient(cmd)
		ctx := cmd.Context()
		log := logger.NewLogger("download")

		version, err := client.ResolveVersion(ctx, downloadProject, downloadVersion)
		if err != nil {
			return err
		}
		build, err := client.ResolveBuild(ctx, downloadProject, version, downloadBuild)
		if err != nil {
			return err
		}

		info, err := client.VersionBuild(ctx, downloadProject, version, build)
		if err != nil {
			return err
		}
		app := info.Downloads.Application

		target, err := artifact.ResolveTarget(downloadPath, app.Name)
		if err != nil {
			return err
		}

		entry := log.WithFields(logger.Fields{
			"project": downloadProject,
			"version": version,
			"build":   build,
			"target":  target,
		})
		entry.Info("Downloading artifact")

		writer, err := artifact.NewFileWriter(entry, target)
		if err != nil {
			return err
		}

		written, err := client.DownloadBuild(ctx, downloadProject, version, build, app.Name, writer.Write)
		if err != nil {
			writer.Abort()
			return err
		}

		checksum := ""
		if downloadVerify {
			checksum = app.SHA256
		}
		if err := writer.Commit(checksum); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %s %s build %d (%s) to %s\n",
			downloadProject, version, build, humanize.Bytes(uint64(written)), target)
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringVar(&downloadPath, "path", "", "output file, or directory to place the artifact in")
	downloadCmd.Flags().StringVarP(&downloadProject, "project", "p", "", "the project to download")
	downloadCmd.Flags().StringVarP(&downloadVersion, "version", "v", papermc.LatestAlias, `the version to download, or "latest"`)
	downloadCmd.Flags().StringVarP(&downloadBuild, "build", "b", papermc.LatestAlias, `the build to download, or "latest"`)
	downloadCmd.Flags().BoolVar(&downloadVerify, "verify", true, "verify the SHA-256 checksum published for the build")
	_ = downloadCmd.MarkFlagRequired("path")
	_ = downloadCmd.MarkFlagRequired("project")

	RootCmd.AddCommand(downloadCmd)
}
