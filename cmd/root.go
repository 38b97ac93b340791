package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/CloudNativeWorks/paperctl/internal/config"
	"github.com/CloudNativeWorks/paperctl/internal/papermc"
	"github.com/CloudNativeWorks/paperctl/pkg/helper"
	"github.com/CloudNativeWorks/paperctl/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	debug        bool
	outputFormat string
	Cfg          *config.Config
	Version      string
)

var RootCmd = &cobra.Command{
	Use:   "paperctl",
	Short: "paperctl - command interface to the PaperMC API",
	Long: `paperctl queries project, version, version group and build information from the
PaperMC build-distribution API and downloads build artifacts.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return initConfig() },
}

// Execute runs the root command. SIGINT and SIGTERM cancel in-flight requests.
func Execute(version string) (err error) {
	Version = version
	defer helper.RecoverPanic("paperctl", &err)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return RootCmd.ExecuteContext(ctx)
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./paperctl.yaml or $HOME/.paperctl/paperctl.yaml)")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "print request URLs and response statuses")
	RootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: text, json or yaml (overrides config file)")
}

func initConfig() error {
	var err error

	Cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("configuration could not be loaded: %w", err)
	}

	// Flags override the config file and environment
	if debug {
		Cfg.API.Debug = true
		Cfg.Logging.Level = "debug"
	}
	if outputFormat != "" {
		Cfg.Output.Format = outputFormat
	}

	if err := Cfg.Validate(); err != nil {
		return err
	}

	if err := config.InitLogger(&Cfg.Logging); err != nil {
		return fmt.Errorf("logger could not be initialized: %w", err)
	}

	return nil
}

// newClient builds an API client from the loaded configuration. Debug traces
// go to the command's output.
func newClient(cmd *cobra.Command) *papermc.Client {
	requestID := uuid.NewString()

	userAgent := Cfg.API.UserAgent
	if userAgent == "" {
		userAgent = "paperctl/" + Version
	}

	log := logger.NewLogger("papermc").WithFields(logger.Fields{"request_id": requestID})

	return papermc.NewClient(papermc.Options{
		BaseURL:   Cfg.API.BaseURL,
		UserAgent: userAgent,
		RequestID: requestID,
		Timeout:   Cfg.API.Timeout,
		Debug:     Cfg.API.Debug,
		Out:       cmd.OutOrStdout(),
		Logger:    log,
	})
}
