package main

import (
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/cfg"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/metrics"
)

type rootCmdConfig struct {
	configPath  string
	metricsFile string
	memprofile  string

	settings cfg.Settings
	metrics  *metrics.Metrics
}

func main() {
	if err := cliParser().Execute(); err != nil {
		log.Fatal().Err(err).Msg("udt failed")
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{metrics: metrics.New()}
	rootCmd := &cobra.Command{
		Use:           "udt",
		Short:         "udt builds decision trees from uncertain data",
		Long:          `A tool to generate uncertain data sets, to grow decision trees whose attribute values are probability distributions, to evaluate and to render them`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return config.finish()
		},
	}
	rootCmd.PersistentFlags().StringVar(&config.configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&config.metricsFile, "metrics-file", "", "write prometheus metrics to `file` after the command")
	rootCmd.PersistentFlags().StringVar(&config.memprofile, "memprofile", "", "write memory profile to `file`")
	rootCmd.AddCommand(
		versionCmd(),
		genCmd(config),
		trainCmd(config),
		xvalCmd(config),
		testCmd(config),
		predictCmd(config),
		renderCmd(config),
		showCmd(config),
		storeCmd(config),
	)
	return rootCmd
}

func (rc *rootCmdConfig) setup() error {
	settings, err := cfg.Load(rc.configPath)
	if err != nil {
		return err
	}
	rc.settings = settings

	zerolog.SetGlobalLevel(settings.Level())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	return nil
}

func (rc *rootCmdConfig) finish() error {
	if rc.metricsFile != "" {
		if err := rc.metrics.WriteTextfile(rc.metricsFile); err != nil {
			return err
		}
	}

	if rc.memprofile != "" {
		f, err := os.Create(rc.memprofile)
		if err != nil {
			return err
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return err
		}
	}
	return nil
}

//fail counts a failed command. It returns err to be used in return statements.
func (rc *rootCmdConfig) fail(err error) error {
	if err != nil {
		rc.metrics.ErrorsTotal.Inc()
	}
	return err
}
