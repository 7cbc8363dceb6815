package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/saddle-ml/saddle/internal/experiment"
)

// sweepCmd runs a hyperparameter sweep described by a JSON config file.
func sweepCmd() *cobra.Command {
	var (
		configFile string
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a hyperparameter sweep over seeds, inertias and step sizes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sweep, err := loadSweep(configFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				sweep.Workers = workers
			}
			sweep.Run()
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "JSON sweep config file (required)")
	cmd.Flags().IntVar(&workers, "workers", 1, "number of runs to execute concurrently")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func loadSweep(path string) (*experiment.Sweep, error) {
	sweep := &experiment.Sweep{Base: experiment.DefaultConfig()}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading sweep config %s", path)
	}
	if err := v.Unmarshal(sweep); err != nil {
		return nil, errors.Wrapf(err, "parsing sweep config %s", path)
	}
	if err := sweep.Base.Validate(); err != nil {
		return nil, err
	}
	return sweep, nil
}
