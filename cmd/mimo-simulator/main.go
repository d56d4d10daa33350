package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/nfvri/mimo-simulator/pkg/manager"
	"github.com/nfvri/mimo-simulator/pkg/model"
	"github.com/nfvri/mimo-simulator/pkg/report"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

type options struct {
	configName  string
	logLevel    string
	metricsFile string
	v           *viper.Viper
}

func main() {
	opts := &options{}
	root := &cobra.Command{
		Use:           "mimo-simulator",
		Short:         "MIMO spatial channel model and water filling capacity simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			opts.v = model.NewViper(opts.configName)
			return bindFlags(opts.v, cmd)
		},
	}
	root.PersistentFlags().StringVar(&opts.configName, "config", "mimo-simulator", "configuration file name without extension")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level")
	root.PersistentFlags().StringVar(&opts.metricsFile, "metrics-file", "", "write prometheus metrics to this file after the command")
	root.PersistentFlags().Uint64("seed", 1, "random seed")
	root.PersistentFlags().String("scenario", model.SuburbanMacro, "scenario name")
	root.PersistentFlags().String("policy", model.PolicyWaterFilling, "allocation policy: waterfilling or uniform")
	root.PersistentFlags().Float64("power", 1, "total transmit power in W")

	root.AddCommand(
		runCommand(opts),
		sweepCommand(opts),
		dropsCommand(opts),
		ingestCommand(opts),
		requiredPowerCommand(opts),
		dumpConfigCommand(opts),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for _, name := range []string{"seed", "scenario", "policy", "power"} {
		if err := v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

func newManager(opts *options) (*manager.Manager, error) {
	cfg := model.Config{}
	if err := model.LoadConfigWith(opts.v, &cfg); err != nil {
		return nil, err
	}
	return manager.NewManager(&manager.Config{Simulation: cfg})
}

func finish(opts *options, mgr *manager.Manager) error {
	defer mgr.Close()
	if opts.metricsFile == "" {
		return nil
	}
	return mgr.Metrics().WriteTextfile(opts.metricsFile)
}

func printYAML(value interface{}) error {
	out, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

func runCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Simulate one link realization",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newManager(opts)
			if err != nil {
				return err
			}
			res, err := mgr.Run(cmd.Context())
			if err != nil {
				return err
			}
			if err := printYAML(res.Summary()); err != nil {
				return err
			}
			return finish(opts, mgr)
		},
	}
}

func sweepCommand(opts *options) *cobra.Command {
	var powers []float64
	var plotPath string
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compare allocation policies over power budgets",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newManager(opts)
			if err != nil {
				return err
			}
			points, err := mgr.Sweep(cmd.Context(), powers)
			if err != nil {
				return err
			}
			if err := printYAML(points); err != nil {
				return err
			}
			if plotPath != "" {
				wf := make([]float64, len(points))
				uf := make([]float64, len(points))
				for i, p := range points {
					wf[i], uf[i] = p.WaterFilling, p.Uniform
				}
				err := report.PlotSweep(powers, map[string][]float64{
					model.PolicyWaterFilling: wf,
					model.PolicyUniform:      uf,
				}, plotPath)
				if err != nil {
					return err
				}
			}
			return finish(opts, mgr)
		},
	}
	cmd.Flags().Float64SliceVar(&powers, "powers", []float64{0.01, 0.1, 1, 10, 100}, "power budgets in W")
	cmd.Flags().StringVar(&plotPath, "plot", "", "save a capacity versus power plot")
	return cmd
}

func dropsCommand(opts *options) *cobra.Command {
	var count, bins int
	var cdfPath, histPath string
	cmd := &cobra.Command{
		Use:   "drops",
		Short: "Repeat link realizations and summarize the capacity",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newManager(opts)
			if err != nil {
				return err
			}
			drops, err := mgr.Drops(cmd.Context(), count)
			if err != nil {
				return err
			}
			if err := printYAML(drops.Summary); err != nil {
				return err
			}
			if cdfPath != "" {
				if err := report.PlotCDF(drops.Capacities, cdfPath); err != nil {
					return err
				}
			}
			if histPath != "" {
				if err := report.PlotHistogram(drops.Capacities, bins, histPath); err != nil {
					return err
				}
			}
			return finish(opts, mgr)
		},
	}
	cmd.Flags().IntVar(&count, "count", 100, "number of drops")
	cmd.Flags().IntVar(&bins, "bins", 20, "histogram bins")
	cmd.Flags().StringVar(&cdfPath, "cdf", "", "save a capacity CDF plot")
	cmd.Flags().StringVar(&histPath, "hist", "", "save a capacity histogram")
	return cmd
}

func ingestCommand(opts *options) *cobra.Command {
	var file, snapshot string
	var save bool
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Evaluate externally supplied channel paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newManager(opts)
			if err != nil {
				return err
			}
			switch {
			case file != "":
				raw, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				var channels []model.ChannelData
				if err := yaml.Unmarshal(raw, &channels); err != nil {
					return fmt.Errorf("failed to parse %s: %v", file, err)
				}
				if err := mgr.IntegrateChannels(channels); err != nil {
					return err
				}
			case snapshot != "":
				if err := mgr.LoadChannels(cmd.Context(), snapshot); err != nil {
					return err
				}
			default:
				return fmt.Errorf("either --file or --snapshot is required")
			}

			if save {
				id, err := mgr.SaveChannels(cmd.Context())
				if err != nil {
					return err
				}
				log.Infof("Saved channels as snapshot %s", id)
			}

			results, err := mgr.RunIntegrated(cmd.Context())
			if err != nil {
				return err
			}
			summaries := make([]manager.Summary, len(results))
			for i, res := range results {
				summaries[i] = res.Summary()
			}
			if err := printYAML(summaries); err != nil {
				return err
			}
			return finish(opts, mgr)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML file with a list of channels")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "stored channel snapshot id")
	cmd.Flags().BoolVar(&save, "save", false, "store the ingested channels as a new snapshot")
	return cmd
}

func requiredPowerCommand(opts *options) *cobra.Command {
	var target float64
	cmd := &cobra.Command{
		Use:   "required-power",
		Short: "Find the transmit power reaching a target capacity",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newManager(opts)
			if err != nil {
				return err
			}
			power, err := mgr.RequiredPower(cmd.Context(), target)
			if err != nil {
				return err
			}
			fmt.Printf("target: %v bit/s/Hz\npower: %v W\n", target, power)
			return finish(opts, mgr)
		},
	}
	cmd.Flags().Float64Var(&target, "target", 20, "target aggregate capacity in bit/s/Hz")
	return cmd
}

func dumpConfigCommand(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "dump-config",
		Short: "Write the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := model.Config{}
			if err := model.LoadConfigWith(opts.v, &cfg); err != nil {
				return err
			}
			if out == "" {
				return printYAML(cfg)
			}
			return model.DumpConfig(&cfg, out)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file, stdout when empty")
	return cmd
}
