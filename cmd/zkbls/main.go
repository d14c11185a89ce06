// Command zkbls proves and verifies BLS12-381 identities and reports how long
// proving took.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	zkvm "github.com/iden3/go-zkvm-bls12381"
	"github.com/iden3/go-zkvm-bls12381/proofs/local"
	"github.com/iden3/go-zkvm-bls12381/report"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type config struct {
	Program  string `mapstructure:"program"`
	Operands []int  `mapstructure:"operands"`
	Samples  int    `mapstructure:"samples"`
	Parallel int    `mapstructure:"parallel"`
	Seed     int64  `mapstructure:"seed"`
	Report   string `mapstructure:"report"`
	LogLevel string `mapstructure:"log-level"`
}

func readConfig(args []string) (*config, error) {
	fs := pflag.NewFlagSet("zkbls", pflag.ContinueOnError)
	configFile := fs.String("config", "", "path to config file")
	fs.String("program", "all", "program to prove: addition, pairing or all")
	fs.IntSlice("operands", []int{2, 4, 8}, "operand counts of the addition program")
	fs.Int("samples", 3, "proving runs per program and operand count")
	fs.Int("parallel", 1, "concurrent provers")
	fs.Int64("seed", 1, "seed of the first run")
	fs.String("report", "", "write an HTML report to this path")
	fs.String("log-level", "info", "log level: error, warn, info, debug or trace")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("ZKBLS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	if *configFile != "" {
		v.SetConfigFile(*configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if cfg.Samples <= 0 {
		return nil, errors.Errorf("samples must be positive, got %d", cfg.Samples)
	}
	return &cfg, nil
}

func buildJobs(cfg *config) ([]zkvm.Job, error) {
	var jobs []zkvm.Job
	seed := cfg.Seed
	next := func() int64 {
		seed++
		return seed - 1
	}

	addition := cfg.Program == "all" || cfg.Program == "addition"
	pairing := cfg.Program == "all" || cfg.Program == "pairing"
	if !addition && !pairing {
		return nil, errors.Errorf("unknown program %q", cfg.Program)
	}
	if addition {
		for _, n := range cfg.Operands {
			if n < 0 {
				return nil, errors.Errorf("negative operand count %d", n)
			}
			for i := 0; i < cfg.Samples; i++ {
				jobs = append(jobs, zkvm.AdditionJob(n, next()))
			}
		}
	}
	if pairing {
		for i := 0; i < cfg.Samples; i++ {
			jobs = append(jobs, zkvm.PairingJob(next()))
		}
	}
	return jobs, nil
}

func run(ctx context.Context, cfg *config) error {
	lvl, err := log.LvlFromString(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(os.Stderr, log.TerminalFormat(false))))

	jobs, err := buildJobs(cfg)
	if err != nil {
		return err
	}
	host, err := zkvm.NewHost(local.NewProver())
	if err != nil {
		return err
	}

	log.Info("Running batch", "jobs", len(jobs), "parallel", cfg.Parallel)
	results, err := host.RunBatch(ctx, jobs, cfg.Parallel)
	if err != nil {
		return err
	}

	samples := make([]report.Sample, len(results))
	for i, r := range results {
		fmt.Printf("%-10s operands=%-3d receipt=%s verdict=%t proving=%s\n", r.Job, r.Operands, r.Receipt.ID, r.Verdict, r.Duration)
		samples[i] = report.Sample{Program: r.Job, Operands: r.Operands, Duration: r.Duration}
	}

	if cfg.Report == "" {
		return nil
	}
	f, err := os.Create(cfg.Report)
	if err != nil {
		return errors.Wrap(err, "create report")
	}
	defer f.Close()
	if err = report.Render(f, "BLS12-381 proving", report.Summarize(samples)); err != nil {
		return err
	}
	log.Info("Report written", "path", cfg.Report)
	return nil
}

func main() {
	cfg, err := readConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(context.Background(), cfg); err != nil {
		log.Error("zkbls failed", "err", err)
		os.Exit(1)
	}
}
