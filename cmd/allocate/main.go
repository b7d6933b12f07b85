// Command allocate forecasts demand for a set of institutions and allocates
// the shared resource pool between them.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/viant/afs"

	"github.com/KasumiMercury/primind-demand-allocation/internal/config"
	"github.com/KasumiMercury/primind-demand-allocation/internal/domain"
	"github.com/KasumiMercury/primind-demand-allocation/internal/infra/allocationrecorder"
	"github.com/KasumiMercury/primind-demand-allocation/internal/infra/dataset"
	"github.com/KasumiMercury/primind-demand-allocation/internal/infra/featuretable"
	"github.com/KasumiMercury/primind-demand-allocation/internal/infra/forecastclient"
	"github.com/KasumiMercury/primind-demand-allocation/internal/observability"
	"github.com/KasumiMercury/primind-demand-allocation/internal/observability/logging"
	"github.com/KasumiMercury/primind-demand-allocation/internal/observability/metrics"
	"github.com/KasumiMercury/primind-demand-allocation/internal/service/allocation"
	"github.com/KasumiMercury/primind-demand-allocation/internal/service/forecast"
	"github.com/KasumiMercury/primind-demand-allocation/internal/service/ilp"
)

// Version is set via ldflags at build time
var Version = "dev"

type options struct {
	date            string
	featureTableURL string
	demandModelURL  string
	forecastURL     string
	institutions    string
	constraints     string
	capacities      string
	capacityMin     int
	capacityMax     int
	seed            uint64
	logLevel        string
}

// demandSource forecasts a batch of institutions for one day.
type demandSource interface {
	ForecastAll(ctx context.Context, institutions []string, date time.Time) (map[string]int, error)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := pflag.NewFlagSet("allocate", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.date, "date", defaultDate, "evaluation date (YYYY-MM-DD)")
	fs.StringVar(&opts.featureTableURL, "feature-table", envOr("FEATURE_TABLE_URL", defaultFeatureTableURL), "feature table CSV URL")
	fs.StringVar(&opts.demandModelURL, "model", envOr("DEMAND_MODEL_URL", defaultDemandModelURL), "demand model pipeline URL")
	fs.StringVar(&opts.forecastURL, "forecast-url", "", "base URL of a running forecast service; overrides --feature-table and --model")
	fs.StringVar(&opts.institutions, "institutions", "", "YAML list of institution ids (default: built-in list)")
	fs.StringVar(&opts.constraints, "constraints", "", "YAML map of constraint name to expression or mapping (default: built-in constraints)")
	fs.StringVar(&opts.capacities, "capacities", "", "YAML map of institution to capacity; missing institutions get a random capacity")
	fs.IntVar(&opts.capacityMin, "capacity-min", defaultCapacityMin, "lowest random capacity")
	fs.IntVar(&opts.capacityMax, "capacity-max", defaultCapacityMax, "highest random capacity")
	fs.Uint64Var(&opts.seed, "seed", 0, "random capacity seed (0 picks one from the clock)")
	fs.StringVar(&opts.logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "log level written to stderr")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo:   logging.ServiceInfo{Name: "demand-allocate", Version: Version},
		Environment:   logging.EnvDev,
		SamplingRate:  1.0,
		DefaultModule: logging.Module("allocation"),
		LogLevel:      logging.ParseLevel(opts.logLevel),
		LogOutput:     stderr,
	})
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize observability: %v\n", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()
	slog.SetDefault(obs.Logger())

	if err := allocate(ctx, opts, stdout); err != nil {
		fmt.Fprintln(stderr, describe(err))
		return 1
	}
	return 0
}

func allocate(ctx context.Context, opts *options, stdout io.Writer) error {
	allocationConfig, err := config.LoadAllocationConfig()
	if err != nil {
		return err
	}

	date, err := forecast.ParseDate(opts.date)
	if err != nil {
		return err
	}

	fs := afs.New()

	institutions, err := loadInstitutions(ctx, fs, opts.institutions)
	if err != nil {
		return err
	}
	if err := config.ValidateForAllocation(allocationConfig, len(institutions)); err != nil {
		return err
	}

	constraints, err := loadConstraints(ctx, fs, opts.constraints)
	if err != nil {
		return err
	}

	seed := opts.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	source, err := newDemandSource(ctx, fs, opts)
	if err != nil {
		return err
	}

	demand, err := source.ForecastAll(ctx, institutions, date)
	if err != nil {
		return err
	}
	printDemand(stdout, institutions, demand)

	capacity, err := loadCapacities(ctx, fs, opts.capacities, institutions, rng, opts.capacityMin, opts.capacityMax)
	if err != nil {
		return err
	}
	printCapacity(stdout, institutions, capacity)

	allocationMetrics, err := metrics.NewAllocationMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize allocation metrics: %w", err)
	}

	recorder, err := allocationrecorder.NewRecorder(ctx, allocationrecorder.LoadConfig())
	if err != nil {
		slog.WarnContext(ctx, "allocation recorder unavailable, results will not be recorded",
			slog.String("error", err.Error()),
		)
		recorder = allocationrecorder.NewNoopRecorder()
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			slog.Warn("failed to close allocation recorder", slog.String("error", err.Error()))
		}
	}()

	service := allocation.NewService(allocationConfig.Policy(), recorder, allocationMetrics)
	result, err := service.Allocate(ctx, allocation.Problem{
		Demand:      demand,
		Capacity:    capacity,
		Constraints: constraints,
	})
	if err != nil {
		return err
	}

	printAllocations(stdout, institutions, result.Allocations)
	return nil
}

func newDemandSource(ctx context.Context, fs afs.Service, opts *options) (demandSource, error) {
	if opts.forecastURL != "" {
		slog.InfoContext(ctx, "using remote forecast service", slog.String("url", opts.forecastURL))
		return forecastclient.NewClient(opts.forecastURL), nil
	}

	forecastMetrics, err := metrics.NewForecastMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize forecast metrics: %w", err)
	}

	loader := dataset.NewLoader(fs, opts.featureTableURL, opts.demandModelURL, featuretable.DefaultOptions())
	service := forecast.NewService(loader, nil, forecastMetrics)
	if err := service.Refresh(ctx); err != nil {
		return nil, err
	}
	return service, nil
}

// describe turns an allocation failure into the message printed to the user.
func describe(err error) string {
	switch {
	case allocation.IsSolveStatus(err, ilp.StatusInfeasible):
		return fmt.Sprintf("allocation is infeasible: no allocation satisfies every constraint (%v)", err)
	case allocation.IsSolveStatus(err, ilp.StatusUnbounded):
		return fmt.Sprintf("allocation is unbounded: the constraints do not limit the objective (%v)", err)
	case errors.Is(err, allocation.ErrTimeout):
		return fmt.Sprintf("allocation timed out before an optimum was proven (%v)", err)
	case errors.Is(err, domain.ErrRecordNotFound), errors.Is(err, domain.ErrDuplicateRecord):
		return fmt.Sprintf("demand forecast failed: %v", err)
	default:
		return fmt.Sprintf("error: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
