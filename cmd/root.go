// cmd/root.go
package cmd

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kba-sweep/kba-sweep/sweep"
	"github.com/kba-sweep/kba-sweep/sweep/quantities"
	"github.com/kba-sweep/kba-sweep/sweep/trace"
	"github.com/kba-sweep/kba-sweep/sweep/transport"
)

var (
	nx, ny, nz      int
	ne, nm, na      int
	nblockZ         int
	noctantPerBlock int
	nsemiblock      int
	nthreadE        int
	asyncComm       bool
	nprocX, nprocY  int
	logLevel        string
	quanKind        string
	sigmaT          float64
	source          float64
	configPath      string
	traceEnabled    bool
)

var rootCmd = &cobra.Command{
	Use:   "kba-sweep",
	Short: "KBA parallel wavefront sweep mini-app for discrete-ordinates transport",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a sweep across a simulated process grid",
	RunE:  runSweep,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML config file (overrides the flags below if set)")
	runCmd.Flags().IntVar(&nx, "nx", 4, "Local x extent per process")
	runCmd.Flags().IntVar(&ny, "ny", 4, "Local y extent per process")
	runCmd.Flags().IntVar(&nz, "nz", 4, "Local z extent per process")
	runCmd.Flags().IntVar(&ne, "ne", 1, "Energy groups")
	runCmd.Flags().IntVar(&nm, "nm", 4, "Moments")
	runCmd.Flags().IntVar(&na, "na", 4, "Angles")
	runCmd.Flags().IntVar(&nblockZ, "nblock_z", 2, "Number of z-blocks")
	runCmd.Flags().IntVar(&noctantPerBlock, "nthread_octant", 1, "Octants scheduled concurrently per block")
	runCmd.Flags().IntVar(&nsemiblock, "nsemiblock", 1, "Semiblock count (a power of two <= 8; fewer than nthread_octant enables atomic vo updates)")
	runCmd.Flags().IntVar(&nthreadE, "nthread_e", 1, "Energy-group partition count")
	runCmd.Flags().BoolVar(&asyncComm, "async_comm", false, "Use the asynchronous double-buffered face exchange")
	runCmd.Flags().IntVar(&nprocX, "nproc_x", 1, "Process grid x extent")
	runCmd.Flags().IntVar(&nprocY, "nproc_y", 1, "Process grid y extent")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&quanKind, "quantities", "stub", "Quantities model: stub or attenuation")
	runCmd.Flags().Float64Var(&sigmaT, "sigma_t", 0.1, "Attenuation model total cross section")
	runCmd.Flags().Float64Var(&source, "source", 1.0, "Attenuation model inlet source strength")
	runCmd.Flags().BoolVar(&traceEnabled, "trace", false, "Record and print per-step scheduling decisions for rank (0,0)")

	rootCmd.AddCommand(runCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)

	dims := sweep.Dimensions{NX: nx, NY: ny, NZ: nz, NE: ne, NM: nm, NA: na}
	cfg := &sweep.Config{
		NblockZ:         nblockZ,
		NoctantPerBlock: noctantPerBlock,
		Nsemiblock:      nsemiblock,
		NthreadE:        nthreadE,
		AsyncComm:       asyncComm,
		NProcX:          nprocX,
		NProcY:          nprocY,
	}

	if configPath != "" {
		fc, err := sweep.LoadConfigYAML(configPath)
		if err != nil {
			return err
		}
		dims = fc.Dimensions()
		cfg = fc.Config()
		quanKind = fc.Quantities
		sigmaT = fc.SigmaT
		source = fc.Source
	}

	quan, err := buildQuantities(dims)
	if err != nil {
		return err
	}

	logrus.Infof("kba-sweep: grid=%dx%dx%d (per proc) ne=%d nm=%d na=%d proc_grid=%dx%d nblock_z=%d nthread_octant=%d nsemiblock=%d async=%v",
		dims.NX, dims.NY, dims.NZ, dims.NE, dims.NM, dims.NA, cfg.NProcX, cfg.NProcY, cfg.NblockZ, cfg.NoctantPerBlock, cfg.Nsemiblock, cfg.AsyncComm)

	start := time.Now()
	sums, err := runMesh(cfg, dims, quan)
	if err != nil {
		return err
	}
	logrus.Infof("kba-sweep: completed in %s, per-rank vo sums: %v", time.Since(start), sums)
	return nil
}

func buildQuantities(dims sweep.Dimensions) (quantities.Quantities, error) {
	switch quanKind {
	case "", "stub":
		return quantities.NewStub(dims.NA, dims.NM, sweep.NU)
	case "attenuation":
		return quantities.NewAttenuation(dims.NA, dims.NM, sweep.NU, sigmaT, source)
	default:
		logrus.Fatalf("unknown quantities model %q", quanKind)
		return nil, nil
	}
}

// runMesh runs one Sweeper per process-grid rank concurrently over a
// transport.Mesh (or a single transport.LocalEnv for a 1x1 grid), and
// returns each rank's total vo sum for a quick sanity check.
func runMesh(cfg *sweep.Config, dims sweep.Dimensions, quan quantities.Quantities) ([]float64, error) {
	n := cfg.NProcX * cfg.NProcY
	sums := make([]float64, n)
	errs := make([]error, n)

	var mesh *transport.Mesh
	if n > 1 {
		mesh = transport.NewMesh(cfg.NProcX, cfg.NProcY)
	}

	var wg sync.WaitGroup
	for px := 0; px < cfg.NProcX; px++ {
		for py := 0; py < cfg.NProcY; py++ {
			rank := py*cfg.NProcX + px
			var env transport.Env
			if mesh == nil {
				env = transport.NewLocalEnv()
			} else {
				env = mesh.Rank(px, py)
			}

			wg.Add(1)
			go func(rank int, env transport.Env) {
				defer wg.Done()
				sum, err := runRank(cfg, dims, quan, env, rank == 0 && traceEnabled)
				sums[rank] = sum
				errs[rank] = err
			}(rank, env)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return sums, nil
}

func runRank(cfg *sweep.Config, dims sweep.Dimensions, quan quantities.Quantities, env transport.Env, withTrace bool) (float64, error) {
	sweeper, err := sweep.NewSweeper(cfg, dims, env)
	if err != nil {
		return 0, err
	}
	if withTrace {
		sweeper.Trace = trace.NewRecorder()
	}

	vi := make([]float64, dims.SizeState())
	for i := range vi {
		vi[i] = 1
	}
	vo := make([]float64, dims.SizeState())

	if err := sweeper.Sweep(context.Background(), vi, vo, quan); err != nil {
		return 0, err
	}

	if sweeper.Trace != nil {
		logrus.Debugf("rank 0 recorded %d trace events", len(sweeper.Trace.Events()))
		for _, ev := range sweeper.Trace.Events() {
			logrus.Infof("trace step=%d k=%d %s %s", ev.Step, ev.OctantInBlock, ev.Kind, ev.Detail)
		}
	}

	var sum float64
	for _, v := range vo {
		sum += v
	}
	return sum, nil
}
