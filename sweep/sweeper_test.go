package sweep

import (
	"context"
	"sync"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/kba-sweep/kba-sweep/sweep/quantities"
	"github.com/kba-sweep/kba-sweep/sweep/transport"
)

func newTestConfig() (*Config, Dimensions) {
	dims := Dimensions{NX: 2, NY: 2, NZ: 2, NE: 1, NM: 2, NA: 2}
	cfg := &Config{
		NblockZ:         2,
		NoctantPerBlock: 1,
		Nsemiblock:      1,
		NthreadE:        1,
		NProcX:          1,
		NProcY:          1,
	}
	return cfg, dims
}

func TestSweepSingleProcessSyncCompletes(t *testing.T) {
	cfg, dims := newTestConfig()
	env := transport.NewLocalEnv()
	sweeper, err := NewSweeper(cfg, dims, env)
	if err != nil {
		t.Fatalf("NewSweeper: %v", err)
	}
	quan, err := quantities.NewStub(dims.NA, dims.NM, NU)
	if err != nil {
		t.Fatalf("NewStub: %v", err)
	}

	vi := make([]float64, dims.SizeState())
	for i := range vi {
		vi[i] = 1
	}
	vo := make([]float64, dims.SizeState())

	if err := sweeper.Sweep(context.Background(), vi, vo, quan); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	for i, v := range vo {
		if v == 0 {
			t.Errorf("vo[%d] = 0, want a nonzero swept value", i)
		}
	}
}

func TestSweepSingleProcessAsyncCompletes(t *testing.T) {
	cfg, dims := newTestConfig()
	cfg.AsyncComm = true
	env := transport.NewLocalEnv()
	sweeper, err := NewSweeper(cfg, dims, env)
	if err != nil {
		t.Fatalf("NewSweeper: %v", err)
	}
	quan, err := quantities.NewStub(dims.NA, dims.NM, NU)
	if err != nil {
		t.Fatalf("NewStub: %v", err)
	}

	vi := make([]float64, dims.SizeState())
	for i := range vi {
		vi[i] = 1
	}
	vo := make([]float64, dims.SizeState())

	if err := sweeper.Sweep(context.Background(), vi, vo, quan); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
}

func TestSweepTwoProcessMeshSyncCompletes(t *testing.T) {
	cfg, dims := newTestConfig()
	cfg.NProcX = 2
	quan, err := quantities.NewStub(dims.NA, dims.NM, NU)
	if err != nil {
		t.Fatalf("NewStub: %v", err)
	}

	mesh := transport.NewMesh(2, 1)
	results := make([]float64, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for px := 0; px < 2; px++ {
		wg.Add(1)
		go func(px int) {
			defer wg.Done()
			env := mesh.Rank(px, 0)
			sweeper, err := NewSweeper(cfg, dims, env)
			if err != nil {
				errs[px] = err
				return
			}
			vi := make([]float64, dims.SizeState())
			for i := range vi {
				vi[i] = 1
			}
			vo := make([]float64, dims.SizeState())
			if err := sweeper.Sweep(context.Background(), vi, vo, quan); err != nil {
				errs[px] = err
				return
			}
			var sum float64
			for _, v := range vo {
				sum += v
			}
			results[px] = sum
		}(px)
	}
	wg.Wait()

	for px, err := range errs {
		if err != nil {
			t.Fatalf("rank %d: %v", px, err)
		}
	}
	for px, sum := range results {
		if sum == 0 {
			t.Errorf("rank %d vo sum = 0, want nonzero", px)
		}
	}
}

// TestSweepTwoByTwoMeshMatchesSerialReference is S3: a 2x2 process grid
// with one cell per rank must produce exactly the same per-cell result as
// a single process sweeping the equivalent 2x2x1 global domain. The
// schedule and the kernel's upstream-face recursion define the same
// dependency graph regardless of how the domain is partitioned, so
// decomposition changes who computes each cell, never the numbers.
func TestSweepTwoByTwoMeshMatchesSerialReference(t *testing.T) {
	const nm, na = 2, 2
	localDims := Dimensions{NX: 1, NY: 1, NZ: 1, NE: 1, NM: nm, NA: na}
	serialDims := Dimensions{NX: 2, NY: 2, NZ: 1, NE: 1, NM: nm, NA: na}

	baseCfg := func(nprocX, nprocY int) *Config {
		return &Config{
			NblockZ:         1,
			NoctantPerBlock: 1,
			Nsemiblock:      1,
			NthreadE:        1,
			NProcX:          nprocX,
			NProcY:          nprocY,
		}
	}

	quanSerial, err := quantities.NewStub(na, nm, NU)
	if err != nil {
		t.Fatalf("NewStub: %v", err)
	}
	serialEnv := transport.NewLocalEnv()
	serialSweeper, err := NewSweeper(baseCfg(1, 1), serialDims, serialEnv)
	if err != nil {
		t.Fatalf("NewSweeper(serial): %v", err)
	}
	serialVi := make([]float64, serialDims.SizeState())
	for i := range serialVi {
		serialVi[i] = 1
	}
	serialVo := make([]float64, serialDims.SizeState())
	if err := serialSweeper.Sweep(context.Background(), serialVi, serialVo, quanSerial); err != nil {
		t.Fatalf("Sweep(serial): %v", err)
	}

	mesh := transport.NewMesh(2, 2)
	cellSize := nm * NU
	var wg sync.WaitGroup
	parallelVo := make([][]float64, 4)
	errs := make([]error, 4)
	for px := 0; px < 2; px++ {
		for py := 0; py < 2; py++ {
			rank := py*2 + px
			wg.Add(1)
			go func(px, py, rank int) {
				defer wg.Done()
				quan, err := quantities.NewStub(na, nm, NU)
				if err != nil {
					errs[rank] = err
					return
				}
				env := mesh.Rank(px, py)
				sweeper, err := NewSweeper(baseCfg(2, 2), localDims, env)
				if err != nil {
					errs[rank] = err
					return
				}
				vi := make([]float64, localDims.SizeState())
				for i := range vi {
					vi[i] = 1
				}
				vo := make([]float64, localDims.SizeState())
				if err := sweeper.Sweep(context.Background(), vi, vo, quan); err != nil {
					errs[rank] = err
					return
				}
				parallelVo[rank] = vo
			}(px, py, rank)
		}
	}
	wg.Wait()
	for rank, err := range errs {
		if err != nil {
			t.Fatalf("rank %d: %v", rank, err)
		}
	}

	for rank := 0; rank < 4; rank++ {
		want := serialVo[rank*cellSize : rank*cellSize+cellSize]
		got := parallelVo[rank]
		for i := range want {
			if !floats.EqualWithinAbsOrRel(got[i], want[i], 1e-9, 1e-9) {
				t.Errorf("rank %d element %d = %v, want %v (serial reference)", rank, i, got[i], want[i])
			}
		}
	}
}

func TestNewSweeperRejectsMismatchedEnvGrid(t *testing.T) {
	cfg, dims := newTestConfig()
	cfg.NProcX = 2
	env := transport.NewLocalEnv()
	if _, err := NewSweeper(cfg, dims, env); err == nil {
		t.Errorf("expected error for mismatched process grid, got nil")
	}
}
