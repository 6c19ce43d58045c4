package sweep

import (
	"context"
	"fmt"

	"github.com/kba-sweep/kba-sweep/sweep/quantities"
	"github.com/kba-sweep/kba-sweep/sweep/trace"
	"github.com/kba-sweep/kba-sweep/sweep/transport"
)

// Sweeper owns everything needed to run the KBA pipeline for one process:
// the scheduler, the face buffers, and the communicator selected by
// Config.AsyncComm. It is grounded on the original's Sweeper struct and
// Sweeper_sweep outer loop.
type Sweeper struct {
	cfg   *Config
	dims  Dimensions
	dimsB Dimensions
	sched *Scheduler
	faces *FaceBuffers
	comm  Communicator
	env   transport.Env

	// Trace, if non-nil, receives per-step scheduling decisions. Safe to
	// leave nil.
	Trace *trace.Recorder
}

// NewSweeper validates cfg against dims and wires up the scheduler, face
// buffers, and communicator for a single Sweep call against env.
func NewSweeper(cfg *Config, dims Dimensions, env transport.Env) (*Sweeper, error) {
	if err := cfg.Validate(dims); err != nil {
		return nil, err
	}
	if env.NProcX() != cfg.NProcX || env.NProcY() != cfg.NProcY {
		return nil, fmt.Errorf("sweep: env process grid (%d,%d) does not match config (%d,%d)", env.NProcX(), env.NProcY(), cfg.NProcX, cfg.NProcY)
	}

	sched, err := NewScheduler(cfg.NblockZ, cfg.NoctantPerBlock, cfg.NProcX, cfg.NProcY)
	if err != nil {
		return nil, err
	}

	dimsB := dims.WithNZ(dims.NZ / cfg.NblockZ)
	faces := NewFaceBuffers(dimsB, cfg.NoctantPerBlock)

	var comm Communicator
	if cfg.AsyncComm {
		comm = NewAsyncCommunicator(sched, env, faces, cfg.NoctantPerBlock)
	} else {
		comm = NewSyncCommunicator(sched, env, faces, cfg.NoctantPerBlock)
	}

	return &Sweeper{cfg: cfg, dims: dims, dimsB: dimsB, sched: sched, faces: faces, comm: comm, env: env}, nil
}

// Nstep returns the number of pipeline steps Sweep executes.
func (s *Sweeper) Nstep() int { return s.sched.Nstep() }

// Sweep runs the full wavefront sweep, reading the moment state vi and
// accumulating the swept result into vo (zeroed first), using quan for
// inlet boundary values, per-cell solves, and moment/angle transforms.
func (s *Sweeper) Sweep(ctx context.Context, vi, vo []float64, quan quantities.Quantities) error {
	if len(vi) != s.dims.SizeState() || len(vo) != s.dims.SizeState() {
		return fmt.Errorf("sweep: vi/vo must have %d elements, got vi=%d vo=%d", s.dims.SizeState(), len(vi), len(vo))
	}
	for i := range vo {
		vo[i] = 0
	}

	procX, procY := s.env.ProcXThis(), s.env.ProcYThis()
	base := CellBase{
		IXBase:   procX * s.dims.NX,
		IYBase:   procY * s.dims.NY,
		NXGlobal: s.env.NProcX() * s.dims.NX,
		NYGlobal: s.env.NProcY() * s.dims.NY,
		NZGlobal: s.dims.NZ,
	}
	procXMin := procX == 0
	procXMax := procX == s.env.NProcX()-1
	procYMin := procY == 0
	procYMax := procY == s.env.NProcY()-1

	nstep := s.sched.Nstep()
	stepInfos := make([]StepInfo, s.cfg.NoctantPerBlock)

	for step := 0; step < nstep; step++ {
		for k := range stepInfos {
			info := s.sched.StepInfo(step, k, procX, procY)
			stepInfos[k] = info
			s.Trace.StepInfo(step, k, info.IsActive, int(info.Octant), info.BlockZ)
		}

		if s.comm.IsAsync() {
			if err := s.comm.RecvEnd(ctx, step-1); err != nil {
				return fmt.Errorf("sweep: step %d recv end: %w", step, err)
			}
			if err := s.comm.RecvStart(ctx, step); err != nil {
				return fmt.Errorf("sweep: step %d recv start: %w", step, err)
			}
		}

		facexy := s.faces.FaceXY()
		facexz := s.faces.FaceXZForStep(step)
		faceyz := s.faces.FaceYZForStep(step)

		sweepBlock(s.cfg, s.dims, s.dimsB, quan, vi, vo, facexy, facexz, faceyz, stepInfos, base, procXMin, procXMax, procYMin, procYMax)

		if s.comm.IsAsync() {
			if err := s.comm.SendEnd(ctx, step-1); err != nil {
				return fmt.Errorf("sweep: step %d send end: %w", step, err)
			}
			if err := s.comm.SendStart(ctx, step); err != nil {
				return fmt.Errorf("sweep: step %d send start: %w", step, err)
			}
		} else {
			if err := s.comm.Communicate(ctx, step); err != nil {
				return fmt.Errorf("sweep: step %d communicate: %w", step, err)
			}
		}
	}

	if s.comm.IsAsync() {
		if err := s.comm.RecvEnd(ctx, nstep-1); err != nil {
			return fmt.Errorf("sweep: final recv end: %w", err)
		}
		if err := s.comm.SendEnd(ctx, nstep-1); err != nil {
			return fmt.Errorf("sweep: final send end: %w", err)
		}
	}

	s.env.IncrementTag(s.cfg.NoctantPerBlock)
	return nil
}
