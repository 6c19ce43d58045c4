package sweep

import (
	"context"
	"sync"
	"testing"

	"github.com/kba-sweep/kba-sweep/sweep/transport"
)

func TestAsyncCommunicatorIsAsync(t *testing.T) {
	sched, err := NewScheduler(1, 1, 1, 1)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	dimsB := Dimensions{NX: 1, NY: 1, NZ: 1, NE: 1, NM: 1, NA: 1}
	env := transport.NewLocalEnv()
	comm := NewAsyncCommunicator(sched, env, NewFaceBuffers(dimsB, 1), 1)
	if !comm.IsAsync() {
		t.Errorf("IsAsync() = false, want true")
	}
	if err := comm.Communicate(context.Background(), 0); err != nil {
		t.Errorf("Communicate() = %v, want nil no-op", err)
	}
}

// TestAsyncCommunicatorPipelineCompletes drives both ranks through the same
// RecvEnd(step-1) -> RecvStart(step) -> SendEnd(step-1) -> SendStart(step)
// sequence Sweeper.Sweep uses (without the compute in between), plus the
// trailing drain, and requires every call to succeed with no deadlock.
func TestAsyncCommunicatorPipelineCompletes(t *testing.T) {
	dimsB := Dimensions{NX: 2, NY: 2, NZ: 2, NE: 1, NM: 2, NA: 2}
	sched, err := NewScheduler(2, 1, 2, 1)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	mesh := transport.NewMesh(2, 1)

	facesA := NewFaceBuffers(dimsB, 1)
	facesB := NewFaceBuffers(dimsB, 1)
	commA := NewAsyncCommunicator(sched, mesh.Rank(0, 0), facesA, 1)
	commB := NewAsyncCommunicator(sched, mesh.Rank(1, 0), facesB, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	run := func(comm Communicator) error {
		for step := 0; step < sched.Nstep(); step++ {
			if err := comm.RecvEnd(ctx, step-1); err != nil {
				return err
			}
			if err := comm.RecvStart(ctx, step); err != nil {
				return err
			}
			if err := comm.SendEnd(ctx, step-1); err != nil {
				return err
			}
			if err := comm.SendStart(ctx, step); err != nil {
				return err
			}
		}
		if err := comm.RecvEnd(ctx, sched.Nstep()-1); err != nil {
			return err
		}
		return comm.SendEnd(ctx, sched.Nstep()-1)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	errA, errB := make(chan error, 1), make(chan error, 1)
	go func() { defer wg.Done(); errA <- run(commA) }()
	go func() { defer wg.Done(); errB <- run(commB) }()
	wg.Wait()

	if err := <-errA; err != nil {
		t.Fatalf("rank 0 pipeline: %v", err)
	}
	if err := <-errB; err != nil {
		t.Fatalf("rank 1 pipeline: %v", err)
	}
}
