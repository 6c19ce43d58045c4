package sweep

import (
	"context"

	"github.com/kba-sweep/kba-sweep/sweep/transport"
)

// Communicator exchanges xz/yz face slabs with the four Cartesian
// neighbors so that a face computed during step s is available to the
// neighbor at step s+1 (§4.2). A sweep uses exactly one Communicator for
// its whole lifetime, selected by Config.AsyncComm.
//
// Sync and async implementations both implement the full interface: the
// unused half of each is a no-op, which keeps the orchestrator's call
// sequence (see Sweeper.Sweep) identical regardless of mode.
type Communicator interface {
	IsAsync() bool

	// RecvStart/RecvEnd bracket an asynchronous receive of the faces the
	// neighbors compute at `step`, which are needed at step+1. No-ops for
	// the synchronous communicator.
	RecvStart(ctx context.Context, step int) error
	RecvEnd(ctx context.Context, step int) error

	// SendStart/SendEnd bracket an asynchronous send of the faces computed
	// at `step`. No-ops for the synchronous communicator.
	SendStart(ctx context.Context, step int) error
	SendEnd(ctx context.Context, step int) error

	// Communicate performs the full synchronous red/black exchange for
	// `step`. A no-op for the asynchronous communicator.
	Communicate(ctx context.Context, step int) error
}

// axis identifies which face direction a neighbor-exchange predicate is
// evaluating.
type axis int

const (
	axisX axis = iota
	axisY
)

// exchangeDirs enumerates the two directions (Up, Dn) checked for each axis.
var exchangeDirs = [2]Dir{Up, Dn}

// neighborDelta returns the (dx,dy) process-grid offset for axis a, dir d.
func neighborDelta(a axis, d Dir) (int, int) {
	if a == axisX {
		return d.Inc(), 0
	}
	return 0, d.Inc()
}

// mustSend reports whether the face computed at `step` by this process
// must be sent to its axis/dir neighbor, per §4.2's do_send predicate.
func mustSend(sched *Scheduler, step int, a axis, d Dir, k, procX, procY, nprocX, nprocY int) (bool, int, int) {
	dx, dy := neighborDelta(a, d)
	targetX, targetY := procX+dx, procY+dy
	if targetX < 0 || targetX >= nprocX || targetY < 0 || targetY >= nprocY {
		return false, targetX, targetY
	}
	source := sched.StepInfo(step, k, procX, procY)
	target := sched.StepInfo(step+1, k, targetX, targetY)
	if !source.IsActive || !target.IsActive {
		return false, targetX, targetY
	}
	if source.Octant != target.Octant || source.BlockZ != target.BlockZ {
		return false, targetX, targetY
	}
	targetDir := target.Octant.DirX()
	if a == axisY {
		targetDir = target.Octant.DirY()
	}
	return targetDir == d, targetX, targetY
}

// mustRecv reports whether this process must receive the face its axis/dir
// neighbor computed at `step`, for use here at step+1, per §4.2's do_recv
// predicate.
func mustRecv(sched *Scheduler, step int, a axis, d Dir, k, procX, procY, nprocX, nprocY int) (bool, int, int) {
	dx, dy := neighborDelta(a, d)
	sourceX, sourceY := procX-dx, procY-dy
	if sourceX < 0 || sourceX >= nprocX || sourceY < 0 || sourceY >= nprocY {
		return false, sourceX, sourceY
	}
	source := sched.StepInfo(step, k, sourceX, sourceY)
	target := sched.StepInfo(step+1, k, procX, procY)
	if !source.IsActive || !target.IsActive {
		return false, sourceX, sourceY
	}
	if source.Octant != target.Octant || source.BlockZ != target.BlockZ {
		return false, sourceX, sourceY
	}
	targetDir := target.Octant.DirX()
	if a == axisY {
		targetDir = target.Octant.DirY()
	}
	return targetDir == d, sourceX, sourceY
}

// commContext bundles what both communicator implementations need to
// compute send/recv predicates and address their neighbors.
type commContext struct {
	sched  *Scheduler
	env    transport.Env
	faces  *FaceBuffers
	nkPer  int // noctant_per_block
}
