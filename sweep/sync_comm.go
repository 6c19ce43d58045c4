package sweep

import (
	"context"
	"fmt"

	"github.com/kba-sweep/kba-sweep/sweep/transport"
)

// syncCommunicator implements the synchronous red/black face exchange
// described in §4.2: for each axis, direction, and octant slot, two color
// phases run so that every rank either sends or receives (never both) in
// each phase, which makes the protocol provably deadlock-free.
type syncCommunicator struct {
	commContext
}

// NewSyncCommunicator builds the synchronous red/black communicator.
func NewSyncCommunicator(sched *Scheduler, env transport.Env, faces *FaceBuffers, noctantPerBlock int) Communicator {
	return &syncCommunicator{commContext{sched: sched, env: env, faces: faces, nkPer: noctantPerBlock}}
}

func (c *syncCommunicator) IsAsync() bool                                   { return false }
func (c *syncCommunicator) RecvStart(ctx context.Context, step int) error   { return nil }
func (c *syncCommunicator) RecvEnd(ctx context.Context, step int) error     { return nil }
func (c *syncCommunicator) SendStart(ctx context.Context, step int) error   { return nil }
func (c *syncCommunicator) SendEnd(ctx context.Context, step int) error     { return nil }

// Communicate runs the full red/black exchange for faces computed at
// `step`, to be consumed at step+1.
func (c *syncCommunicator) Communicate(ctx context.Context, step int) error {
	procX, procY := c.env.ProcXThis(), c.env.ProcYThis()
	nprocX, nprocY := c.env.NProcX(), c.env.NProcY()

	for k := 0; k < c.nkPer; k++ {
		for _, a := range [2]axis{axisX, axisY} {
			procAxis := procX
			if a == axisY {
				procAxis = procY
			}

			var sizePerOctant int
			var faceBuf, recvBuf []float64
			if a == axisX {
				sizePerOctant = c.faces.SizeFaceYZPerOctant()
				faceBuf = c.faces.FaceYZOctantSlice(c.faces.FaceYZForStep(step), k)
				recvBuf = c.faces.FaceYZOctantSlice(c.faces.FaceYZForRecv(step), k)
			} else {
				sizePerOctant = c.faces.SizeFaceXZPerOctant()
				faceBuf = c.faces.FaceXZOctantSlice(c.faces.FaceXZForStep(step), k)
				recvBuf = c.faces.FaceXZOctantSlice(c.faces.FaceXZForRecv(step), k)
			}
			scratch := make([]float64, sizePerOctant)

			for _, d := range exchangeDirs {
				doSend, targetX, targetY := mustSend(c.sched, step, a, d, k, procX, procY, nprocX, nprocY)
				doRecv, sourceX, sourceY := mustRecv(c.sched, step, a, d, k, procX, procY, nprocX, nprocY)

				tag := c.env.Tag() + k
				usedScratch := false

				for color := 0; color < 2; color++ {
					sendsThisColor := (procAxis%2 == 0) == (color == 0)
					if sendsThisColor {
						if doSend {
							dest := c.env.Proc(targetX, targetY)
							src := faceBuf
							if usedScratch {
								src = scratch
							}
							if err := c.env.SendP(ctx, src, dest, tag); err != nil {
								return fmt.Errorf("sweep: sync send axis=%d dir=%d k=%d step=%d: %w", a, d, k, step, err)
							}
						}
					} else {
						if doRecv {
							src := c.env.Proc(sourceX, sourceY)
							if color == 0 {
								// Save a copy of the outgoing face before
								// receiving; a color-1 send transmits from
								// this copy. The receive itself lands in the
								// slot step+1 computes on, not in faceBuf.
								copy(scratch, faceBuf)
								usedScratch = true
							}
							if err := c.env.RecvP(ctx, recvBuf, src, tag); err != nil {
								return fmt.Errorf("sweep: sync recv axis=%d dir=%d k=%d step=%d: %w", a, d, k, step, err)
							}
						}
					}
				}
			}
		}
	}
	return nil
}
