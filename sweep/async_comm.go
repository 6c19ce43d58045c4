package sweep

import (
	"context"
	"fmt"

	"github.com/kba-sweep/kba-sweep/sweep/transport"
)

// inflightKey identifies one octant-slot/axis/direction exchange among the
// requests an asyncCommunicator has posted but not yet waited on.
type inflightKey struct {
	k int
	a axis
	d Dir
}

// asyncCommunicator implements the double-buffered asynchronous exchange
// protocol (§4.2): sends and receives for a step are posted as soon as
// their source data is ready, and only waited on just before the data is
// needed, overlapping communication with the next step's compute.
type asyncCommunicator struct {
	commContext

	recvReqs map[inflightKey]transport.Request
	sendReqs map[inflightKey]transport.Request
}

// NewAsyncCommunicator builds the asynchronous communicator.
func NewAsyncCommunicator(sched *Scheduler, env transport.Env, faces *FaceBuffers, noctantPerBlock int) Communicator {
	return &asyncCommunicator{
		commContext: commContext{sched: sched, env: env, faces: faces, nkPer: noctantPerBlock},
		recvReqs:    make(map[inflightKey]transport.Request),
		sendReqs:    make(map[inflightKey]transport.Request),
	}
}

func (c *asyncCommunicator) IsAsync() bool                                { return true }
func (c *asyncCommunicator) Communicate(ctx context.Context, step int) error { return nil }

func (c *asyncCommunicator) faceBuf(a axis, buf []float64, k int) []float64 {
	if a == axisX {
		return c.faces.FaceYZOctantSlice(buf, k)
	}
	return c.faces.FaceXZOctantSlice(buf, k)
}

// RecvStart posts non-blocking receives for the faces this rank's neighbors
// compute at `step`, which this rank needs in order to compute step+1. They
// land in the slot FaceXZForRecv/FaceYZForRecv(step) names, which is the
// slot computed at step+1.
func (c *asyncCommunicator) RecvStart(ctx context.Context, step int) error {
	procX, procY := c.env.ProcXThis(), c.env.ProcYThis()
	nprocX, nprocY := c.env.NProcX(), c.env.NProcY()

	for k := 0; k < c.nkPer; k++ {
		for _, a := range [2]axis{axisX, axisY} {
			for _, d := range exchangeDirs {
				doRecv, sourceX, sourceY := mustRecv(c.sched, step, a, d, k, procX, procY, nprocX, nprocY)
				if !doRecv {
					continue
				}
				var recvBuf []float64
				if a == axisX {
					recvBuf = c.faces.FaceYZForRecv(step)
				} else {
					recvBuf = c.faces.FaceXZForRecv(step)
				}
				buf := c.faceBuf(a, recvBuf, k)
				src := c.env.Proc(sourceX, sourceY)
				tag := c.env.Tag() + k
				req, err := c.env.ARecvP(ctx, buf, src, tag)
				if err != nil {
					return fmt.Errorf("sweep: async recv start axis=%d dir=%d k=%d step=%d: %w", a, d, k, step, err)
				}
				c.recvReqs[inflightKey{k, a, d}] = req
			}
		}
	}
	return nil
}

// RecvEnd waits for every receive posted by the matching RecvStart.
func (c *asyncCommunicator) RecvEnd(ctx context.Context, step int) error {
	procX, procY := c.env.ProcXThis(), c.env.ProcYThis()
	nprocX, nprocY := c.env.NProcX(), c.env.NProcY()

	for k := 0; k < c.nkPer; k++ {
		for _, a := range [2]axis{axisX, axisY} {
			for _, d := range exchangeDirs {
				key := inflightKey{k, a, d}
				req, ok := c.recvReqs[key]
				if !ok {
					continue
				}
				doRecv, _, _ := mustRecv(c.sched, step, a, d, k, procX, procY, nprocX, nprocY)
				if !doRecv {
					delete(c.recvReqs, key)
					continue
				}
				if err := c.env.Wait(ctx, req); err != nil {
					return fmt.Errorf("sweep: async recv end axis=%d dir=%d k=%d step=%d: %w", a, d, k, step, err)
				}
				delete(c.recvReqs, key)
			}
		}
	}
	return nil
}

// SendStart posts non-blocking sends for every face this rank computed at
// `step` that a neighbor will need at step+1.
func (c *asyncCommunicator) SendStart(ctx context.Context, step int) error {
	procX, procY := c.env.ProcXThis(), c.env.ProcYThis()
	nprocX, nprocY := c.env.NProcX(), c.env.NProcY()

	for k := 0; k < c.nkPer; k++ {
		for _, a := range [2]axis{axisX, axisY} {
			for _, d := range exchangeDirs {
				doSend, targetX, targetY := mustSend(c.sched, step, a, d, k, procX, procY, nprocX, nprocY)
				if !doSend {
					continue
				}
				// The buffer just computed at `step` (not FaceXZForSend,
				// which names the slot holding step-1's values). The send
				// may read it after ASendP returns (MeshEnv copies it in a
				// goroutine); SendEnd(step), called during step+1, waits
				// for it before RecvStart(step+2) receives into this slot.
				var sendBuf []float64
				if a == axisX {
					sendBuf = c.faces.FaceYZForStep(step)
				} else {
					sendBuf = c.faces.FaceXZForStep(step)
				}
				buf := c.faceBuf(a, sendBuf, k)
				dest := c.env.Proc(targetX, targetY)
				tag := c.env.Tag() + k
				req, err := c.env.ASendP(ctx, buf, dest, tag)
				if err != nil {
					return fmt.Errorf("sweep: async send start axis=%d dir=%d k=%d step=%d: %w", a, d, k, step, err)
				}
				c.sendReqs[inflightKey{k, a, d}] = req
			}
		}
	}
	return nil
}

// SendEnd waits for every send posted by the matching SendStart.
func (c *asyncCommunicator) SendEnd(ctx context.Context, step int) error {
	procX, procY := c.env.ProcXThis(), c.env.ProcYThis()
	nprocX, nprocY := c.env.NProcX(), c.env.NProcY()

	for k := 0; k < c.nkPer; k++ {
		for _, a := range [2]axis{axisX, axisY} {
			for _, d := range exchangeDirs {
				key := inflightKey{k, a, d}
				req, ok := c.sendReqs[key]
				if !ok {
					continue
				}
				doSend, _, _ := mustSend(c.sched, step, a, d, k, procX, procY, nprocX, nprocY)
				if !doSend {
					delete(c.sendReqs, key)
					continue
				}
				if err := c.env.Wait(ctx, req); err != nil {
					return fmt.Errorf("sweep: async send end axis=%d dir=%d k=%d step=%d: %w", a, d, k, step, err)
				}
				delete(c.sendReqs, key)
			}
		}
	}
	return nil
}
