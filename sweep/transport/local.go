package transport

import (
	"context"
	"fmt"
)

// LocalEnv is the Env for a 1x1 process grid (B2): there are no neighbors,
// so the communicator never issues a send or receive against it, and the
// methods below exist only to satisfy the interface.
type LocalEnv struct {
	tag int
}

// NewLocalEnv returns a single-process Env.
func NewLocalEnv() *LocalEnv { return &LocalEnv{} }

func (e *LocalEnv) ProcXThis() int        { return 0 }
func (e *LocalEnv) ProcYThis() int        { return 0 }
func (e *LocalEnv) NProcX() int           { return 1 }
func (e *LocalEnv) NProcY() int           { return 1 }
func (e *LocalEnv) Proc(px, py int) int   { return 0 }
func (e *LocalEnv) Tag() int              { return e.tag }
func (e *LocalEnv) IncrementTag(n int)    { e.tag += n }

func (e *LocalEnv) SendP(ctx context.Context, buf []float64, dest int, tag int) error {
	return fmt.Errorf("transport: LocalEnv has no neighbors to send to")
}

func (e *LocalEnv) RecvP(ctx context.Context, buf []float64, src int, tag int) error {
	return fmt.Errorf("transport: LocalEnv has no neighbors to receive from")
}

func (e *LocalEnv) ASendP(ctx context.Context, buf []float64, dest int, tag int) (Request, error) {
	return nil, fmt.Errorf("transport: LocalEnv has no neighbors to send to")
}

func (e *LocalEnv) ARecvP(ctx context.Context, buf []float64, src int, tag int) (Request, error) {
	return nil, fmt.Errorf("transport: LocalEnv has no neighbors to receive from")
}

func (e *LocalEnv) Wait(ctx context.Context, r Request) error {
	return fmt.Errorf("transport: LocalEnv issued no requests to wait on")
}
