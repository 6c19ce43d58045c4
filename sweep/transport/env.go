// Package transport implements the face-exchange environment the sweep
// communicators run over: the process-grid and point-to-point messaging
// abstraction (Env, Request) and its LocalEnv and Mesh implementations. The
// red/black and double-buffered exchange protocols themselves live in
// package sweep (Communicator).
package transport

import "context"

// Request is a handle to an in-flight asynchronous send or receive,
// returned by Env.ASendP/Env.ARecvP and completed by Env.Wait.
type Request interface {
	// Done reports whether the operation has completed without blocking.
	Done() bool
}

// Env abstracts the process grid and point-to-point message passing the
// face communicator needs. It models the 2-D process grid plus message
// tagging described in §6; two implementations are provided: LocalEnv for
// the single-process case (B2) and MeshEnv, which runs every rank as a
// goroutine connected by channels.
type Env interface {
	ProcXThis() int
	ProcYThis() int
	NProcX() int
	NProcY() int
	// Proc returns the linear rank of process grid coordinate (px,py).
	Proc(px, py int) int
	Tag() int
	IncrementTag(n int)

	SendP(ctx context.Context, buf []float64, dest int, tag int) error
	RecvP(ctx context.Context, buf []float64, src int, tag int) error
	ASendP(ctx context.Context, buf []float64, dest int, tag int) (Request, error)
	ARecvP(ctx context.Context, buf []float64, src int, tag int) (Request, error)
	Wait(ctx context.Context, r Request) error
}
