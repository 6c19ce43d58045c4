package transport

import (
	"context"
	"fmt"
	"sync"
)

// envelope is one message in flight between a pair of ranks.
type envelope struct {
	tag  int
	data []float64
}

// link is the ordered channel carrying every message sent from one rank to
// another. Using a single channel per (src,dst) pair (rather than per tag)
// keeps the mesh's wiring O(nranks^2) instead of unbounded, and FIFO
// delivery on the channel is sufficient because RecvP below tolerates
// messages arriving with a different tag than the one requested by
// buffering them.
type link struct {
	ch chan envelope
	// recvMu serializes receivers on this link, so a receiver blocked on ch
	// cannot miss an envelope another receiver moved into pending.
	recvMu sync.Mutex
}

// Mesh wires a P_x x P_y process grid together with Go channels so a
// sweep can be exercised with real multi-rank causality (S3, S6) without
// an external MPI runtime. Call NewMesh once, then Rank(px,py) for each
// grid coordinate to get that rank's Env.
type Mesh struct {
	nprocX, nprocY int
	links          map[[2]int]*link // [src,dst] -> link

	mu      sync.Mutex
	pending map[int]map[int][]envelope // rank -> peer -> buffered envelopes not yet matched by tag
}

// NewMesh builds the channel wiring for a nprocX x nprocY grid.
func NewMesh(nprocX, nprocY int) *Mesh {
	m := &Mesh{
		nprocX:  nprocX,
		nprocY:  nprocY,
		links:   make(map[[2]int]*link),
		pending: make(map[int]map[int][]envelope),
	}
	n := nprocX * nprocY
	for src := 0; src < n; src++ {
		m.pending[src] = make(map[int][]envelope)
		for dst := 0; dst < n; dst++ {
			if src == dst {
				continue
			}
			m.links[[2]int{src, dst}] = &link{ch: make(chan envelope, 64)}
		}
	}
	return m
}

func (m *Mesh) rankOf(px, py int) int { return py*m.nprocX + px }

// Rank returns the Env for process grid coordinate (px,py).
func (m *Mesh) Rank(px, py int) *MeshEnv {
	return &MeshEnv{mesh: m, procX: px, procY: py}
}

func (m *Mesh) linkFor(src, dst int) *link {
	l, ok := m.links[[2]int{src, dst}]
	if !ok {
		panic(fmt.Sprintf("transport: no link from rank %d to rank %d", src, dst))
	}
	return l
}

// recvMatch pulls from pending or the channel until an envelope tagged
// `tag` from `src` arrives, copying it into buf.
func (m *Mesh) recvMatch(ctx context.Context, self, src, tag int, buf []float64) error {
	l := m.linkFor(src, self)
	l.recvMu.Lock()
	defer l.recvMu.Unlock()

	m.mu.Lock()
	bucket := m.pending[self][src]
	for i, env := range bucket {
		if env.tag == tag {
			m.pending[self][src] = append(bucket[:i], bucket[i+1:]...)
			m.mu.Unlock()
			return copyInto(buf, env.data)
		}
	}
	m.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env := <-l.ch:
			if env.tag == tag {
				return copyInto(buf, env.data)
			}
			m.mu.Lock()
			m.pending[self][src] = append(m.pending[self][src], env)
			m.mu.Unlock()
		}
	}
}

func copyInto(dst, src []float64) error {
	if len(dst) != len(src) {
		return fmt.Errorf("transport: face size mismatch, local buffer has %d elements, received %d", len(dst), len(src))
	}
	copy(dst, src)
	return nil
}

// MeshEnv is one rank's view of a Mesh.
type MeshEnv struct {
	mesh        *Mesh
	procX       int
	procY       int
	tag         int
	tagMu       sync.Mutex
}

func (e *MeshEnv) ProcXThis() int { return e.procX }
func (e *MeshEnv) ProcYThis() int { return e.procY }
func (e *MeshEnv) NProcX() int    { return e.mesh.nprocX }
func (e *MeshEnv) NProcY() int    { return e.mesh.nprocY }
func (e *MeshEnv) Proc(px, py int) int { return e.mesh.rankOf(px, py) }

func (e *MeshEnv) Tag() int {
	e.tagMu.Lock()
	defer e.tagMu.Unlock()
	return e.tag
}

func (e *MeshEnv) IncrementTag(n int) {
	e.tagMu.Lock()
	defer e.tagMu.Unlock()
	e.tag += n
}

func (e *MeshEnv) self() int { return e.mesh.rankOf(e.procX, e.procY) }

func (e *MeshEnv) SendP(ctx context.Context, buf []float64, dest int, tag int) error {
	data := make([]float64, len(buf))
	copy(data, buf)
	l := e.mesh.linkFor(e.self(), dest)
	select {
	case l.ch <- envelope{tag: tag, data: data}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *MeshEnv) RecvP(ctx context.Context, buf []float64, src int, tag int) error {
	return e.mesh.recvMatch(ctx, e.self(), src, tag, buf)
}

// meshRequest is a completion handle backed by a channel that gets closed
// once, so Done() can be polled repeatedly and Wait() can still observe
// the final error afterwards.
type meshRequest struct {
	done chan struct{}
	mu   sync.Mutex
	err  error
}

func newMeshRequest() *meshRequest { return &meshRequest{done: make(chan struct{})} }

func (r *meshRequest) complete(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
	close(r.done)
}

func (r *meshRequest) Done() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

func (e *MeshEnv) ASendP(ctx context.Context, buf []float64, dest int, tag int) (Request, error) {
	r := newMeshRequest()
	go func() { r.complete(e.SendP(ctx, buf, dest, tag)) }()
	return r, nil
}

func (e *MeshEnv) ARecvP(ctx context.Context, buf []float64, src int, tag int) (Request, error) {
	r := newMeshRequest()
	go func() { r.complete(e.RecvP(ctx, buf, src, tag)) }()
	return r, nil
}

func (e *MeshEnv) Wait(ctx context.Context, r Request) error {
	mr, ok := r.(*meshRequest)
	if !ok {
		return fmt.Errorf("transport: Wait called with a request from a different Env")
	}
	select {
	case <-mr.done:
		mr.mu.Lock()
		defer mr.mu.Unlock()
		return mr.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
