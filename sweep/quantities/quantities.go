// Package quantities defines the external "problem quantities" contract
// the sweep kernel calls into (§6 of the spec): boundary inlet values, the
// per-cell solve, and the moment<->angle transform matrices. The sweep
// package never constructs physics itself; it only calls through this
// interface, so any Quantities implementation — the stub used for the
// pinned test fixtures, or a more realistic attenuation model — drives the
// same kernel unchanged.
package quantities

import "gonum.org/v1/gonum/mat"

// CellCoords locates a cell both within its process-local block and in the
// global grid, which boundary/solve implementations need to evaluate
// position-dependent sources.
type CellCoords struct {
	IX, IY, IZ       int // block-local indices
	IXGlobal         int
	IYGlobal         int
	IZGlobal         int
	IE               int // energy group
}

// SolveArgs bundles the arguments Quantities.Solve needs beyond the v_local
// scratch and the three face arrays.
type SolveArgs struct {
	Coords          CellCoords
	Octant          int
	OctantInBlock   int
	NoctantPerBlock int
}

// Quantities is the external collaborator that supplies pure boundary
// functions, the per-cell solve, and the moment/angle transform matrices.
// Implementations must be safe for concurrent use: the kernel calls Solve
// from multiple goroutines (one per octant-in-block thread) concurrently,
// each with its own v_local and its own disjoint face slices.
type Quantities interface {
	// InitFaceXY returns the inlet value for the xy face at global cell
	// (ixGlobal,iyGlobal,izGlobal), energy group ie, angle ia, unknown iu,
	// for the given octant.
	InitFaceXY(ixGlobal, iyGlobal, izGlobal, ie, ia, iu, octant int) float64
	// InitFaceXZ returns the inlet value for the xz face.
	InitFaceXZ(ixGlobal, iyGlobal, izGlobal, ie, ia, iu, octant int) float64
	// InitFaceYZ returns the inlet value for the yz face.
	InitFaceYZ(ixGlobal, iyGlobal, izGlobal, ie, ia, iu, octant int) float64

	// Solve computes the cell's outgoing angular flux into vLocal (shape
	// na*NU, row-major with iu fastest) from the three upstream face
	// slices, and writes the downstream values back into those same
	// slices so the next cell along each axis sees them as upstream.
	Solve(vLocal []float64, facexy, facexz, faceyz []float64, args SolveArgs)

	// AFromM returns the (na x nm) moment-to-angle transform for octant o.
	AFromM(o int) *mat.Dense
	// MFromA returns the (nm x na) angle-to-moment transform for octant o.
	MFromA(o int) *mat.Dense
}
