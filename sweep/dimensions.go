// Package sweep implements the KBA (Koch-Baker-Alcouffe) parallel wavefront
// sweep engine for a discrete-ordinates transport recursion on a 3-D
// Cartesian grid.
//
// # Reading Guide
//
// Start with these files to understand the sweep kernel:
//   - dimensions.go: problem sizes and flat-index accessors for state arrays
//   - octant.go: the eight direction combinations and their bit encoding
//   - scheduler.go: the pure (step, octant-in-block, proc) -> StepInfo function
//   - sweeper.go: the outer step loop that ties scheduler, comm, and kernel together
//
// # Architecture
//
// The engine borrows its process-grid abstraction from sweep/transport and
// its physics contract from sweep/quantities; both are pure interfaces so
// the scheduler and kernel never depend on a concrete communication backend
// or a concrete transport-physics implementation.
package sweep

import "fmt"

// NU is the number of unknowns carried per gridcell.
const NU = 4

// NOCTANT is the number of directional octants a sweep visits.
const NOCTANT = 8

// Dimensions describes the sizes of one process's local state array.
// NX, NY, NZ are the per-process spatial extents; NE, NM, NA are the
// energy-group, moment, and angle counts shared by the whole problem.
type Dimensions struct {
	NX, NY, NZ int
	NE, NM, NA int
}

// Validate checks that every dimension is positive.
func (d Dimensions) Validate() error {
	if d.NX <= 0 || d.NY <= 0 || d.NZ <= 0 {
		return fmt.Errorf("sweep: spatial dimensions must be positive, got nx=%d ny=%d nz=%d", d.NX, d.NY, d.NZ)
	}
	if d.NE <= 0 || d.NM <= 0 || d.NA <= 0 {
		return fmt.Errorf("sweep: ne/nm/na must be positive, got ne=%d nm=%d na=%d", d.NE, d.NM, d.NA)
	}
	return nil
}

// WithNZ returns a copy of d with NZ replaced, used to derive the per-block
// dimensions (dims_b in the original notation) from the per-process ones.
func (d Dimensions) WithNZ(nz int) Dimensions {
	d.NZ = nz
	return d
}

// SizeState returns the number of float64 elements in a state array
// (vi/vo) of these dimensions.
func (d Dimensions) SizeState() int {
	return d.NX * d.NY * d.NZ * d.NE * d.NM * NU
}

// StateIndex returns the flat index of cell (ix,iy,iz), energy group ie,
// moment im, unknown iu within a state array of these dimensions. Z is the
// slowest-varying axis, iu the fastest.
func (d Dimensions) StateIndex(ix, iy, iz, ie, im, iu int) int {
	return (((((iz*d.NY+iy)*d.NX+ix)*d.NE+ie)*d.NM+im)*NU + iu)
}

// Per-cell face chunks are laid out with (ia,iu) fastest-varying so that
// FaceXYCellBase/FaceXZCellBase/FaceYZCellBase each return the start of a
// contiguous NA*NU run: the exact shape quantities.Quantities.Solve expects
// for its facexy/facexz/faceyz arguments.

// SizeFaceXY returns the element count of one xy-face buffer (one value per
// octant-in-block, carrying z-direction dependence across z-blocks).
func (d Dimensions) SizeFaceXY(noctantPerBlock int) int {
	return d.NX * d.NY * d.NE * d.NA * NU * noctantPerBlock
}

// FaceXYCellBase returns the offset of cell (ix,iy,ie,octantInBlock)'s
// NA*NU chunk within an xy-face buffer.
func (d Dimensions) FaceXYCellBase(ix, iy, ie, octantInBlock int) int {
	return (((octantInBlock*d.NE+ie)*d.NY+iy)*d.NX + ix) * d.NA * NU
}

// SizeFaceXZ returns the element count of one xz-face buffer (carries
// y-direction dependence across processes).
func (d Dimensions) SizeFaceXZ(noctantPerBlock int) int {
	return d.NX * d.NZ * d.NE * d.NA * NU * noctantPerBlock
}

// FaceXZCellBase returns the offset of cell (ix,iz,ie,octantInBlock)'s
// NA*NU chunk within an xz-face buffer.
func (d Dimensions) FaceXZCellBase(ix, iz, ie, octantInBlock int) int {
	return (((octantInBlock*d.NE+ie)*d.NZ+iz)*d.NX + ix) * d.NA * NU
}

// SizeFaceYZ returns the element count of one yz-face buffer (carries
// x-direction dependence across processes).
func (d Dimensions) SizeFaceYZ(noctantPerBlock int) int {
	return d.NY * d.NZ * d.NE * d.NA * NU * noctantPerBlock
}

// FaceYZCellBase returns the offset of cell (iy,iz,ie,octantInBlock)'s
// NA*NU chunk within a yz-face buffer.
func (d Dimensions) FaceYZCellBase(iy, iz, ie, octantInBlock int) int {
	return (((octantInBlock*d.NE+ie)*d.NZ+iz)*d.NY + iy) * d.NA * NU
}
