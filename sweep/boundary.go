package sweep

import "github.com/kba-sweep/kba-sweep/sweep/quantities"

// boundary.go applies physical (problem) boundary conditions to the three
// face buffers at the edges of the global grid, grounded on
// Sweeper_set_boundary_xy/xz/yz.

// setBoundaryXY fills facexy with inlet values for the semiblock
// [ixMin,ixMax] x [iyMin,iyMax], called only when this octant's z-direction
// boundary coincides with the globally first or last z-block.
func setBoundaryXY(dimsB Dimensions, facexy []float64, quan quantities.Quantities, globalBase CellBase, octant, octantInBlock int, ixMin, ixMax, iyMin, iyMax, ieMin, ieMax int) {
	dirZ := Octant(octant).DirZ()
	izGlobal := -1
	if dirZ == Dn {
		izGlobal = globalBase.NZGlobal
	}

	for ie := ieMin; ie < ieMax; ie++ {
		for iy := iyMin; iy <= iyMax; iy++ {
			iyGlobal := iy + globalBase.IYBase
			for ix := ixMin; ix <= ixMax; ix++ {
				ixGlobal := ix + globalBase.IXBase
				base := dimsB.FaceXYCellBase(ix, iy, ie, octantInBlock)
				for ia := 0; ia < dimsB.NA; ia++ {
					for iu := 0; iu < NU; iu++ {
						facexy[base+ia*NU+iu] = quan.InitFaceXY(ixGlobal, iyGlobal, izGlobal, ie, ia, iu, octant)
					}
				}
			}
		}
	}
}

// setBoundaryXZ fills facexz with inlet values, called only when this
// octant's y-direction boundary coincides with the process grid's global y
// edge.
func setBoundaryXZ(dimsB Dimensions, facexz []float64, quan quantities.Quantities, globalBase CellBase, blockZ, octant, octantInBlock int, ixMin, ixMax, izMin, izMax, ieMin, ieMax int) {
	dirY := Octant(octant).DirY()
	iyGlobal := -1
	if dirY == Dn {
		iyGlobal = globalBase.NYGlobal
	}
	izBase := blockZ * dimsB.NZ

	for ie := ieMin; ie < ieMax; ie++ {
		for iz := izMin; iz <= izMax; iz++ {
			izGlobal := iz + izBase
			for ix := ixMin; ix <= ixMax; ix++ {
				ixGlobal := ix + globalBase.IXBase
				base := dimsB.FaceXZCellBase(ix, iz, ie, octantInBlock)
				for ia := 0; ia < dimsB.NA; ia++ {
					for iu := 0; iu < NU; iu++ {
						facexz[base+ia*NU+iu] = quan.InitFaceXZ(ixGlobal, iyGlobal, izGlobal, ie, ia, iu, octant)
					}
				}
			}
		}
	}
}

// setBoundaryYZ fills faceyz with inlet values, called only when this
// octant's x-direction boundary coincides with the process grid's global x
// edge.
func setBoundaryYZ(dimsB Dimensions, faceyz []float64, quan quantities.Quantities, globalBase CellBase, blockZ, octant, octantInBlock int, iyMin, iyMax, izMin, izMax, ieMin, ieMax int) {
	dirX := Octant(octant).DirX()
	ixGlobal := -1
	if dirX == Dn {
		ixGlobal = globalBase.NXGlobal
	}
	izBase := blockZ * dimsB.NZ

	for ie := ieMin; ie < ieMax; ie++ {
		for iz := izMin; iz <= izMax; iz++ {
			izGlobal := iz + izBase
			for iy := iyMin; iy <= iyMax; iy++ {
				iyGlobal := iy + globalBase.IYBase
				base := dimsB.FaceYZCellBase(iy, iz, ie, octantInBlock)
				for ia := 0; ia < dimsB.NA; ia++ {
					for iu := 0; iu < NU; iu++ {
						faceyz[base+ia*NU+iu] = quan.InitFaceYZ(ixGlobal, iyGlobal, izGlobal, ie, ia, iu, octant)
					}
				}
			}
		}
	}
}

// CellBase locates this process's local block within the global grid, and
// records the global grid extents, for boundary evaluation and for
// quantities.CellCoords.
type CellBase struct {
	IXBase, IYBase           int
	NXGlobal, NYGlobal, NZGlobal int
}
