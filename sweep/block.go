package sweep

import (
	"sync"

	"github.com/kba-sweep/kba-sweep/sweep/quantities"
)

// sweepBlock drives one pipeline step's worth of compute across all
// octant-in-block slots, grounded on Sweeper_sweep_block_impl. Each active
// slot runs the semiblock loop over its own z-block (which may differ from
// slot to slot, since step_info.block_z is computed per slot); within a
// semiblock, one goroutine per (octant-in-block, energy-thread) pair does
// the work for that slot's disjoint spatial subregion, synchronized by a
// WaitGroup barrier before the next semiblock starts so goroutines from
// different octants never touch overlapping vo cells in the same instant
// unless Config.needsAtomicUpdate() says they must tolerate it.
func sweepBlock(cfg *Config, dims, dimsB Dimensions, quan quantities.Quantities, vi, vo []float64, facexy, facexz, faceyz []float64, stepInfos []StepInfo, base CellBase, procXMin, procXMax, procYMin, procYMax bool) {
	atomicUpdate := cfg.needsAtomicUpdate()

	for semiblock := 0; semiblock < cfg.Nsemiblock; semiblock++ {
		var wg sync.WaitGroup

		for k := 0; k < cfg.NoctantPerBlock; k++ {
			info := stepInfos[k]
			if !info.IsActive {
				continue
			}

			izBase := info.BlockZ * dimsB.NZ
			offset := dims.StateIndex(0, 0, izBase, 0, 0, 0)
			viThis := vi[offset : offset+dimsB.SizeState()]
			voThis := vo[offset : offset+dimsB.SizeState()]

			b := semiblockBoundsFor(cfg.Nsemiblock, semiblock, dimsB, info.Octant)
			applyBoundaries(dimsB, quan, facexy, facexz, faceyz, base, info, k, b, procXMin, procXMax, procYMin, procYMax, cfg.NblockZ)

			for t := 0; t < cfg.NthreadE; t++ {
				ieMin := (dimsB.NE * t) / cfg.NthreadE
				ieMax := (dimsB.NE * (t + 1)) / cfg.NthreadE
				if ieMin >= ieMax {
					continue
				}
				wg.Add(1)
				go func(info StepInfo, k, ieMin, ieMax int, viThis, voThis []float64) {
					defer wg.Done()
					vLocal := make([]float64, dimsB.NA*NU)
					sweepSemiblock(dimsB, quan, vLocal, viThis, voThis, facexy, facexz, faceyz, info, k, cfg.NoctantPerBlock, base, b, ieMin, ieMax, atomicUpdate)
				}(info, k, ieMin, ieMax, viThis, voThis)
			}
		}

		wg.Wait()
	}
}

// semiblockBoundsFor computes the inclusive cell range one semiblock
// occupies along each axis, grounded on the is_x/y/z_semiblocked and
// has_x/y/z_lo/hi bit logic in Sweeper_sweep_block_impl.
func semiblockBoundsFor(nsemiblock, semiblock int, dimsB Dimensions, o Octant) semiblockBounds {
	return semiblockBounds{
		ixMin: semiAxisMin(nsemiblock, semiblock, 0, o.DirX(), dimsB.NX),
		ixMax: semiAxisMax(nsemiblock, semiblock, 0, o.DirX(), dimsB.NX),
		iyMin: semiAxisMin(nsemiblock, semiblock, 1, o.DirY(), dimsB.NY),
		iyMax: semiAxisMax(nsemiblock, semiblock, 1, o.DirY(), dimsB.NY),
		izMin: semiAxisMin(nsemiblock, semiblock, 2, o.DirZ(), dimsB.NZ),
		izMax: semiAxisMax(nsemiblock, semiblock, 2, o.DirZ(), dimsB.NZ),
	}
}

func semiblocked(nsemiblock int, bit uint) bool { return nsemiblock > (1 << bit) }

func semiLo(semiblock int, bit uint, dir Dir) bool {
	return ((semiblock>>bit)&1 == 0) == (dir == Up)
}

func semiAxisMin(nsemiblock, semiblock int, bit uint, dir Dir, n int) int {
	if !semiblocked(nsemiblock, bit) || semiLo(semiblock, bit, dir) {
		return 0
	}
	return n / 2
}

func semiAxisMax(nsemiblock, semiblock int, bit uint, dir Dir, n int) int {
	isSemiblocked := semiblocked(nsemiblock, bit)
	hasHi := !semiLo(semiblock, bit, dir) || !isSemiblocked
	if !hasHi {
		return n/2 - 1
	}
	return n - 1
}

// applyBoundaries sets the physical boundary conditions for whichever faces
// of this semiblock coincide with a global grid edge.
func applyBoundaries(dimsB Dimensions, quan quantities.Quantities, facexy, facexz, faceyz []float64, base CellBase, info StepInfo, k int, b semiblockBounds, procXMin, procXMax, procYMin, procYMax bool, nblockZ int) {
	octant := int(info.Octant)
	dirX, dirY, dirZ := info.Octant.DirX(), info.Octant.DirY(), info.Octant.DirZ()
	hasZLo := b.izMin == 0
	hasZHi := b.izMax == dimsB.NZ-1
	hasYLo := b.iyMin == 0
	hasYHi := b.iyMax == dimsB.NY-1
	hasXLo := b.ixMin == 0
	hasXHi := b.ixMax == dimsB.NX-1

	if (dirZ == Up && info.BlockZ == 0 && hasZLo) || (dirZ == Dn && info.BlockZ == nblockZ-1 && hasZHi) {
		setBoundaryXY(dimsB, facexy, quan, base, octant, k, b.ixMin, b.ixMax, b.iyMin, b.iyMax, 0, dimsB.NE)
	}
	if (dirY == Up && procYMin && hasYLo) || (dirY == Dn && procYMax && hasYHi) {
		setBoundaryXZ(dimsB, facexz, quan, base, info.BlockZ, octant, k, b.ixMin, b.ixMax, b.izMin, b.izMax, 0, dimsB.NE)
	}
	if (dirX == Up && procXMin && hasXLo) || (dirX == Dn && procXMax && hasXHi) {
		setBoundaryYZ(dimsB, faceyz, quan, base, info.BlockZ, octant, k, b.iyMin, b.iyMax, b.izMin, b.izMax, 0, dimsB.NE)
	}
}
