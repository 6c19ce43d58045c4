package sweep

import (
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/kba-sweep/kba-sweep/sweep/quantities"
)

// semiblockBounds is the inclusive cell-index range one semiblock occupies
// within the block, along each axis.
type semiblockBounds struct {
	ixMin, ixMax int
	iyMin, iyMax int
	izMin, izMax int
}

// sweepSemiblock performs the per-cell recursion over one octant's
// semiblock, grounded on Sweeper_sweep_semiblock: transform moments to
// angles, call into Quantities.Solve, transform the result back to
// moments and accumulate into vo. vLocal is scratch private to the calling
// goroutine; vi/vo are the per-block state arrays already offset to this
// z-block's iz_base.
func sweepSemiblock(dimsB Dimensions, quan quantities.Quantities, vLocal []float64, vi, vo []float64, facexy, facexz, faceyz []float64, info StepInfo, octantInBlock, noctantPerBlock int, base CellBase, b semiblockBounds, ieMin, ieMax int, atomicUpdate bool) {
	octant := int(info.Octant)
	dirX, dirY, dirZ := info.Octant.DirX(), info.Octant.DirY(), info.Octant.DirZ()

	ixBeg, ixEnd := b.ixMin, b.ixMax
	if dirX == Dn {
		ixBeg, ixEnd = b.ixMax, b.ixMin
	}
	iyBeg, iyEnd := b.iyMin, b.iyMax
	if dirY == Dn {
		iyBeg, iyEnd = b.iyMax, b.iyMin
	}
	izBeg, izEnd := b.izMin, b.izMax
	if dirZ == Dn {
		izBeg, izEnd = b.izMax, b.izMin
	}

	aFromM := quan.AFromM(octant)
	mFromA := quan.MFromA(octant)

	for ie := ieMin; ie < ieMax; ie++ {
		for iz := izBeg; iz != izEnd+dirZ.Inc(); iz += dirZ.Inc() {
			for iy := iyBeg; iy != iyEnd+dirY.Inc(); iy += dirY.Inc() {
				for ix := ixBeg; ix != ixEnd+dirX.Inc(); ix += dirX.Inc() {
					for iu := 0; iu < NU; iu++ {
						for ia := 0; ia < dimsB.NA; ia++ {
							var result float64
							for im := 0; im < dimsB.NM; im++ {
								result += aFromM.At(ia, im) * vi[dimsB.StateIndex(ix, iy, iz, ie, im, iu)]
							}
							vLocal[ia*NU+iu] = result
						}
					}

					xyBase := dimsB.FaceXYCellBase(ix, iy, ie, octantInBlock)
					xzBase := dimsB.FaceXZCellBase(ix, iz, ie, octantInBlock)
					yzBase := dimsB.FaceYZCellBase(iy, iz, ie, octantInBlock)
					n := dimsB.NA * NU

					quan.Solve(vLocal, facexy[xyBase:xyBase+n], facexz[xzBase:xzBase+n], faceyz[yzBase:yzBase+n], quantities.SolveArgs{
						Coords: quantities.CellCoords{
							IX: ix, IY: iy, IZ: iz,
							IXGlobal: ix + base.IXBase,
							IYGlobal: iy + base.IYBase,
							IZGlobal: iz + info.BlockZ*dimsB.NZ,
							IE:       ie,
						},
						Octant:          octant,
						OctantInBlock:   octantInBlock,
						NoctantPerBlock: noctantPerBlock,
					})

					for iu := 0; iu < NU; iu++ {
						for im := 0; im < dimsB.NM; im++ {
							var result float64
							for ia := 0; ia < dimsB.NA; ia++ {
								result += mFromA.At(im, ia) * vLocal[ia*NU+iu]
							}
							idx := dimsB.StateIndex(ix, iy, iz, ie, im, iu)
							if atomicUpdate {
								atomicAddFloat64(&vo[idx], result)
							} else {
								vo[idx] += result
							}
						}
					}
				}
			}
		}
	}
}

// atomicAddFloat64 adds delta to *addr using a compare-and-swap retry loop,
// needed when nsemiblock < noctant_per_block so two octant-in-block
// goroutines can update the same vo cell in the same semiblock step.
func atomicAddFloat64(addr *float64, delta float64) {
	bits := (*uint64)(unsafe.Pointer(addr))
	for {
		old := atomic.LoadUint64(bits)
		newVal := math.Float64bits(math.Float64frombits(old) + delta)
		if atomic.CompareAndSwapUint64(bits, old, newVal) {
			return
		}
	}
}
