package sweep

// FaceBuffers owns the per-process face arrays used to carry the sweep
// recursion's dependence across z-blocks (xy faces, single-buffered) and
// across neighboring processes (xz/yz faces, triple-buffered for the
// asynchronous comm pattern).
//
// Triple-buffer invariant: at step s, buffer s%3 is being computed,
// (s-1)%3 is being sent, (s+1)%3 is being received.
type FaceBuffers struct {
	dimsB           Dimensions
	noctantPerBlock int

	facexy []float64
	facexz [3][]float64
	faceyz [3][]float64
}

// NewFaceBuffers allocates face arrays sized for per-block dimensions
// dimsB and noctantPerBlock concurrently-scheduled octants.
func NewFaceBuffers(dimsB Dimensions, noctantPerBlock int) *FaceBuffers {
	fb := &FaceBuffers{
		dimsB:           dimsB,
		noctantPerBlock: noctantPerBlock,
		facexy:          make([]float64, dimsB.SizeFaceXY(noctantPerBlock)),
	}
	for i := range fb.facexz {
		fb.facexz[i] = make([]float64, dimsB.SizeFaceXZ(noctantPerBlock))
		fb.faceyz[i] = make([]float64, dimsB.SizeFaceYZ(noctantPerBlock))
	}
	return fb
}

// FaceXY returns the single xy-face buffer.
func (fb *FaceBuffers) FaceXY() []float64 { return fb.facexy }

// computeIdx returns the triple-buffer slot being computed at `step`.
func computeIdx(step int) int { return ((step % 3) + 3) % 3 }

// sendIdx returns the triple-buffer slot being sent at `step` (computed at
// step-1).
func sendIdx(step int) int { return computeIdx(step - 1) }

// recvIdx returns the triple-buffer slot being received at `step` (will be
// computed at step+1).
func recvIdx(step int) int { return computeIdx(step + 1) }

// FaceXZForStep returns the xz-face buffer a block driver should read/write
// while computing `step`.
func (fb *FaceBuffers) FaceXZForStep(step int) []float64 { return fb.facexz[computeIdx(step)] }

// FaceYZForStep returns the yz-face buffer a block driver should read/write
// while computing `step`.
func (fb *FaceBuffers) FaceYZForStep(step int) []float64 { return fb.faceyz[computeIdx(step)] }

// FaceXZForSend returns the xz-face buffer being sent during `step`: the
// slot that holds the values computed at step-1.
func (fb *FaceBuffers) FaceXZForSend(step int) []float64 { return fb.facexz[sendIdx(step)] }

// FaceYZForSend returns the yz-face buffer being sent during `step`: the
// slot that holds the values computed at step-1.
func (fb *FaceBuffers) FaceYZForSend(step int) []float64 { return fb.faceyz[sendIdx(step)] }

// FaceXZForRecv returns the xz-face buffer slot that receives, during
// `step`, the values upstream neighbors compute at `step`; it is the slot
// computed on at step+1.
func (fb *FaceBuffers) FaceXZForRecv(step int) []float64 { return fb.facexz[recvIdx(step)] }

// FaceYZForRecv returns the yz-face buffer slot that receives, during
// `step`, the values upstream neighbors compute at `step`; it is the slot
// computed on at step+1.
func (fb *FaceBuffers) FaceYZForRecv(step int) []float64 { return fb.faceyz[recvIdx(step)] }

// SizeFaceXZPerOctant returns the element count of one octant's slice of
// an xz-face buffer, the unit exchanged over the wire per message.
func (fb *FaceBuffers) SizeFaceXZPerOctant() int {
	return fb.dimsB.SizeFaceXZ(fb.noctantPerBlock) / fb.noctantPerBlock
}

// SizeFaceYZPerOctant returns the element count of one octant's slice of a
// yz-face buffer.
func (fb *FaceBuffers) SizeFaceYZPerOctant() int {
	return fb.dimsB.SizeFaceYZ(fb.noctantPerBlock) / fb.noctantPerBlock
}

// FaceXZOctantSlice returns the sub-slice of `buf` (one of the xz-face
// buffers) belonging to octantInBlock.
func (fb *FaceBuffers) FaceXZOctantSlice(buf []float64, octantInBlock int) []float64 {
	n := fb.SizeFaceXZPerOctant()
	return buf[octantInBlock*n : (octantInBlock+1)*n]
}

// FaceYZOctantSlice returns the sub-slice of `buf` (one of the yz-face
// buffers) belonging to octantInBlock.
func (fb *FaceBuffers) FaceYZOctantSlice(buf []float64, octantInBlock int) []float64 {
	n := fb.SizeFaceYZPerOctant()
	return buf[octantInBlock*n : (octantInBlock+1)*n]
}
