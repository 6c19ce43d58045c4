package quantities

import "math"

// Attenuation is an illustrative diamond-difference Quantities
// implementation: each cell attenuates the average of its three upstream
// faces by a constant total cross section sigmaT, with an isotropic
// external source added at the domain inlet. It is not a validated
// transport physics model; it exists so the engine has a second,
// non-trivial collaborator to exercise besides the pinned Stub.
type Attenuation struct {
	*Transforms
	NA, NU   int
	SigmaT   float64 // total cross section
	Source   float64 // isotropic external source strength at inlet faces
}

// NewAttenuation builds an Attenuation quantities model with identity
// moment<->angle transforms.
func NewAttenuation(na, nm, nu int, sigmaT, source float64) (*Attenuation, error) {
	t, err := NewIdentityTransforms(na, nm)
	if err != nil {
		return nil, err
	}
	return &Attenuation{Transforms: t, NA: na, NU: nu, SigmaT: sigmaT, Source: source}, nil
}

// InitFaceXY returns the inlet source strength, independent of position.
func (a *Attenuation) InitFaceXY(ixGlobal, iyGlobal, izGlobal, ie, ia, iu, octant int) float64 {
	return a.Source
}

// InitFaceXZ returns the inlet source strength.
func (a *Attenuation) InitFaceXZ(ixGlobal, iyGlobal, izGlobal, ie, ia, iu, octant int) float64 {
	return a.Source
}

// InitFaceYZ returns the inlet source strength.
func (a *Attenuation) InitFaceYZ(ixGlobal, iyGlobal, izGlobal, ie, ia, iu, octant int) float64 {
	return a.Source
}

// Solve applies a diamond-difference closure: the cell-center value is the
// average of the three upstream faces attenuated by sigmaT over one mean
// free path, and the same value is reflected back as the downstream face
// in each direction (consistent with the diamond-difference assumption
// that the outgoing face equals twice the center minus the incoming face,
// here simplified to the center value itself for a compact illustration).
func (a *Attenuation) Solve(vLocal []float64, facexy, facexz, faceyz []float64, args SolveArgs) {
	atten := math.Exp(-a.SigmaT)
	for ia := 0; ia < a.NA; ia++ {
		for iu := 0; iu < a.NU; iu++ {
			idx := ia*a.NU + iu
			center := (facexy[idx] + facexz[idx] + faceyz[idx]) / 3 * atten
			vLocal[idx] = center
			facexy[idx] = center
			facexz[idx] = center
			faceyz[idx] = center
		}
	}
}
