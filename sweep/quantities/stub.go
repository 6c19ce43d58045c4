package quantities

// Stub is the reference Quantities used by the §8 concrete test scenarios
// (S1-S6). Its inlet faces are all zero and its solve sets every
// v_local[ia,iu] to (sum of the three upstream faces + v_local)/2, writing
// that same value back into each outgoing face slot. It exists purely to
// pin a closed-form recursion the sweep engine's output can be checked
// against; it has no physical meaning.
type Stub struct {
	*Transforms
	NA, NU int
}

// NewStub builds a Stub quantities model with identity moment<->angle
// transforms sized for na angles, nm moments.
func NewStub(na, nm, nu int) (*Stub, error) {
	t, err := NewIdentityTransforms(na, nm)
	if err != nil {
		return nil, err
	}
	return &Stub{Transforms: t, NA: na, NU: nu}, nil
}

// InitFaceXY always returns zero.
func (s *Stub) InitFaceXY(ixGlobal, iyGlobal, izGlobal, ie, ia, iu, octant int) float64 {
	return 0
}

// InitFaceXZ always returns zero.
func (s *Stub) InitFaceXZ(ixGlobal, iyGlobal, izGlobal, ie, ia, iu, octant int) float64 {
	return 0
}

// InitFaceYZ always returns zero.
func (s *Stub) InitFaceYZ(ixGlobal, iyGlobal, izGlobal, ie, ia, iu, octant int) float64 {
	return 0
}

// Solve implements the closed-form toy recursion pinned by S1-S6: for each
// (ia,iu), the outgoing value is (facexy+facexz+faceyz+v_local)/2, written
// back into v_local and into all three face slots.
func (s *Stub) Solve(vLocal []float64, facexy, facexz, faceyz []float64, args SolveArgs) {
	for ia := 0; ia < s.NA; ia++ {
		for iu := 0; iu < s.NU; iu++ {
			idx := ia*s.NU + iu
			sum := facexy[idx] + facexz[idx] + faceyz[idx] + vLocal[idx]
			out := sum / 2
			vLocal[idx] = out
			facexy[idx] = out
			facexz[idx] = out
			faceyz[idx] = out
		}
	}
}
