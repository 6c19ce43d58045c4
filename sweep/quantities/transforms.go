package quantities

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Transforms holds the per-octant moment<->angle transform matrices shared
// by every Quantities implementation in this package.
type Transforms struct {
	aFromM [8]*mat.Dense
	mFromA [8]*mat.Dense
}

// AFromM returns the (na x nm) moment-to-angle matrix for octant o.
func (t *Transforms) AFromM(o int) *mat.Dense { return t.aFromM[o] }

// MFromA returns the (nm x na) angle-to-moment matrix for octant o.
func (t *Transforms) MFromA(o int) *mat.Dense { return t.mFromA[o] }

// NewIdentityTransforms builds Transforms where every octant shares the
// same (truncated) identity matrix between moment and angle space: the
// na x nm matrix has 1 on its leading diagonal and 0 elsewhere. This is
// the transform used by the §8 test fixtures ("a_from_m = m_from_a = I
// conceptually").
func NewIdentityTransforms(na, nm int) (*Transforms, error) {
	if na <= 0 || nm <= 0 {
		return nil, fmt.Errorf("quantities: na and nm must be positive, got na=%d nm=%d", na, nm)
	}
	t := &Transforms{}
	for o := 0; o < 8; o++ {
		a := mat.NewDense(na, nm, nil)
		m := mat.NewDense(nm, na, nil)
		for i := 0; i < min(na, nm); i++ {
			a.Set(i, i, 1)
			m.Set(i, i, 1)
		}
		t.aFromM[o] = a
		t.mFromA[o] = m
	}
	return t, nil
}
