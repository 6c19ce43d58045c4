package sweep

import "testing"

func TestDimensionsValidate(t *testing.T) {
	cases := []struct {
		name    string
		d       Dimensions
		wantErr bool
	}{
		{"valid", Dimensions{NX: 2, NY: 2, NZ: 2, NE: 1, NM: 4, NA: 4}, false},
		{"zero nx", Dimensions{NX: 0, NY: 2, NZ: 2, NE: 1, NM: 4, NA: 4}, true},
		{"zero ne", Dimensions{NX: 2, NY: 2, NZ: 2, NE: 0, NM: 4, NA: 4}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.d.Validate()
			if (err != nil) != c.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}

func TestStateIndexDistinctWithinBounds(t *testing.T) {
	d := Dimensions{NX: 2, NY: 2, NZ: 2, NE: 2, NM: 2, NA: 2}
	seen := make(map[int]bool)
	for iz := 0; iz < d.NZ; iz++ {
		for iy := 0; iy < d.NY; iy++ {
			for ix := 0; ix < d.NX; ix++ {
				for ie := 0; ie < d.NE; ie++ {
					for im := 0; im < d.NM; im++ {
						for iu := 0; iu < NU; iu++ {
							idx := d.StateIndex(ix, iy, iz, ie, im, iu)
							if idx < 0 || idx >= d.SizeState() {
								t.Fatalf("StateIndex out of range: %d (size %d)", idx, d.SizeState())
							}
							if seen[idx] {
								t.Fatalf("duplicate StateIndex %d for ix=%d iy=%d iz=%d ie=%d im=%d iu=%d", idx, ix, iy, iz, ie, im, iu)
							}
							seen[idx] = true
						}
					}
				}
			}
		}
	}
	if len(seen) != d.SizeState() {
		t.Errorf("covered %d of %d state indices", len(seen), d.SizeState())
	}
}

func TestFaceCellBaseContiguousAndDisjoint(t *testing.T) {
	d := Dimensions{NX: 3, NY: 2, NZ: 2, NE: 2, NM: 4, NA: 4}
	noctant := 2
	n := d.NA * NU
	size := d.SizeFaceXY(noctant)

	seen := make(map[int]bool)
	for k := 0; k < noctant; k++ {
		for ie := 0; ie < d.NE; ie++ {
			for iy := 0; iy < d.NY; iy++ {
				for ix := 0; ix < d.NX; ix++ {
					base := d.FaceXYCellBase(ix, iy, ie, k)
					if base < 0 || base+n > size {
						t.Fatalf("cell base %d out of range for size %d", base, size)
					}
					for off := 0; off < n; off++ {
						if seen[base+off] {
							t.Fatalf("overlapping face index %d", base+off)
						}
						seen[base+off] = true
					}
				}
			}
		}
	}
	if len(seen) != size {
		t.Errorf("covered %d of %d face elements", len(seen), size)
	}
}
