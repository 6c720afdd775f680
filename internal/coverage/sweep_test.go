package coverage

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestDiscretize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		req  Region
		want Lattice
	}{
		{"integer bounds", rgn(10, 20, 5, 15), Lattice{DMin: 10, DMax: 20, LMin: 5, LMax: 15}},
		{"rounded inward", rgn(9.2, 20.8, 4.5, 15.5), Lattice{DMin: 10, DMax: 20, LMin: 5, LMax: 15}},
		{"negative", rgn(-3.5, -0.5, -1.1, 2), Lattice{DMin: -3, DMax: -1, LMin: -1, LMax: 2}},
		{"sub-unit", rgn(10.2, 10.8, 5, 5), Lattice{DMin: 11, DMax: 10, LMin: 5, LMax: 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Discretize(tc.req))
		})
	}
}

func TestDiscretize_SaturatesHugeBounds(t *testing.T) {
	t.Parallel()

	lat := Discretize(rgn(math.Inf(-1), 1e300, -1e19, 1))
	assert.Equal(t, Lattice{DMin: -latticeLimit, DMax: latticeLimit, LMin: -latticeLimit, LMax: 1}, lat)

	r := ClipSensor(rgn(-1e30, 1e30, 0, 1), lat)
	assert.Equal(t, DiscreteRect{DMin: -latticeLimit, DMax: latticeLimit, LMin: 0, LMax: 1}, r)
	assert.Equal(t, []int{-latticeLimit, 0, latticeLimit + 1}, Boundaries(lat, []DiscreteRect{r}))
}

func TestWillSuffice_HugeBounds(t *testing.T) {
	t.Parallel()

	for _, hi := range []float64{1e10, 1e19, 1e300} {
		req := rgn(0, hi, 0, 1)
		ok, err := WillSuffice(req, []Region{req})
		assert.NoError(t, err)
		assert.True(t, ok, "requirement [0,%g] covered by itself", hi)

		ok, err = WillSuffice(req, []Region{rgn(0, hi/2, 0, 1), rgn(hi/2, hi, 0, 1)})
		assert.NoError(t, err)
		assert.True(t, ok, "requirement [0,%g] covered by halves", hi)
	}

	ok, err := WillSuffice(rgn(0, 1e19, 0, 2), []Region{rgn(0, 1e19, 0, 0), rgn(0, 1e19, 2, 2)})
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestClip(t *testing.T) {
	t.Parallel()

	lat := Lattice{DMin: 10, DMax: 20, LMin: 5, LMax: 15}
	sensors := []Region{
		rgn(0, 100, 0, 100),      // clipped to the lattice
		rgn(12.5, 14.5, 6.1, 9.9), // rounded inward
		rgn(15.2, 15.8, 5, 15),    // no integer distance inside
		rgn(10, 20, 16, 30),       // above the light range
		rgn(20, 25, 15, 15),       // single lattice point
	}

	got := Clip(sensors, lat)
	want := []DiscreteRect{
		{DMin: 10, DMax: 20, LMin: 5, LMax: 15},
		{DMin: 13, DMax: 14, LMin: 7, LMax: 9},
		{DMin: 20, DMax: 20, LMin: 15, LMax: 15},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Clip mismatch (-want +got):\n%s", diff)
	}

	assert.True(t, ClipSensor(sensors[2], lat).Degenerate())
	assert.True(t, ClipSensor(sensors[3], lat).Degenerate())
	assert.Empty(t, Clip(nil, lat))
}

func TestBoundaries(t *testing.T) {
	t.Parallel()

	lat := Lattice{DMin: 10, DMax: 20, LMin: 5, LMax: 15}
	rects := []DiscreteRect{
		{DMin: 10, DMax: 15, LMin: 5, LMax: 15},
		{DMin: 17, DMax: 20, LMin: 5, LMax: 15},
	}
	// 10, 21 from the lattice; 10, 16, 12 and 17, 21, 18 from the rects.
	assert.Equal(t, []int{10, 12, 16, 17, 18, 21}, Boundaries(lat, rects))

	assert.Equal(t, []int{10, 21}, Boundaries(lat, nil))
}

func TestBoundaries_NegativeMidpointFloors(t *testing.T) {
	t.Parallel()

	lat := Lattice{DMin: -5, DMax: 0}
	rects := []DiscreteRect{{DMin: -3, DMax: 0}}
	// floor((-3+0)/2) is -2, not the truncated -1.
	assert.Equal(t, []int{-5, -3, -2, 1}, Boundaries(lat, rects))
}

func TestStripes(t *testing.T) {
	t.Parallel()

	got := Stripes([]int{10, 12, 16, 21})
	want := []Stripe{{Start: 10, End: 11}, {Start: 12, End: 15}, {Start: 16, End: 20}}
	assert.Equal(t, want, got)

	assert.Nil(t, Stripes([]int{10}))
	assert.Nil(t, Stripes(nil))
}

func TestStripes_AbutWithoutGaps(t *testing.T) {
	t.Parallel()

	lat := Lattice{DMin: 0, DMax: 99}
	rects := []DiscreteRect{
		{DMin: 3, DMax: 40},
		{DMin: 20, DMax: 99},
		{DMin: 0, DMax: 7},
		{DMin: 55, DMax: 60},
	}
	stripes := Stripes(Boundaries(lat, rects))
	if assert.NotEmpty(t, stripes) {
		assert.Equal(t, lat.DMin, stripes[0].Start)
		assert.Equal(t, lat.DMax, stripes[len(stripes)-1].End)
	}
	for i := 1; i < len(stripes); i++ {
		assert.Equal(t, stripes[i-1].End+1, stripes[i].Start, "stripe %d", i)
		assert.LessOrEqual(t, stripes[i].Start, stripes[i].End, "stripe %d", i)
	}
}

func TestActive(t *testing.T) {
	t.Parallel()

	rects := []DiscreteRect{
		{DMin: 10, DMax: 18, LMin: 5, LMax: 10},
		{DMin: 15, DMax: 20, LMin: 11, LMax: 15},
		{DMin: 16, DMax: 16, LMin: 5, LMax: 15},
	}

	assert.Equal(t, rects[:1], Active(Stripe{Start: 10, End: 14}, rects))
	assert.Equal(t, rects[:2], Active(Stripe{Start: 15, End: 15}, rects))
	// Partial overlap is not membership.
	assert.Equal(t, rects[:2], Active(Stripe{Start: 16, End: 17}, rects))
	assert.Empty(t, Active(Stripe{Start: 21, End: 22}, rects))
}

func TestMergeIntervals(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   []LightInterval
		want []LightInterval
	}{
		{"empty", nil, nil},
		{"single", []LightInterval{{5, 15}}, []LightInterval{{5, 15}}},
		{"integer adjacent", []LightInterval{{5, 10}, {11, 15}}, []LightInterval{{5, 15}}},
		{"one unit gap", []LightInterval{{5, 10}, {12, 15}}, []LightInterval{{5, 10}, {12, 15}}},
		{"overlapping unsorted", []LightInterval{{8, 15}, {5, 9}}, []LightInterval{{5, 15}}},
		{"contained", []LightInterval{{1, 10}, {2, 3}, {4, 4}}, []LightInterval{{1, 10}}},
		{"chain", []LightInterval{{20, 25}, {1, 2}, {3, 9}, {12, 19}}, []LightInterval{{1, 9}, {12, 25}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tc.want, MergeIntervals(tc.in)); diff != "" {
				t.Errorf("MergeIntervals mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeIntervals_LeavesInputAlone(t *testing.T) {
	t.Parallel()

	in := []LightInterval{{12, 15}, {5, 10}, {11, 11}}
	before := append([]LightInterval(nil), in...)
	merged := MergeIntervals(in)
	assert.Equal(t, []LightInterval{{5, 15}}, merged)
	assert.Equal(t, before, in)
}

func TestSpans(t *testing.T) {
	t.Parallel()

	assert.True(t, Spans([]LightInterval{{5, 15}}, 5, 15))
	assert.True(t, Spans([]LightInterval{{0, 2}, {4, 20}}, 5, 15))
	assert.False(t, Spans([]LightInterval{{5, 10}, {12, 15}}, 5, 15))
	// Disjoint blocks that together reach both ends still do not span.
	assert.False(t, Spans([]LightInterval{{5, 9}, {11, 15}}, 5, 15))
	assert.False(t, Spans([]LightInterval{{6, 15}}, 5, 15))
	assert.False(t, Spans(nil, 5, 15))
}

func TestCornersCovered(t *testing.T) {
	t.Parallel()

	req := rgn(10, 20, 5, 15)
	assert.True(t, CornersCovered(req, []Region{rgn(10, 20, 5, 15)}))
	// Corner coverage says nothing about the interior.
	assert.True(t, CornersCovered(req, []Region{
		rgn(10, 10, 5, 5), rgn(10, 10, 15, 15), rgn(20, 20, 5, 5), rgn(20, 20, 15, 15),
	}))
	assert.False(t, CornersCovered(req, []Region{rgn(10, 19.999, 5, 15)}))
	assert.False(t, CornersCovered(req, nil))
}

func TestValidateSensors(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateSensors(nil))
	assert.NoError(t, ValidateSensors([]Region{rgn(1, 1, 2, 2)}))

	err := ValidateSensors([]Region{rgn(1, 2, 3, 4), rgn(1, 2, 4, 3.5)})
	want := &InvalidRangeError{Index: 1, Axis: AxisLight, Min: 4, Max: 3.5}
	assert.Equal(t, want, err)
	assert.Equal(t, "invalid camera range: min > max: sensor 1 light [4,3.5]", err.Error())
}

func TestRegion_Contains(t *testing.T) {
	t.Parallel()

	r := rgn(10, 20, 5, 15)
	assert.True(t, r.Contains(10, 5))
	assert.True(t, r.Contains(20, 15))
	assert.True(t, r.Contains(15, 10))
	assert.False(t, r.Contains(9.999, 10))
	assert.False(t, r.Contains(15, 15.001))
	assert.True(t, r.Distance.Valid())
	assert.False(t, Interval{Min: 2, Max: 1}.Valid())
	assert.Equal(t, "d=[10,20] l=[5,15]", r.String())
}
