package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomain(t *testing.T) {
	d := DomainOf(seriesOf(10, 30), seriesOf(5, 20))
	assert.Equal(t, Domain{Min: 5, Max: 30}, d)
	assert.Equal(t, 25.0, d.Range())

	flat := DomainOf(seriesOf(7, 7))
	assert.Equal(t, Domain{Min: 7, Max: 7}, flat)
	assert.Equal(t, 1.0, flat.Range())

	assert.Equal(t, Domain{}, DomainOf())
	assert.Equal(t, Domain{}, DomainOf(nil, Series{}))
}

func TestFrameX(t *testing.T) {
	f := DefaultFrame()
	assert.Equal(t, 50.5, f.X(0, 1))
	assert.Equal(t, 50.5, f.X(0, 0))

	xs := []float64{f.X(0, 3), f.X(1, 3), f.X(2, 3)}
	assert.Equal(t, []float64{8, 50.5, 93}, xs)

	n := 7
	step := f.X(1, n) - f.X(0, n)
	for i := 1; i < n; i++ {
		assert.Greater(t, f.X(i, n), f.X(i-1, n))
		assert.InDelta(t, step, f.X(i, n)-f.X(i-1, n), 1e-9)
	}
	assert.Equal(t, f.Start, f.X(0, n))
	assert.InDelta(t, f.Start+f.Width, f.X(n-1, n), 1e-9)
}

func TestFrameY(t *testing.T) {
	f := DefaultFrame()
	d := Domain{Min: 0, Max: 100}
	assert.Equal(t, 40.0, f.Y(100, d))
	assert.Equal(t, 260.0, f.Y(0, d))
	assert.Equal(t, 150.0, f.Y(50, d))
	assert.Equal(t, 260.0, f.Y(-20, d), "below the domain clamps to the bottom edge")
	assert.Equal(t, 40.0, f.Y(130, d), "above the domain clamps to the top edge")

	flat := Domain{Min: 7, Max: 7}
	assert.Equal(t, 40.0, f.Y(7, flat))
}

func TestLayout(t *testing.T) {
	f := DefaultFrame()
	series := seriesOf(0, 50, 100)
	series[1].Present = false
	d := DomainOf(series)

	pts := Layout(series, d, f)
	require.Len(t, pts, 3)
	assert.Equal(t, 8.0, pts[0].X)
	assert.Equal(t, 260.0, pts[0].Y)
	assert.True(t, pts[1].Missing)
	assert.Equal(t, 40.0, pts[2].Y)
	assert.Equal(t, series[2], pts[2].Point)

	assert.Equal(t, pts, Layout(series, d, f), "layout must be deterministic")
}

func TestLayout_SinglePointCentered(t *testing.T) {
	f := DefaultFrame()
	pts := Layout(seriesOf(12), Domain{Min: 12, Max: 12}, f)
	require.Len(t, pts, 1)
	assert.Equal(t, 50.5, pts[0].X)
}

func TestSegments(t *testing.T) {
	f := DefaultFrame()
	series := seriesOf(10, 0, 30)
	series[1].Present = false
	pts := Layout(series, DomainOf(series), f)

	all := Segments(pts, false)
	require.Len(t, all, 2)
	assert.Equal(t, Segment{X1: pts[0].X, Y1: pts[0].Y, X2: pts[1].X, Y2: pts[1].Y}, all[0])

	skipped := Segments(pts, true)
	require.Len(t, skipped, 1)
	assert.Equal(t, Segment{X1: pts[0].X, Y1: pts[0].Y, X2: pts[2].X, Y2: pts[2].Y}, skipped[0])

	assert.Nil(t, Segments(pts[:1], false))
	assert.Nil(t, Segments(nil, false))
}

func TestGridlines(t *testing.T) {
	f := DefaultFrame()
	grid := Gridlines(Domain{Min: 0, Max: 100}, f, 5)
	require.Len(t, grid, 5)

	wantPos := []float64{40, 95, 150, 205, 260}
	wantVal := []float64{100, 75, 50, 25, 0}
	for i, g := range grid {
		assert.Equal(t, wantPos[i], g.Position)
		assert.Equal(t, wantVal[i], g.Value)
	}
	for i := 1; i < len(grid); i++ {
		assert.Less(t, grid[i].Value, grid[i-1].Value)
	}

	assert.Len(t, Gridlines(Domain{Min: 0, Max: 1}, f, 0), DefaultGridlines)
	assert.Len(t, Gridlines(Domain{Min: 0, Max: 1}, f, 3), 3)
}

func TestGridlines_FlatDomain(t *testing.T) {
	grid := Gridlines(Domain{Min: 5, Max: 5}, DefaultFrame(), 5)
	require.Len(t, grid, 5)
	assert.Equal(t, 5.0, grid[0].Value)
	assert.Equal(t, 4.0, grid[4].Value)
}
