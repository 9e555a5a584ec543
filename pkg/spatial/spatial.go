// Package spatial maps coordinates onto the H3 hierarchical hexagonal grid.
//
// Cell identifiers are carried as int64 so they can be stored in any SQL
// backend. H3 indexes never use the sign bit, so the conversion is lossless.
package spatial

import (
	"math"
	"slices"

	"github.com/paulmach/orb"
	"github.com/uber/h3-go/v4"
)

const (
	// CoarseResolution is the parent level stored with every bucket.
	CoarseResolution = 7
	// BucketResolution is the level at which listings are grouped.
	BucketResolution = 8
	// FineResolution is stored on listings for finer lookups.
	FineResolution = 9
	// MaxRing caps the grid distance of neighborhood queries.
	MaxRing = 5
)

// EdgeLengthKm holds the approximate hexagon edge length per resolution.
var EdgeLengthKm = map[int]float64{
	7:  1.22,
	8:  0.461,
	9:  0.174,
	10: 0.065,
}

// Indexes are the cell ids of one coordinate at the three stored levels.
type Indexes struct {
	R7 int64 `json:"r7"`
	R8 int64 `json:"r8"`
	R9 int64 `json:"r9"`
}

// ValidateCoordinate checks that latitude is within [-90, 90] and
// longitude within [-180, 180].
func ValidateCoordinate(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) ||
		lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return InvalidCoordinateError(lat, lng)
	}
	return nil
}

// IndexAt returns cells containing the coordinate at resolutions 7, 8 and 9.
func IndexAt(lat, lng float64) (Indexes, error) {
	var res Indexes
	if err := ValidateCoordinate(lat, lng); err != nil {
		return res, err
	}

	ll := h3.NewLatLng(lat, lng)
	cells := make([]int64, 0, 3)
	for _, r := range []int{CoarseResolution, BucketResolution, FineResolution} {
		c, err := h3.LatLngToCell(ll, r)
		if err != nil {
			return res, InvalidCoordinateError(lat, lng)
		}
		cells = append(cells, int64(c))
	}
	res.R7, res.R8, res.R9 = cells[0], cells[1], cells[2]
	return res, nil
}

// ParentOf returns the ancestor of the cell at a coarser resolution.
// Asking for the cell's own resolution returns the cell itself.
func ParentOf(cell int64, res int) (int64, error) {
	c, err := toCell(cell)
	if err != nil {
		return 0, err
	}
	if res < 0 || res > c.Resolution() {
		return 0, InvalidResolutionError(cell, res)
	}
	if res == c.Resolution() {
		return cell, nil
	}
	p, err := c.Parent(res)
	if err != nil {
		return 0, InvalidResolutionError(cell, res)
	}
	return int64(p), nil
}

// NeighborsWithinRing returns every cell within grid distance k of the
// cell, the cell itself included, sorted ascending. k is clamped to
// [0, MaxRing].
func NeighborsWithinRing(cell int64, k int) ([]int64, error) {
	c, err := toCell(cell)
	if err != nil {
		return nil, err
	}
	k = max(0, min(k, MaxRing))

	disk, err := h3.GridDisk(c, k)
	if err != nil {
		return nil, InvalidCellError(CellToString(cell), err)
	}

	res := make([]int64, 0, len(disk))
	for _, v := range disk {
		if v == 0 {
			continue
		}
		res = append(res, int64(v))
	}
	slices.Sort(res)
	return slices.Compact(res), nil
}

// RingSizeForRadius converts a search radius into a grid distance at the
// given resolution. The result is never below 1 or above MaxRing.
// Resolutions without a known edge length use the bucket resolution.
func RingSizeForRadius(radiusKm float64, res int) int {
	edge, ok := EdgeLengthKm[res]
	if !ok {
		edge = EdgeLengthKm[BucketResolution]
	}
	if math.IsNaN(radiusKm) || radiusKm <= 0 {
		return 1
	}
	k := int(radiusKm / (edge * 2))
	return max(1, min(k, MaxRing))
}

// GeometryOf returns the cell center and its closed hexagon (or pentagon)
// boundary. Points use (lng, lat) order.
func GeometryOf(cell int64) (orb.Point, orb.Polygon, error) {
	c, err := toCell(cell)
	if err != nil {
		return orb.Point{}, nil, err
	}

	center, err := h3.CellToLatLng(c)
	if err != nil {
		return orb.Point{}, nil, InvalidCellError(CellToString(cell), err)
	}

	bnd, err := h3.CellToBoundary(c)
	if err != nil {
		return orb.Point{}, nil, InvalidCellError(CellToString(cell), err)
	}

	ring := make(orb.Ring, 0, len(bnd)+1)
	for _, v := range bnd {
		ring = append(ring, orb.Point{v.Lng, v.Lat})
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}

	return orb.Point{center.Lng, center.Lat}, orb.Polygon{ring}, nil
}

// CenterOf returns the latitude and longitude of the cell center.
func CenterOf(cell int64) (float64, float64, error) {
	pt, _, err := GeometryOf(cell)
	if err != nil {
		return 0, 0, err
	}
	return pt.Lat(), pt.Lon(), nil
}

// ResolutionOf returns the resolution of a valid cell.
func ResolutionOf(cell int64) (int, error) {
	c, err := toCell(cell)
	if err != nil {
		return 0, err
	}
	return c.Resolution(), nil
}

// CellToString returns the canonical hexadecimal form of the cell id.
func CellToString(cell int64) string {
	return h3.Cell(cell).String()
}

// StringToCell parses the hexadecimal form of a cell id.
func StringToCell(s string) (int64, error) {
	c := h3.Cell(h3.IndexFromString(s))
	if s == "" || !c.IsValid() {
		return 0, InvalidCellError(s, nil)
	}
	return int64(c), nil
}

// InBounds reports whether the coordinate falls within the bound.
func InBounds(lat, lng float64, b orb.Bound) bool {
	return b.Contains(orb.Point{lng, lat})
}

func toCell(cell int64) (h3.Cell, error) {
	c := h3.Cell(cell)
	if cell <= 0 || !c.IsValid() {
		return 0, InvalidCellError(CellToString(cell), nil)
	}
	return c, nil
}
