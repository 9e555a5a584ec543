package iostats

import (
	"math"

	"github.com/paulmach/orb"
)

// WGS84 ellipsoid.
const (
	semiMajorM   = 6378137.0
	eccentricity = 0.0818191908426215
)

// BoundAreaKm2 returns the area of a latitude/longitude box on the WGS84
// ellipsoid. The box is bounded by two meridians and two parallels, so
// its area is the zone area between the parallels scaled by the
// longitude span.
func BoundAreaKm2(b orb.Bound) float64 {
	dLng := (b.Max.Lon() - b.Min.Lon()) * math.Pi / 180
	if dLng <= 0 || b.Max.Lat() <= b.Min.Lat() {
		return 0
	}

	e2 := eccentricity * eccentricity
	phi1 := b.Min.Lat() * math.Pi / 180
	phi2 := b.Max.Lat() * math.Pi / 180

	areaM2 := semiMajorM * semiMajorM * (1 - e2) / 2 * dLng *
		(authalicQ(phi2) - authalicQ(phi1))
	return math.Abs(areaM2) / 1e6
}

// authalicQ is the q function of the authalic latitude.
func authalicQ(phi float64) float64 {
	e := eccentricity
	s := math.Sin(phi)
	es := e * s
	return s/(1-es*es) + math.Log((1+es)/(1-es))/(2*e)
}
