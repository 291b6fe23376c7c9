package convert

import (
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/robotcontrol/vispub/pkg/streaming"
)

func pointToGeom(p streaming.Point) (geom.Point, error) {
	coords := geom.Coordinates{XY: geom.XY{X: p.X, Y: p.Y}, Z: p.Z, Type: geom.DimXYZ}
	return geom.NewPoint(coords)
}

func pointsToLineString(points []streaming.Point) (geom.LineString, error) {
	coords := make([]float64, 0, len(points)*3)
	for _, p := range points {
		coords = append(coords, p.X, p.Y, p.Z)
	}
	return geom.NewLineString(geom.NewSequence(coords, geom.DimXYZ))
}

// MarkerWKT returns the marker's geometry as 3D WKT: a point for spheres,
// a line string for arrows and cones. Directives have no geometry and
// return "". Geometry simplefeatures rejects, such as a zero-length arrow,
// is an error.
func MarkerWKT(m streaming.Marker) (string, error) {
	if m.Action != streaming.ActionAdd {
		return "", nil
	}
	if len(m.Points) >= 2 {
		ls, err := pointsToLineString(m.Points)
		if err != nil {
			return "", fmt.Errorf("marker %d line string: %w", m.ID, err)
		}
		return ls.AsText(), nil
	}
	pt, err := pointToGeom(m.Pose.Position)
	if err != nil {
		return "", fmt.Errorf("marker %d point: %w", m.ID, err)
	}
	return pt.AsText(), nil
}
