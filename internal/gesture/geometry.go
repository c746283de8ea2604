package gesture

import (
	"math"

	"github.com/ayusman/signetic/internal/detector"
)

// Distance returns the Euclidean distance between a and b with the depth
// term scaled by depthWeight.
func Distance(a, b detector.Point3D, depthWeight float64) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := (a.Z - b.Z) * depthWeight
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// HandSize is the wrist to middle knuckle distance. Every other distance is
// compared against multiples of it. The hand must be complete.
func HandSize(points []detector.Point3D, depthWeight float64) float64 {
	return Distance(points[detector.Wrist], points[detector.MiddleMCP], depthWeight)
}

// IsExtended reports whether the finger whose tip and knuckle are given
// reaches further from the knuckle than ratio hand sizes.
func IsExtended(points []detector.Point3D, tip, mcp int, handSize, ratio, depthWeight float64) bool {
	return Distance(points[tip], points[mcp], depthWeight) > ratio*handSize
}
