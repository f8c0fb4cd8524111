package sculptor

// Dimension defaults.
const (
	DefaultMinEdgeLength = 512
	DefaultMaxEdgeLength = 2048
)

// ShouldCull reports whether the shorter edge is below minEdge.
func ShouldCull(width, height, minEdge int) bool {
	return min(width, height) < minEdge
}

// ComputeResizeTarget scales the longer edge down to maxEdge and the shorter
// edge by the same factor, truncating. ok is false when the image already fits.
func ComputeResizeTarget(width, height, maxEdge int) (newWidth, newHeight int, ok bool) {
	if maxEdge <= 0 || max(width, height) <= maxEdge {
		return width, height, false
	}
	if width >= height {
		newWidth = maxEdge
		newHeight = max(height*maxEdge/width, 1)
	} else {
		newHeight = maxEdge
		newWidth = max(width*maxEdge/height, 1)
	}
	return newWidth, newHeight, true
}
