package physics

import (
	"math"

	"chunkmesh/internal/profiling"
	"chunkmesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinReachDistance = 0.1
	MaxReachDistance = 64.0
)

// VoxelQuery reports whether the cell at world cell coordinates stops a ray.
type VoxelQuery interface {
	Solid(x, y, z int) bool
}

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	HitPosition      [3]int
	AdjacentPosition [3]int
	// Face is the face of the hit cell the ray entered through.
	Face     world.BlockFace
	Distance float32
	Hit      bool
}

// Raycast walks the cells crossed by the ray in order (grid traversal in
// cell units, cell (x,y,z) spanning [x,x+1)) and stops at the first solid
// cell entered at a distance in [minDist, maxDist].
func Raycast(start mgl32.Vec3, direction mgl32.Vec3, minDist, maxDist float32, voxels VoxelQuery) RaycastResult {
	defer profiling.Track("physics.Raycast")()
	result := RaycastResult{Hit: false}
	if direction.Len() == 0 {
		return result
	}
	dir := direction.Normalize()

	var (
		cell, step   [3]int
		tMax, tDelta [3]float64
	)
	for i := range 3 {
		p := float64(start[i])
		d := float64(dir[i])
		cell[i] = int(math.Floor(p))
		switch {
		case d > 0:
			step[i] = 1
			tMax[i] = (float64(cell[i]+1) - p) / d
			tDelta[i] = 1 / d
		case d < 0:
			step[i] = -1
			tMax[i] = (p - float64(cell[i])) / -d
			tDelta[i] = -1 / d
		default:
			tMax[i] = math.Inf(1)
			tDelta[i] = math.Inf(1)
		}
	}

	t := 0.0
	prev := cell
	face := world.FaceTop
	for t <= float64(maxDist) {
		if t >= float64(minDist) && voxels.Solid(cell[0], cell[1], cell[2]) {
			result.HitPosition = cell
			result.AdjacentPosition = prev
			result.Face = face
			result.Distance = float32(t)
			result.Hit = true
			return result
		}

		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		prev = cell
		t = tMax[axis]
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]
		face = entryFace(axis, step[axis])
	}

	return result
}

// entryFace is the face crossed when stepping along axis in direction step.
func entryFace(axis, step int) world.BlockFace {
	switch axis {
	case 0:
		if step > 0 {
			return world.FaceWest
		}
		return world.FaceEast
	case 1:
		if step > 0 {
			return world.FaceBottom
		}
		return world.FaceTop
	default:
		if step > 0 {
			return world.FaceSouth
		}
		return world.FaceNorth
	}
}
