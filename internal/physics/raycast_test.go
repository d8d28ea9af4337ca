package physics_test

import (
	"math"
	"testing"

	"chunkmesh/internal/physics"
	"chunkmesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// cellSet is a sparse set of solid cells.
type cellSet map[[3]int]bool

func (s cellSet) Solid(x, y, z int) bool { return s[[3]int{x, y, z}] }

func TestRaycast(t *testing.T) {
	w := cellSet{}

	// Place a block at (5, 0, 0)
	w[[3]int{5, 0, 0}] = true

	// Test 1: Raycast hitting the block
	start := mgl32.Vec3{0.5, 0.5, 0.5}
	dir := mgl32.Vec3{1, 0, 0}
	minDist := float32(0.1)
	maxDist := float32(10.0)

	result := physics.Raycast(start, dir, minDist, maxDist, w)

	if !result.Hit {
		t.Fatalf("Expected hit, got miss")
	}
	if result.HitPosition != [3]int{5, 0, 0} {
		t.Errorf("Expected hit at {5,0,0}, got %v", result.HitPosition)
	}
	if result.AdjacentPosition != [3]int{4, 0, 0} {
		t.Errorf("Expected adjacent at {4,0,0}, got %v", result.AdjacentPosition)
	}
	if result.Face != world.FaceWest {
		t.Errorf("Expected entry through west face, got %v", result.Face)
	}
	// Ray starts at X=0.5 and hits the X=5.0 boundary.
	if result.Distance < 4.49 || result.Distance > 4.51 {
		t.Errorf("Expected distance 4.5, got %f", result.Distance)
	}

	// Test 2: Raycast missing (max dist)
	resultShort := physics.Raycast(start, dir, minDist, 4.0, w)
	if resultShort.Hit {
		t.Errorf("Expected miss due to maxDist, got hit at %v", resultShort.HitPosition)
	}

	// Test 3: Raycast missing (wrong direction)
	resultWrong := physics.Raycast(start, mgl32.Vec3{0, 1, 0}, minDist, maxDist, w)
	if resultWrong.Hit {
		t.Errorf("Expected miss, got hit")
	}

	// Test 4: Raycast hitting with mixed direction.
	// dir = (1,1,1) normalized; the x=2 boundary is crossed at t = 1.5*sqrt(3).
	w[[3]int{2, 2, 2}] = true
	dirDiag := mgl32.Vec3{1, 1, 1}.Normalize()
	resultDiag := physics.Raycast(start, dirDiag, minDist, maxDist, w)

	if !resultDiag.Hit {
		t.Errorf("Expected hit at {2,2,2}, got miss")
	} else {
		if resultDiag.HitPosition != [3]int{2, 2, 2} {
			t.Errorf("Expected hit at {2,2,2}, got %v", resultDiag.HitPosition)
		}
		want := 1.5 * math.Sqrt(3)
		if math.Abs(float64(resultDiag.Distance)-want) > 1e-3 {
			t.Errorf("Expected distance %f, got %f", want, resultDiag.Distance)
		}
	}
}

func TestRaycastNegativeDirection(t *testing.T) {
	w := cellSet{{-3, 0, 0}: true}
	result := physics.Raycast(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{-1, 0, 0}, 0, 10, w)

	if !result.Hit || result.HitPosition != [3]int{-3, 0, 0} {
		t.Fatalf("Expected hit at {-3,0,0}, got %+v", result)
	}
	if result.Face != world.FaceEast {
		t.Errorf("Expected entry through east face, got %v", result.Face)
	}
	if result.AdjacentPosition != [3]int{-2, 0, 0} {
		t.Errorf("Expected adjacent at {-2,0,0}, got %v", result.AdjacentPosition)
	}
}

func TestRaycastDown(t *testing.T) {
	w := cellSet{{3, 1, 7}: true}
	result := physics.Raycast(mgl32.Vec3{3.5, 20, 7.5}, mgl32.Vec3{0, -1, 0}, 0, 64, w)

	if !result.Hit || result.Face != world.FaceTop {
		t.Fatalf("Expected hit through top face, got %+v", result)
	}
	if result.AdjacentPosition != [3]int{3, 2, 7} {
		t.Errorf("Expected adjacent at {3,2,7}, got %v", result.AdjacentPosition)
	}
}

func TestRaycastZeroDirection(t *testing.T) {
	w := cellSet{{0, 0, 0}: true}
	if physics.Raycast(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{}, 0, 10, w).Hit {
		t.Error("Zero direction should never hit")
	}
}
