package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera orbits a target point and produces view and projection matrices.
type Camera struct {
	Target   mgl32.Vec3
	Yaw      float32 // degrees around +Y
	Pitch    float32 // degrees above the XZ plane
	Distance float32

	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(width, height int, target mgl32.Vec3) *Camera {
	return &Camera{
		Target:      target,
		Yaw:         45,
		Pitch:       35,
		Distance:    80,
		AspectRatio: float32(width) / float32(height),
		FOV:         60.0,
		NearPlane:   0.1,
		FarPlane:    1000.0,
	}
}

// Orbit rotates the camera by the given deltas, keeping pitch short of the poles.
func (c *Camera) Orbit(dYaw, dPitch float32) {
	c.Yaw = float32(math.Mod(float64(c.Yaw+dYaw), 360))
	c.Pitch = mgl32.Clamp(c.Pitch+dPitch, -89, 89)
}

// Zoom scales the orbit distance.
func (c *Camera) Zoom(factor float32) {
	c.Distance = mgl32.Clamp(c.Distance*factor, 2, c.FarPlane/2)
}

// Position returns the eye position.
func (c *Camera) Position() mgl32.Vec3 {
	yaw := mgl32.DegToRad(c.Yaw)
	pitch := mgl32.DegToRad(c.Pitch)
	cp := float32(math.Cos(float64(pitch)))
	offset := mgl32.Vec3{
		cp * float32(math.Cos(float64(yaw))),
		float32(math.Sin(float64(pitch))),
		cp * float32(math.Sin(float64(yaw))),
	}
	return c.Target.Add(offset.Mul(c.Distance))
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}
