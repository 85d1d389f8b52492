// Package model holds the value types shared across the detector-hit
// reconstruction pipeline.
package model

import "github.com/hepqca/qca/pkg/geometry"

// Hit is a single detector record: a unique identity, a radially-ordered
// layer identifier, and a 3D position.
type Hit struct {
	HitID   int64   `json:"hit_id"`
	LayerID int64   `json:"layer_id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
}

// NewHit constructs a Hit from its raw fields.
func NewHit(hitID, layerID int64, x, y, z float64) Hit {
	return Hit{HitID: hitID, LayerID: layerID, X: x, Y: y, Z: z}
}

// Pos returns the hit's position as a geometry.Vec3.
func (h Hit) Pos() geometry.Vec3 {
	return geometry.Vec3{X: h.X, Y: h.Y, Z: h.Z}
}
