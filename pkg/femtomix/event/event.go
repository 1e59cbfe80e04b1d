package event

import (
	"fmt"
	"math"
)

// Vec3 is a Cartesian 3-vector.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Add returns v+w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

// Sub returns v-w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

// Mag2 returns the squared length.
func (v Vec3) Mag2() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

// Mag returns the length.
func (v Vec3) Mag() float64 { return math.Sqrt(v.Mag2()) }

// Perp returns the transverse length.
func (v Vec3) Perp() float64 { return math.Hypot(v.X, v.Y) }

// Event is one recorded collision. Pipeline stages treat it as read-only.
type Event struct {
	ID              int64              `json:"id" yaml:"id"`
	Multiplicity    int                `json:"multiplicity" yaml:"multiplicity"`
	Centrality      float64            `json:"centrality" yaml:"centrality"`
	Vertex          Vec3               `json:"vertex" yaml:"vertex"`
	ReactionPlane   float64            `json:"reaction_plane" yaml:"reaction_plane"`
	MagneticField   float64            `json:"magnetic_field" yaml:"magnetic_field"`
	ZDCParticipants int                `json:"zdc_participants" yaml:"zdc_participants"`
	TriggerMask     uint64             `json:"trigger_mask" yaml:"trigger_mask"`
	PhysicsSelected bool               `json:"physics_selected" yaml:"physics_selected"`
	Quality         map[string]float64 `json:"quality,omitempty" yaml:"quality,omitempty"`
	Tracks          []Particle         `json:"tracks" yaml:"tracks"`
}

// Scalar names understood by Event.Scalar in addition to Quality keys.
const (
	ScalarMultiplicity    = "multiplicity"
	ScalarCentrality      = "centrality"
	ScalarVertexX         = "vertex_x"
	ScalarVertexY         = "vertex_y"
	ScalarVertexZ         = "vertex_z"
	ScalarReactionPlane   = "psi_ep"
	ScalarMagneticField   = "bfield"
	ScalarZDCParticipants = "zdc_participants"
	ScalarTriggerMask     = "trigger_mask"
	ScalarPhysicsSelected = "physics_selected"
	ScalarTracks          = "n_tracks"
)

// Scalar returns a global or quality scalar by name. Built-in names shadow
// Quality entries. A name that is neither yields *MissingFieldError.
func (e *Event) Scalar(name string) (float64, error) {
	switch name {
	case ScalarMultiplicity:
		return float64(e.Multiplicity), nil
	case ScalarCentrality:
		return e.Centrality, nil
	case ScalarVertexX:
		return e.Vertex.X, nil
	case ScalarVertexY:
		return e.Vertex.Y, nil
	case ScalarVertexZ:
		return e.Vertex.Z, nil
	case ScalarReactionPlane:
		return e.ReactionPlane, nil
	case ScalarMagneticField:
		return e.MagneticField, nil
	case ScalarZDCParticipants:
		return float64(e.ZDCParticipants), nil
	case ScalarTriggerMask:
		return float64(e.TriggerMask), nil
	case ScalarPhysicsSelected:
		if e.PhysicsSelected {
			return 1, nil
		}
		return 0, nil
	case ScalarTracks:
		return float64(len(e.Tracks)), nil
	}
	if v, ok := e.Quality[name]; ok {
		return v, nil
	}
	return 0, &MissingFieldError{EventID: e.ID, Field: name}
}

// MustScalar is Scalar that panics with *MissingFieldError.
func (e *Event) MustScalar(name string) float64 {
	v, err := e.Scalar(name)
	if err != nil {
		panic(err)
	}
	return v
}

// MissingFieldError reports a scalar a component needed but the event lacks.
type MissingFieldError struct {
	EventID int64
	Field   string
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("event %d: missing field %q", e.EventID, e.Field)
}
