package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/xrgrab/internal/geom"
)

type BodyID uint32

func (id BodyID) String() string {
	return fmt.Sprintf("body#%d", uint32(id))
}

// Attachment parents a body to a tracked hand. Local is expressed in the
// hand's space.
type Attachment struct {
	Hand  string
	Local geom.Transform
}

type Body struct {
	ID          BodyID
	Name        string
	Transform   geom.Transform
	Velocity    mgl64.Vec3
	HalfExtents mgl64.Vec3

	// Dynamic bodies move; static bodies are scenery.
	Dynamic bool

	// Simulated is false while something else drives the transform.
	Simulated bool

	// Grabbable marks a body as eligible for interaction.
	Grabbable bool

	Attachment *Attachment
}

// NewBox returns a dynamic, simulated, grabbable box.
func NewBox(name string, at mgl64.Vec3, halfExtents mgl64.Vec3) *Body {
	return &Body{
		Name:        name,
		Transform:   geom.Transform{Position: at, Rotation: mgl64.QuatIdent()},
		HalfExtents: halfExtents,
		Dynamic:     true,
		Simulated:   true,
		Grabbable:   true,
	}
}

// NewStatic returns a static, non-grabbable box.
func NewStatic(name string, at mgl64.Vec3, halfExtents mgl64.Vec3) *Body {
	return &Body{
		Name:        name,
		Transform:   geom.Transform{Position: at, Rotation: mgl64.QuatIdent()},
		HalfExtents: halfExtents,
	}
}

func (b *Body) Label() string {
	if b.Name != "" {
		return b.Name
	}
	return b.ID.String()
}

func (b *Body) obb() obb {
	return obb{center: b.Transform.Position, axes: b.Transform.Axes(), half: b.HalfExtents}
}
