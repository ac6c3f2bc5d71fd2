package aspen

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// Transform is the spatial node owned by every Entity: local position,
// rotation (degrees), scale, and z-order, composed through the parent chain.
//
// World-space values are derived on demand from the parent chain's local
// values; nothing is cached, so they can never go stale. Parent/child edges
// are managed exclusively by the owning Entity (SetParent, Destroy) and
// always mirror the entity tree.
type Transform struct {
	// X, Y is the local position relative to the parent.
	X, Y float64
	// Rotation is the local rotation in degrees, counterclockwise.
	Rotation float64
	// ScaleX, ScaleY is the local scale.
	ScaleX, ScaleY float64
	// ZIndex orders siblings for rendering. Higher draws later.
	ZIndex int

	parent   *Transform
	children []*Transform
	entity   *Entity
}

// newTransform returns a transform with identity scale, owned by e.
func newTransform(e *Entity) *Transform {
	return &Transform{ScaleX: 1, ScaleY: 1, entity: e}
}

// Entity returns the entity that owns this transform.
func (t *Transform) Entity() *Entity {
	return t.entity
}

// Parent returns the parent transform, or nil at a root.
func (t *Transform) Parent() *Transform {
	return t.parent
}

// Children returns the child list. The returned slice MUST NOT be mutated by
// the caller.
func (t *Transform) Children() []*Transform {
	return t.children
}

// --- Affine helpers ---

// localMatrix computes the local affine matrix [a, b, c, d, tx, ty] from the
// transform's properties. Composition order: Scale -> Rotate -> Translate.
func (t *Transform) localMatrix() [6]float64 {
	sin, cos := math.Sincos(degToRad(t.Rotation))
	return [6]float64{
		cos * t.ScaleX,
		sin * t.ScaleX,
		-sin * t.ScaleY,
		cos * t.ScaleY,
		t.X,
		t.Y,
	}
}

// worldMatrix composes the local matrix through the parent chain.
func (t *Transform) worldMatrix() [6]float64 {
	if t.parent == nil {
		return t.localMatrix()
	}
	return multiplyAffine(t.parent.worldMatrix(), t.localMatrix())
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// --- World-space accessors ---

// WorldPosition returns the transform's position in world space. A transform
// with no parent has world position equal to its local position.
func (t *Transform) WorldPosition() Vec2 {
	if t.parent == nil {
		return Vec2{t.X, t.Y}
	}
	x, y := transformPoint(t.parent.worldMatrix(), t.X, t.Y)
	return Vec2{x, y}
}

// SetWorldPosition back-solves the local position that places the transform
// at the given world position under the current parent chain.
func (t *Transform) SetWorldPosition(x, y float64) {
	if t.parent == nil {
		t.X, t.Y = x, y
		return
	}
	inv := invertAffine(t.parent.worldMatrix())
	t.X, t.Y = transformPoint(inv, x, y)
}

// WorldRotation returns the accumulated rotation of the parent chain plus the
// local rotation, in degrees.
func (t *Transform) WorldRotation() float64 {
	if t.parent == nil {
		return t.Rotation
	}
	return t.parent.WorldRotation() + t.Rotation
}

// SetWorldRotation sets the local rotation so the world rotation equals the
// given angle in degrees.
func (t *Transform) SetWorldRotation(deg float64) {
	if t.parent == nil {
		t.Rotation = deg
		return
	}
	t.Rotation = deg - t.parent.WorldRotation()
}

// WorldScale returns the componentwise product of the parent chain's scales
// and the local scale.
func (t *Transform) WorldScale() Vec2 {
	if t.parent == nil {
		return Vec2{t.ScaleX, t.ScaleY}
	}
	ps := t.parent.WorldScale()
	return Vec2{ps.X * t.ScaleX, ps.Y * t.ScaleY}
}

// SetWorldScale sets the local scale so the world scale equals the given
// values. If a parent axis scale is zero the local value for that axis is
// left unchanged (the target is unreachable).
func (t *Transform) SetWorldScale(sx, sy float64) {
	if t.parent == nil {
		t.ScaleX, t.ScaleY = sx, sy
		return
	}
	ps := t.parent.WorldScale()
	if ps.X != 0 {
		t.ScaleX = sx / ps.X
	}
	if ps.Y != 0 {
		t.ScaleY = sy / ps.Y
	}
}

// --- Mutation helpers ---

// Translate moves the local position by (dx, dy).
func (t *Transform) Translate(dx, dy float64) {
	t.X += dx
	t.Y += dy
}

// Rotate adds deg degrees to the local rotation.
func (t *Transform) Rotate(deg float64) {
	t.Rotation += deg
}

// LookAt sets the world rotation to face the given world-space point from the
// transform's world position.
func (t *Transform) LookAt(x, y float64) {
	pos := t.WorldPosition()
	angle := radToDeg(math.Atan2(y-pos.Y, x-pos.X))
	t.SetWorldRotation(angle)
}

// WorldToLocal converts a world-space point to this transform's local space.
func (t *Transform) WorldToLocal(wx, wy float64) (lx, ly float64) {
	inv := invertAffine(t.worldMatrix())
	return transformPoint(inv, wx, wy)
}

// LocalToWorld converts a local-space point to world space.
func (t *Transform) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return transformPoint(t.worldMatrix(), lx, ly)
}

// --- Tree maintenance (entity-driven) ---

// setParent rewires the transform edge. Called only from Entity parent/child
// edits so the two trees stay structurally consistent.
func (t *Transform) setParent(p *Transform) {
	if t.parent == p {
		return
	}
	if t.parent != nil {
		t.parent.removeChild(t)
	}
	t.parent = p
	if p != nil {
		p.children = append(p.children, t)
	}
}

// removeChild removes child from t.children without touching child.parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (t *Transform) removeChild(child *Transform) {
	for i, c := range t.children {
		if c == child {
			copy(t.children[i:], t.children[i+1:])
			t.children[len(t.children)-1] = nil
			t.children = t.children[:len(t.children)-1]
			return
		}
	}
}
