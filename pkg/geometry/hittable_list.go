package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// HittableList is an ordered collection of shapes that resolves to the closest hit.
// Shapes are tested with a linear scan.
type HittableList struct {
	Shapes []core.Shape
}

// NewHittableList creates a list holding the given shapes
func NewHittableList(shapes ...core.Shape) *HittableList {
	return &HittableList{Shapes: shapes}
}

// Add appends a shape to the list
func (l *HittableList) Add(shape core.Shape) {
	l.Shapes = append(l.Shapes, shape)
}

// Len returns the number of shapes in the list
func (l *HittableList) Len() int {
	return len(l.Shapes)
}

// Hit returns the closest intersection across all shapes.
// Narrowing tMax to the closest hit so far keeps the first-encountered shape on an exact tie,
// since the interval is open.
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestSoFar := tMax

	for _, shape := range l.Shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
