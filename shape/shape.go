// Package shape samples the target point clouds the particles morph toward.
//
// Every sampler writes a flat float32 buffer laid out as x, y, z per particle,
// the same layout the morph engine and renderers consume.
package shape

import (
	"errors"
	"fmt"
	"strings"
)

// ID names a target shape.
type ID string

const (
	Sphere ID = "sphere"
	Heart  ID = "heart"
	Peace  ID = "peace"
	Text   ID = "text"
)

var (
	ErrUnsupportedShape = errors.New("unsupported shape")
	ErrNoTextPoints     = errors.New("no rasterized text points")
)

// All returns the closed set of shapes in a stable order.
func All() []ID {
	return []ID{Sphere, Heart, Peace, Text}
}

// Valid reports whether id is one of All().
func (id ID) Valid() bool {
	switch id {
	case Sphere, Heart, Peace, Text:
		return true
	}
	return false
}

func (id ID) String() string { return string(id) }

// Parse resolves a user supplied shape name. Matching is case-insensitive.
func Parse(name string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(name)))
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedShape, name)
	}
	return id, nil
}
