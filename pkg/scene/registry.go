package scene

import (
	"errors"
	"fmt"
)

// ErrUnknownScene is returned by New for a name not in the registry
var ErrUnknownScene = errors.New("scene: unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	Name        string
	Description string
	build       func(aspectRatio float64) *Scene
}

var registry = []SceneInfo{
	{"cornell", "Cornell box with a mirror sphere and a diffuse sphere", NewCornellScene},
	{"cornell-diffuse", "Cornell box with two diffuse spheres", NewDiffuseCornellScene},
	{"sky", "Spheres on a ground plane under an emitting sky", NewSkyScene},
}

// List returns the built-in scenes
func List() []SceneInfo {
	return append([]SceneInfo(nil), registry...)
}

// Option adjusts a built-in scene before it is preprocessed
type Option func(*Scene)

// WithLightSelection sets how light subpaths pick their emitter
func WithLightSelection(selection LightSelection) Option {
	return func(s *Scene) {
		s.LightSelection = selection
	}
}

// New builds and preprocesses a scene by name
func New(name string, aspectRatio float64, opts ...Option) (*Scene, error) {
	for _, info := range registry {
		if info.Name != name {
			continue
		}
		s := info.build(aspectRatio)
		for _, opt := range opts {
			opt(s)
		}
		if err := s.Preprocess(); err != nil {
			return nil, fmt.Errorf("preparing scene %q: %w", name, err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}
