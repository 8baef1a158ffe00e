package scene

import (
	"errors"
	"fmt"
)

// CharacterSpec is the serializable description of a character placed in
// a scene.
type CharacterSpec struct {
	ID           string      `json:"id" yaml:"id"`
	Name         string      `json:"name" yaml:"name"`
	Position     Vec3        `json:"position" yaml:"position"`
	Script       string      `json:"script" yaml:"script"`                                   // script ID under the data dir
	RouteEnabled bool        `json:"route_enabled,omitempty" yaml:"route_enabled,omitempty"` // engageable from the start
	Unlocks      []string    `json:"unlocks,omitempty" yaml:"unlocks,omitempty"`             // characters enabled after this one's conversation ends
	Animations   []Animation `json:"animations,omitempty" yaml:"animations,omitempty"`
}

// SceneSpec is the serializable layout of a scene: where the player starts
// and which characters can be talked to.
type SceneSpec struct {
	ID         string          `json:"-" yaml:"-"` // set from the file name
	Name       string          `json:"name" yaml:"name"`
	Player     Vec3            `json:"player" yaml:"player"`
	Characters []CharacterSpec `json:"characters" yaml:"characters"`
}

// Character returns the spec with the given ID.
func (s *SceneSpec) Character(id string) (CharacterSpec, bool) {
	for _, c := range s.Characters {
		if c.ID == id {
			return c, true
		}
	}
	return CharacterSpec{}, false
}

// Validate checks references inside the scene. Script existence is checked
// by the loader.
func (s *SceneSpec) Validate() error {
	var errs []error
	if len(s.Characters) == 0 {
		errs = append(errs, errors.New("scene has no characters"))
	}

	seen := make(map[string]bool, len(s.Characters))
	for i, c := range s.Characters {
		if c.ID == "" {
			errs = append(errs, fmt.Errorf("character %d has no id", i))
			continue
		}
		if seen[c.ID] {
			errs = append(errs, fmt.Errorf("duplicate character id %q", c.ID))
		}
		seen[c.ID] = true
		if c.Script == "" {
			errs = append(errs, fmt.Errorf("character %q has no script", c.ID))
		}
	}

	for _, c := range s.Characters {
		for _, target := range c.Unlocks {
			if !seen[target] {
				errs = append(errs, fmt.Errorf("character %q unlocks unknown character %q", c.ID, target))
			}
			if target == c.ID {
				errs = append(errs, fmt.Errorf("character %q unlocks itself", c.ID))
			}
		}
	}
	return errors.Join(errs...)
}
