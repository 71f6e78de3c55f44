package entities

import "time"

// Exercise is one catalog entry. Force, Mechanic and Equipment are
// optional; an empty string means the source data has no value.
type Exercise struct {
	ExerciseID       string    `json:"exerciseId"`
	Name             string    `json:"name"`
	Force            string    `json:"force,omitempty"`
	Level            string    `json:"level"`
	Mechanic         string    `json:"mechanic,omitempty"`
	Equipment        string    `json:"equipment,omitempty"`
	PrimaryMuscles   []string  `json:"primaryMuscles"`
	SecondaryMuscles []string  `json:"secondaryMuscles"`
	Instructions     []string  `json:"instructions"`
	Category         string    `json:"category"`
	Images           []string  `json:"images,omitempty"`
	LikeCount        int       `json:"likeCount"`
	CommentCount     int       `json:"commentCount"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	// IsLiked is per-caller state, set on response copies only. It is
	// never persisted and never written into the shared catalog cache.
	IsLiked bool `json:"isLiked,omitempty"`
}

// Muscles returns the union of primary and secondary muscles.
func (e *Exercise) Muscles() []string {
	out := make([]string, 0, len(e.PrimaryMuscles)+len(e.SecondaryMuscles))
	out = append(out, e.PrimaryMuscles...)
	for _, m := range e.SecondaryMuscles {
		seen := false
		for _, p := range e.PrimaryMuscles {
			if p == m {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, m)
		}
	}
	return out
}
