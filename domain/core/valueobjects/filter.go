package valueobjects

import "strings"

// Vocabulary for the multi-value exercise filter fields.
var (
	ValidForces     = []string{"static", "pull", "push"}
	ValidLevels     = []string{"beginner", "intermediate", "expert"}
	ValidMechanics  = []string{"isolation", "compound"}
	ValidCategories = []string{
		"powerlifting", "strength", "stretching", "cardio",
		"olympic weightlifting", "strongman", "plyometrics",
	}
	ValidEquipment = []string{
		"medicine ball", "dumbbell", "body only", "bands", "kettlebells",
		"foam roll", "cable", "machine", "barbell", "exercise ball",
		"e-z curl bar", "other",
	}
	ValidMuscles = []string{
		"abdominals", "abductors", "adductors", "biceps", "calves",
		"chest", "forearms", "glutes", "hamstrings", "lats", "lower back",
		"middle back", "neck", "quadriceps", "shoulders", "traps", "triceps",
	}
)

// ExerciseFilter is a conjunctive filter over the exercise catalog. A zero
// field means no constraint on that field. All values are lower-cased.
type ExerciseFilter struct {
	Name      string   `json:"name,omitempty"`
	Force     []string `json:"force,omitempty"`
	Level     []string `json:"level,omitempty"`
	Mechanic  []string `json:"mechanic,omitempty"`
	Equipment []string `json:"equipment,omitempty"`
	Muscle    []string `json:"muscle,omitempty"`
	Category  []string `json:"category,omitempty"`
}

// IsEmpty reports whether the filter constrains nothing.
func (f ExerciseFilter) IsEmpty() bool {
	return f.Name == "" &&
		len(f.Force) == 0 && len(f.Level) == 0 && len(f.Mechanic) == 0 &&
		len(f.Equipment) == 0 && len(f.Muscle) == 0 && len(f.Category) == 0
}

// FilterField names one of the multi-value filter fields.
type FilterField string

const (
	FieldForce     FilterField = "force"
	FieldLevel     FilterField = "level"
	FieldMechanic  FilterField = "mechanic"
	FieldEquipment FilterField = "equipment"
	FieldMuscle    FilterField = "muscle"
	FieldCategory  FilterField = "category"
)

// MultiValueFields lists the filter fields that accept multiple values.
var MultiValueFields = []FilterField{
	FieldForce, FieldLevel, FieldMechanic, FieldEquipment, FieldMuscle, FieldCategory,
}

// VocabularyFor returns the allowed values for a multi-value field.
func VocabularyFor(field FilterField) []string {
	switch field {
	case FieldForce:
		return ValidForces
	case FieldLevel:
		return ValidLevels
	case FieldMechanic:
		return ValidMechanics
	case FieldEquipment:
		return ValidEquipment
	case FieldMuscle:
		return ValidMuscles
	case FieldCategory:
		return ValidCategories
	default:
		return nil
	}
}

// InVocabulary reports whether value (already lower-cased) is allowed for
// the field.
func InVocabulary(field FilterField, value string) bool {
	for _, v := range VocabularyFor(field) {
		if v == value {
			return true
		}
	}
	return false
}

// SetField assigns lower-cased values to the named multi-value field.
func (f *ExerciseFilter) SetField(field FilterField, values []string) {
	lowered := make([]string, 0, len(values))
	for _, v := range values {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(v)))
	}
	switch field {
	case FieldForce:
		f.Force = lowered
	case FieldLevel:
		f.Level = lowered
	case FieldMechanic:
		f.Mechanic = lowered
	case FieldEquipment:
		f.Equipment = lowered
	case FieldMuscle:
		f.Muscle = lowered
	case FieldCategory:
		f.Category = lowered
	}
}

// FieldValues returns the current values of the named multi-value field.
func (f ExerciseFilter) FieldValues(field FilterField) []string {
	switch field {
	case FieldForce:
		return f.Force
	case FieldLevel:
		return f.Level
	case FieldMechanic:
		return f.Mechanic
	case FieldEquipment:
		return f.Equipment
	case FieldMuscle:
		return f.Muscle
	case FieldCategory:
		return f.Category
	default:
		return nil
	}
}
