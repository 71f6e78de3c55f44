package valueobjects

// Visibility controls who may see and follow a list.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
	VisibilityShared  Visibility = "shared"
)

// IsValid reports whether v is one of the known visibility values.
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityShared:
		return true
	}
	return false
}
