package workflow

// Actor identifies the authenticated user performing a workflow operation.
// It is passed explicitly into every operation; the engine never reads
// session state.
type Actor struct {
	UserID uint
	Roles  []string
}

// HasRole reports whether the actor holds the named role.
func (a Actor) HasRole(name string) bool {
	for _, role := range a.Roles {
		if role == name {
			return true
		}
	}
	return false
}
