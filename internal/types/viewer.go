package types

import "github.com/google/uuid"

// Viewer is the identity a request is evaluated for. The zero value is an
// anonymous viewer.
type Viewer struct {
	UserID        uuid.UUID
	Authenticated bool
}

// Anonymous is the viewer of unauthenticated requests.
var Anonymous = Viewer{}

// AuthenticatedViewer returns a viewer for the given user.
func AuthenticatedViewer(id uuid.UUID) Viewer {
	return Viewer{UserID: id, Authenticated: true}
}

// Is reports whether the viewer is the given user.
func (v Viewer) Is(id uuid.UUID) bool {
	return v.Authenticated && v.UserID == id
}
