package realtime

import (
	"collabgo/backend/internal/models"
	"collabgo/backend/internal/storage"
)

// MembershipResolver computes which project rooms a principal belongs to.
// It is a pure query against the persistence layer with no cache of its own.
type MembershipResolver struct {
	store storage.Storage
}

func NewMembershipResolver(store storage.Storage) *MembershipResolver {
	return &MembershipResolver{store: store}
}

// ResolveRooms returns the room id of every project whose member set
// contains the principal, or an empty slice if there are none.
//
// This is a point-in-time computation, run once per connection
// establishment. It is NOT live: membership changes made while a connection
// is open take effect only when that user reconnects.
func (r *MembershipResolver) ResolveRooms(p models.Principal) ([]string, error) {
	return r.store.FindProjectIDsByMember(p.ID)
}
