package domain

// Group is a named collection referencing resource IDs.
// Membership is a weak reference: a listed ID may no longer resolve to a
// resource until cascade cleanup repairs it, so readers must filter
// defensively.
type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// ResourceIDs holds member resource IDs, persisted under the
	// original "resources" key.
	ResourceIDs []string `json:"resources"`
}

// HasMember reports whether id is currently listed in the group.
func (g *Group) HasMember(id string) bool {
	for _, rid := range g.ResourceIDs {
		if rid == id {
			return true
		}
	}
	return false
}
