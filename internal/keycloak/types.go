package keycloak

// UserRepresentation is the subset of the Keycloak user resource managed here.
type UserRepresentation struct {
	ID              string                     `json:"id,omitempty"`
	Username        string                     `json:"username,omitempty"`
	FirstName       string                     `json:"firstName,omitempty"`
	LastName        string                     `json:"lastName,omitempty"`
	Email           string                     `json:"email,omitempty"`
	Enabled         *bool                      `json:"enabled,omitempty"`
	EmailVerified   *bool                      `json:"emailVerified,omitempty"`
	Groups          []string                   `json:"groups,omitempty"`
	Credentials     []CredentialRepresentation `json:"credentials,omitempty"`
	RequiredActions []string                   `json:"requiredActions,omitempty"`
}

// CredentialRepresentation is a user credential.
type CredentialRepresentation struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// GroupRepresentation is a Keycloak group.
type GroupRepresentation struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Path      string                `json:"path,omitempty"`
	SubGroups []GroupRepresentation `json:"subGroups,omitempty"`
}

// CredentialTypePassword is the credential type of a password.
const CredentialTypePassword = "password"

// TemporaryPassword builds a password credential the user must change on next login.
func TemporaryPassword(value string) CredentialRepresentation {
	return CredentialRepresentation{Type: CredentialTypePassword, Value: value, Temporary: true}
}

// FindGroupByName returns the first group named name, searching subgroups too.
func FindGroupByName(groups []GroupRepresentation, name string) (GroupRepresentation, bool) {
	for _, g := range groups {
		if g.Name == name {
			return g, true
		}
		if found, ok := FindGroupByName(g.SubGroups, name); ok {
			return found, true
		}
	}
	return GroupRepresentation{}, false
}
