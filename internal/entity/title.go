package entity

// Identifier is a validated title code: 4-letter prefix and numeric suffix, e.g. BLUS12345.
type Identifier string

func (i Identifier) String() string {
	return string(i)
}

// Title is one game with the update packages listed in its manifest.
type Title struct {
	ID       Identifier
	Name     string // Display name from the manifest, line breaks replaced by spaces
	Packages []*UpdatePackage
}

// DisplayName returns the title name or the identifier when the manifest carries no name.
func (t *Title) DisplayName() string {
	if t.Name == "" {
		return t.ID.String()
	}

	return t.Name
}
