package domain

// An HOS regulatory carve-out a trip appears eligible for.
// Eligibility is informational and never changes schedule arithmetic.
type HOSException struct {
	Kind        string   `json:"kind"`
	Name        string   `json:"name"`
	CFRSection  string   `json:"cfr_section"`
	Description string   `json:"description"`
	Conditions  []string `json:"conditions"`
	Benefits    []string `json:"benefits"`
}

// A regulation cited in trip responses.
type LegalReference struct {
	Section string `json:"section"`
	Title   string `json:"title"`
}
