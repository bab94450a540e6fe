package recommendation

// Mode selects the scoring strategy
type Mode int

const (
	// ModeContentBased scores by the user's genre affinities
	ModeContentBased Mode = 0
	// ModeCollaborative scores by similar users' ratings
	ModeCollaborative Mode = 1
	// ModeHybrid averages content and collaborative scores
	ModeHybrid Mode = 2
)

// String names the strategy; unknown values map to the default fallback
func (m Mode) String() string {
	switch m {
	case ModeContentBased:
		return "content_based"
	case ModeCollaborative:
		return "collaborative"
	case ModeHybrid:
		return "hybrid"
	default:
		return "default"
	}
}
