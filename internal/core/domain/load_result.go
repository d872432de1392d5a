package domain

// LoadResult classifies the outcome of integrating a finished job's
// dependency descriptor into the dependency graph.
type LoadResult int

const (
	// LoadHadError means the descriptor was missing or malformed where one
	// was expected. The graph can no longer be trusted; incremental mode is
	// disabled for the rest of the run.
	LoadHadError LoadResult = iota
	// LoadUpToDate means the descriptor parsed and shows no externally
	// visible change. An existing dirty mark is preserved regardless.
	LoadUpToDate
	// LoadAffectsDownstream means new or changed provided entities were
	// observed; dependents must be marked transitively.
	LoadAffectsDownstream
)

// String returns the classification name.
func (r LoadResult) String() string {
	switch r {
	case LoadHadError:
		return "had-error"
	case LoadUpToDate:
		return "up-to-date"
	case LoadAffectsDownstream:
		return "affects-downstream"
	default:
		return "unknown"
	}
}
