package domain

import "time"

// InputStatus records how an input left the previous build.
type InputStatus string

const (
	// InputUpToDate means the input built cleanly and its effects are in the
	// dependency graph.
	InputUpToDate InputStatus = "up-to-date"
	// InputNeedsCascadingBuild means the input must rebuild and its effects
	// must propagate to dependents.
	InputNeedsCascadingBuild InputStatus = "needs-cascading-build"
	// InputNeedsNonCascadingBuild means the input must rebuild but whether it
	// cascades is decided from its own post-run dependency descriptor.
	InputNeedsNonCascadingBuild InputStatus = "needs-non-cascading-build"
)

// InputInfo is the per-input entry of the build record.
type InputInfo struct {
	PreviousModTime time.Time   `json:"previous_mod_time"`
	Status          InputStatus `json:"status"`
}

// BuildRecord is the minimal state persisted between incremental builds.
// It is written once at the end of a run and read at the start of the next
// to assign job conditions and seed external-dependency staleness checks.
type BuildRecord struct {
	ToolVersion    string               `json:"tool_version,omitzero"`
	OptionsHash    string               `json:"options_hash,omitzero"`
	BuildStartTime time.Time            `json:"build_start_time,omitzero"`
	Inputs         map[string]InputInfo `json:"inputs,omitempty"`
}

// NewBuildRecord creates an empty record stamped with the given identity.
func NewBuildRecord(toolVersion, optionsHash string, start time.Time) *BuildRecord {
	return &BuildRecord{
		ToolVersion:    toolVersion,
		OptionsHash:    optionsHash,
		BuildStartTime: start,
		Inputs:         make(map[string]InputInfo),
	}
}

// Matches reports whether the record was produced by the same tool version
// and option set. A mismatch forces a full rebuild.
func (r *BuildRecord) Matches(toolVersion, optionsHash string) bool {
	return r.ToolVersion == toolVersion && r.OptionsHash == optionsHash
}

// Input returns the recorded info for an input path, if present.
func (r *BuildRecord) Input(path string) (InputInfo, bool) {
	info, ok := r.Inputs[path]
	return info, ok
}
