package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
//	0 (default) - command results, errors with hints
//	1 (-v)      - + progress and run summary counters
//	2 (-vv)     - + timing, config loaded, registry statistics
//	3 (-vvv)    - + per-document and per-marker traces, SQL
//	4 (-vvvv)   - + raw registry symbol dumps

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 1 (-v)
	OutputProgress OutputCategory = iota // Pages the watcher found unchanged
	OutputSummary                        // Run summary counters

	// Level 2 (-vv)
	OutputTiming       // Operation timing
	OutputConfig       // Config values loaded/applied
	OutputRegistryStat // Index table sizes

	// Level 3 (-vvv)
	OutputDocuments  // Every page in a run summary
	OutputMarkers    // Skipped marker paths per page
	OutputSQLQueries // Search index statements

	// Level 4 (-vvvv)
	OutputDataDump // Full data structure contents
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputProgress: VerbosityInfo,
	OutputSummary:  VerbosityInfo,

	OutputTiming:       VerbosityDebug,
	OutputConfig:       VerbosityDebug,
	OutputRegistryStat: VerbosityDebug,

	OutputDocuments:  VerbosityTrace,
	OutputMarkers:    VerbosityTrace,
	OutputSQLQueries: VerbosityTrace,

	OutputDataDump: VerbosityAll,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityAll
	}
	return verbosity >= minLevel
}
