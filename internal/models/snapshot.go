package models

// TimelineUnknown is the timeline bucket for records without a timestamp.
const TimelineUnknown = "Unknown"

// AnalysisSnapshot is the aggregate result of one analysis run. Each run
// builds a fresh snapshot owned by the caller; the engine never holds
// cross-call mutable state.
//
// SeverityCounts always carries all four severity keys and is incremented
// only for classified (matched) events, so its values sum to the number of
// events with a non-empty category.
type AnalysisSnapshot struct {
	Events          []SecurityEvent  `json:"events"`
	Recommendations []string         `json:"recommendations"`
	TotalCount      int              `json:"totalCount"`
	CriticalCount   int              `json:"criticalCount"`
	WarningCount    int              `json:"warningCount"` // high-severity count
	CategoryCounts  map[string]int   `json:"categoryCounts"`
	SeverityCounts  map[Severity]int `json:"severityCounts"`
	TimelineCounts  map[string]int   `json:"timelineCounts"`
	SourceCounts    map[string]int   `json:"sourceCounts"`
	IPCounts        map[string]int   `json:"ipCounts"`
	UniqueIPCount   int              `json:"uniqueIpCount"`
}

// NewAnalysisSnapshot creates an empty snapshot with all severity buckets
// present at zero.
func NewAnalysisSnapshot() *AnalysisSnapshot {
	s := &AnalysisSnapshot{
		Events:          make([]SecurityEvent, 0),
		Recommendations: make([]string, 0),
		CategoryCounts:  make(map[string]int),
		SeverityCounts:  make(map[Severity]int),
		TimelineCounts:  make(map[string]int),
		SourceCounts:    make(map[string]int),
		IPCounts:        make(map[string]int),
	}
	for _, sev := range Severities {
		s.SeverityCounts[sev] = 0
	}
	return s
}

// AddRecommendation appends rec if it is non-empty and not already present.
func (s *AnalysisSnapshot) AddRecommendation(rec string) {
	if rec == "" {
		return
	}
	for _, existing := range s.Recommendations {
		if existing == rec {
			return
		}
	}
	s.Recommendations = append(s.Recommendations, rec)
}

// Merge folds other into s. Events keep their per-file line numbers; counts
// and histograms are summed, recommendations are unioned.
func (s *AnalysisSnapshot) Merge(other *AnalysisSnapshot) {
	if other == nil {
		return
	}
	s.Events = append(s.Events, other.Events...)
	for _, rec := range other.Recommendations {
		s.AddRecommendation(rec)
	}
	s.TotalCount += other.TotalCount
	s.CriticalCount += other.CriticalCount
	s.WarningCount += other.WarningCount
	for k, v := range other.CategoryCounts {
		s.CategoryCounts[k] += v
	}
	for k, v := range other.SeverityCounts {
		s.SeverityCounts[k] += v
	}
	for k, v := range other.TimelineCounts {
		s.TimelineCounts[k] += v
	}
	for k, v := range other.SourceCounts {
		s.SourceCounts[k] += v
	}
	for k, v := range other.IPCounts {
		s.IPCounts[k] += v
	}
	s.UniqueIPCount = len(s.IPCounts)
}
