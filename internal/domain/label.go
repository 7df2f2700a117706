package domain

// Label is the closed set of categories a ticket text can classify into.
// LabelTask doubles as the "no confident signal" default; downstream
// issue-type mapping treats a real task and an unclassified text identically.
type Label string

const (
	LabelTask           Label = "Task"
	LabelBug            Label = "Bug"
	LabelIncident       Label = "Incident"
	LabelFeatureRequest Label = "FeatureRequest"
	LabelQuestion       Label = "Question"
)

// AllLabels lists every valid label in declaration order.
var AllLabels = []Label{LabelTask, LabelBug, LabelIncident, LabelFeatureRequest, LabelQuestion}

// IssueTypeName maps a label to the tracker issue-type name.
// FeatureRequest files as a plain Task; there is no matching type upstream.
func (l Label) IssueTypeName() string {
	if l == LabelFeatureRequest {
		return string(LabelTask)
	}
	return string(l)
}

// Valid reports whether l belongs to the label set.
func (l Label) Valid() bool {
	for _, candidate := range AllLabels {
		if l == candidate {
			return true
		}
	}
	return false
}
