package enums

// LiveUpdateKind tags an entry in the assistant update log.
type LiveUpdateKind string

const (
	LiveUpdateInfo          LiveUpdateKind = "info"
	LiveUpdateSuccess       LiveUpdateKind = "success"
	LiveUpdateError         LiveUpdateKind = "error"
	LiveUpdateAnalysis      LiveUpdateKind = "analysis"
	LiveUpdateToolExecution LiveUpdateKind = "tool_execution"
)

var validLiveUpdateKinds = []LiveUpdateKind{
	LiveUpdateInfo,
	LiveUpdateSuccess,
	LiveUpdateError,
	LiveUpdateAnalysis,
	LiveUpdateToolExecution,
}

// String implements fmt.Stringer.
func (k LiveUpdateKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known LiveUpdateKind.
func (k LiveUpdateKind) IsValid() bool {
	for _, candidate := range validLiveUpdateKinds {
		if candidate == k {
			return true
		}
	}
	return false
}
