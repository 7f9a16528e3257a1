package types

// Option is one entry of a <select> control as rendered by the booking site.
// An option without a value attribute has an empty Value.
type Option struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// Finding records an attendance place that offered at least one slot
type Finding struct {
	District        string `json:"district"`
	Location        string `json:"location"`
	AttendancePlace string `json:"attendance_place"`
	ScanTimestamp   string `json:"scan_timestamp"`
}

// ScanResult is the outcome of one scan. Findings keep traversal order.
type ScanResult struct {
	Findings  []Finding `json:"findings"`
	Timestamp string    `json:"timestamp"`
}

// Empty reports whether the scan found no open slots
func (r ScanResult) Empty() bool {
	return len(r.Findings) == 0
}
