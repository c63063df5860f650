package output

// FailedPanel reports a panel skipped by a multi-panel operation.
type FailedPanel struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ActionResult is the payload of every command that edits a dashboard file.
type ActionResult struct {
	Action   string        `json:"action"`
	File     string        `json:"file"`
	Changed  bool          `json:"changed"`
	Saved    bool          `json:"saved"`
	Affected []string      `json:"affected,omitempty"`
	Created  []string      `json:"created,omitempty"`
	Failed   []FailedPanel `json:"failed,omitempty"`
	Section  string        `json:"section,omitempty"`
}
