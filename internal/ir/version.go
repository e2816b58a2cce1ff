package ir

// Version constants for the envelope schema and the tool.
const (
	// EventVersion is the only envelope version this reader understands.
	EventVersion = 1

	// ToolVersion is the ReplyDB version string.
	ToolVersion = "0.1.0"
)
