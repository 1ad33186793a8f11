package processor

// Result is the terminal outcome of one pipeline execution attempt.
// Exactly one Result is produced per item per attempt; failures are
// per-item and never abort other in-flight executions.
type Result string

const (
	Completed           Result = "completed"
	SkippedLocked       Result = "skipped_locked"
	SkippedExists       Result = "skipped_exists"
	FailedIntegrity     Result = "failed_integrity"
	FailedConversion    Result = "failed_conversion"
	FailedTranscription Result = "failed_transcription"
	FailedRepetitive    Result = "failed_repetitive"
)

// Failed reports whether the result is one of the failure outcomes.
func (r Result) Failed() bool {
	switch r {
	case FailedIntegrity, FailedConversion, FailedTranscription, FailedRepetitive:
		return true
	}
	return false
}

func (r Result) String() string {
	return string(r)
}
