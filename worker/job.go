package worker

import pv "github.com/Norbi0801/program-verify"

// Job represents a validation job to be processed by a worker.
type Job struct {
	// ID is a unique identifier for this job (the CLI uses the file path).
	ID string

	// Document is the specification document to validate (YAML or JSON bytes).
	Document []byte
}

// JobResult represents the result of a validation job.
type JobResult struct {
	// ID matches the Job.ID that produced this result.
	ID string

	// Result contains the validation result.
	Result *pv.Result

	// Error contains any error that occurred during validation.
	Error error

	// Duration is the time taken to validate (in nanoseconds).
	Duration int64
}

// BatchResult aggregates results from multiple jobs.
type BatchResult struct {
	// Results contains all job results.
	Results []*JobResult

	// TotalJobs is the number of jobs submitted.
	TotalJobs int

	// CompletedJobs is the number of jobs completed (including errors).
	CompletedJobs int

	// TotalDuration is the summed validation time (in nanoseconds).
	TotalDuration int64
}

// HasErrors reports whether any job failed or produced validation errors.
func (b *BatchResult) HasErrors() bool {
	for _, r := range b.Results {
		if r.Error != nil {
			return true
		}
		if r.Result != nil && r.Result.HasErrors() {
			return true
		}
	}
	return false
}
