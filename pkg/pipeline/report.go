package pipeline

import (
	"github.com/matzehuels/precedence/pkg/errors"
	"github.com/matzehuels/precedence/pkg/io"
)

// Report converts the result into its serializable form.
func (r *Result) Report() *io.Report {
	rep := &io.Report{
		Sequences:   make([]io.SequenceReport, 0, len(r.Sequences)),
		ValidSum:    r.ValidSum,
		RepairedSum: r.RepairedSum,
		Stats: &io.Stats{
			Rules:      r.Stats.Rules,
			Items:      r.Stats.Items,
			Sequences:  r.Stats.Sequences,
			Valid:      r.Stats.Valid,
			Repaired:   r.Stats.Repaired,
			Failed:     r.Stats.Failed,
			Skipped:    r.Stats.Skipped,
			CacheHits:  r.Stats.CacheHits,
			DurationMS: (r.Stats.BuildTime + r.Stats.CheckTime + r.Stats.RepairTime).Milliseconds(),
		},
	}
	for _, sr := range r.Sequences {
		rep.Sequences = append(rep.Sequences, sr.Report())
	}
	return rep
}

// Report converts one sequence outcome into its serializable form.
func (sr SequenceResult) Report() io.SequenceReport {
	out := io.SequenceReport{
		Line:       sr.Line,
		Input:      sr.Input,
		Consistent: sr.Consistent,
		Repaired:   sr.Repaired,
		Cached:     sr.Cached,
	}
	if sr.Violation != nil {
		out.Violation = sr.Violation.String()
	}
	if sr.HasMiddle {
		mid := sr.Middle
		out.Middle = &mid
	}
	if sr.Err != nil {
		out.Code = string(errors.GetCode(sr.Err))
		out.Error = errors.UserMessage(sr.Err)
	}
	return out
}
