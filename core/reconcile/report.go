package reconcile

import (
	"time"

	"datajoin/core/join"
	"datajoin/core/utils"
)

// NewReport summarizes the last reconciliation performed on j.
func NewReport[K comparable, T any](source string, j *join.Join[K, T]) *Report {
	report := &Report{
		Source:   source,
		Version:  j.Version(),
		Entered:  keys(j.EnterIDs()),
		Updated:  keys(j.UpdateIDs()),
		Changed:  keys(j.ChangedIDs()),
		Exited:   keys(j.ExitIDs()),
		SyncedAt: time.Now(),
	}
	report.Summary = Summary{
		Total:   j.Len(),
		Entered: len(report.Entered),
		Updated: len(report.Updated),
		Changed: len(report.Changed),
		Exited:  len(report.Exited),
	}
	return report
}

func keys[K comparable](ids []K) []string {
	out := make([]string, 0, len(ids))
	for _, k := range ids {
		out = append(out, utils.ToString(k))
	}
	return out
}
