package cmd

import (
	"fmt"
	"io"

	"datajoin/core/reconcile"
)

// writeReport prints r as plain text. The output only depends on the report's
// identities and counts, never on timestamps.
func writeReport(w io.Writer, r *reconcile.Report) error {
	changed := make(map[string]struct{}, len(r.Changed))
	for _, k := range r.Changed {
		changed[k] = struct{}{}
	}

	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	printf("source %s version %d\n", r.Source, r.Version)
	printf("entered %d\n", len(r.Entered))
	for _, k := range r.Entered {
		printf("  + %s\n", k)
	}
	printf("updated %d\n", len(r.Updated))
	for _, k := range r.Updated {
		if _, ok := changed[k]; ok {
			printf("  ~ %s\n", k)
		} else {
			printf("  = %s\n", k)
		}
	}
	printf("exited %d\n", len(r.Exited))
	for _, k := range r.Exited {
		printf("  - %s\n", k)
	}
	printf("total=%d entered=%d updated=%d changed=%d exited=%d\n",
		r.Summary.Total, r.Summary.Entered, r.Summary.Updated, r.Summary.Changed, r.Summary.Exited)
	return err
}
