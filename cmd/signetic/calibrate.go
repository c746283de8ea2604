package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/ayusman/signetic/internal/gesture"
	"github.com/ayusman/signetic/internal/store"
)

// runCalibration classifies every stored sample and prints per-label
// accuracy with the most common confusions.
func runCalibration(w io.Writer, st *store.Store, c *gesture.Classifier) error {
	samples, err := st.Samples().Labeled()
	if err != nil {
		return fmt.Errorf("load samples: %w", err)
	}
	if len(samples) == 0 {
		fmt.Fprintln(w, "no samples stored; POST captures to /api/samples first")
		return nil
	}
	writeReport(w, c.Evaluate(samples))
	return nil
}

func writeReport(w io.Writer, rep gesture.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tSAMPLES\tCORRECT\tACCURACY\tCONFUSED WITH")
	for _, l := range rep.Labels {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.0f%%\t%s\n", l.Label, l.Total, l.Correct, l.Accuracy*100, confusions(l.Confusions))
	}
	fmt.Fprintf(tw, "TOTAL\t%d\t%d\t%.0f%%\t\n", rep.Total, rep.Correct, rep.Accuracy*100)
	tw.Flush()
}

// confusions formats a confusion map as "X×2 Y×1", most frequent first.
func confusions(m map[string]int) string {
	if len(m) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s×%d", k, m[k])
	}
	return strings.Join(parts, " ")
}
