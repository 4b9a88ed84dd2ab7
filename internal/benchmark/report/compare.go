package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultSortKey ranks reports by mean render time.
const DefaultSortKey = "$.metrics.render.mean"

// Entry is one JSON report as seen by Compare.
type Entry struct {
	Path           string
	RunID          string
	Generator      string
	Passed         bool
	Runs           int64
	FailedRuns     int64
	Pages          int64
	Mean           time.Duration
	P95            time.Duration
	Max            time.Duration
	PagesPerSecond float64
	Error          string

	// Key is the value of the sort key in this report
	Key float64
}

// Compare reads the JSON reports at paths and returns them ranked by the
// numeric value at sortKey, smallest first. sortKey is a JSONPath expression
// such as "$.metrics.render.p95"; empty means DefaultSortKey.
func Compare(paths []string, sortKey string) ([]Entry, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no reports to compare")
	}
	if sortKey == "" {
		sortKey = DefaultSortKey
	}
	gpath, err := toGjsonPath(sortKey)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read report: %w", err)
		}
		entry, err := parseEntry(path, data, gpath)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

func parseEntry(path string, data []byte, gpath string) (Entry, error) {
	if !gjson.ValidBytes(data) {
		return Entry{}, fmt.Errorf("%s: not a JSON report", path)
	}
	doc := gjson.ParseBytes(data)
	if !doc.Get("generator").Exists() || !doc.Get("metrics").Exists() {
		return Entry{}, fmt.Errorf("%s: missing generator or metrics", path)
	}

	key := doc.Get(gpath)
	if key.Type != gjson.Number {
		return Entry{}, fmt.Errorf("%s: sort key %s is not a number", path, gpath)
	}

	m := doc.Get("metrics")
	return Entry{
		Path:           path,
		RunID:          doc.Get("runId").String(),
		Generator:      doc.Get("generator").String(),
		Passed:         doc.Get("passed").Bool(),
		Runs:           m.Get("totalRuns").Int(),
		FailedRuns:     m.Get("failedRuns").Int(),
		Pages:          m.Get("totalPages").Int(),
		Mean:           time.Duration(m.Get("render.mean").Int()),
		P95:            time.Duration(m.Get("render.p95").Int()),
		Max:            time.Duration(m.Get("render.max").Int()),
		PagesPerSecond: m.Get("pagesPerSecond").Float(),
		Error:          doc.Get("error").String(),
		Key:            key.Float(),
	}, nil
}

// toGjsonPath converts a JSONPath expression ($.a.b[0].c) to gjson syntax
// (a.b.0.c). Filters, wildcards and recursive descent are rejected.
func toGjsonPath(path string) (string, error) {
	if strings.ContainsAny(path, "*?@") || strings.Contains(path, "..") {
		return "", fmt.Errorf("unsupported sort key %q", path)
	}
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return "", fmt.Errorf("sort key %q selects the whole report", "$")
	}

	r := strings.NewReplacer(`['`, ".", `']`, "", `["`, ".", `"]`, "", "[", ".", "]", "")
	path = strings.TrimPrefix(r.Replace(path), ".")
	return path, nil
}

// RenderComparison writes entries as an aligned table.
func RenderComparison(w io.Writer, entries []Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tGENERATOR\tRUNS\tPAGES\tMEAN\tP95\tMAX\tPAGES/S\tSTATUS")
	for i, e := range entries {
		status := "passed"
		if !e.Passed {
			status = "failed"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%s\t%s\t%.2f\t%s\n",
			i+1, e.Generator, e.Runs, e.Pages,
			formatLatency(e.Mean), formatLatency(e.P95), formatLatency(e.Max),
			e.PagesPerSecond, status)
	}
	return tw.Flush()
}
