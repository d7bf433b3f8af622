package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	timestampLayout = "2006-01-02 15:04:05"

	// SummaryTitle is the title of the summary notification.
	SummaryTitle = "Unshipped Orders Summary"
)

// Summary is the outcome of a report run as sent to operators.
type Summary struct {
	Timestamp      time.Time `json:"timestamp"`
	LabelOrders    int       `json:"labelOrders"`
	NonLabelOrders int       `json:"nonLabelOrders"`
	TotalOrders    int       `json:"totalOrders"`
	NewSKUs        int       `json:"newSkus"`
	RemovedOrders  int       `json:"removedOrders"`
	OutputFile     string    `json:"outputFile,omitempty"`
}

// Summarize reads the counters of r.
func Summarize(r *Result, now time.Time) Summary {
	return Summary{
		Timestamp:      now,
		LabelOrders:    r.LabelOrders,
		NonLabelOrders: r.NonLabelOrders,
		TotalOrders:    r.TotalOrders,
		NewSKUs:        r.NewSKUs.Len(),
		RemovedOrders:  r.Removed.Len(),
	}
}

// Fields returns the summary as ordered label/value pairs.
func (s Summary) Fields() [][2]string {
	return [][2]string{
		{"Timestamp", s.Timestamp.Format(timestampLayout)},
		{"Total Label Vendors Orders", strconv.Itoa(s.LabelOrders)},
		{"Total Non-Label Vendors Orders", strconv.Itoa(s.NonLabelOrders)},
		{"Total Orders", strconv.Itoa(s.TotalOrders)},
		{"New SKUs Found", strconv.Itoa(s.NewSKUs)},
		{"Removed Orders (RET/INV)", strconv.Itoa(s.RemovedOrders)},
	}
}

// Markdown renders the summary as the body of a chat message.
func (s Summary) Markdown() string {
	lines := make([]string, 0, 6)
	for _, f := range s.Fields() {
		lines = append(lines, fmt.Sprintf("**%s:** %s", f[0], f[1]))
	}

	return strings.Join(lines, "\n")
}
