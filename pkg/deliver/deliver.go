// Package deliver sends finished reports somewhere people will see them.
//
// A Deliverer takes a rendered report and a subject line; how it travels
// (email, webhook, nowhere) is the implementation's business.
package deliver

import (
	"context"

	"github.com/charmbracelet/log"
)

// Report is a rendered document ready for delivery.
type Report struct {
	Subject string
	HTML    []byte

	// RunID ties the delivery back to the scan that produced it.
	RunID string
}

// Deliverer sends one report.
type Deliverer interface {
	Deliver(ctx context.Context, r Report) error
}

// DryRun is a Deliverer that logs what it would have sent.
type DryRun struct {
	Logger *log.Logger
}

// NewDryRun creates a delivery sink for rehearsals.
func NewDryRun(logger *log.Logger) *DryRun {
	if logger == nil {
		logger = log.Default()
	}
	return &DryRun{Logger: logger}
}

func (d *DryRun) Deliver(_ context.Context, r Report) error {
	d.Logger.Info("dry run, not delivering",
		"subject", r.Subject,
		"bytes", len(r.HTML),
		"run", r.RunID)
	return nil
}
