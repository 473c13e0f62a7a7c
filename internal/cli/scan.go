package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rmcnabb/farewatch/pkg/config"
	"github.com/rmcnabb/farewatch/pkg/deliver"
	"github.com/rmcnabb/farewatch/pkg/report"
	"github.com/rmcnabb/farewatch/pkg/scan"
)

// scanCommand creates the scan command, the main entry point: expand the
// configured routes and window into queries, run them, and report.
func (c *CLI) scanCommand() *cobra.Command {
	var (
		configPath string
		outPath    string
		title      string
		dryRun     bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan for fares under your price caps",
		Long: `Scan expands the configured routes, cabins and travel window into
search queries, runs them against the fare provider, and reports every
offer that survives the price, airline and stay-length filters.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			req, err := cfg.ScanRequest()
			if err != nil {
				return err
			}

			runner, client, responseCache, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer responseCache.Close()

			if err := client.Authenticate(ctx); err != nil {
				printError("authentication failed")
				return err
			}

			prog := newProgress(c.Logger)
			spinner := newSpinner(ctx, "scanning fares...")
			spinner.Start()
			result, err := runner.Run(ctx, req)
			spinner.Stop()
			if err != nil {
				printError("scan failed: %v", err)
				return err
			}
			prog.done(fmt.Sprintf("Scanned %d queries", result.Stats.Searched))

			printScanResult(result, cfg.Currency)

			if title == "" {
				title = cfg.ReportTitle
			}
			builder := report.New(title, cfg.Currency)
			doc, err := builder.HTML(result)
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = cfg.ReportPath
			}
			if outPath != "" {
				if err := os.WriteFile(outPath, doc, 0o644); err != nil {
					return err
				}
				printFile(outPath)
			}

			deliverer, err := c.newDeliverer(cfg.Delivery, dryRun)
			if err != nil {
				return err
			}
			if deliverer == nil {
				printNextStep("Preview in a browser", appName+" serve")
				return nil
			}
			if err := deliverer.Deliver(ctx, deliver.Report{
				Subject: builder.Subject(result),
				HTML:    doc,
				RunID:   result.RunID,
			}); err != nil {
				printError("delivery failed: %v", err)
				return err
			}
			printSuccess("Report delivered")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the TOML config file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the HTML report to this file")
	cmd.Flags().StringVar(&title, "title", "", "report title")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "render the report but deliver nothing")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")

	return cmd
}

// printScanResult summarizes the run on the terminal: the cheapest fares
// per month, then totals.
func printScanResult(result *scan.Result, currency string) {
	if len(result.Offers) == 0 {
		printWarning("No fares under your price caps (window %s)", result.Window)
		printStats(0, result.Stats.Raw, result.Stats.Searched, result.Stats.Failed)
		return
	}

	printSuccess("Found %d fares (window %s)", len(result.Offers), result.Window)
	for _, month := range result.Months {
		printInfo("%s", month.Label())
		for i, o := range month.Offers {
			if i == 3 {
				printDetail("... and %d more", len(month.Offers)-i)
				break
			}
			printDetail("%s %s  %s %s %s %s  %d nights",
				StylePrice.Render(fmt.Sprintf("%s %.0f", currency, o.Price)),
				o.Cabin.Label(),
				report.AirportName(o.Origin), iconArrow, report.AirportName(o.Destination),
				o.DepartDate.Format("Jan 2"),
				o.Nights())
		}
	}
	printStats(len(result.Offers), result.Stats.Raw, result.Stats.Searched, result.Stats.Failed)
}

// newDeliverer builds the delivery sink the configuration asks for.
// A nil Deliverer with a nil error means delivery is disabled.
func (c *CLI) newDeliverer(cfg config.DeliveryConfig, dryRun bool) (deliver.Deliverer, error) {
	switch cfg.Mode {
	case "", "none":
		return nil, nil
	}
	if dryRun || cfg.DryRun {
		return deliver.NewDryRun(c.Logger), nil
	}
	switch cfg.Mode {
	case "email":
		return deliver.NewBrevo(cfg.BrevoAPIKey, cfg.From, cfg.To)
	case "webhook":
		return deliver.NewWebhook(cfg.WebhookURL)
	}
	return nil, nil
}
