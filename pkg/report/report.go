// Package report renders scan results into a self-contained HTML document,
// grouped by departure month, suitable for email delivery or serving.
package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/rmcnabb/farewatch/pkg/fare"
	"github.com/rmcnabb/farewatch/pkg/scan"
)

// Builder renders scan results.
type Builder struct {
	Title    string
	Currency string
}

// New creates a report builder.
func New(title, currency string) *Builder {
	if title == "" {
		title = "Fare watch"
	}
	return &Builder{Title: title, Currency: currency}
}

// Subject returns the one-line summary used as an email subject.
func (b *Builder) Subject(result *scan.Result) string {
	if len(result.Offers) == 0 {
		return fmt.Sprintf("%s: no fares under your caps", b.Title)
	}
	return fmt.Sprintf("%s: %d fares from %s %.0f",
		b.Title, len(result.Offers), b.Currency, result.Offers[0].Price)
}

// HTML renders the full report document.
func (b *Builder) HTML(result *scan.Result) ([]byte, error) {
	data := reportData{
		Title:     b.Title,
		Currency:  b.Currency,
		Window:    result.Window,
		Generated: result.Started.Format("2 January 2006 15:04"),
		RunID:     result.RunID,
		Total:     len(result.Offers),
	}
	for _, best := range bestPerCabin(result.Offers) {
		data.Best = append(data.Best, cabinBest{
			Cabin:   best.Cabin.Label(),
			Price:   fmt.Sprintf("%s %.0f", best.Currency, best.Price),
			Premium: best.Cabin == fare.PremiumEconomy,
		})
	}
	for _, bucket := range result.Months {
		section := monthSection{Label: bucket.Label()}
		for _, o := range bucket.Offers {
			section.Rows = append(section.Rows, row{
				Route:   RouteLabel(o.Origin, o.Destination),
				Cabin:   o.Cabin.Label(),
				Price:   fmt.Sprintf("%s %.0f", o.Currency, o.Price),
				Depart:  o.DepartDate.Format("Mon 2 Jan"),
				Return:  o.ReturnDate.Format("Mon 2 Jan"),
				Nights:  o.Nights(),
				Carrier: o.Carrier(),
				Link:    o.BookingLink,
				Premium: o.Cabin == fare.PremiumEconomy,
			})
		}
		data.Months = append(data.Months, section)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type reportData struct {
	Title     string
	Currency  string
	Window    string
	Generated string
	RunID     string
	Total     int
	Best      []cabinBest
	Months    []monthSection
}

type cabinBest struct {
	Cabin   string
	Price   string
	Premium bool
}

// bestPerCabin picks the cheapest offer for each cabin, in cabin order.
// Offers arrive ranked by price, so the first hit per cabin wins.
func bestPerCabin(offers []fare.Offer) []fare.Offer {
	seen := make(map[fare.Cabin]bool)
	var best []fare.Offer
	for _, o := range offers {
		if !seen[o.Cabin] {
			seen[o.Cabin] = true
			best = append(best, o)
		}
	}
	return best
}

type monthSection struct {
	Label string
	Rows  []row
}

type row struct {
	Route   string
	Cabin   string
	Price   string
	Depart  string
	Return  string
	Nights  int
	Carrier string
	Link    string
	Premium bool
}

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: -apple-system, Helvetica, Arial, sans-serif; color: #1a1a2e; margin: 2em; }
  h1 { font-size: 1.4em; }
  h2 { font-size: 1.1em; margin-top: 1.6em; border-bottom: 1px solid #ddd; padding-bottom: 0.3em; }
  table { border-collapse: collapse; width: 100%; }
  th, td { text-align: left; padding: 0.45em 0.8em; border-bottom: 1px solid #eee; }
  th { color: #666; font-weight: 600; font-size: 0.85em; }
  .price { font-weight: 700; white-space: nowrap; }
  .pill { border-radius: 1em; padding: 0.15em 0.7em; font-size: 0.8em; white-space: nowrap; }
  .pill.premium { background: #e8f0fe; color: #1a56db; }
  .pill.business { background: #fdf2e3; color: #92400e; }
  .meta { color: #888; font-size: 0.85em; }
  .empty { color: #666; margin-top: 2em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Departures {{.Window}} &middot; {{.Total}} fares &middot; generated {{.Generated}}</p>
{{if .Best}}
<p>{{range .Best}}<span class="pill {{if .Premium}}premium{{else}}business{{end}}">{{.Cabin}} from {{.Price}}</span> {{end}}</p>
{{end}}
{{if not .Months}}
<p class="empty">No fares under your price caps this time. The next scan might get luckier.</p>
{{end}}
{{range .Months}}
<h2>{{.Label}}</h2>
<table>
<tr><th>Route</th><th>Cabin</th><th>Price</th><th>Depart</th><th>Return</th><th>Nights</th><th>Airline</th><th></th></tr>
{{range .Rows}}
<tr>
  <td>{{.Route}}</td>
  <td><span class="pill {{if .Premium}}premium{{else}}business{{end}}">{{.Cabin}}</span></td>
  <td class="price">{{.Price}}</td>
  <td>{{.Depart}}</td>
  <td>{{.Return}}</td>
  <td>{{.Nights}}</td>
  <td>{{.Carrier}}</td>
  <td>{{if .Link}}<a href="{{.Link}}">book</a>{{end}}</td>
</tr>
{{end}}
</table>
{{end}}
<p class="meta">run {{.RunID}}</p>
</body>
</html>
`))
