// Command quote computes a single offer on the command line, for sales staff
// working without the web form. It prints the breakdown table and the
// headline metrics, and optionally writes the XLSX workbook.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/heizplus/pricing-api/internal/config"
	"github.com/heizplus/pricing-api/internal/export"
	"github.com/heizplus/pricing-api/internal/obs"
	"github.com/heizplus/pricing-api/internal/quote"
)

func main() {
	units := flag.Int("units", 1, "residential unit count (Wohneinheiten)")
	area := flag.Int("area", 100, "heated area in m²")
	isfp := flag.Bool("isfp", false, "include the iSFP energy plan")
	measures := flag.String("measures", "", "comma-separated measure applications (heating, other)")
	xlsxPath := flag.String("xlsx", "", "optional path to write the quote workbook")
	flag.Parse()

	logger := obs.NewLogger("console", "info")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	svc := quote.NewService(quote.Config{
		MaxUnits:    cfg.QuoteMaxUnits,
		MaxAreaM2:   cfg.QuoteMaxAreaM2,
		MaxMeasures: cfg.QuoteMaxMeasures,
	})

	req := quote.Request{
		UnitCount:         *units,
		AreaM2:            *area,
		IncludeEnergyPlan: *isfp,
	}
	for _, part := range strings.Split(*measures, ",") {
		if part = strings.TrimSpace(part); part != "" {
			req.ExtraMeasures = append(req.ExtraMeasures, part)
		}
	}

	q, err := svc.Quote(req)
	if err != nil {
		logger.Fatal().Err(err).Msg("compute quote")
	}

	fmt.Println(q.Bundle.Kind)
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Product\tOriginal Price\tAfter 20% Discount\tFörderung\tFinal Price")
	for _, row := range q.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", row.Product, row.Original, row.Discounted, row.Subsidy, row.Final)
	}
	if err := w.Flush(); err != nil {
		logger.Fatal().Err(err).Msg("write table")
	}

	fmt.Println()
	fmt.Printf("Full Price:          %s (%s)\n", q.Summary.FullPrice, q.Summary.DiscountNote)
	fmt.Printf("User Pays:           %s\n", q.Summary.UserPays)
	fmt.Printf("Förderung:           %s\n", q.Summary.Subsidy)
	fmt.Printf("Investitionsgrenze:  %s\n", q.Bundle.InvestmentCeiling)
	fmt.Println()
	fmt.Println(q.Disclosure.Text)

	if *xlsxPath != "" {
		if err := export.Save(q, *xlsxPath); err != nil {
			logger.Fatal().Err(err).Msg("write workbook")
		}
		logger.Info().Str("path", *xlsxPath).Msg("workbook written")
	}
}
