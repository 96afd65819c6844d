package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/torkay/prospect-command-center/internal/domain"
)

var csvHeader = []string{
	"name", "website", "domain", "phone", "address", "category",
	"emails", "cms", "has_analytics", "has_pixel", "has_booking",
	"fit", "opportunity", "priority", "notes",
}

// WriteProspectsCSV renders a prospect list as CSV for spreadsheet handoff.
// Rows follow the input order.
func WriteProspectsCSV(w io.Writer, prospects []domain.Prospect) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, p := range prospects {
		row := []string{
			p.Candidate.Name,
			p.Candidate.Website,
			p.Candidate.Domain,
			bestPhone(p),
			p.Candidate.Address,
			p.Candidate.Category,
			strings.Join(p.Enrichment.Emails, "; "),
			p.Enrichment.CMS,
			p.Enrichment.HasAnalytics.String(),
			p.Enrichment.HasPixel.String(),
			p.Enrichment.HasBooking.String(),
			fmt.Sprint(p.Scores.Fit),
			fmt.Sprint(p.Scores.Opportunity),
			fmt.Sprintf("%.2f", p.Scores.Priority),
			strings.Join(p.Scores.Notes, " | "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func bestPhone(p domain.Prospect) string {
	if p.Candidate.Phone != "" {
		return p.Candidate.Phone
	}
	return p.Enrichment.PhoneFromSite
}
