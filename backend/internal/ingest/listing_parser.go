package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"luxatlas/backend/internal/admission"
	"luxatlas/backend/internal/catalog"
)

// ============================================================================
// Scraped Listing Ingestion Adapter
// ============================================================================
//
// Parses the HTML listing pages our scrapers capture into raw candidates for
// the admission filter, and turns admitted candidates into POI drafts
// carrying a scrape provenance reference.

// RawListing is one entry extracted from a listing page
type RawListing struct {
	Name         string
	CategoryHint string
	Tags         []string
	Description  string
	Website      string
	Destination  string
}

// ParseListings extracts listings from an HTML page. Listing markup follows
// the scraper capture format: each entry is an element with class "listing",
// name in the first h2/h3/.name, category in data-category or .category,
// tags in .tag elements.
func ParseListings(html string) ([]RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing HTML: %w", err)
	}

	var listings []RawListing
	doc.Find(".listing").Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Find("h2, h3, .name").First().Text())
		if name == "" {
			return
		}

		listing := RawListing{
			Name:        name,
			Description: strings.TrimSpace(s.Find(".description").First().Text()),
			Destination: strings.TrimSpace(s.Find(".destination").First().Text()),
		}

		if cat, ok := s.Attr("data-category"); ok {
			listing.CategoryHint = strings.TrimSpace(cat)
		} else {
			listing.CategoryHint = strings.TrimSpace(s.Find(".category").First().Text())
		}

		s.Find(".tag").Each(func(_ int, tag *goquery.Selection) {
			if t := strings.TrimSpace(tag.Text()); t != "" {
				listing.Tags = append(listing.Tags, t)
			}
		})

		if href, ok := s.Find("a[href]").First().Attr("href"); ok {
			listing.Website = strings.TrimSpace(href)
		}

		listings = append(listings, listing)
	})

	return listings, nil
}

// ToCandidate shapes a listing for the admission filter.
func (l RawListing) ToCandidate() admission.Candidate {
	return admission.Candidate{
		Name:         l.Name,
		Tags:         l.Tags,
		CategoryHint: l.CategoryHint,
	}
}

// ToDraft builds the POI draft for an admitted listing. sourceID identifies
// the captured page; the admission filter's inferred category fills the
// category when the page offered no hint.
func (l RawListing) ToDraft(sourceID string, capturedAt time.Time) catalog.Draft {
	category := l.CategoryHint
	if category == "" {
		category = admission.InferCategory(strings.ToLower(l.Name + " " + strings.Join(l.Tags, " ")))
	}

	return catalog.Draft{
		Name:        l.Name,
		Category:    category,
		Destination: l.Destination,
		Description: l.Description,
		Website:     l.Website,
		Tags:        l.Tags,
		Provenance: []catalog.ProvenanceRef{
			{
				SourceKind: "scrape",
				SourceID:   sourceID,
				CapturedAt: capturedAt,
			},
		},
	}
}
