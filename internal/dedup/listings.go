package dedup

import (
	"context"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/fetcher"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// ReadListings parses a scraper export. The title and website columns are
// required; category and address may be missing.
func ReadListings(ctx context.Context, r io.Reader) ([]model.RawListing, error) {
	tbl, err := fetcher.ReadCSVTable(ctx, r)
	if err != nil {
		return nil, eris.Wrap(err, "dedup: read listings")
	}
	if err := model.ValidateListingHeader(tbl.Header); err != nil {
		return nil, err
	}

	out := make([]model.RawListing, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		out = append(out, model.RawListing{
			Title:    tbl.Get(row, "title"),
			Category: tbl.Get(row, "category"),
			Address:  tbl.Get(row, "address"),
			Website:  tbl.Get(row, "website"),
		})
	}
	return out, nil
}
