// Package admin holds the roster of lead owners and answers lookups by
// identity and geography.
package admin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/leadgen-cli/internal/address"
	"github.com/sells-group/leadgen-cli/internal/fetcher"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// DefaultExcludedCodes are store codes reserved for management roles that
// never receive leads.
var DefaultExcludedCodes = []string{"RM", "XX"}

// NotFoundError is returned when an email lookup matches zero or several admins.
type NotFoundError struct {
	Email   string
	Matches int
}

func (e *NotFoundError) Error() string {
	if e.Matches > 1 {
		return fmt.Sprintf("admin: %d admins share email %q", e.Matches, e.Email)
	}
	return fmt.Sprintf("admin: no admin with email %q", e.Email)
}

// Ambiguous reports whether the lookup failed because of duplicate roster rows.
func (e *NotFoundError) Ambiguous() bool {
	return e.Matches > 1
}

// Directory is the read-only admin roster for a session.
type Directory struct {
	admins []model.Admin
}

// New builds a Directory from admins in roster order. Every admin needs an
// email and a slug.
func New(admins []model.Admin) (*Directory, error) {
	out := make([]model.Admin, 0, len(admins))
	for i, a := range admins {
		a.FirstName = strings.TrimSpace(a.FirstName)
		a.LastName = strings.TrimSpace(a.LastName)
		a.Slug = strings.TrimSpace(a.Slug)
		a.Email = strings.TrimSpace(a.Email)
		a.City = strings.TrimSpace(a.City)
		a.State = strings.TrimSpace(a.State)
		a.StoreCode = strings.TrimSpace(a.StoreCode)
		if a.Email == "" {
			return nil, eris.Errorf("admin: roster row %d has no email", i+1)
		}
		if a.Slug == "" {
			return nil, eris.Errorf("admin: roster row %d (%s) has no slug", i+1, a.Email)
		}
		out = append(out, a)
	}
	return &Directory{admins: out}, nil
}

// Load reads a roster from a .csv, .xlsx, .yaml or .yml file.
func Load(ctx context.Context, path string) (*Directory, error) {
	var (
		admins []model.Admin
		err    error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		admins, err = loadCSV(path)
	case ".xlsx":
		admins, err = loadXLSX(ctx, path)
	case ".yaml", ".yml":
		admins, err = loadYAML(path)
	default:
		return nil, eris.Errorf("admin: unsupported roster type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	return New(admins)
}

func loadCSV(path string) ([]model.Admin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "admin: read roster")
	}
	var admins []model.Admin
	if err := csvutil.Unmarshal(data, &admins); err != nil {
		return nil, eris.Wrap(err, "admin: decode roster csv")
	}
	return admins, nil
}

func loadXLSX(ctx context.Context, path string) ([]model.Admin, error) {
	tbl, err := fetcher.ReadTable(ctx, path)
	if err != nil {
		return nil, eris.Wrap(err, "admin: read roster xlsx")
	}
	if !tbl.Has("email", "slug") {
		return nil, eris.New("admin: roster xlsx needs email and slug columns")
	}
	admins := make([]model.Admin, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		admins = append(admins, model.Admin{
			FirstName: tbl.Get(row, "first_name"),
			LastName:  tbl.Get(row, "last_name"),
			Slug:      tbl.Get(row, "slug"),
			Email:     tbl.Get(row, "email"),
			City:      tbl.Get(row, "city"),
			State:     tbl.Get(row, "state"),
			StoreCode: tbl.Get(row, "store_code"),
		})
	}
	return admins, nil
}

func loadYAML(path string) ([]model.Admin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "admin: read roster")
	}
	var admins []model.Admin
	if err := yaml.Unmarshal(data, &admins); err != nil {
		return nil, eris.Wrap(err, "admin: decode roster yaml")
	}
	return admins, nil
}

// Len returns the roster size.
func (d *Directory) Len() int {
	return len(d.admins)
}

// ListAdmins returns the roster in order minus admins whose store code is in
// exclude. A nil exclude applies DefaultExcludedCodes; an empty non-nil
// slice excludes nothing.
func (d *Directory) ListAdmins(exclude []string) []model.Admin {
	if exclude == nil {
		exclude = DefaultExcludedCodes
	}
	skip := make(map[string]bool, len(exclude))
	for _, code := range exclude {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			skip[code] = true
		}
	}

	out := make([]model.Admin, 0, len(d.admins))
	for _, a := range d.admins {
		if skip[strings.ToUpper(a.StoreCode)] {
			continue
		}
		out = append(out, a)
	}
	return out
}

// FindByEmail returns the single admin with exactly this email. Zero or
// multiple matches fail with *NotFoundError.
func (d *Directory) FindByEmail(email string) (model.Admin, error) {
	email = strings.TrimSpace(email)
	var (
		found   model.Admin
		matches int
	)
	for _, a := range d.admins {
		if a.Email == email {
			found = a
			matches++
		}
	}
	if matches != 1 {
		return model.Admin{}, &NotFoundError{Email: email, Matches: matches}
	}
	return found, nil
}

// ByCity returns roster admins whose home city is city.
func (d *Directory) ByCity(city string) []model.Admin {
	return FilterByCity(d.admins, city)
}

// ByState returns roster admins whose home state is state.
func (d *Directory) ByState(state string) []model.Admin {
	return FilterByState(d.admins, state)
}

// FilterByCity returns admins whose city equals city, ignoring case and
// surrounding space. An empty city matches nobody.
func FilterByCity(admins []model.Admin, city string) []model.Admin {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil
	}
	var out []model.Admin
	for _, a := range admins {
		if strings.EqualFold(strings.TrimSpace(a.City), city) {
			out = append(out, a)
		}
	}
	return out
}

// FilterByState returns admins whose state equals state in either code or
// full-name form. An empty state matches nobody.
func FilterByState(admins []model.Admin, state string) []model.Admin {
	if strings.TrimSpace(state) == "" {
		return nil
	}
	var out []model.Admin
	for _, a := range admins {
		if address.SameState(a.State, state) {
			out = append(out, a)
		}
	}
	return out
}
