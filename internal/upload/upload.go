// Package upload pushes filtered contacts into per-owner Hunter lead lists.
package upload

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
)

// LeadLister is the subset of the Hunter client used for uploads.
type LeadLister interface {
	ListLeadLists(ctx context.Context) ([]hunter.LeadList, error)
	CreateLeadList(ctx context.Context, name string) (*hunter.LeadList, error)
	DeleteLeadList(ctx context.Context, id int) error
	CreateLead(ctx context.Context, lead hunter.Lead) (*hunter.LeadRef, error)
	UpsertLead(ctx context.Context, lead hunter.Lead) (*hunter.LeadRef, error)
	ListLeads(ctx context.Context, listID int) ([]hunter.ListedLead, error)
	MoveLead(ctx context.Context, leadID, listID int) error
}

// Stats counts upload results.
type Stats struct {
	Uploaded int `json:"uploaded"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
}

// ReassignStats counts lead moves between campaigns.
type ReassignStats struct {
	Moved   int `json:"moved"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Uploader manages lead lists and leads for one campaign tag.
type Uploader struct {
	client LeadLister
	update bool
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithUpdate makes Upload overwrite leads that already exist.
func WithUpdate() Option {
	return func(u *Uploader) { u.update = true }
}

// New creates an Uploader.
func New(client LeadLister, opts ...Option) *Uploader {
	u := &Uploader{client: client}
	for _, o := range opts {
		o(u)
	}
	return u
}

// ListName is the lead list name for an owner within a campaign.
func ListName(tag, slug string) string {
	return tag + " - " + slug
}

// CreateLists ensures one lead list per admin and returns list ids keyed by
// admin slug. Lists that already exist are reused.
func (u *Uploader) CreateLists(ctx context.Context, tag string, admins []model.Admin) (map[string]int, error) {
	existing, err := u.listIDs(ctx, tag)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]int, len(admins))
	for _, a := range admins {
		if id, ok := existing[a.Slug]; ok {
			ids[a.Slug] = id
			continue
		}
		list, err := u.client.CreateLeadList(ctx, ListName(tag, a.Slug))
		if err != nil {
			return ids, eris.Wrapf(err, "upload: create list for %s", a.Slug)
		}
		ids[a.Slug] = list.ID
		zap.L().Info("upload: created lead list",
			zap.String("name", list.Name),
			zap.Int("id", list.ID),
		)
	}
	return ids, nil
}

// Upload creates one lead per candidate in its owner's list. A failed lead
// is logged and counted; an owner without a list is skipped.
func (u *Uploader) Upload(ctx context.Context, tag string, candidates []*model.ContactCandidate) (Stats, error) {
	ids, err := u.listIDs(ctx, tag)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return stats, eris.Wrap(err, "upload: cancelled")
		}
		owner := c.Owner()
		if owner == nil {
			stats.Skipped++
			zap.L().Warn("upload: candidate has no owner", zap.String("email", c.Email))
			continue
		}
		listID, ok := ids[owner.Slug]
		if !ok {
			stats.Skipped++
			zap.L().Warn("upload: no lead list for owner",
				zap.String("owner", owner.Slug),
				zap.String("email", c.Email),
			)
			continue
		}
		if err := u.push(ctx, toLead(tag, listID, c)); err != nil {
			stats.Failed++
			zap.L().Warn("upload: push lead failed",
				zap.String("email", c.Email),
				zap.Error(err),
			)
			continue
		}
		stats.Uploaded++
	}

	zap.L().Info("upload: complete",
		zap.String("tag", tag),
		zap.Int("uploaded", stats.Uploaded),
		zap.Int("failed", stats.Failed),
		zap.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

func (u *Uploader) push(ctx context.Context, lead hunter.Lead) error {
	var err error
	if u.update {
		_, err = u.client.UpsertLead(ctx, lead)
	} else {
		_, err = u.client.CreateLead(ctx, lead)
	}
	return err
}

// Reassign moves every lead in fromTag's lists into toTag's list for the
// same owner slug. Leads whose owner has no list under toTag are skipped.
func (u *Uploader) Reassign(ctx context.Context, fromTag, toTag string) (ReassignStats, error) {
	if strings.TrimSpace(fromTag) == "" || strings.TrimSpace(toTag) == "" {
		return ReassignStats{}, eris.New("upload: both tags are required")
	}
	if fromTag == toTag {
		return ReassignStats{}, eris.Errorf("upload: cannot reassign %q to itself", fromTag)
	}

	from, err := u.listIDs(ctx, fromTag)
	if err != nil {
		return ReassignStats{}, err
	}
	to, err := u.listIDs(ctx, toTag)
	if err != nil {
		return ReassignStats{}, err
	}

	var stats ReassignStats
	for listSlug, listID := range from {
		leads, err := u.client.ListLeads(ctx, listID)
		if err != nil {
			return stats, eris.Wrapf(err, "upload: read list for %s", listSlug)
		}
		for _, l := range leads {
			if err := ctx.Err(); err != nil {
				return stats, eris.Wrap(err, "upload: cancelled")
			}
			slug := l.Slug()
			if slug == "" {
				slug = listSlug
			}
			target, ok := to[slug]
			if !ok {
				stats.Skipped++
				zap.L().Warn("upload: no target list for owner",
					zap.String("owner", slug),
					zap.String("tag", toTag),
					zap.String("email", l.Email),
				)
				continue
			}
			if err := u.client.MoveLead(ctx, l.ID, target); err != nil {
				stats.Failed++
				zap.L().Warn("upload: move lead failed",
					zap.Int("lead_id", l.ID),
					zap.Error(err),
				)
				continue
			}
			stats.Moved++
		}
	}

	zap.L().Info("upload: reassign complete",
		zap.String("from", fromTag),
		zap.String("to", toTag),
		zap.Int("moved", stats.Moved),
		zap.Int("failed", stats.Failed),
		zap.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

// DeleteLists removes every lead list whose name contains keyword and
// returns how many were deleted.
func (u *Uploader) DeleteLists(ctx context.Context, keyword string) (int, error) {
	lists, err := u.matching(ctx, keyword)
	if err != nil {
		return 0, err
	}
	var deleted int
	for _, l := range lists {
		if err := u.client.DeleteLeadList(ctx, l.ID); err != nil {
			return deleted, eris.Wrapf(err, "upload: delete list %q", l.Name)
		}
		deleted++
	}
	return deleted, nil
}

// CountLeads sums the lead counts of lists whose name contains keyword.
func (u *Uploader) CountLeads(ctx context.Context, keyword string) (int, error) {
	lists, err := u.matching(ctx, keyword)
	if err != nil {
		return 0, err
	}
	var total int
	for _, l := range lists {
		total += l.LeadsCount
	}
	return total, nil
}

func (u *Uploader) matching(ctx context.Context, keyword string) ([]hunter.LeadList, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, eris.New("upload: keyword is required")
	}
	lists, err := u.client.ListLeadLists(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "upload: list lead lists")
	}
	kw := strings.ToLower(keyword)
	var out []hunter.LeadList
	for _, l := range lists {
		if strings.Contains(strings.ToLower(l.Name), kw) {
			out = append(out, l)
		}
	}
	return out, nil
}

// listIDs maps admin slug to list id for lists named "<tag> - <slug>".
func (u *Uploader) listIDs(ctx context.Context, tag string) (map[string]int, error) {
	lists, err := u.client.ListLeadLists(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "upload: list lead lists")
	}
	prefix := ListName(tag, "")
	ids := make(map[string]int)
	for _, l := range lists {
		slug, ok := strings.CutPrefix(l.Name, prefix)
		if !ok || slug == "" {
			continue
		}
		ids[slug] = l.ID
	}
	return ids, nil
}

func toLead(tag string, listID int, c *model.ContactCandidate) hunter.Lead {
	acct := c.Account
	owner := acct.Owner
	leadTag := tag
	if leadTag == "" {
		leadTag = acct.Category
	}
	attrs := map[string]string{
		"owner_first_name":  owner.FirstName,
		"short_name":        owner.Slug,
		"admin_location":    owner.City,
		"lead_specific_tag": leadTag,
	}
	if acct.Address != "" {
		attrs["address"] = acct.Address
	}
	return hunter.Lead{
		Email:            c.Email,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		Position:         c.Position,
		Company:          c.Organization,
		CompanyIndustry:  acct.Category,
		Website:          c.Domain,
		LinkedInURL:      c.LinkedIn,
		PhoneNumber:      c.Phone,
		Twitter:          c.Twitter,
		ConfidenceScore:  c.Confidence,
		LeadsListID:      listID,
		CustomAttributes: attrs,
	}
}
