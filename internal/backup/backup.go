// Package backup writes and reads the flat CSV snapshots taken after each
// pipeline stage so an interrupted run can resume without repeating remote
// calls.
package backup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Kind names a snapshot file.
type Kind string

// Snapshot kinds, in pipeline order.
const (
	Candidates Kind = "candidates"
	Accounts   Kind = "accounts"
	Unfiltered Kind = "unfiltered_lead_backup"
	Leads      Kind = "lead_backup"
	Removed    Kind = "removed_leads"
)

// OwnerResolver finds the admin behind an owner email. *admin.Directory
// implements it.
type OwnerResolver interface {
	FindByEmail(email string) (model.Admin, error)
}

// Store reads and writes snapshots in one directory.
type Store struct {
	dir string
}

// New creates a Store rooted at dir.
func New(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir}
}

// Path returns the file a snapshot of kind for tag lives in.
func (s *Store) Path(kind Kind, tag string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.csv", kind, tag))
}

// Exists reports whether the snapshot is present.
func (s *Store) Exists(kind Kind, tag string) bool {
	_, err := os.Stat(s.Path(kind, tag))
	return err == nil
}

// WriteCandidates snapshots cleaned listing rows, before owner assignment.
func (s *Store) WriteCandidates(tag string, rows []model.CandidateRow) (string, error) {
	return s.write(s.Path(Candidates, tag), rows, len(rows))
}

// ReadCandidates loads candidates_<tag>.csv.
func (s *Store) ReadCandidates(tag string) ([]model.CandidateRow, error) {
	var rows []model.CandidateRow
	if err := s.read(s.Path(Candidates, tag), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// WriteAccounts snapshots assigned accounts.
func (s *Store) WriteAccounts(tag string, accounts []model.Account) (string, error) {
	recs := make([]AccountRecord, len(accounts))
	for i := range accounts {
		recs[i] = accountRecord(&accounts[i])
	}
	return s.write(s.Path(Accounts, tag), recs, len(recs))
}

// WriteContacts snapshots contact candidates under kind.
func (s *Store) WriteContacts(kind Kind, tag string, candidates []*model.ContactCandidate) (string, error) {
	if kind == Accounts || kind == Candidates {
		return "", eris.Errorf("backup: contacts cannot be written as %s", kind)
	}
	recs := make([]ContactRecord, len(candidates))
	for i, c := range candidates {
		recs[i] = contactRecord(c, tag)
	}
	return s.write(s.Path(kind, tag), recs, len(recs))
}

// ReadAccounts loads accounts_<tag>.csv, resolving each owner through owners.
// An unknown or ambiguous owner fails the whole read.
func (s *Store) ReadAccounts(tag string, owners OwnerResolver) ([]model.Account, error) {
	var recs []AccountRecord
	if err := s.read(s.Path(Accounts, tag), &recs); err != nil {
		return nil, err
	}

	cache := ownerCache{resolver: owners, byEmail: make(map[string]*model.Admin)}
	accounts := make([]model.Account, 0, len(recs))
	for i, r := range recs {
		owner, err := cache.get(r.OwnerEmail)
		if err != nil {
			return nil, eris.Wrapf(err, "backup: account row %d (%s)", i+1, r.Domain)
		}
		accounts = append(accounts, model.Account{
			Name:     r.Name,
			Domain:   r.Domain,
			Address:  r.Address,
			City:     r.City,
			State:    r.State,
			Category: r.Category,
			Owner:    owner,
		})
	}
	return accounts, nil
}

// ReadContacts loads a contact snapshot. Candidates from the same input
// domain share one rebuilt Account.
func (s *Store) ReadContacts(kind Kind, tag string, owners OwnerResolver) ([]model.ContactCandidate, error) {
	return s.ReadContactsFile(s.Path(kind, tag), owners)
}

// ReadContactsFile loads a contact snapshot from an explicit path.
func (s *Store) ReadContactsFile(path string, owners OwnerResolver) ([]model.ContactCandidate, error) {
	var recs []ContactRecord
	if err := s.read(path, &recs); err != nil {
		return nil, err
	}

	cache := ownerCache{resolver: owners, byEmail: make(map[string]*model.Admin)}
	accounts := make(map[string]*model.Account)
	out := make([]model.ContactCandidate, 0, len(recs))
	for i, r := range recs {
		acct, ok := accounts[r.InputDomain]
		if !ok {
			owner, err := cache.get(r.OwnerEmail)
			if err != nil {
				return nil, eris.Wrapf(err, "backup: contact row %d (%s)", i+1, r.Email)
			}
			acct = &model.Account{
				Name:     r.AccountName,
				Domain:   r.InputDomain,
				Address:  r.Address,
				City:     r.City,
				State:    r.State,
				Category: r.Category,
				Owner:    owner,
			}
			accounts[r.InputDomain] = acct
		}

		c, err := r.candidate(acct)
		if err != nil {
			return nil, eris.Wrapf(err, "backup: contact row %d (%s) verification date", i+1, r.Email)
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) write(path string, recs any, n int) (string, error) {
	data, err := csvutil.Marshal(recs)
	if err != nil {
		return "", eris.Wrapf(err, "backup: encode %s", filepath.Base(path))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", eris.Wrap(err, "backup: create dir")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".backup-*.csv")
	if err != nil {
		return "", eris.Wrap(err, "backup: create temp file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", eris.Wrap(err, "backup: write temp file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", eris.Wrap(err, "backup: close temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return "", eris.Wrapf(err, "backup: rename to %s", path)
	}

	zap.L().Info("backup: snapshot written", zap.String("path", path), zap.Int("rows", n))
	return path, nil
}

func (s *Store) read(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "backup: read %s", path)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := csvutil.Unmarshal(data, out); err != nil {
		return eris.Wrapf(err, "backup: decode %s", path)
	}
	return nil
}

type ownerCache struct {
	resolver OwnerResolver
	byEmail  map[string]*model.Admin
}

func (c ownerCache) get(email string) (*model.Admin, error) {
	if a, ok := c.byEmail[email]; ok {
		return a, nil
	}
	a, err := c.resolver.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	c.byEmail[email] = &a
	return &a, nil
}
