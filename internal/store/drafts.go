package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"mandalart-cli/internal/model"

	"github.com/google/uuid"
)

// ErrNotFound matches (errors.Is) every lookup miss from the drafts library.
var ErrNotFound = errors.New("not found")

type notFoundError struct {
	kind string
	ref  string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.ref)
}

func (e notFoundError) Is(target error) bool { return target == ErrNotFound }

type ambiguousError struct {
	ref     string
	matches []string
}

func (e ambiguousError) Error() string {
	return fmt.Sprintf("draft %q is ambiguous: matches %s", e.ref, strings.Join(e.matches, ", "))
}

// minPrefix is the shortest id prefix LoadDraft accepts.
const minPrefix = 4

const draftColumns = `id, name, source, answers_json, grid_json, created_at_unixms, updated_at_unixms`

// SaveDraft inserts d, or replaces the draft with the same ID. A blank ID gets a new
// UUID. CreatedAt is kept from the stored row on update; UpdatedAt is always now.
func (s Store) SaveDraft(ctx context.Context, d model.Draft) (model.Draft, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return model.Draft{}, errors.New("save draft: missing name")
	}
	if d.Source == "" {
		d.Source = model.DraftSourceManual
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Draft{}, err
	}
	defer db.Close()

	now := time.Now().UTC().Truncate(time.Millisecond)
	if strings.TrimSpace(d.ID) == "" {
		d.ID = uuid.NewString()
		d.CreatedAt = now
	} else {
		var created int64
		err := db.QueryRowContext(ctx, `SELECT created_at_unixms FROM drafts WHERE id = ?`, d.ID).Scan(&created)
		switch {
		case err == nil:
			d.CreatedAt = time.UnixMilli(created).UTC()
		case errors.Is(err, sql.ErrNoRows):
			d.CreatedAt = now
		default:
			return model.Draft{}, fmt.Errorf("save draft: %w", err)
		}
	}
	d.UpdatedAt = now

	answers := d.Answers
	if answers == nil {
		answers = []string{}
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return model.Draft{}, err
	}
	gridJSON, err := json.Marshal(d.Grid)
	if err != nil {
		return model.Draft{}, err
	}

	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO drafts(`+draftColumns+`) VALUES(?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, string(d.Source), string(answersJSON), string(gridJSON),
		d.CreatedAt.UnixMilli(), d.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return model.Draft{}, fmt.Errorf("save draft: %w", err)
	}
	return d, nil
}

// ListDrafts returns every draft, most recently updated first.
func (s Store) ListDrafts(ctx context.Context) ([]model.Draft, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT `+draftColumns+` FROM drafts ORDER BY updated_at_unixms DESC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Draft{}
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// LoadDraft resolves ref as an exact id, then an exact name (newest wins), then a
// unique id prefix of at least minPrefix characters.
func (s Store) LoadDraft(ctx context.Context, ref string) (model.Draft, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Draft{}, errors.New("load draft: missing id or name")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Draft{}, err
	}
	defer db.Close()
	return resolveDraft(ctx, db, ref)
}

// DeleteDraft removes the draft LoadDraft would resolve for ref.
func (s Store) DeleteDraft(ctx context.Context, ref string) (model.Draft, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Draft{}, errors.New("delete draft: missing id or name")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Draft{}, err
	}
	defer db.Close()

	d, err := resolveDraft(ctx, db, ref)
	if err != nil {
		return model.Draft{}, err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, d.ID); err != nil {
		return model.Draft{}, fmt.Errorf("delete draft: %w", err)
	}
	return d, nil
}

func resolveDraft(ctx context.Context, db *sql.DB, ref string) (model.Draft, error) {
	row := db.QueryRowContext(ctx, `SELECT `+draftColumns+` FROM drafts WHERE id = ?`, ref)
	if d, err := scanDraft(row); err == nil {
		return d, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return model.Draft{}, err
	}

	row = db.QueryRowContext(ctx, `SELECT `+draftColumns+` FROM drafts WHERE name = ? ORDER BY updated_at_unixms DESC LIMIT 1`, ref)
	if d, err := scanDraft(row); err == nil {
		return d, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return model.Draft{}, err
	}

	if len(ref) < minPrefix {
		return model.Draft{}, notFoundError{kind: "draft", ref: ref}
	}
	rows, err := db.QueryContext(ctx, `SELECT `+draftColumns+` FROM drafts WHERE substr(id, 1, ?) = ? LIMIT 3`, len(ref), ref)
	if err != nil {
		return model.Draft{}, err
	}
	defer rows.Close()
	var matches []model.Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return model.Draft{}, err
		}
		matches = append(matches, d)
	}
	if err := rows.Err(); err != nil {
		return model.Draft{}, err
	}
	switch len(matches) {
	case 0:
		return model.Draft{}, notFoundError{kind: "draft", ref: ref}
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, 0, len(matches))
		for _, m := range matches {
			ids = append(ids, m.ID)
		}
		return model.Draft{}, ambiguousError{ref: ref, matches: ids}
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraft(r rowScanner) (model.Draft, error) {
	var (
		d                  model.Draft
		source             string
		answersJSON        string
		gridJSON           string
		created, updatedMs int64
	)
	if err := r.Scan(&d.ID, &d.Name, &source, &answersJSON, &gridJSON, &created, &updatedMs); err != nil {
		return model.Draft{}, err
	}
	d.Source = model.DraftSource(source)
	if err := json.Unmarshal([]byte(answersJSON), &d.Answers); err != nil {
		return model.Draft{}, fmt.Errorf("draft %s: answers: %w", d.ID, err)
	}
	if err := json.Unmarshal([]byte(gridJSON), &d.Grid); err != nil {
		return model.Draft{}, fmt.Errorf("draft %s: grid: %w", d.ID, err)
	}
	d.CreatedAt = time.UnixMilli(created).UTC()
	d.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return d, nil
}
