package emit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dgallion1/readinglist/internal/reading"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE reading_groups (
	id               INTEGER PRIMARY KEY,
	slug             TEXT NOT NULL,
	title            TEXT NOT NULL,
	subtitle         TEXT NOT NULL,
	long_description TEXT NOT NULL,
	theme_tags       TEXT NOT NULL
);
CREATE TABLE readings (
	slug              TEXT PRIMARY KEY,
	position          INTEGER NOT NULL,
	group_slug        TEXT NOT NULL,
	section_number    INTEGER NOT NULL,
	title             TEXT NOT NULL,
	authors           TEXT NOT NULL,
	year              INTEGER NOT NULL,
	venue             TEXT NOT NULL,
	full_citation     TEXT NOT NULL,
	doi               TEXT,
	pdf               TEXT,
	url               TEXT,
	one_line_summary  TEXT NOT NULL,
	core_idea         TEXT NOT NULL,
	question_answered TEXT NOT NULL,
	why_it_matters    TEXT NOT NULL,
	needs_link        INTEGER NOT NULL
);
CREATE INDEX readings_group_slug ON readings(group_slug);
`

// SQLiteWriter builds a SQLite database holding the bibliography and streams
// the database file to the destination.
type SQLiteWriter struct{}

func (SQLiteWriter) ContentType() string { return "application/vnd.sqlite3" }

func (s SQLiteWriter) Write(ctx context.Context, w io.Writer, bib reading.Bibliography) error {
	tmp, err := os.CreateTemp("", "readinglist-*.db")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	if err := WriteSQLiteFile(ctx, path, bib); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("copy database: %w", err)
	}
	return nil
}

// WriteSQLiteFile writes bib into a fresh database at path. Existing tables
// with the same names are replaced.
func WriteSQLiteFile(ctx context.Context, path string, bib reading.Bibliography) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS readings; DROP TABLE IF EXISTS reading_groups;"); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	if _, err := tx.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	for _, g := range bib.Groups {
		tags, err := json.Marshal(nonNilStrings(g.ThemeTags))
		if err != nil {
			return fmt.Errorf("marshal theme tags: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reading_groups (slug, title, subtitle, long_description, theme_tags) VALUES (?, ?, ?, ?, ?)`,
			g.Slug, g.Title, g.Subtitle, g.LongDescription, string(tags)); err != nil {
			return fmt.Errorf("insert group %q: %w", g.Slug, err)
		}
	}

	for i, r := range bib.Readings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO readings (slug, position, group_slug, section_number, title, authors, year, venue,
				full_citation, doi, pdf, url, one_line_summary, core_idea, question_answered, why_it_matters, needs_link)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.Slug, i, r.GroupSlug, r.SectionNumber, r.Title, r.Authors, r.Year, r.Venue,
			r.FullCitation, nullString(r.ExternalLinks.DOI), nullString(r.ExternalLinks.PDF), nullString(r.ExternalLinks.URL),
			r.OneLineSummary, r.Discussion.CoreIdea, r.Discussion.QuestionAnswered, r.Discussion.WhyItMatters,
			r.NeedsLink); err != nil {
			return fmt.Errorf("insert reading %q: %w", r.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
