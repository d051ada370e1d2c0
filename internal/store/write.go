package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/modcat/internal/catalog"
)

// timeText encodes a timestamp for storage. The zero time becomes the
// empty string so absent dates round-trip as absent.
func timeText(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Save replaces the stored snapshot with the given catalog. The whole
// replacement runs in one transaction, so a crash mid-save leaves the
// previous snapshot intact.
func (s *Store) Save(ctx context.Context, cat *catalog.Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if err := clearSnapshot(ctx, tx); err != nil {
		return err
	}
	if err := writeInfo(ctx, tx, cat); err != nil {
		return err
	}
	if err := writeMods(ctx, tx, cat); err != nil {
		return err
	}
	if err := writeAuthors(ctx, tx, cat); err != nil {
		return err
	}
	if err := writeGroups(ctx, tx, cat); err != nil {
		return err
	}
	if err := writeCompatibilities(ctx, tx, cat); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func clearSnapshot(ctx context.Context, tx *sql.Tx) error {
	// Child tables first so foreign keys stay satisfied throughout.
	tables := []string{
		"mod_statuses",
		"mod_links",
		"mod_dlcs",
		"mod_mod_exclusions",
		"group_members",
		"suppressed_warnings",
		"compatibilities",
		"mods",
		"authors",
		"groups",
		"catalog_info",
	}
	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func writeInfo(ctx context.Context, tx *sql.Tx, cat *catalog.Catalog) error {
	fields := map[string]string{
		"game_version": cat.GameVersion,
		"note":         cat.Note,
		"header_text":  cat.HeaderText,
		"footer_text":  cat.FooterText,
	}
	for key, value := range fields {
		if value == "" {
			continue
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO catalog_info (key, value) VALUES (?, ?)", key, value)
		if err != nil {
			return fmt.Errorf("write catalog info %s: %w", key, err)
		}
	}
	return nil
}

func writeMods(ctx context.Context, tx *sql.Tx, cat *catalog.Catalog) error {
	insertMod, err := tx.PrepareContext(ctx, `
		INSERT INTO mods (
			id, name, author_id, author_url, published, updated,
			stability, stability_note, note, game_version, source_url,
			excl_source_url, excl_game_version, excl_no_description
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare mod insert: %w", err)
	}
	defer insertMod.Close()

	for _, m := range cat.Mods() {
		_, err := insertMod.ExecContext(ctx,
			int64(m.ID), m.Name, int64(m.AuthorID), m.AuthorURL,
			timeText(m.Published), timeText(m.Updated),
			m.Stability.String(), m.StabilityNote, m.Note,
			m.GameVersion, m.SourceURL,
			boolInt(m.ExclusionSourceURL),
			boolInt(m.ExclusionGameVersion),
			boolInt(m.ExclusionNoDescription),
		)
		if err != nil {
			return fmt.Errorf("write mod %d: %w", m.ID, err)
		}
		if err := writeModDetail(ctx, tx, m); err != nil {
			return err
		}
	}

	for id := range cat.SuppressedWarnings {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO suppressed_warnings (mod_id) VALUES (?)", int64(id))
		if err != nil {
			return fmt.Errorf("write suppressed warning %d: %w", id, err)
		}
	}
	return nil
}

func writeModDetail(ctx context.Context, tx *sql.Tx, m *catalog.Mod) error {
	for status := range m.Statuses {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO mod_statuses (mod_id, status) VALUES (?, ?)",
			int64(m.ID), status.String())
		if err != nil {
			return fmt.Errorf("write status of mod %d: %w", m.ID, err)
		}
	}

	links := map[catalog.LinkKind]map[uint64]bool{
		catalog.LinkRequired:       m.RequiredMods,
		catalog.LinkSuccessor:      m.Successors,
		catalog.LinkAlternative:    m.Alternatives,
		catalog.LinkRecommendation: m.Recommendations,
	}
	for kind, set := range links {
		for target := range set {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO mod_links (mod_id, target_id, kind) VALUES (?, ?, ?)",
				int64(m.ID), int64(target), int(kind))
			if err != nil {
				return fmt.Errorf("write link of mod %d: %w", m.ID, err)
			}
		}
	}

	dlcs := make(map[string]bool, len(m.RequiredDLC)+len(m.ExclusionDLC))
	for dlc := range m.RequiredDLC {
		dlcs[dlc] = true
	}
	for dlc := range m.ExclusionDLC {
		dlcs[dlc] = true
	}
	for dlc := range dlcs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO mod_dlcs (mod_id, dlc, required, excluded) VALUES (?, ?, ?, ?)",
			int64(m.ID), dlc, boolInt(m.RequiredDLC[dlc]), boolInt(m.ExclusionDLC[dlc]))
		if err != nil {
			return fmt.Errorf("write DLC of mod %d: %w", m.ID, err)
		}
	}

	for target := range m.ExclusionMods {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO mod_mod_exclusions (mod_id, target_id) VALUES (?, ?)",
			int64(m.ID), int64(target))
		if err != nil {
			return fmt.Errorf("write mod exclusion of mod %d: %w", m.ID, err)
		}
	}
	return nil
}

func writeAuthors(ctx context.Context, tx *sql.Tx, cat *catalog.Catalog) error {
	for _, a := range cat.Authors() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO authors (id, custom_url, name, last_seen, retired, excl_retired)
			VALUES (?, ?, ?, ?, ?, ?)`,
			int64(a.ID), a.CustomURL, a.Name, timeText(a.LastSeen),
			boolInt(a.Retired), boolInt(a.ExclusionRetired))
		if err != nil {
			return fmt.Errorf("write author %s: %w", a.Key(), err)
		}
	}
	return nil
}

func writeGroups(ctx context.Context, tx *sql.Tx, cat *catalog.Catalog) error {
	for _, g := range cat.Groups() {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO groups (id, name) VALUES (?, ?)", int64(g.ID), g.Name); err != nil {
			return fmt.Errorf("write group %d: %w", g.ID, err)
		}
		for member := range g.Members {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO group_members (group_id, mod_id) VALUES (?, ?)",
				int64(g.ID), int64(member))
			if err != nil {
				return fmt.Errorf("write member of group %d: %w", g.ID, err)
			}
		}
	}
	return nil
}

func writeCompatibilities(ctx context.Context, tx *sql.Tx, cat *catalog.Catalog) error {
	for _, comp := range cat.Compatibilities() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO compatibilities (first_id, second_id, status, note)
			VALUES (?, ?, ?, ?)`,
			int64(comp.FirstID), int64(comp.SecondID), comp.Status.String(), comp.Note)
		if err != nil {
			return fmt.Errorf("write compatibility %d/%d: %w", comp.FirstID, comp.SecondID, err)
		}
	}
	return nil
}
