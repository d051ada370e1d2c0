package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/modcat/internal/catalog"
)

// parseTime decodes a stored timestamp. The empty string maps back to
// the zero time.
func parseTime(text string) (time.Time, error) {
	if text == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, text)
}

// Load reads the stored snapshot into a fresh catalog. An empty
// database yields an empty catalog, not an error.
func (s *Store) Load(ctx context.Context) (*catalog.Catalog, error) {
	cat := catalog.New()

	if err := s.readInfo(ctx, cat); err != nil {
		return nil, err
	}
	if err := s.readMods(ctx, cat); err != nil {
		return nil, err
	}
	if err := s.readAuthors(ctx, cat); err != nil {
		return nil, err
	}
	if err := s.readGroups(ctx, cat); err != nil {
		return nil, err
	}
	if err := s.readCompatibilities(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *Store) readInfo(ctx context.Context, cat *catalog.Catalog) error {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM catalog_info")
	if err != nil {
		return fmt.Errorf("read catalog info: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("scan catalog info: %w", err)
		}
		switch key {
		case "game_version":
			cat.GameVersion = value
		case "note":
			cat.Note = value
		case "header_text":
			cat.HeaderText = value
		case "footer_text":
			cat.FooterText = value
		}
	}
	return rows.Err()
}

func (s *Store) readMods(ctx context.Context, cat *catalog.Catalog) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, author_id, author_url, published, updated,
		       stability, stability_note, note, game_version, source_url,
		       excl_source_url, excl_game_version, excl_no_description
		FROM mods`)
	if err != nil {
		return fmt.Errorf("read mods: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, authorID                       int64
			published, updated, stability      string
			exclSource, exclVersion, exclDescr int
		)
		m := catalog.NewMod(0)
		err := rows.Scan(&id, &m.Name, &authorID, &m.AuthorURL,
			&published, &updated, &stability, &m.StabilityNote, &m.Note,
			&m.GameVersion, &m.SourceURL,
			&exclSource, &exclVersion, &exclDescr)
		if err != nil {
			return fmt.Errorf("scan mod: %w", err)
		}

		m.ID = uint64(id)
		m.AuthorID = uint64(authorID)
		if m.Published, err = parseTime(published); err != nil {
			return fmt.Errorf("mod %d published date: %w", m.ID, err)
		}
		if m.Updated, err = parseTime(updated); err != nil {
			return fmt.Errorf("mod %d updated date: %w", m.ID, err)
		}
		st, ok := catalog.ParseStability(stability)
		if !ok {
			return fmt.Errorf("mod %d has unknown stability %q", m.ID, stability)
		}
		m.Stability = st
		m.ExclusionSourceURL = exclSource != 0
		m.ExclusionGameVersion = exclVersion != 0
		m.ExclusionNoDescription = exclDescr != 0

		if err := cat.AddMod(m); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if err := s.readModStatuses(ctx, cat); err != nil {
		return err
	}
	if err := s.readModLinks(ctx, cat); err != nil {
		return err
	}
	if err := s.readModDLCs(ctx, cat); err != nil {
		return err
	}
	if err := s.readModExclusions(ctx, cat); err != nil {
		return err
	}
	return s.readSuppressedWarnings(ctx, cat)
}

// modOf resolves a detail row's owning mod; detail tables reference
// mods by foreign key, so a miss indicates a corrupted snapshot.
func modOf(cat *catalog.Catalog, id int64, table string) (*catalog.Mod, error) {
	m := cat.Mod(uint64(id))
	if m == nil {
		return nil, fmt.Errorf("%s references unknown mod %d", table, id)
	}
	return m, nil
}

func (s *Store) readModStatuses(ctx context.Context, cat *catalog.Catalog) error {
	rows, err := s.db.QueryContext(ctx, "SELECT mod_id, status FROM mod_statuses")
	if err != nil {
		return fmt.Errorf("read mod statuses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    int64
			token string
		)
		if err := rows.Scan(&id, &token); err != nil {
			return fmt.Errorf("scan mod status: %w", err)
		}
		m, err := modOf(cat, id, "mod_statuses")
		if err != nil {
			return err
		}
		status, ok := catalog.ParseStatus(token)
		if !ok {
			return fmt.Errorf("mod %d has unknown status %q", id, token)
		}
		m.Statuses[status] = true
	}
	return rows.Err()
}

func (s *Store) readModLinks(ctx context.Context, cat *catalog.Catalog) error {
	rows, err := s.db.QueryContext(ctx, "SELECT mod_id, target_id, kind FROM mod_links")
	if err != nil {
		return fmt.Errorf("read mod links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, target int64
		var kind int
		if err := rows.Scan(&id, &target, &kind); err != nil {
			return fmt.Errorf("scan mod link: %w", err)
		}
		m, err := modOf(cat, id, "mod_links")
		if err != nil {
			return err
		}
		switch catalog.LinkKind(kind) {
		case catalog.LinkRequired:
			m.RequiredMods[uint64(target)] = true
		case catalog.LinkSuccessor:
			m.Successors[uint64(target)] = true
		case catalog.LinkAlternative:
			m.Alternatives[uint64(target)] = true
		case catalog.LinkRecommendation:
			m.Recommendations[uint64(target)] = true
		default:
			return fmt.Errorf("mod %d has unknown link kind %d", id, kind)
		}
	}
	return rows.Err()
}

func (s *Store) readModDLCs(ctx context.Context, cat *catalog.Catalog) error {
	rows, err := s.db.QueryContext(ctx, "SELECT mod_id, dlc, required, excluded FROM mod_dlcs")
	if err != nil {
		return fmt.Errorf("read mod DLCs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                 int64
			dlc                string
			required, excluded int
		)
		if err := rows.Scan(&id, &dlc, &required, &excluded); err != nil {
			return fmt.Errorf("scan mod DLC: %w", err)
		}
		m, err := modOf(cat, id, "mod_dlcs")
		if err != nil {
			return err
		}
		if required != 0 {
			m.RequiredDLC[dlc] = true
		}
		if excluded != 0 {
			m.ExclusionDLC[dlc] = true
		}
	}
	return rows.Err()
}

func (s *Store) readModExclusions(ctx context.Context, cat *catalog.Catalog) error {
	rows, err := s.db.QueryContext(ctx, "SELECT mod_id, target_id FROM mod_mod_exclusions")
	if err != nil {
		return fmt.Errorf("read mod exclusions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, target int64
		if err := rows.Scan(&id, &target); err != nil {
			return fmt.Errorf("scan mod exclusion: %w", err)
		}
		m, err := modOf(cat, id, "mod_mod_exclusions")
		if err != nil {
			return err
		}
		m.ExclusionMods[uint64(target)] = true
	}
	return rows.Err()
}

func (s *Store) readSuppressedWarnings(ctx context.Context, cat *catalog.Catalog) error {
	rows, err := s.db.QueryContext(ctx, "SELECT mod_id FROM suppressed_warnings")
	if err != nil {
		return fmt.Errorf("read suppressed warnings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan suppressed warning: %w", err)
		}
		cat.SuppressedWarnings[uint64(id)] = true
	}
	return rows.Err()
}

func (s *Store) readAuthors(ctx context.Context, cat *catalog.Catalog) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, custom_url, name, last_seen, retired, excl_retired
		FROM authors`)
	if err != nil {
		return fmt.Errorf("read authors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                 int64
			lastSeen           string
			retired, exclusion int
		)
		a := &catalog.Author{}
		if err := rows.Scan(&id, &a.CustomURL, &a.Name, &lastSeen, &retired, &exclusion); err != nil {
			return fmt.Errorf("scan author: %w", err)
		}
		a.ID = uint64(id)
		if a.LastSeen, err = parseTime(lastSeen); err != nil {
			return fmt.Errorf("author %s last seen date: %w", a.Key(), err)
		}
		a.Retired = retired != 0
		a.ExclusionRetired = exclusion != 0

		if err := cat.AddAuthor(a); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Store) readGroups(ctx context.Context, cat *catalog.Catalog) error {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM groups")
	if err != nil {
		return fmt.Errorf("read groups: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return fmt.Errorf("scan group: %w", err)
		}
		cat.RestoreGroup(catalog.NewGroup(uint64(id), name, nil))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	members, err := s.db.QueryContext(ctx, "SELECT group_id, mod_id FROM group_members")
	if err != nil {
		return fmt.Errorf("read group members: %w", err)
	}
	defer members.Close()

	for members.Next() {
		var groupID, modID int64
		if err := members.Scan(&groupID, &modID); err != nil {
			return fmt.Errorf("scan group member: %w", err)
		}
		g := cat.Group(uint64(groupID))
		if g == nil {
			return fmt.Errorf("group_members references unknown group %d", groupID)
		}
		g.Members[uint64(modID)] = true
	}
	return members.Err()
}

func (s *Store) readCompatibilities(ctx context.Context, cat *catalog.Catalog) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT first_id, second_id, status, note
		FROM compatibilities ORDER BY seq`)
	if err != nil {
		return fmt.Errorf("read compatibilities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			first, second int64
			token, note   string
		)
		if err := rows.Scan(&first, &second, &token, &note); err != nil {
			return fmt.Errorf("scan compatibility: %w", err)
		}
		status, ok := catalog.ParseCompatibilityStatus(token)
		if !ok {
			return fmt.Errorf("compatibility %d/%d has unknown status %q", first, second, token)
		}
		cat.AddCompatibility(&catalog.Compatibility{
			FirstID:  uint64(first),
			SecondID: uint64(second),
			Status:   status,
			Note:     note,
		})
	}
	return rows.Err()
}
