package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const plantColumns = `id, catalog_id, name, species_family, location,
	watering_interval_days, fertilizing_interval_days, repotting_interval_months,
	last_watered_at, last_fertilized_at, last_repotted_at, image_url, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlant(r rowScanner) (*Plant, error) {
	p := &Plant{}
	var catalogID sql.NullInt64
	var family sql.NullString
	var createdAt, updatedAt string
	err := r.Scan(
		&p.ID, &catalogID, &p.Name, &family, &p.Location,
		&p.WateringIntervalDays, &p.FertilizingIntervalDays, &p.RepottingIntervalMonths,
		&p.LastWateredAt, &p.LastFertilizedAt, &p.LastRepottedAt, &p.ImageURL,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if catalogID.Valid {
		p.CatalogID = &catalogID.Int64
	}
	if family.Valid {
		p.SpeciesFamily = &family.String
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return p, nil
}

// InsertPlant stores p as a new row and returns it with its assigned ID.
// p.ID is ignored.
func (s *Store) InsertPlant(p Plant) (*Plant, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO plants (catalog_id, name, species_family, location,
			watering_interval_days, fertilizing_interval_days, repotting_interval_months,
			last_watered_at, last_fertilized_at, last_repotted_at, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CatalogID, p.Name, p.SpeciesFamily, p.Location,
		p.WateringIntervalDays, p.FertilizingIntervalDays, p.RepottingIntervalMonths,
		p.LastWateredAt, p.LastFertilizedAt, p.LastRepottedAt, p.ImageURL, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert plant: %w", err)
	}
	id, _ := res.LastInsertId()
	s.notify()
	return s.GetPlant(id)
}

// UpdatePlant replaces every column of the row identified by p.ID.
func (s *Store) UpdatePlant(p Plant) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE plants SET catalog_id = ?, name = ?, species_family = ?, location = ?,
			watering_interval_days = ?, fertilizing_interval_days = ?, repotting_interval_months = ?,
			last_watered_at = ?, last_fertilized_at = ?, last_repotted_at = ?, image_url = ?, updated_at = ?
		 WHERE id = ?`,
		p.CatalogID, p.Name, p.SpeciesFamily, p.Location,
		p.WateringIntervalDays, p.FertilizingIntervalDays, p.RepottingIntervalMonths,
		p.LastWateredAt, p.LastFertilizedAt, p.LastRepottedAt, p.ImageURL, now, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update plant %d: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update plant %d: %w", p.ID, ErrNotFound)
	}
	s.notify()
	return nil
}

// DeletePlant removes the plant and its care history.
func (s *Store) DeletePlant(id int64) error {
	res, err := s.db.Exec(`DELETE FROM plants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete plant %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete plant %d: %w", id, ErrNotFound)
	}
	s.notify()
	return nil
}

func (s *Store) GetPlant(id int64) (*Plant, error) {
	p, err := scanPlant(s.db.QueryRow(`SELECT `+plantColumns+` FROM plants WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get plant %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get plant %d: %w", id, err)
	}
	return p, nil
}

// ListPlants returns all plants ordered by name.
func (s *Store) ListPlants() ([]Plant, error) {
	rows, err := s.db.Query(`SELECT ` + plantColumns + ` FROM plants ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list plants: %w", err)
	}
	defer rows.Close()

	var plants []Plant
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, err
		}
		plants = append(plants, *p)
	}
	return plants, rows.Err()
}
