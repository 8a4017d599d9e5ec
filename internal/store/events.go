package store

import "fmt"

// AddCareEvent appends to a plant's care history and wakes live queries so
// views showing the history reload it.
func (s *Store) AddCareEvent(plantID int64, kind CareKind, at int64) (*CareEvent, error) {
	res, err := s.db.Exec(
		`INSERT INTO care_events (plant_id, kind, at) VALUES (?, ?, ?)`,
		plantID, string(kind), at,
	)
	if err != nil {
		return nil, fmt.Errorf("add care event: %w", err)
	}
	id, _ := res.LastInsertId()
	s.notify()
	return &CareEvent{ID: id, PlantID: plantID, Kind: kind, At: at}, nil
}

// ListCareEvents returns the most recent events of a plant, newest first.
// A limit of 0 returns everything.
func (s *Store) ListCareEvents(plantID int64, limit int) ([]CareEvent, error) {
	query := `SELECT id, plant_id, kind, at FROM care_events WHERE plant_id = ? ORDER BY at DESC, id DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := s.db.Query(query, plantID)
	if err != nil {
		return nil, fmt.Errorf("list care events: %w", err)
	}
	defer rows.Close()

	var events []CareEvent
	for rows.Next() {
		var e CareEvent
		var kind string
		if err := rows.Scan(&e.ID, &e.PlantID, &kind, &e.At); err != nil {
			return nil, err
		}
		e.Kind = CareKind(kind)
		events = append(events, e)
	}
	return events, rows.Err()
}
