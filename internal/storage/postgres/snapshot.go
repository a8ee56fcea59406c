package postgres

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/julianstephens/nowaste/internal/models"
)

func (s *Store) readSnapshot() (models.Snapshot, error) {
	var snap models.Snapshot

	rows, err := s.db.Query(`
		SELECT id, title, deadline, priority, completed, completed_date, feeling
		FROM tasks ORDER BY position`)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Task
		var priority string
		var completedDate, feeling sql.NullString
		if err := rows.Scan(&t.ID, &t.Title, &t.Deadline, &priority, &t.Completed, &completedDate, &feeling); err != nil {
			return models.Snapshot{}, fmt.Errorf("failed to scan task: %w", err)
		}
		t.Priority = models.Priority(priority)
		if completedDate.Valid {
			t.CompletedDate = &completedDate.String
		}
		if feeling.Valid {
			t.Feeling = &feeling.String
		}
		snap.Tasks = append(snap.Tasks, t)
	}
	if err := rows.Err(); err != nil {
		return models.Snapshot{}, err
	}

	rewardRows, err := s.db.Query(`SELECT id, name, required_score, claimed FROM rewards ORDER BY position`)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to query rewards: %w", err)
	}
	defer rewardRows.Close()

	for rewardRows.Next() {
		var r models.Reward
		if err := rewardRows.Scan(&r.ID, &r.Name, &r.RequiredScore, &r.Claimed); err != nil {
			return models.Snapshot{}, fmt.Errorf("failed to scan reward: %w", err)
		}
		snap.Rewards = append(snap.Rewards, r)
	}
	if err := rewardRows.Err(); err != nil {
		return models.Snapshot{}, err
	}

	metaRows, err := s.db.Query("SELECT key, value FROM meta")
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to query meta: %w", err)
	}
	defer metaRows.Close()

	for metaRows.Next() {
		var key, value string
		if err := metaRows.Scan(&key, &value); err != nil {
			return models.Snapshot{}, err
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return models.Snapshot{}, fmt.Errorf("parsing %s: %w", key, err)
		}
		switch key {
		case "score":
			snap.Score = n
		case "task_id_counter":
			snap.TaskIDCounter = n
		case "reward_id_counter":
			snap.RewardIDCounter = n
		}
	}
	if err := metaRows.Err(); err != nil {
		return models.Snapshot{}, err
	}

	return snap.Normalize(), nil
}

// Save replaces the stored state in one transaction.
func (s *Store) Save(snap models.Snapshot) error {
	if s.db == nil {
		return fmt.Errorf("database not open")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM tasks"); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}
	for i, t := range snap.Tasks {
		if _, err := tx.Exec(`
			INSERT INTO tasks (id, position, title, deadline, priority, completed, completed_date, feeling)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			t.ID, i, t.Title, t.Deadline, string(t.Priority), t.Completed, nullable(t.CompletedDate), nullable(t.Feeling),
		); err != nil {
			return fmt.Errorf("failed to save task %d: %w", t.ID, err)
		}
	}

	if _, err := tx.Exec("DELETE FROM rewards"); err != nil {
		return fmt.Errorf("failed to clear rewards: %w", err)
	}
	for i, r := range snap.Rewards {
		if _, err := tx.Exec(`
			INSERT INTO rewards (id, position, name, required_score, claimed)
			VALUES ($1, $2, $3, $4, $5)`,
			r.ID, i, r.Name, r.RequiredScore, r.Claimed,
		); err != nil {
			return fmt.Errorf("failed to save reward %d: %w", r.ID, err)
		}
	}

	for key, value := range map[string]int{
		"score":             snap.Score,
		"task_id_counter":   snap.TaskIDCounter,
		"reward_id_counter": snap.RewardIDCounter,
	} {
		if _, err := tx.Exec(`
			INSERT INTO meta (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
			key, strconv.Itoa(value),
		); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
	}

	return tx.Commit()
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
