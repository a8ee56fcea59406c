package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/julianstephens/nowaste/internal/models"
)

const (
	metaScore           = "score"
	metaTaskIDCounter   = "task_id_counter"
	metaRewardIDCounter = "reward_id_counter"
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

	rewardRows, err := s.db.Query(`
		SELECT id, name, required_score, claimed
		FROM rewards ORDER BY position`)
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
		case metaScore:
			snap.Score = n
		case metaTaskIDCounter:
			snap.TaskIDCounter = n
		case metaRewardIDCounter:
			snap.RewardIDCounter = n
		}
	}
	if err := metaRows.Err(); err != nil {
		return models.Snapshot{}, err
	}

	return snap.Normalize(), nil
}

// Save rewrites all tables inside one transaction.
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
	taskStmt, err := tx.Prepare(`
		INSERT INTO tasks (id, position, title, deadline, priority, completed, completed_date, feeling)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer taskStmt.Close()

	for i, t := range snap.Tasks {
		if _, err := taskStmt.Exec(t.ID, i, t.Title, t.Deadline, string(t.Priority), t.Completed, nullable(t.CompletedDate), nullable(t.Feeling)); err != nil {
			return fmt.Errorf("failed to save task %d: %w", t.ID, err)
		}
	}

	if _, err := tx.Exec("DELETE FROM rewards"); err != nil {
		return fmt.Errorf("failed to clear rewards: %w", err)
	}
	rewardStmt, err := tx.Prepare(`
		INSERT INTO rewards (id, position, name, required_score, claimed)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer rewardStmt.Close()

	for i, r := range snap.Rewards {
		if _, err := rewardStmt.Exec(r.ID, i, r.Name, r.RequiredScore, r.Claimed); err != nil {
			return fmt.Errorf("failed to save reward %d: %w", r.ID, err)
		}
	}

	meta := map[string]int{
		metaScore:           snap.Score,
		metaTaskIDCounter:   snap.TaskIDCounter,
		metaRewardIDCounter: snap.RewardIDCounter,
	}
	for key, value := range meta {
		if _, err := tx.Exec(
			"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
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
