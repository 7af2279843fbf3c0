package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) UpsertIdentity(ctx context.Context, id Identity) error {
	const query = `
INSERT INTO profiles (user_id, email, full_name, picture_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (user_id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = EXCLUDED.full_name,
  picture_url = EXCLUDED.picture_url,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		id.UserID,
		nullableString(id.Email),
		nullableString(id.FullName),
		nullableString(id.PictureURL),
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, userID string) (Profile, error) {
	const query = `
SELECT user_id, email, full_name, picture_url, profile, behavior, current_tools, created_at, updated_at
FROM profiles
WHERE user_id = $1
LIMIT 1`
	var p Profile
	var email, fullName, pictureURL sql.NullString
	var profileRaw, behaviorRaw, toolsRaw []byte
	var updatedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&email,
		&fullName,
		&pictureURL,
		&profileRaw,
		&behaviorRaw,
		&toolsRaw,
		&p.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	p.Email = email.String
	p.FullName = fullName.String
	p.PictureURL = pictureURL.String
	if err := decodeJSON(profileRaw, &p.Profile, "profile"); err != nil {
		return Profile{}, err
	}
	if err := decodeJSON(behaviorRaw, &p.Behavior, "behavior"); err != nil {
		return Profile{}, err
	}
	if err := decodeJSON(toolsRaw, &p.CurrentTools, "current_tools"); err != nil {
		return Profile{}, err
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	} else {
		p.UpdatedAt = time.Now().UTC()
	}
	return p, nil
}

func (r *PGRepo) Save(ctx context.Context, p Profile) error {
	const query = `
INSERT INTO profiles (user_id, email, full_name, picture_url, profile, behavior, current_tools, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
ON CONFLICT (user_id) DO UPDATE SET
  email = COALESCE(EXCLUDED.email, profiles.email),
  full_name = COALESCE(EXCLUDED.full_name, profiles.full_name),
  picture_url = COALESCE(EXCLUDED.picture_url, profiles.picture_url),
  profile = EXCLUDED.profile,
  behavior = EXCLUDED.behavior,
  current_tools = EXCLUDED.current_tools,
  updated_at = now()`
	profileRaw, err := json.Marshal(p.Profile)
	if err != nil {
		return err
	}
	behaviorRaw, err := json.Marshal(p.Behavior)
	if err != nil {
		return err
	}
	tools := p.CurrentTools
	if tools == nil {
		tools = []string{}
	}
	toolsRaw, err := json.Marshal(tools)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		p.UserID,
		nullableString(p.Email),
		nullableString(p.FullName),
		nullableString(p.PictureURL),
		string(profileRaw),
		string(behaviorRaw),
		string(toolsRaw),
	)
	return err
}

func decodeJSON(raw []byte, dest any, column string) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s: %w", column, err)
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
