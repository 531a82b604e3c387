package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// User is the users table row.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Sip is the sips table row.
type Sip struct {
	ID            int64
	UserID        string
	SchemeName    string
	MonthlyAmount int64
	StartDate     string
	ExportStatus  string
	CreatedAt     time.Time
}

const createUser = `
INSERT INTO users (id, username, password_hash)
VALUES (?, ?, ?)
RETURNING id, username, password_hash, created_at
`

type CreateUserParams struct {
	ID           string
	Username     string
	PasswordHash string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser, arg.ID, arg.Username, arg.PasswordHash)
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const getUser = `
SELECT id, username, password_hash, created_at
FROM users
WHERE id = ?
`

func (q *Queries) GetUser(ctx context.Context, id string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUser, id)
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const countUserByID = `
SELECT COUNT(*) FROM users WHERE id = ?
`

func (q *Queries) CountUserByID(ctx context.Context, id string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countUserByID, id)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createSip = `
INSERT INTO sips (user_id, scheme_name, monthly_amount, start_date)
VALUES (?, ?, ?, ?)
RETURNING id, user_id, scheme_name, monthly_amount, start_date, export_status, created_at
`

type CreateSipParams struct {
	UserID        string
	SchemeName    string
	MonthlyAmount int64
	StartDate     string
}

func (q *Queries) CreateSip(ctx context.Context, arg CreateSipParams) (Sip, error) {
	row := q.db.QueryRowContext(ctx, createSip,
		arg.UserID, arg.SchemeName, arg.MonthlyAmount, arg.StartDate)
	var s Sip
	err := row.Scan(&s.ID, &s.UserID, &s.SchemeName, &s.MonthlyAmount, &s.StartDate, &s.ExportStatus, &s.CreatedAt)
	return s, err
}

const getSip = `
SELECT id, user_id, scheme_name, monthly_amount, start_date, export_status, created_at
FROM sips
WHERE id = ?
`

func (q *Queries) GetSip(ctx context.Context, id int64) (Sip, error) {
	row := q.db.QueryRowContext(ctx, getSip, id)
	var s Sip
	err := row.Scan(&s.ID, &s.UserID, &s.SchemeName, &s.MonthlyAmount, &s.StartDate, &s.ExportStatus, &s.CreatedAt)
	return s, err
}

const getSipsByUser = `
SELECT id, user_id, scheme_name, monthly_amount, start_date, export_status, created_at
FROM sips
WHERE user_id = ?
ORDER BY id
`

func (q *Queries) GetSipsByUser(ctx context.Context, userID string) ([]Sip, error) {
	rows, err := q.db.QueryContext(ctx, getSipsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Sip
	for rows.Next() {
		var s Sip
		if err := rows.Scan(&s.ID, &s.UserID, &s.SchemeName, &s.MonthlyAmount, &s.StartDate, &s.ExportStatus, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getPendingExportSips = `
SELECT id, user_id, scheme_name, monthly_amount, start_date, export_status, created_at
FROM sips
WHERE export_status = 'pending'
ORDER BY id
LIMIT ?
`

func (q *Queries) GetPendingExportSips(ctx context.Context, limit int64) ([]Sip, error) {
	rows, err := q.db.QueryContext(ctx, getPendingExportSips, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Sip
	for rows.Next() {
		var s Sip
		if err := rows.Scan(&s.ID, &s.UserID, &s.SchemeName, &s.MonthlyAmount, &s.StartDate, &s.ExportStatus, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const markSipExported = `
UPDATE sips SET export_status = 'exported' WHERE id = ?
`

func (q *Queries) MarkSipExported(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markSipExported, id)
	return err
}

const markSipExportError = `
UPDATE sips SET export_status = 'error' WHERE id = ?
`

func (q *Queries) MarkSipExportError(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markSipExportError, id)
	return err
}
