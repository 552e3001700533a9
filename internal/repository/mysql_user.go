package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/shop-backend/internal/model"
)

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// MySQLUserStore persists users in the 'users' table.
type MySQLUserStore struct{ DB *sql.DB }

func NewMySQLUserStore(db *sql.DB) *MySQLUserStore { return &MySQLUserStore{DB: db} }

// Create inserts the user and returns its ID.
func (r *MySQLUserStore) Create(ctx context.Context, u model.User) (string, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, created_at) VALUES (?,?,?,?)",
		u.Name, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isDuplicate(err) {
			return "", ErrEmailExists
		}
		return "", err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

// GetByEmail fetches a user by exact email.
func (r *MySQLUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,created_at FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *MySQLUserStore) GetByID(ctx context.Context, id string) (model.User, error) {
	n, ok := parseID(id)
	if !ok {
		return model.User{}, ErrNotFound
	}
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,created_at FROM users WHERE id=? LIMIT 1", n))
}

func (r *MySQLUserStore) ValidID(id string) bool {
	_, ok := parseID(id)
	return ok
}

func (r *MySQLUserStore) scanOne(row *sql.Row) (model.User, error) {
	var (
		u  model.User
		id uint64
	)
	err := row.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.ID = strconv.FormatUint(id, 10)
	return u, nil
}

// NewMySQLStores wires all stores to db.
func NewMySQLStores(db *sql.DB) Stores {
	return Stores{
		Users:    NewMySQLUserStore(db),
		Products: NewMySQLProductStore(db),
		Orders:   NewMySQLOrderStore(db),
	}
}

func parseID(id string) (uint64, bool) {
	n, err := strconv.ParseUint(id, 10, 64)
	return n, err == nil && n > 0
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
