package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"github.com/iliyamo/shop-backend/internal/model"
)

// MySQLProductStore persists products in the 'products' table.
type MySQLProductStore struct{ DB *sql.DB }

func NewMySQLProductStore(db *sql.DB) *MySQLProductStore { return &MySQLProductStore{DB: db} }

func (r *MySQLProductStore) Create(ctx context.Context, p model.Product) (model.Product, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO products (title, price, description, image, created_at) VALUES (?,?,?,?,?)",
		p.Title, p.Price, p.Description, p.Image, p.CreatedAt)
	if err != nil {
		return model.Product{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Product{}, err
	}
	p.ID = strconv.FormatInt(id, 10)
	return p, nil
}

func (r *MySQLProductStore) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,title,price,description,image,created_at FROM products ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Product{}
	for rows.Next() {
		var (
			p  model.Product
			id uint64
		)
		if err := rows.Scan(&id, &p.Title, &p.Price, &p.Description, &p.Image, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.ID = strconv.FormatUint(id, 10)
		out = append(out, p)
	}
	return out, rows.Err()
}

// MySQLOrderStore persists orders in the 'orders' table. Items are kept as
// a JSON array of display strings.
type MySQLOrderStore struct{ DB *sql.DB }

func NewMySQLOrderStore(db *sql.DB) *MySQLOrderStore { return &MySQLOrderStore{DB: db} }

func (r *MySQLOrderStore) Create(ctx context.Context, o model.Order) (model.Order, error) {
	uid, ok := parseID(o.UserID)
	if !ok {
		return model.Order{}, ErrNotFound
	}
	items, err := json.Marshal(o.Items)
	if err != nil {
		return model.Order{}, err
	}
	o.Date = o.Date.Truncate(time.Millisecond)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO orders (user_id, date, status, items, total) VALUES (?,?,?,?,?)",
		uid, o.Date, o.Status, string(items), o.Total)
	if err != nil {
		return model.Order{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Order{}, err
	}
	o.ID = strconv.FormatInt(id, 10)
	return o, nil
}

func (r *MySQLOrderStore) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	out := []model.Order{}
	uid, ok := parseID(userID)
	if !ok {
		return out, nil
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,date,status,items,total FROM orders WHERE user_id=? ORDER BY date DESC, id DESC", uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			o         model.Order
			id, owner uint64
			items     string
		)
		if err := rows.Scan(&id, &owner, &o.Date, &o.Status, &items, &o.Total); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
			return nil, err
		}
		o.ID = strconv.FormatUint(id, 10)
		o.UserID = strconv.FormatUint(owner, 10)
		out = append(out, o)
	}
	return out, rows.Err()
}
