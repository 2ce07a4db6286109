package store

import (
	"context"

	"github.com/Kroz113/JulyCoins/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

type UserInput struct {
	Username     string
	Email        string
	PasswordHash string
	Phone        string
	Role         string
}

func (s *UserStore) Create(ctx context.Context, tx Tx, input UserInput) (models.User, error) {
	var user models.User
	err := tx.GetContext(ctx, &user, `
		INSERT INTO users (username, email, password_hash, phone, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, username, email, password_hash, phone, role, created_at
	`, input.Username, input.Email, input.PasswordHash, input.Phone, input.Role)
	return user, err
}

func (s *UserStore) GetByID(ctx context.Context, userID int64) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, `
		SELECT id, username, email, password_hash, phone, role, created_at
		FROM users WHERE id = $1
	`, userID)
	return user, err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, `
		SELECT id, username, email, password_hash, phone, role, created_at
		FROM users WHERE lower(email) = lower($1)
	`, email)
	return user, err
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, `
		SELECT id, username, email, password_hash, phone, role, created_at
		FROM users WHERE lower(username) = lower($1)
	`, username)
	return user, err
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users, `
		SELECT id, username, email, password_hash, phone, role, created_at
		FROM users ORDER BY id
	`)
	return users, err
}

func (s *UserStore) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE role = $1`, role)
	return count, err
}
