package models

import "time"

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

const (
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

const (
	AuctionActive    = "active"
	AuctionCompleted = "completed"
)

// Transaction types. The transactions table is the coin ledger: a user's
// balance is always the sum of their entries, never a stored field.
const (
	TxTaskReward     = "task_reward"
	TxAuctionPayment = "auction_payment"
)

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Phone        string    `db:"phone" json:"phone"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Task struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	DueDate     time.Time `db:"due_date" json:"due_date"`
	CoinsReward int64     `db:"coins_reward" json:"coins_reward"`
	CreatedBy   int64     `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Submission struct {
	ID           int64     `db:"id" json:"id"`
	TaskID       int64     `db:"task_id" json:"task_id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	Title        string    `db:"title" json:"title"`
	Comment      *string   `db:"comment" json:"comment,omitempty"`
	FileURL      string    `db:"file_url" json:"file_url"`
	Status       string    `db:"status" json:"status"`
	CoinsAwarded *int64    `db:"coins_awarded" json:"coins_awarded,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Auction struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	StartDate   time.Time `db:"start_date" json:"start_date"`
	EndDate     time.Time `db:"end_date" json:"end_date"`
	MinimumBid  int64     `db:"minimum_bid" json:"minimum_bid"`
	CreatedBy   int64     `db:"created_by" json:"created_by"`
	Status      string    `db:"status" json:"status"`
	WinnerID    *int64    `db:"winner_id" json:"winner_id,omitempty"`
	WinningBid  *int64    `db:"winning_bid" json:"winning_bid,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Bid struct {
	ID        int64     `db:"id" json:"id"`
	AuctionID int64     `db:"auction_id" json:"auction_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Amount    int64     `db:"amount" json:"amount"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Transaction struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Amount      int64     `db:"amount" json:"amount"`
	Type        string    `db:"type" json:"type"`
	Description string    `db:"description" json:"description"`
	RelatedID   *int64    `db:"related_id" json:"related_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// IsOpen reports whether the auction accepts bids at the given instant.
// An active auction outside its window stays active until explicitly
// closed; it is only excluded from open listings and rejects new bids.
func (a Auction) IsOpen(now time.Time) bool {
	return a.Status == AuctionActive && !now.Before(a.StartDate) && !now.After(a.EndDate)
}
