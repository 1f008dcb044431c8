package ledger

import "time"

// StreamKind distinguishes aid streams from service subscriptions.
type StreamKind string

const (
	KindAid          StreamKind = "aid"
	KindSubscription StreamKind = "subscription"
)

// StreamStatus is the lifecycle state of a token stream.
type StreamStatus string

const (
	StatusActive    StreamStatus = "active"
	StatusCompleted StreamStatus = "completed"
)

// StreamRecord is a token stream released linearly over [StartTime, EndTime].
type StreamRecord struct {
	ID            string       `json:"id"`
	Kind          StreamKind   `json:"kind"`
	Sender        string       `json:"sender"`
	Recipient     string       `json:"recipient"`
	AidType       string       `json:"aid_type,omitempty"`
	Location      string       `json:"location,omitempty"`
	ServiceType   string       `json:"service_type,omitempty"`
	Amount        float64      `json:"amount"`
	AmountWei     string       `json:"amount_wei"`
	RatePerSecond string       `json:"rate_per_second"`
	StartTime     time.Time    `json:"start_time"`
	EndTime       time.Time    `json:"end_time"`
	Status        StreamStatus `json:"status"`
	Released      float64      `json:"released"`
	Remaining     float64      `json:"remaining"`
}

// Delegation grants a delegatee a permission on behalf of a wallet.
type Delegation struct {
	ID             string    `json:"id"`
	Delegator      string    `json:"delegator"`
	Delegatee      string    `json:"delegatee"`
	PermissionType string    `json:"permission_type"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	Status         string    `json:"status"`
	TxHash         string    `json:"tx_hash"`
}
