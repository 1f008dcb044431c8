package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/guardianlink/backend/internal/model/ledger"
)

var (
	ErrStreamNotFound  = errors.New("stream not found")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidDuration = errors.New("duration must be positive")
)

const (
	delegationValidity = 30 * 24 * time.Hour
	day                = 24 * time.Hour
	week               = 7 * day
	defaultWeeklyPrice = 0.1
)

// weeklyPrices is the per-week subscription price in ETH.
var weeklyPrices = map[string]float64{
	"anxiety_support":    0.1,
	"depression_support": 0.15,
	"stress_management":  0.12,
	"general_counseling": 0.08,
}

var weiPerEther = new(big.Float).SetPrec(256).SetInt64(1_000_000_000_000_000_000)

// Service is an in-memory stand-in for the token stream and delegation contracts.
type Service struct {
	mu          sync.Mutex
	streams     map[string]*ledger.StreamRecord
	delegations map[string]ledger.Delegation
	now         func() time.Time
}

// NewService creates an empty ledger.
func NewService() *Service {
	return &Service{
		streams:     make(map[string]*ledger.StreamRecord),
		delegations: make(map[string]ledger.Delegation),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Delegate records a permission delegation and returns it with a mock tx hash.
func (s *Service) Delegate(_ context.Context, wallet, delegateTo, permission string) (ledger.Delegation, error) {
	log.Printf("[ledger] delegating %s from %s to %s", permission, wallet, delegateTo)

	now := s.now()
	delegation := ledger.Delegation{
		ID:             "delegation_" + hexID(),
		Delegator:      wallet,
		Delegatee:      delegateTo,
		PermissionType: permission,
		CreatedAt:      now,
		ExpiresAt:      now.Add(delegationValidity),
		Status:         "active",
		TxHash:         "0x" + hexID(),
	}

	s.mu.Lock()
	s.delegations[delegation.ID] = delegation
	s.mu.Unlock()

	return delegation, nil
}

// CreateAidStream opens a stream funding aid of aidType at location.
func (s *Service) CreateAidStream(_ context.Context, wallet, aidType, location string, amount float64, durationDays int) (ledger.StreamRecord, error) {
	if !fitsDuration(durationDays, day) {
		return ledger.StreamRecord{}, ErrInvalidDuration
	}
	log.Printf("[ledger] creating aid stream for %s in %s", aidType, location)

	record, err := s.open("stream_", wallet, amount, time.Duration(durationDays)*day)
	if err != nil {
		return ledger.StreamRecord{}, err
	}
	record.Kind = ledger.KindAid
	record.AidType = aidType
	record.Location = location

	return s.store(record), nil
}

// Subscribe opens a subscription stream priced per week by service type.
func (s *Service) Subscribe(_ context.Context, wallet, serviceType string, durationWeeks int) (ledger.StreamRecord, error) {
	if !fitsDuration(durationWeeks, week) {
		return ledger.StreamRecord{}, ErrInvalidDuration
	}
	log.Printf("[ledger] creating %s subscription for %d weeks", serviceType, durationWeeks)

	amount := SubscriptionPrice(serviceType) * float64(durationWeeks)
	record, err := s.open("subscription_", wallet, amount, time.Duration(durationWeeks)*week)
	if err != nil {
		return ledger.StreamRecord{}, err
	}
	record.Kind = ledger.KindSubscription
	record.ServiceType = serviceType

	return s.store(record), nil
}

// Status returns the stream with released/remaining amounts as of now.
func (s *Service) Status(_ context.Context, streamID string) (ledger.StreamRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.streams[streamID]
	if !ok {
		return ledger.StreamRecord{}, fmt.Errorf("%w: %s", ErrStreamNotFound, streamID)
	}

	now := s.now()
	if !now.Before(record.EndTime) {
		record.Released = record.Amount
		record.Remaining = 0
		record.Status = ledger.StatusCompleted
	} else {
		total := record.EndTime.Sub(record.StartTime).Seconds()
		elapsed := now.Sub(record.StartTime).Seconds()
		if elapsed < 0 {
			elapsed = 0
		}
		record.Released = record.Amount * elapsed / total
		record.Remaining = record.Amount - record.Released
	}

	return *record, nil
}

// SubscriptionPrice returns the weekly price for a service type.
func SubscriptionPrice(serviceType string) float64 {
	if price, ok := weeklyPrices[serviceType]; ok {
		return price
	}
	return defaultWeeklyPrice
}

func (s *Service) open(prefix, wallet string, amount float64, duration time.Duration) (*ledger.StreamRecord, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	wei, err := toWei(amount)
	if err != nil {
		return nil, err
	}
	seconds := big.NewInt(int64(duration / time.Second))
	rate := new(big.Int).Quo(wei, seconds)

	start := s.now()
	return &ledger.StreamRecord{
		ID:            prefix + hexID(),
		Sender:        wallet,
		Recipient:     mockAddress(),
		Amount:        amount,
		AmountWei:     wei.String(),
		RatePerSecond: rate.String(),
		StartTime:     start,
		EndTime:       start.Add(duration),
		Status:        ledger.StatusActive,
		Released:      0,
		Remaining:     amount,
	}, nil
}

func (s *Service) store(record *ledger.StreamRecord) ledger.StreamRecord {
	s.mu.Lock()
	s.streams[record.ID] = record
	s.mu.Unlock()
	return *record
}

// fitsDuration reports whether n units is positive and representable as a time.Duration.
func fitsDuration(n int, unit time.Duration) bool {
	return n > 0 && int64(n) <= math.MaxInt64/int64(unit)
}

// toWei converts an ether amount using its shortest decimal form.
func toWei(amount float64) (*big.Int, error) {
	ether, _, err := big.ParseFloat(strconv.FormatFloat(amount, 'f', -1, 64), 10, 256, big.ToNearestEven)
	if err != nil {
		return nil, fmt.Errorf("convert amount %v: %w", amount, err)
	}
	wei, _ := new(big.Float).SetPrec(256).Mul(ether, weiPerEther).Int(nil)
	return wei, nil
}

func hexID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func mockAddress() string {
	return "0x" + (hexID() + hexID())[:40]
}
