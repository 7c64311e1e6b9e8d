// Package events publishes request lifecycle events to a Redis stream so
// other services can follow requests without polling the database.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

type EventType string

const (
	RequestCreated   EventType = "request.created"
	RequestUpdated   EventType = "request.status_changed"
	RequestFulfilled EventType = "request.fulfilled"
	DonorResponded   EventType = "request.donor_responded"
)

// RequestEvent is the JSON payload stored under the "data" field of a stream entry.
type RequestEvent struct {
	ID             string                `json:"id"`
	Type           EventType             `json:"type"`
	RequestID      int32                 `json:"request_id"`
	Status         domain.RequestStatus  `json:"status"`
	BloodGroup     domain.BloodGroup     `json:"blood_group"`
	Quantity       int32                 `json:"quantity"`
	DonorID        int32                 `json:"donor_id,omitempty"`
	BloodBankID    int32                 `json:"blood_bank_id,omitempty"`
	MatchedDonors  int                   `json:"matched_donors,omitempty"`
	ResponseStatus domain.ResponseStatus `json:"response_status,omitempty"`
	OccurredAt     time.Time             `json:"occurred_at"`
}

// NewRequestEvent fills the common fields from req.
func NewRequestEvent(t EventType, req *domain.BloodRequest, at time.Time) RequestEvent {
	return RequestEvent{
		ID:         uuid.NewString(),
		Type:       t,
		RequestID:  req.ID,
		Status:     req.Status,
		BloodGroup: req.BloodGroupNeeded,
		Quantity:   req.Quantity,
		OccurredAt: at,
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev RequestEvent) error
}

type streamPublisher struct {
	client  *redis.Client
	stream  string
	maxLen  int64
	timeout time.Duration
}

// NewStreamPublisher appends events to stream, trimming it to roughly maxLen
// entries. Each XADD is bounded by timeout when it is positive.
func NewStreamPublisher(client *redis.Client, stream string, maxLen int64, timeout time.Duration) Publisher {
	return &streamPublisher{client: client, stream: stream, maxLen: maxLen, timeout: timeout}
}

func (p *streamPublisher) Publish(ctx context.Context, ev RequestEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	logger.ExternalServiceCall("redis", "XADD", "stream", p.stream, "type", ev.Type, "requestID", ev.RequestID)
	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: p.maxLen > 0,
		Values: map[string]interface{}{
			"type":      string(ev.Type),
			"data":      string(payload),
			"timestamp": ev.OccurredAt.Unix(),
		},
	}).Result()
	logger.ExternalServiceResult("redis", "XADD", err, "entryID", id)
	return err
}

type nopPublisher struct{}

// NewNopPublisher returns a Publisher that drops every event.
func NewNopPublisher() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, RequestEvent) error { return nil }
