package services

import (
	"context"
	"slipflow/models"
	"slipflow/providers/adminapi"
	"slipflow/providers/ocr"
	"slipflow/realtime"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type stubDecoder struct {
	slip *ocr.DecodedSlip
	err  error
}

func (d *stubDecoder) Decode(ctx context.Context, image []byte) (*ocr.DecodedSlip, error) {
	return d.slip, d.err
}

type stubReceiver struct {
	tenant *models.Tenant
	err    error
}

func (r *stubReceiver) Match(ctx context.Context, receiver ocr.Party) (*models.Tenant, error) {
	return r.tenant, r.err
}

type stubSender struct {
	user     *adminapi.User
	category string
	err      error
}

func (s *stubSender) Match(ctx context.Context, tenant *models.Tenant, names ...string) (*adminapi.User, string, error) {
	return s.user, s.category, s.err
}

type stubCreditor struct {
	outcome *CreditOutcome
	called  int
}

func (c *stubCreditor) Credit(ctx context.Context, tenant *models.Tenant, txn *models.PendingTransaction, force bool) (*CreditOutcome, error) {
	c.called++
	if c.outcome != nil && c.outcome.Success {
		txn.Status = models.StatusCredited
	}
	return c.outcome, nil
}

type stubHub struct {
	events []realtime.Event
}

func (h *stubHub) Broadcast(event realtime.Event) {
	h.events = append(h.events, event)
}

func decodedSlip() *ocr.DecodedSlip {
	return &ocr.DecodedSlip{
		TransRef: "TX1",
		Amount:   decimal.NewFromInt(1000),
		Date:     "2026-08-27T10:00:00+07:00",
		Sender:   ocr.Party{Bank: "SCB", Account: "xxx-777", Name: "นายสมชาย ใจดี"},
		Receiver: ocr.Party{Bank: "KBANK", Account: "xxx-123-xxx-456", Name: "สมหญิง ใจดี"},
	}
}

func autoCreditTenant() *models.Tenant {
	t := tenantWithID(1)
	t.Name = "shop-a"
	t.AutoCredit = true
	return &t
}

func ingestor(store *stubStore, sender senderResolver, credit *stubCreditor, hub *stubHub) *Ingestor {
	return &Ingestor{
		Store:    store,
		Decoder:  &stubDecoder{slip: decodedSlip()},
		Receiver: &stubReceiver{tenant: autoCreditTenant()},
		Sender:   sender,
		Credit:   credit,
		Hub:      hub,
	}
}

func TestIngestMatchedSenderAutoCredits(t *testing.T) {
	store := &stubStore{}
	credit := &stubCreditor{outcome: &CreditOutcome{Attempted: true, Success: true}}
	hub := &stubHub{}
	sender := &stubSender{user: &adminapi.User{ID: 42, Username: "somying"}, category: adminapi.CategoryMember}

	result, err := ingestor(store, sender, credit, hub).Ingest(context.Background(), []byte("img"), models.ChannelManual, nil)
	assert.NoError(t, err)
	assert.Equal(t, "TX1", result.Slip.Ref)
	assert.True(t, result.Sender.Matched)
	assert.Equal(t, 1, credit.called)
	assert.Equal(t, models.StatusCredited, result.Status)
	assert.NotNil(t, result.Credit)

	assert.Len(t, store.created, 1)
	created := store.created[0]
	assert.Equal(t, "TX1", created.SlipRef)
	assert.Equal(t, adminapi.CategoryMember, created.MatchedCategory)
	assert.NotEmpty(t, created.RawSlip)
}

func TestIngestUnknownSenderStaysPending(t *testing.T) {
	store := &stubStore{}
	credit := &stubCreditor{}
	hub := &stubHub{}
	sender := &stubSender{err: ErrNoSenderMatch}

	result, err := ingestor(store, sender, credit, hub).Ingest(context.Background(), []byte("img"), models.ChannelWebhook, nil)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, result.Status)
	assert.False(t, result.Sender.Matched)
	assert.Equal(t, 0, credit.called)
}

func TestIngestDegradesWithoutAdminSession(t *testing.T) {
	store := &stubStore{}
	sender := &stubSender{err: ErrNoSession}

	result, err := ingestor(store, sender, &stubCreditor{}, &stubHub{}).Ingest(context.Background(), []byte("img"), models.ChannelWebhook, nil)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, result.Status)
}

// The storage-layer unique constraint is the duplicate defense; the
// ingestion surface turns the violation into a duplicate rejection.
func TestIngestDuplicateSlipRef(t *testing.T) {
	store := &stubStore{createErr: gorm.ErrDuplicatedKey}
	hub := &stubHub{}
	sender := &stubSender{err: ErrNoSenderMatch}

	_, err := ingestor(store, sender, &stubCreditor{}, hub).Ingest(context.Background(), []byte("img"), models.ChannelManual, nil)
	assert.ErrorIs(t, err, ErrDuplicateSlip)
	assert.Empty(t, hub.events, "no event for a rejected duplicate")
}

func TestIngestBroadcastsNewPending(t *testing.T) {
	store := &stubStore{}
	hub := &stubHub{}
	sender := &stubSender{err: ErrNoSenderMatch}

	_, err := ingestor(store, sender, &stubCreditor{}, hub).Ingest(context.Background(), []byte("img"), models.ChannelWebhook, nil)
	assert.NoError(t, err)
	assert.Len(t, hub.events, 1)
	assert.Equal(t, realtime.EventNewPending, hub.events[0].Type)
}

func TestIngestTenantHintSkipsReceiverMatch(t *testing.T) {
	store := &stubStore{}
	sender := &stubSender{err: ErrNoSenderMatch}
	ing := ingestor(store, sender, &stubCreditor{}, &stubHub{})
	ing.Receiver = &stubReceiver{err: ErrNoReceiverMatch}

	hint := tenantWithID(9)
	result, err := ing.Ingest(context.Background(), []byte("img"), models.ChannelManual, &hint)
	assert.NoError(t, err)
	assert.Equal(t, uint(9), store.created[0].TenantID)
	assert.Equal(t, models.StatusPending, result.Status)
}

func TestIngestNoReceiverMatch(t *testing.T) {
	ing := ingestor(&stubStore{}, &stubSender{}, &stubCreditor{}, &stubHub{})
	ing.Receiver = &stubReceiver{err: ErrNoReceiverMatch}

	_, err := ing.Ingest(context.Background(), []byte("img"), models.ChannelWebhook, nil)
	assert.ErrorIs(t, err, ErrNoReceiverMatch)
}

func TestIngestUnreadableSlip(t *testing.T) {
	ing := ingestor(&stubStore{}, &stubSender{}, &stubCreditor{}, &stubHub{})
	ing.Decoder = &stubDecoder{err: ocr.ErrUnreadableSlip}

	_, err := ing.Ingest(context.Background(), []byte("img"), models.ChannelWebhook, nil)
	assert.ErrorIs(t, err, ocr.ErrUnreadableSlip)
}
