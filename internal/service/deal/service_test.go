package deal_test

import (
	"context"
	"testing"
	"time"

	"github.com/ridelink/backend/internal/agreement"
	"github.com/ridelink/backend/internal/service/deal"
)

func TestSubmitAgreementBothSides(t *testing.T) {
	svc := deal.NewService()
	ctx := context.Background()

	rec, err := svc.SubmitAgreement(ctx, "conv-1", agreement.RoleBuyer, 9500)
	if err != nil {
		t.Fatalf("buyer submit: %v", err)
	}
	if !rec.BuyerAgreed || rec.SellerAgreed {
		t.Fatalf("unexpected flags after buyer submit: %+v", rec)
	}

	rec, err = svc.SubmitAgreement(ctx, "conv-1", agreement.RoleSeller, 9500)
	if err != nil {
		t.Fatalf("seller submit: %v", err)
	}
	if !rec.BuyerAgreed || !rec.SellerAgreed {
		t.Fatalf("expected both agreed: %+v", rec)
	}
	if rec.AgreedPrice != 9500 {
		t.Fatalf("unexpected price: %f", rec.AgreedPrice)
	}
}

func TestSubmitRequiresConversation(t *testing.T) {
	svc := deal.NewService()
	if _, err := svc.SubmitAgreement(context.Background(), "", agreement.RoleBuyer, 100); err == nil {
		t.Fatal("expected error for missing conversation id")
	}
}

func TestWatchDeliversUpdates(t *testing.T) {
	svc := deal.NewService()
	ctx := context.Background()

	ch, cancel := svc.Watch("conv-1")
	defer cancel()

	if _, err := svc.SubmitAgreement(ctx, "conv-1", agreement.RoleSeller, 8000); err != nil {
		t.Fatalf("submit: %v", err)
	}

	select {
	case rec := <-ch:
		if !rec.SellerAgreed {
			t.Fatalf("expected seller agreed in update: %+v", rec)
		}
	case <-time.After(time.Second):
		t.Fatal("no update delivered to watcher")
	}
}

func TestWatchDeliversExistingRecordImmediately(t *testing.T) {
	svc := deal.NewService()
	ctx := context.Background()

	if _, err := svc.SubmitAgreement(ctx, "conv-1", agreement.RoleBuyer, 8000); err != nil {
		t.Fatalf("submit: %v", err)
	}

	ch, cancel := svc.Watch("conv-1")
	defer cancel()

	select {
	case rec := <-ch:
		if !rec.BuyerAgreed {
			t.Fatalf("expected buyer agreed in snapshot: %+v", rec)
		}
	case <-time.After(time.Second):
		t.Fatal("existing record not delivered to late watcher")
	}
}

func TestRetractClearsOneSide(t *testing.T) {
	svc := deal.NewService()
	ctx := context.Background()

	_, _ = svc.SubmitAgreement(ctx, "conv-1", agreement.RoleBuyer, 8000)
	_, _ = svc.SubmitAgreement(ctx, "conv-1", agreement.RoleSeller, 8000)

	rec, err := svc.Retract(ctx, "conv-1", agreement.RoleBuyer)
	if err != nil {
		t.Fatalf("retract: %v", err)
	}
	if rec.BuyerAgreed || !rec.SellerAgreed {
		t.Fatalf("unexpected flags after retract: %+v", rec)
	}
}

func TestRecordMeeting(t *testing.T) {
	svc := deal.NewService()
	ctx := context.Background()

	rec, err := svc.RecordMeeting(ctx, "conv-1", "sz-1", "", "2026-03-11T14:00", 9500)
	if err != nil {
		t.Fatalf("record meeting: %v", err)
	}
	if rec.SafeZone != "sz-1" || rec.MeetingDatetime != "2026-03-11T14:00" {
		t.Fatalf("meeting details not recorded: %+v", rec)
	}

	got, ok := svc.Get(ctx, "conv-1")
	if !ok {
		t.Fatal("record missing after RecordMeeting")
	}
	if got.AgreedPrice != 9500 {
		t.Fatalf("unexpected price: %f", got.AgreedPrice)
	}
}
