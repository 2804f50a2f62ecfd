package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestQuoteComplete(t *testing.T) {
	quote := Quote{
		BuildingType:      BTDetached,
		PropertyType:      "house",
		PropertySize:      "120",
		Bedrooms:          "3",
		HeatPumpInstalled: "no",
		County:            "Cork",
		NearestTown:       "Mallow",
		BerPurpose:        "sale",
		PreferredDate:     "2026-09-15",
		PreferredTime:     "morning",
		ContactName:       "Mary Byrne",
		ContactEmail:      "mary@example.com",
		ContactMobile:     "0851234567",
	}

	if !quote.Complete() {
		t.Error("Expected fully filled quote to be complete")
	}

	// Additional features stay optional.
	quote.AdditionalFeatures = ""
	if !quote.Complete() {
		t.Error("Expected quote without additional features to be complete")
	}

	quote.County = ""
	if quote.Complete() {
		t.Error("Expected quote without county to be incomplete")
	}
}

func TestBidValidate(t *testing.T) {
	jobId := "job-1"
	quoteId := "quote-1"

	valid := Bid{Amount: 250, Availability: "next week", JobId: &jobId}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected bid to be valid, got: %s", err)
	}

	cases := []struct {
		name string
		bid  Bid
	}{
		{"zero amount", Bid{Amount: 0, Availability: "next week", JobId: &jobId}},
		{"negative amount", Bid{Amount: -10, Availability: "next week", JobId: &jobId}},
		{"no availability", Bid{Amount: 250, JobId: &jobId}},
		{"no target", Bid{Amount: 250, Availability: "next week"}},
		{"both targets", Bid{Amount: 250, Availability: "next week", JobId: &jobId, QuoteId: &quoteId}},
	}

	for _, c := range cases {
		err := c.bid.Validate()
		if !errors.Is(err, ErrValidation) {
			t.Errorf("Expected validation error for case '%s', got: %v", c.name, err)
		}
	}
}

func TestWorkTransitions(t *testing.T) {
	allowed := [][2]WorkStatus{
		{WorkPending, WorkInProgress},
		{WorkPending, WorkCompleted},
		{WorkInProgress, WorkCompleted},
	}
	for _, pair := range allowed {
		if !ValidWorkTransition(pair[0], pair[1]) {
			t.Errorf("Expected transition %s -> %s to be allowed", pair[0], pair[1])
		}
	}

	forbidden := [][2]WorkStatus{
		{WorkInProgress, WorkPending},
		{WorkCompleted, WorkPending},
		{WorkCompleted, WorkInProgress},
	}
	for _, pair := range forbidden {
		if ValidWorkTransition(pair[0], pair[1]) {
			t.Errorf("Expected transition %s -> %s to be forbidden", pair[0], pair[1])
		}
	}
}

func TestAmountToCents(t *testing.T) {
	cases := []struct {
		amount float64
		cents  int64
	}{
		{0, 0},
		{1, 100},
		{123.45, 12345},
		{0.1, 10},
		{19.99, 1999},
		{0.29, 29},
	}

	for _, c := range cases {
		got := AmountToCents(c.amount)
		if got != c.cents {
			t.Errorf("Expected %v to convert to %d cents, got %d", c.amount, c.cents, got)
		}
	}
}

func TestNotificationJSONCarriesParties(t *testing.T) {
	n := Notification{
		Id:            "n1",
		Message:       "New bid placed",
		Type:          NTBid,
		Status:        NotificationUnread,
		RecipientKind: KindClient,
		RecipientId:   "c1",
		SenderKind:    KindAccessor,
		SenderId:      "a1",
	}

	data, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("Failed to marshal notification: %s", err)
	}

	body := string(data)
	for _, want := range []string{
		`"recipientKind":"client"`,
		`"recipientId":"c1"`,
		`"senderKind":"accessor"`,
		`"senderId":"a1"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected notification JSON to contain %s, got: %s", want, body)
		}
	}
}

func TestPartyRefConstructors(t *testing.T) {
	n := Notification{
		RecipientKind: KindClient,
		RecipientId:   "c1",
		SenderKind:    KindAccessor,
		SenderId:      "a1",
	}

	if n.Recipient() != ClientRef("c1") {
		t.Errorf("Expected recipient to be client c1, got: %+v", n.Recipient())
	}
	if n.Sender() != AccessorRef("a1") {
		t.Errorf("Expected sender to be accessor a1, got: %+v", n.Sender())
	}
	if !ValidUserKind(AdminRef("x").Kind) {
		t.Error("Expected admin ref kind to be valid")
	}
	if ValidUserKind(UserKind("robot")) {
		t.Error("Expected unknown kind to be invalid")
	}
}
