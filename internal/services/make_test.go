package services

import (
	"testing"
)

func TestBuildPayloadValidEvent(t *testing.T) {
	svc := NewMakeService("https://hook.example.org", "key", "qa@example.org")

	payload, err := svc.BuildPayload("dana@example.org", EventDailyDigest, "<p>שלום</p>", "עדכון", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Email != "dana@example.org" {
		t.Fatalf("unexpected email %q", payload.Email)
	}
	if payload.EventTitle != EventDailyDigest || payload.IsTest {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestBuildPayloadRejectsUnknownEvent(t *testing.T) {
	svc := NewMakeService("https://hook.example.org", "key", "qa@example.org")

	if _, err := svc.BuildPayload("dana@example.org", "password_reset", "<p>x</p>", "", false); err == nil {
		t.Fatalf("unknown event must be rejected")
	}
}

func TestBuildPayloadRejectsEmptyHTML(t *testing.T) {
	svc := NewMakeService("https://hook.example.org", "key", "qa@example.org")

	if _, err := svc.BuildPayload("dana@example.org", EventDailyDigest, "   ", "עדכון", false); err == nil {
		t.Fatalf("blank html must be rejected")
	}
}

func TestBuildPayloadTestModeReroutesToTestAddress(t *testing.T) {
	svc := NewMakeService("https://hook.example.org", "key", "qa@example.org")

	payload, err := svc.BuildPayload("dana@example.org", EventDailyDigest, "<p>שלום</p>", "עדכון", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Email != "qa@example.org" {
		t.Fatalf("test payload must go to the test address, got %q", payload.Email)
	}
	if !payload.IsTest {
		t.Fatalf("test payload must be flagged")
	}
}

func TestBuildPayloadTestModeWithoutTestAddress(t *testing.T) {
	svc := NewMakeService("https://hook.example.org", "key", "")

	if _, err := svc.BuildPayload("dana@example.org", EventDailyDigest, "<p>שלום</p>", "עדכון", true); err == nil {
		t.Fatalf("test mode without a test address must fail")
	}
}
