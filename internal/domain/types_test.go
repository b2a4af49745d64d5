package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestTypesExist(t *testing.T) {
	// Verify Bar can be instantiated with zero values.
	bar := Bar{}
	if bar.Symbol != "" {
		t.Error("expected empty Symbol for zero-value Bar")
	}
	if !bar.Timestamp.IsZero() {
		t.Error("expected zero Timestamp for zero-value Bar")
	}
	if bar.Open != 0 || bar.High != 0 || bar.Low != 0 || bar.Close != 0 {
		t.Error("expected zero OHLC values for zero-value Bar")
	}

	// Verify enum constants are defined correctly.
	if SourceNews != "news" || SourceSocial != "social" {
		t.Error("SourceKind constants have unexpected values")
	}

	// ScoredDocument embeds the Document it was derived from.
	now := time.Now()
	sd := ScoredDocument{
		Document: Document{Text: "shares rally", Timestamp: now, Source: SourceNews, Provider: "yahoo"},
		Polarity: 0.5,
	}
	if sd.Text != "shares rally" {
		t.Errorf("sd.Text = %q, want %q", sd.Text, "shares rally")
	}
	if !sd.Timestamp.Equal(now) {
		t.Errorf("sd.Timestamp = %v, want %v", sd.Timestamp, now)
	}
}

func TestErrorKinds(t *testing.T) {
	err := InvalidInputf("ticker %q is malformed", "$$$")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("InvalidInputf should wrap ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), `"$$$"`) {
		t.Errorf("error message %q should contain the detail", err.Error())
	}

	nerr := NetworkError("yahoo", fmt.Errorf("connection refused"))
	if !errors.Is(nerr, ErrNetwork) {
		t.Fatalf("NetworkError should wrap ErrNetwork, got %v", nerr)
	}
	if errors.Is(nerr, ErrInvalidInput) {
		t.Error("NetworkError must not match ErrInvalidInput")
	}
	if !strings.Contains(nerr.Error(), "yahoo") {
		t.Errorf("error message %q should name the source", nerr.Error())
	}
}
