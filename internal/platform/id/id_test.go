package id

import (
	"encoding/base32"
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	id, err := NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if len(id) != 26 {
		t.Fatalf("expected 26-character id, got %d (%q)", len(id), id)
	}
	if id != strings.ToLower(id) {
		t.Fatalf("expected lowercase id, got %q", id)
	}
	if strings.Contains(id, "=") {
		t.Fatal("expected no padding")
	}

	decoded, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.ToUpper(id))
	if err != nil {
		t.Fatalf("decode id: %v", err)
	}
	if len(decoded) != 16 {
		t.Fatalf("expected 16 decoded bytes, got %d", len(decoded))
	}
	if version := decoded[6] >> 4; version != 4 {
		t.Fatalf("expected uuid version 4, got %d", version)
	}
	if variant := decoded[8] & 0xC0; variant != 0x80 {
		t.Fatalf("expected uuid variant 0x80, got 0x%X", variant)
	}
}

func TestNewIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
