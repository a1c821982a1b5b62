package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func sampleDraft() OrderDraft {
	return OrderDraft{
		Ref:             "ref-1",
		Category:        "pop",
		Occasion:        "wedding",
		SongLength:      "3-4",
		Deadline:        "2026-12-01",
		Tempo:           "fast",
		Mood:            "happy",
		References:      "some band",
		Lyrics:          true,
		VocalGender:     "female",
		MusicalStyle:    "acoustic",
		Instruments:     []string{"Piano", "Guitar"},
		SpecificDetails: "first dance",
	}
}

func TestSnapshot_RoundTripDropsOnlyAttachments(t *testing.T) {
	d := sampleDraft()
	d.Attachments = []Attachment{{Name: "a.mp3", Data: []byte{1}}}

	raw, err := json.Marshal(NewSnapshot(d))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var snap DraftSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !snap.HasFiles {
		t.Error("hasFiles must be true when attachments existed")
	}
	want := d
	want.Attachments = nil
	if got := snap.Draft(); !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestSnapshot_NoAttachmentsMarker(t *testing.T) {
	raw, _ := json.Marshal(NewSnapshot(sampleDraft()))
	var m map[string]any
	_ = json.Unmarshal(raw, &m)

	if m["hasFiles"] != false {
		t.Errorf("expected hasFiles=false, got %v", m["hasFiles"])
	}
	if _, ok := m["files"]; ok {
		t.Error("attachments must never be serialised")
	}
}

// Scenario: a snapshot {category: wedding, instruments: [Piano]} resumed into a
// draft where the visitor already picked Guitar fills category but keeps Guitar.
func TestSnapshot_MergeFillsGapsOnly(t *testing.T) {
	snap := DraftSnapshot{Category: "wedding", Instruments: []string{"Piano"}}
	current := OrderDraft{Ref: "new", SongLength: "2-3", Tempo: "moderate", Instruments: []string{"Guitar"}}
	edited := func(f DraftField) bool { return f == FieldInstruments }

	got := snap.Merge(current, edited)

	if got.Category != "wedding" {
		t.Errorf("category: want wedding, got %q", got.Category)
	}
	if len(got.Instruments) != 1 || got.Instruments[0] != "Guitar" {
		t.Errorf("instruments: want [Guitar], got %v", got.Instruments)
	}
	if got.Tempo != "moderate" {
		t.Errorf("tempo: untouched default should stay when snapshot has none, got %q", got.Tempo)
	}
	if got.Ref != "new" {
		t.Errorf("ref: want current ref when snapshot has none, got %q", got.Ref)
	}
}

func TestSnapshot_MergeSnapshotBeatsDefaults(t *testing.T) {
	snap := NewSnapshot(sampleDraft())
	current := OrderDraft{Ref: "fresh", SongLength: "2-3", Tempo: "moderate"}

	got := snap.Merge(current, nil)

	if got.SongLength != "3-4" || got.Tempo != "fast" {
		t.Errorf("snapshot values must replace defaults, got songLength=%q tempo=%q", got.SongLength, got.Tempo)
	}
	if got.Ref != "ref-1" {
		t.Errorf("snapshot ref must be restored, got %q", got.Ref)
	}
	if !got.Lyrics {
		t.Error("lyrics must be restored")
	}
}

func TestSnapshot_MergeKeepsAttachments(t *testing.T) {
	current := OrderDraft{Attachments: []Attachment{{Name: "x.wav"}}}
	got := NewSnapshot(sampleDraft()).Merge(current, nil)
	if len(got.Attachments) != 1 {
		t.Errorf("attachments must come from the current draft, got %d", len(got.Attachments))
	}
}

func TestOrderDraft_ToggleInstrument(t *testing.T) {
	var d OrderDraft
	d.ToggleInstrument("Drums")
	d.ToggleInstrument("Bass")
	d.ToggleInstrument("Drums")

	if !reflect.DeepEqual(d.Instruments, []string{"Bass"}) {
		t.Errorf("expected [Bass], got %v", d.Instruments)
	}
}

func TestParseDraftField(t *testing.T) {
	if f, ok := ParseDraftField("specificDetails"); !ok || f != FieldSpecificDetails {
		t.Errorf("expected specificDetails to parse, got %q %v", f, ok)
	}
	if _, ok := ParseDraftField("files"); ok {
		t.Error("files is not an editable field")
	}
}
