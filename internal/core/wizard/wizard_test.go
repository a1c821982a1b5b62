package wizard

import (
	"errors"
	"testing"

	"github.com/waosongs/storefront/internal/core/domain"
)

// completeDraft satisfies every step.
func completeDraft() domain.OrderDraft {
	d := NewDraft()
	d.Category = "pop"
	d.Occasion = "wedding"
	d.Deadline = "2026-12-01"
	d.Mood = "happy"
	d.SpecificDetails = "names: Ana & Luis"
	return d
}

// ---------------------------------------------------------------------------
// Step predicates
// ---------------------------------------------------------------------------

func TestValidateStep_EachRequiredFieldGates(t *testing.T) {
	cases := []struct {
		step  int
		field domain.DraftField
	}{
		{1, domain.FieldCategory},
		{1, domain.FieldOccasion},
		{1, domain.FieldDeadline},
		{2, domain.FieldTempo},
		{2, domain.FieldMood},
		{4, domain.FieldSpecificDetails},
	}

	for _, tc := range cases {
		d := completeDraft()
		d.SetText(tc.field, "")

		err := ValidateStep(tc.step, d)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("step %d without %s: expected ValidationError, got %v", tc.step, tc.field, err)
		}
		if ve.Step != tc.step || ve.Field != tc.field {
			t.Errorf("expected step %d field %s, got step %d field %s", tc.step, tc.field, ve.Step, ve.Field)
		}
	}
}

func TestValidateStep_StepThreeHasNoRequirements(t *testing.T) {
	if err := ValidateStep(3, domain.OrderDraft{}); err != nil {
		t.Errorf("step 3 must always pass, got %v", err)
	}
}

func TestValidateStep_IgnoresOtherStepsFields(t *testing.T) {
	d := domain.OrderDraft{Category: "pop", Occasion: "birthday", Deadline: "2026-11-02"}
	if err := ValidateStep(1, d); err != nil {
		t.Errorf("step 1 must only look at its own fields, got %v", err)
	}
}

func TestRequiredFields(t *testing.T) {
	got := RequiredFields(2)
	if len(got) != 2 || got[0] != domain.FieldTempo || got[1] != domain.FieldMood {
		t.Errorf("unexpected step 2 fields: %v", got)
	}
	if len(RequiredFields(3)) != 0 {
		t.Error("step 3 must have no required fields")
	}
}

// ---------------------------------------------------------------------------
// Navigation
// ---------------------------------------------------------------------------

func TestWizard_New_Defaults(t *testing.T) {
	w := New()
	d := w.Draft()

	if w.Step() != FirstStep {
		t.Errorf("expected step %d, got %d", FirstStep, w.Step())
	}
	if d.SongLength != DefaultSongLength || d.Tempo != DefaultTempo {
		t.Errorf("defaults not applied: songLength=%q tempo=%q", d.SongLength, d.Tempo)
	}
	if d.Ref == "" {
		t.Error("a new draft must carry a ref")
	}
}

func TestWizard_Advance_BlockedLeavesPosition(t *testing.T) {
	w := New()

	err := w.Advance()
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Field != domain.FieldCategory {
		t.Errorf("expected first missing field category, got %s", ve.Field)
	}
	if w.Step() != 1 {
		t.Errorf("position must not change on failed advance, got %d", w.Step())
	}
}

func TestWizard_NeverLeavesRange(t *testing.T) {
	w := NewFromDraft(completeDraft())

	w.Retreat()
	if w.Step() != FirstStep {
		t.Errorf("retreat at step 1 must be a no-op, got %d", w.Step())
	}
	for i := 0; i < 10; i++ {
		if err := w.Advance(); err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
	}
	if w.Step() != TotalSteps {
		t.Errorf("expected to stop at %d, got %d", TotalSteps, w.Step())
	}
	for i := 0; i < 10; i++ {
		w.Retreat()
	}
	if w.Step() != FirstStep {
		t.Errorf("expected to stop at %d, got %d", FirstStep, w.Step())
	}
}

// Scenario: all step 1 fields set, advance reaches step 2; clearing mood
// blocks step 2 and names the field.
func TestWizard_StepGateScenario(t *testing.T) {
	w := NewFromDraft(domain.OrderDraft{
		Category: "pop",
		Occasion: "wedding",
		Deadline: "2026-12-01",
		Tempo:    "moderate",
	})

	if err := w.Advance(); err != nil {
		t.Fatalf("step 1 should pass: %v", err)
	}
	if w.Step() != 2 {
		t.Fatalf("expected step 2, got %d", w.Step())
	}

	_ = w.UpdateField(domain.FieldMood, "")
	err := w.Advance()
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != domain.FieldMood {
		t.Fatalf("expected mood to be reported, got %v", err)
	}
	if w.Step() != 2 {
		t.Errorf("expected to stay on step 2, got %d", w.Step())
	}
}

func TestWizard_FastForward(t *testing.T) {
	d := completeDraft()
	d.SpecificDetails = ""
	w := NewFromDraft(d)

	if got := w.FastForward(); got != TotalSteps {
		t.Errorf("expected fast-forward to step %d, got %d", TotalSteps, got)
	}

	d.Mood = ""
	w = NewFromDraft(d)
	if got := w.FastForward(); got != 2 {
		t.Errorf("expected fast-forward to stop at step 2, got %d", got)
	}
}

// ---------------------------------------------------------------------------
// Editing
// ---------------------------------------------------------------------------

func TestWizard_UpdateField_InstrumentsToggle(t *testing.T) {
	w := New()

	_ = w.UpdateField(domain.FieldInstruments, "Piano")
	_ = w.UpdateField(domain.FieldInstruments, "Guitar")
	_ = w.UpdateField(domain.FieldInstruments, "Piano")

	got := w.Draft().Instruments
	if len(got) != 1 || got[0] != "Guitar" {
		t.Errorf("expected [Guitar], got %v", got)
	}
	if !w.Edited(domain.FieldInstruments) {
		t.Error("instruments must be marked edited")
	}
}

func TestWizard_UpdateField_Lyrics(t *testing.T) {
	w := New()

	if err := w.UpdateField(domain.FieldLyrics, "true"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !w.Draft().Lyrics {
		t.Error("lyrics must be true")
	}
	if err := w.UpdateField(domain.FieldLyrics, "maybe"); err == nil {
		t.Error("expected parse error for non-boolean lyrics")
	}
}

func TestWizard_UpdateField_Unknown(t *testing.T) {
	w := New()
	if err := w.UpdateField(domain.DraftField("colour"), "red"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestWizard_SetAttachments_CopiesInput(t *testing.T) {
	w := New()
	files := []domain.Attachment{{Name: "demo.mp3", ContentType: "audio/mpeg", Data: []byte{1, 2}}}

	w.SetAttachments(files)
	files[0].Data[0] = 9

	got := w.Draft().Attachments
	if len(got) != 1 || got[0].Data[0] != 1 {
		t.Errorf("wizard must keep its own copy of attachments, got %+v", got)
	}
	if v := w.View(); len(v.Attachments) != 1 || v.Attachments[0] != "demo.mp3" {
		t.Errorf("unexpected attachment names in view: %v", v.Attachments)
	}
}

func TestWizard_Reset(t *testing.T) {
	w := NewFromDraft(completeDraft())
	_ = w.Advance()
	ref := w.Draft().Ref

	w.Reset()

	if w.Step() != FirstStep {
		t.Errorf("expected step 1 after reset, got %d", w.Step())
	}
	if w.Draft().Category != "" {
		t.Error("draft must be cleared on reset")
	}
	if w.Draft().Ref == ref {
		t.Error("reset must start a new draft ref")
	}
}
