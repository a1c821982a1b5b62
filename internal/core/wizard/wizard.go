// Package wizard implements the four-step order form: which step the visitor
// is on, the draft being built and the per-step gate on required fields.
package wizard

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/waosongs/storefront/internal/core/domain"
)

const (
	FirstStep  = 1
	TotalSteps = 4

	DefaultSongLength = "2-3"
	DefaultTempo      = "moderate"
)

// ErrUnknownField is returned for field names the draft does not have.
var ErrUnknownField = errors.New("unknown draft field")

// requiredByStep lists, per step, the draft struct fields that must be non-empty
// before the visitor may leave that step.
var requiredByStep = map[int][]string{
	1: {"Category", "Occasion", "Deadline"},
	2: {"Tempo", "Mood"},
	3: nil,
	4: {"SpecificDetails"},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStep checks the required fields of step against d. It returns a
// *domain.ValidationError naming the first missing field.
func ValidateStep(step int, d domain.OrderDraft) error {
	fields := requiredByStep[step]
	if len(fields) == 0 {
		return nil
	}
	err := validate.StructPartial(d, fields...)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return &domain.ValidationError{Step: step, Field: domain.DraftField(ve[0].Field())}
	}
	return err
}

// RequiredFields returns the fields gating step, by their draft field names.
func RequiredFields(step int) []domain.DraftField {
	out := make([]domain.DraftField, 0, len(requiredByStep[step]))
	t := reflect.TypeOf(domain.OrderDraft{})
	for _, name := range requiredByStep[step] {
		sf, _ := t.FieldByName(name)
		out = append(out, domain.DraftField(strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]))
	}
	return out
}

// NewDraft returns an empty draft with the form defaults applied.
func NewDraft() domain.OrderDraft {
	return domain.OrderDraft{
		Ref:         uuid.NewString(),
		SongLength:  DefaultSongLength,
		Tempo:       DefaultTempo,
		Instruments: []string{},
	}
}

// Wizard is the step machine for one visitor. It is safe for concurrent use.
type Wizard struct {
	mu     sync.Mutex
	step   int
	draft  domain.OrderDraft
	edited map[domain.DraftField]bool
}

// New starts a wizard at step 1 with a default draft.
func New() *Wizard {
	w := &Wizard{}
	w.Reset()
	return w
}

// NewFromDraft starts a wizard at step 1 holding d.
func NewFromDraft(d domain.OrderDraft) *Wizard {
	return &Wizard{step: FirstStep, draft: d.Clone(), edited: map[domain.DraftField]bool{}}
}

// View is a consistent read of the wizard.
type View struct {
	Step           int                 `json:"step"`
	TotalSteps     int                 `json:"totalSteps"`
	Draft          domain.OrderDraft   `json:"draft"`
	Attachments    []string            `json:"attachments"`
	RequiredFields []domain.DraftField `json:"requiredFields"`
	CanAdvance     bool                `json:"canAdvance"`
}

// View returns the current step, a copy of the draft and the gate status.
func (w *Wizard) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	names := make([]string, 0, len(w.draft.Attachments))
	for _, a := range w.draft.Attachments {
		names = append(names, a.Name)
	}
	return View{
		Step:           w.step,
		TotalSteps:     TotalSteps,
		Draft:          w.draft.Clone(),
		Attachments:    names,
		RequiredFields: RequiredFields(w.step),
		CanAdvance:     w.step < TotalSteps && ValidateStep(w.step, w.draft) == nil,
	}
}

func (w *Wizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Draft returns a copy of the current draft.
func (w *Wizard) Draft() domain.OrderDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.Clone()
}

// Edited reports whether the visitor changed f since the wizard started.
func (w *Wizard) Edited(f domain.DraftField) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.edited[f]
}

// Advance moves to the next step when the current step's required fields are
// present. At the last step it is a no-op. The position never changes on error.
func (w *Wizard) Advance() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step >= TotalSteps {
		return nil
	}
	if err := ValidateStep(w.step, w.draft); err != nil {
		return err
	}
	w.step++
	return nil
}

// Retreat moves back one step. At step 1 it is a no-op.
func (w *Wizard) Retreat() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > FirstStep {
		w.step--
	}
}

// UpdateField applies one edit. Instruments toggle membership; lyrics takes
// a boolean literal.
func (w *Wizard) UpdateField(f domain.DraftField, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch f {
	case domain.FieldInstruments:
		name := strings.TrimSpace(value)
		if name == "" {
			return nil
		}
		w.draft.ToggleInstrument(name)
	case domain.FieldLyrics:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		w.draft.Lyrics = b
	default:
		if !w.draft.SetText(f, value) {
			return ErrUnknownField
		}
	}
	w.edited[f] = true
	return nil
}

// SetAttachments replaces the in-memory files.
func (w *Wizard) SetAttachments(files []domain.Attachment) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Attachments = (domain.OrderDraft{Attachments: files}).Clone().Attachments
}

// Adopt replaces the draft, keeping the step position.
func (w *Wizard) Adopt(d domain.OrderDraft) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft = d.Clone()
}

// FastForward advances while each step's requirements hold and returns the
// resulting step.
func (w *Wizard) FastForward() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.step < TotalSteps && ValidateStep(w.step, w.draft) == nil {
		w.step++
	}
	return w.step
}

// Reset returns to step 1 with a fresh default draft.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step = FirstStep
	w.draft = NewDraft()
	w.edited = map[domain.DraftField]bool{}
}
