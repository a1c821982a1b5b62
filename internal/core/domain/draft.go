package domain

import (
	"slices"
	"strconv"
)

// DraftField names an editable field of an order draft. Values match the
// JSON names used by the UI and by the persisted snapshot.
type DraftField string

const (
	FieldCategory        DraftField = "category"
	FieldOccasion        DraftField = "occasion"
	FieldSongLength      DraftField = "songLength"
	FieldDeadline        DraftField = "deadline"
	FieldTempo           DraftField = "tempo"
	FieldMood            DraftField = "mood"
	FieldReferences      DraftField = "references"
	FieldLyrics          DraftField = "lyrics"
	FieldVocalGender     DraftField = "vocalGender"
	FieldMusicalStyle    DraftField = "musicalStyle"
	FieldInstruments     DraftField = "instruments"
	FieldSpecificDetails DraftField = "specificDetails"
)

var draftFields = []DraftField{
	FieldCategory, FieldOccasion, FieldSongLength, FieldDeadline, FieldTempo, FieldMood,
	FieldReferences, FieldLyrics, FieldVocalGender, FieldMusicalStyle, FieldInstruments,
	FieldSpecificDetails,
}

// ParseDraftField resolves a field name coming from a request.
func ParseDraftField(name string) (DraftField, bool) {
	f := DraftField(name)
	return f, slices.Contains(draftFields, f)
}

// Attachment is a file picked in the wizard. It only ever lives in memory.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// OrderDraft is the in-progress order built by the wizard.
type OrderDraft struct {
	// Ref identifies one wizard run and survives the login round trip.
	Ref             string       `json:"ref,omitempty"`
	Category        string       `json:"category" validate:"required"`
	Occasion        string       `json:"occasion" validate:"required"`
	SongLength      string       `json:"songLength"`
	Deadline        string       `json:"deadline" validate:"required"`
	Tempo           string       `json:"tempo" validate:"required"`
	Mood            string       `json:"mood" validate:"required"`
	References      string       `json:"references"`
	Lyrics          bool         `json:"lyrics"`
	VocalGender     string       `json:"vocalGender"`
	MusicalStyle    string       `json:"musicalStyle"`
	Instruments     []string     `json:"instruments"`
	SpecificDetails string       `json:"specificDetails" validate:"required"`
	Attachments     []Attachment `json:"-"`
}

// Clone returns a deep copy safe to hand across goroutines.
func (d OrderDraft) Clone() OrderDraft {
	out := d
	out.Instruments = slices.Clone(d.Instruments)
	if d.Attachments != nil {
		out.Attachments = make([]Attachment, len(d.Attachments))
		for i, a := range d.Attachments {
			a.Data = slices.Clone(a.Data)
			out.Attachments[i] = a
		}
	}
	return out
}

// ToggleInstrument adds name if absent and removes it if present.
func (d *OrderDraft) ToggleInstrument(name string) {
	if i := slices.Index(d.Instruments, name); i >= 0 {
		d.Instruments = slices.Delete(d.Instruments, i, i+1)
		return
	}
	d.Instruments = append(d.Instruments, name)
}

// Value returns the textual form of field f.
func (d OrderDraft) Value(f DraftField) string {
	switch f {
	case FieldCategory:
		return d.Category
	case FieldOccasion:
		return d.Occasion
	case FieldSongLength:
		return d.SongLength
	case FieldDeadline:
		return d.Deadline
	case FieldTempo:
		return d.Tempo
	case FieldMood:
		return d.Mood
	case FieldReferences:
		return d.References
	case FieldLyrics:
		return strconv.FormatBool(d.Lyrics)
	case FieldVocalGender:
		return d.VocalGender
	case FieldMusicalStyle:
		return d.MusicalStyle
	case FieldSpecificDetails:
		return d.SpecificDetails
	}
	return ""
}

// SetText assigns a plain text field. It reports false for fields that are
// not free text (lyrics, instruments).
func (d *OrderDraft) SetText(f DraftField, value string) bool {
	switch f {
	case FieldCategory:
		d.Category = value
	case FieldOccasion:
		d.Occasion = value
	case FieldSongLength:
		d.SongLength = value
	case FieldDeadline:
		d.Deadline = value
	case FieldTempo:
		d.Tempo = value
	case FieldMood:
		d.Mood = value
	case FieldReferences:
		d.References = value
	case FieldVocalGender:
		d.VocalGender = value
	case FieldMusicalStyle:
		d.MusicalStyle = value
	case FieldSpecificDetails:
		d.SpecificDetails = value
	default:
		return false
	}
	return true
}

// DraftSnapshot is the persisted projection of a draft. Attachments are not
// serialisable, so only HasFiles records that some existed.
type DraftSnapshot struct {
	Ref             string   `json:"ref,omitempty"`
	Category        string   `json:"category,omitempty"`
	Occasion        string   `json:"occasion,omitempty"`
	SongLength      string   `json:"songLength,omitempty"`
	Deadline        string   `json:"deadline,omitempty"`
	Tempo           string   `json:"tempo,omitempty"`
	Mood            string   `json:"mood,omitempty"`
	References      string   `json:"references,omitempty"`
	Lyrics          bool     `json:"lyrics,omitempty"`
	VocalGender     string   `json:"vocalGender,omitempty"`
	MusicalStyle    string   `json:"musicalStyle,omitempty"`
	Instruments     []string `json:"instruments,omitempty"`
	SpecificDetails string   `json:"specificDetails,omitempty"`
	HasFiles        bool     `json:"hasFiles"`
}

// NewSnapshot projects d for persistence.
func NewSnapshot(d OrderDraft) DraftSnapshot {
	return DraftSnapshot{
		Ref:             d.Ref,
		Category:        d.Category,
		Occasion:        d.Occasion,
		SongLength:      d.SongLength,
		Deadline:        d.Deadline,
		Tempo:           d.Tempo,
		Mood:            d.Mood,
		References:      d.References,
		Lyrics:          d.Lyrics,
		VocalGender:     d.VocalGender,
		MusicalStyle:    d.MusicalStyle,
		Instruments:     slices.Clone(d.Instruments),
		SpecificDetails: d.SpecificDetails,
		HasFiles:        len(d.Attachments) > 0,
	}
}

// Draft rebuilds a draft from the snapshot. Attachments are always empty.
func (s DraftSnapshot) Draft() OrderDraft {
	return OrderDraft{
		Ref:             s.Ref,
		Category:        s.Category,
		Occasion:        s.Occasion,
		SongLength:      s.SongLength,
		Deadline:        s.Deadline,
		Tempo:           s.Tempo,
		Mood:            s.Mood,
		References:      s.References,
		Lyrics:          s.Lyrics,
		VocalGender:     s.VocalGender,
		MusicalStyle:    s.MusicalStyle,
		Instruments:     slices.Clone(s.Instruments),
		SpecificDetails: s.SpecificDetails,
	}
}

// Merge lays the snapshot over current. Fields the visitor already edited in
// this session keep their current value; every other field takes the snapshot
// value when the snapshot has one. Attachments always come from current.
func (s DraftSnapshot) Merge(current OrderDraft, edited func(DraftField) bool) OrderDraft {
	if edited == nil {
		edited = func(DraftField) bool { return false }
	}
	out := current.Clone()
	saved := s.Draft()
	for _, f := range draftFields {
		if edited(f) {
			continue
		}
		switch f {
		case FieldLyrics:
			if s.Lyrics {
				out.Lyrics = true
			}
		case FieldInstruments:
			if len(s.Instruments) > 0 {
				out.Instruments = slices.Clone(s.Instruments)
			}
		default:
			if v := saved.Value(f); v != "" {
				out.SetText(f, v)
			}
		}
	}
	if s.Ref != "" {
		out.Ref = s.Ref
	}
	return out
}
