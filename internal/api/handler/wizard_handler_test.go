package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/waosongs/storefront/internal/core/domain"
	"github.com/waosongs/storefront/internal/core/service"
	"github.com/waosongs/storefront/internal/core/wizard"
)

func newWizardHandler() *WizardHandler {
	return NewWizardHandler(false, zerolog.Nop())
}

func decodeWizard(t *testing.T, body []byte) wizardResponse {
	t.Helper()
	var resp wizardResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func decodeSubmission(t *testing.T, body []byte) service.Submission {
	t.Helper()
	var out service.Submission
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return out
}

func TestWizardHandler_Show_FreshDraft(t *testing.T) {
	h := newHarness(t, &stubGateway{})

	rec, err := h.call(newWizardHandler().Show, http.MethodGet, "/api/order/wizard", nil, "")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeWizard(t, rec.Body.Bytes())
	if resp.Step != wizard.FirstStep || resp.TotalSteps != wizard.TotalSteps {
		t.Fatalf("unexpected position %d/%d", resp.Step, resp.TotalSteps)
	}
	if resp.Draft.SongLength != wizard.DefaultSongLength || resp.Draft.Tempo != wizard.DefaultTempo {
		t.Fatalf("defaults missing: %+v", resp.Draft)
	}
	if resp.CanAdvance || resp.State != service.StateIdle {
		t.Fatalf("unexpected gate/state: %+v", resp)
	}
}

func TestWizardHandler_Next_BlockedUntilStepComplete(t *testing.T) {
	h := newHarness(t, &stubGateway{})
	wh := newWizardHandler()

	_, err := h.call(wh.Next, http.MethodPost, "/api/order/wizard/next", nil, "")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Step != 1 {
		t.Fatalf("expected step 1 validation error, got %v", err)
	}

	for _, kv := range [][2]string{{"category", "pop"}, {"occasion", "birthday"}, {"deadline", "2026-11-01"}} {
		body := strings.NewReader(`{"field":"` + kv[0] + `","value":"` + kv[1] + `"}`)
		if _, err := h.call(wh.UpdateField, http.MethodPatch, "/api/order/wizard/fields", body, echo.MIMEApplicationJSON); err != nil {
			t.Fatalf("update %s: %v", kv[0], err)
		}
	}

	rec, err := h.call(wh.Next, http.MethodPost, "/api/order/wizard/next", nil, "")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp := decodeWizard(t, rec.Body.Bytes()); resp.Step != 2 {
		t.Fatalf("expected step 2, got %d", resp.Step)
	}

	rec, _ = h.call(wh.Prev, http.MethodPost, "/api/order/wizard/prev", nil, "")
	if resp := decodeWizard(t, rec.Body.Bytes()); resp.Step != 1 {
		t.Fatalf("expected step 1 after prev, got %d", resp.Step)
	}
}

func TestWizardHandler_UpdateField_Errors(t *testing.T) {
	h := newHarness(t, &stubGateway{})
	wh := newWizardHandler()

	_, err := h.call(wh.UpdateField, http.MethodPatch, "/api/order/wizard/fields",
		strings.NewReader(`{"field":"color","value":"red"}`), echo.MIMEApplicationJSON)
	if !errors.Is(err, wizard.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}

	_, err = h.call(wh.UpdateField, http.MethodPatch, "/api/order/wizard/fields",
		strings.NewReader(`{"field":"lyrics","value":"maybe"}`), echo.MIMEApplicationJSON)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad boolean, got %v", err)
	}
}

func TestWizardHandler_UpdateField_TogglesInstrument(t *testing.T) {
	h := newHarness(t, &stubGateway{})
	wh := newWizardHandler()

	body := func() *strings.Reader { return strings.NewReader(`{"field":"instruments","value":"Piano"}`) }
	rec, _ := h.call(wh.UpdateField, http.MethodPatch, "/api/order/wizard/fields", body(), echo.MIMEApplicationJSON)
	if got := decodeWizard(t, rec.Body.Bytes()).Draft.Instruments; len(got) != 1 || got[0] != "Piano" {
		t.Fatalf("expected [Piano], got %v", got)
	}
	rec, _ = h.call(wh.UpdateField, http.MethodPatch, "/api/order/wizard/fields", body(), echo.MIMEApplicationJSON)
	if got := decodeWizard(t, rec.Body.Bytes()).Draft.Instruments; len(got) != 0 {
		t.Fatalf("expected toggle off, got %v", got)
	}
}

// ---- attachments ----

func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := w.CreateFormFile(attachmentsField, name)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write(data)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestWizardHandler_Attachments(t *testing.T) {
	h := newHarness(t, &stubGateway{})
	wh := newWizardHandler()

	body, ct := multipartBody(t, map[string][]byte{"demo.mp3": []byte("ID3")})
	rec, err := h.call(wh.Attachments, http.MethodPut, "/api/order/wizard/attachments", body, ct)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeWizard(t, rec.Body.Bytes())
	if len(resp.Attachments) != 1 || resp.Attachments[0] != "demo.mp3" {
		t.Fatalf("unexpected attachments %v", resp.Attachments)
	}
	if got := h.visitor().Wizard.Draft().Attachments; len(got) != 1 || string(got[0].Data) != "ID3" {
		t.Fatalf("attachment bytes not kept: %+v", got)
	}

	body, ct = multipartBody(t, map[string][]byte{"setup.exe": []byte("MZ")})
	_, err = h.call(wh.Attachments, http.MethodPut, "/api/order/wizard/attachments", body, ct)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for disallowed type, got %v", err)
	}
}

// ---- submit ----

func TestWizardHandler_Submit_NotOnLastStep(t *testing.T) {
	gw := &stubGateway{}
	h := newHarness(t, gw)

	_, err := h.call(newWizardHandler().Submit, http.MethodPost, "/api/order/wizard/submit", nil, "")
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
	if gw.calls() != 0 {
		t.Fatalf("backend must not be called")
	}
}

func TestWizardHandler_Submit_Success(t *testing.T) {
	gw := &stubGateway{
		createFn: func(token string, d domain.OrderDraft, key string) (*domain.Order, error) {
			if token != "tok-user" || key == "" {
				t.Fatalf("unexpected call: %q %q", token, key)
			}
			return &domain.Order{ID: "o_1"}, nil
		},
	}
	h := newHarness(t, gw)
	h.signIn(domain.RoleUser)
	fillDraft(t, h.visitor())

	rec, err := h.call(newWizardHandler().Submit, http.MethodPost, "/api/order/wizard/submit", nil, "")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	out := decodeSubmission(t, rec.Body.Bytes())
	if out.OrderID != "o_1" || out.Redirect != "/order/success?orderId=o_1" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if h.visitor().Wizard.Step() != wizard.FirstStep || h.visitor().Flow.State() != service.StateIdle {
		t.Fatalf("wizard and flow should be reset after success")
	}
}

func TestWizardHandler_Submit_BackendFailure(t *testing.T) {
	gw := &stubGateway{
		createFn: func(string, domain.OrderDraft, string) (*domain.Order, error) {
			return nil, &domain.RequestFailedError{StatusCode: http.StatusBadRequest, Message: "Deadline must be in the future"}
		},
	}
	h := newHarness(t, gw)
	h.signIn(domain.RoleUser)
	fillDraft(t, h.visitor())

	rec, err := h.call(newWizardHandler().Submit, http.MethodPost, "/api/order/wizard/submit", nil, "")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	out := decodeSubmission(t, rec.Body.Bytes())
	if out.State != service.StateFailed || out.Message != "Deadline must be in the future" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if h.visitor().Wizard.Step() != wizard.TotalSteps {
		t.Fatalf("wizard must keep its position on failure")
	}
}

func TestWizardHandler_Submit_ExpiredCredentialSignsOut(t *testing.T) {
	gw := &stubGateway{
		createFn: func(string, domain.OrderDraft, string) (*domain.Order, error) {
			return nil, domain.ErrCredentialExpired
		},
	}
	h := newHarness(t, gw)
	h.signIn(domain.RoleUser)
	fillDraft(t, h.visitor())

	rec, err := h.call(newWizardHandler().Submit, http.MethodPost, "/api/order/wizard/submit", nil, "")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if h.visitor().Session.Authenticated() {
		t.Fatalf("rejected credential should sign the visitor out")
	}
	if !h.storage.has("pendingOrderData") {
		t.Fatalf("draft should be saved for the way back")
	}
}

// Signed-out submit saves the draft and sends the visitor to login; logging in
// and coming back restores the draft without submitting it.
func TestWizardHandler_SubmitLoginResume(t *testing.T) {
	gw := &stubGateway{
		createFn: func(string, domain.OrderDraft, string) (*domain.Order, error) {
			return &domain.Order{ID: "o_9"}, nil
		},
	}
	h := newHarness(t, gw)
	wh := newWizardHandler()

	h.visitor().EnsureRestored(t.Context(), noopMirror{})
	fillDraft(t, h.visitor())

	rec, err := h.call(wh.Submit, http.MethodPost, "/api/order/wizard/submit", nil, "")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	out := decodeSubmission(t, rec.Body.Bytes())
	if rec.Code != http.StatusUnauthorized || out.State != service.StateAuthRequired {
		t.Fatalf("expected auth_required, got %d %+v", rec.Code, out)
	}
	if out.Redirect != "/login?returnTo=%2Forder" {
		t.Fatalf("unexpected redirect %q", out.Redirect)
	}
	if gw.calls() != 0 {
		t.Fatalf("backend must not be called while signed out")
	}
	if !h.storage.has("pendingOrderData") {
		t.Fatalf("draft not saved")
	}

	// A new page load starts from a blank wizard.
	h.visitor().Wizard.Reset()
	h.signIn(domain.RoleUser)

	rec, err = h.call(wh.Show, http.MethodGet, "/api/order/wizard?fromAuth=true", nil, "")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeWizard(t, rec.Body.Bytes())
	if !resp.Resumed || resp.Draft.Category != "pop" || resp.Draft.SpecificDetails != "our names are Ana and Luis" {
		t.Fatalf("draft not resumed: %+v", resp)
	}
	if h.storage.has("pendingOrderData") {
		t.Fatalf("snapshot should be consumed by the resume")
	}
	if gw.calls() != 0 {
		t.Fatalf("resume must not submit")
	}
}

func TestWizardHandler_Show_AutoAdvanceOnResume(t *testing.T) {
	h := newHarness(t, &stubGateway{})
	h.visitor().EnsureRestored(t.Context(), noopMirror{})
	fillDraft(t, h.visitor())
	if _, err := h.visitor().Flow.Submit(t.Context(), h.visitor().Wizard.Draft()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	h.visitor().Wizard.Reset()
	h.signIn(domain.RoleUser)

	rec, err := h.call(NewWizardHandler(true, zerolog.Nop()).Show, http.MethodGet, "/api/order/wizard?fromAuth=true", nil, "")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp := decodeWizard(t, rec.Body.Bytes()); resp.Step != wizard.TotalSteps {
		t.Fatalf("expected fast-forward to step %d, got %d", wizard.TotalSteps, resp.Step)
	}
}

// ---- discard ----

func TestWizardHandler_Discard(t *testing.T) {
	h := newHarness(t, &stubGateway{})
	h.visitor().EnsureRestored(t.Context(), noopMirror{})
	fillDraft(t, h.visitor())
	_, _ = h.visitor().Flow.Submit(t.Context(), h.visitor().Wizard.Draft())

	rec, err := h.call(newWizardHandler().Discard, http.MethodDelete, "/api/order/wizard", nil, "")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp discardResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Discarded || !h.storage.has("pendingOrderData") {
		t.Fatalf("signed-out discard must keep the snapshot")
	}
	if h.visitor().Wizard.Step() != wizard.FirstStep {
		t.Fatalf("wizard should reset")
	}

	h.signIn(domain.RoleUser)
	rec, _ = h.call(newWizardHandler().Discard, http.MethodDelete, "/api/order/wizard", nil, "")
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.Discarded || h.storage.has("pendingOrderData") {
		t.Fatalf("signed-in discard should drop the snapshot")
	}
}
