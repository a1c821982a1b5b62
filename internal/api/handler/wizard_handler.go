package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/waosongs/storefront/internal/api/metrics"
	"github.com/waosongs/storefront/internal/core/domain"
	"github.com/waosongs/storefront/internal/core/service"
	"github.com/waosongs/storefront/internal/core/wizard"
)

const (
	maxAttachmentSize = 10 << 20
	maxAttachments    = 10
	attachmentsField  = "files"
)

var allowedAttachmentExt = map[string]struct{}{
	".mp3": {}, ".wav": {}, ".pdf": {}, ".doc": {}, ".docx": {},
}

// WizardHandler drives the order wizard and its submission.
type WizardHandler struct {
	autoAdvance bool
	log         zerolog.Logger
}

// NewWizardHandler builds the handler. With autoAdvance a resumed draft jumps
// to the furthest step whose requirements it already meets.
func NewWizardHandler(autoAdvance bool, log zerolog.Logger) *WizardHandler {
	return &WizardHandler{autoAdvance: autoAdvance, log: log}
}

// Show returns the wizard. Coming back from login, it first merges the draft
// saved before the login round trip.
//
// @Summary      Order wizard state
// @Tags         order
// @Produce      json
// @Param        fromAuth  query     bool  false  "Set when returning from the login page"
// @Success      200       {object}  wizardResponse
// @Router       /api/order/wizard [get]
func (h *WizardHandler) Show(c echo.Context) error {
	v, _, err := ctxVisitor(c)
	if err != nil {
		return err
	}

	var resumed, reattach bool
	if c.QueryParam(service.ResumeMarker) == "true" && v.Session.Authenticated() {
		res, ok := v.Flow.ResumeAfterAuth(c.Request().Context(), v.Wizard.Draft(), v.Wizard.Edited)
		if ok {
			v.Wizard.Adopt(res.Draft)
			if h.autoAdvance {
				v.Wizard.FastForward()
			}
			resumed, reattach = true, res.HadAttachments
			metrics.ResumesTotal.WithLabelValues("hit").Inc()
		} else {
			metrics.ResumesTotal.WithLabelValues("miss").Inc()
		}
	}

	return c.JSON(http.StatusOK, h.view(v, resumed, reattach))
}

// UpdateField sets one draft field. Instruments toggle; lyrics takes a boolean.
//
// @Summary      Update a draft field
// @Tags         order
// @Accept       json
// @Produce      json
// @Param        body  body      updateFieldRequest  true  "Field and value"
// @Success      200   {object}  wizardResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/order/wizard/fields [patch]
func (h *WizardHandler) UpdateField(c echo.Context) error {
	v, _, err := ctxVisitor(c)
	if err != nil {
		return err
	}

	var req updateFieldRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	field, ok := domain.ParseDraftField(req.Field)
	if !ok {
		return fmt.Errorf("%w: %s", wizard.ErrUnknownField, req.Field)
	}
	if err := v.Wizard.UpdateField(field, req.Value); err != nil {
		if errors.Is(err, wizard.ErrUnknownField) {
			return err
		}
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid value for %s", field))
	}
	return c.JSON(http.StatusOK, h.view(v, false, false))
}

// Attachments replaces the reference files of the draft.
//
// @Summary      Replace reference files
// @Tags         order
// @Accept       multipart/form-data
// @Produce      json
// @Param        files  formData  file  false  "MP3, WAV, PDF or DOC files, 10MB each"
// @Success      200    {object}  wizardResponse
// @Failure      400    {object}  errorResponse
// @Failure      413    {object}  errorResponse
// @Router       /api/order/wizard/attachments [put]
func (h *WizardHandler) Attachments(c echo.Context) error {
	v, _, err := ctxVisitor(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}
	headers := form.File[attachmentsField]
	if len(headers) > maxAttachments {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("at most %d files", maxAttachments))
	}

	files := make([]domain.Attachment, 0, len(headers))
	for _, fh := range headers {
		if _, ok := allowedAttachmentExt[strings.ToLower(filepath.Ext(fh.Filename))]; !ok {
			return echo.NewHTTPError(http.StatusBadRequest, fh.Filename+": only MP3, WAV, PDF or DOC files")
		}
		if fh.Size > maxAttachmentSize {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fh.Filename+": files are limited to 10MB")
		}
		f, err := fh.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(io.LimitReader(f, maxAttachmentSize+1))
		f.Close()
		if err != nil {
			return fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		if len(data) > maxAttachmentSize {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fh.Filename+": files are limited to 10MB")
		}
		files = append(files, domain.Attachment{
			Name:        filepath.Base(fh.Filename),
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	v.Wizard.SetAttachments(files)
	return c.JSON(http.StatusOK, h.view(v, false, false))
}

// Next moves forward when the current step is complete.
//
// @Summary      Next step
// @Tags         order
// @Produce      json
// @Success      200  {object}  wizardResponse
// @Failure      422  {object}  errorResponse
// @Router       /api/order/wizard/next [post]
func (h *WizardHandler) Next(c echo.Context) error {
	v, _, err := ctxVisitor(c)
	if err != nil {
		return err
	}
	if err := v.Wizard.Advance(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.view(v, false, false))
}

// Prev moves back one step.
//
// @Summary      Previous step
// @Tags         order
// @Produce      json
// @Success      200  {object}  wizardResponse
// @Router       /api/order/wizard/prev [post]
func (h *WizardHandler) Prev(c echo.Context) error {
	v, _, err := ctxVisitor(c)
	if err != nil {
		return err
	}
	v.Wizard.Retreat()
	return c.JSON(http.StatusOK, h.view(v, false, false))
}

// Submit sends the finished draft. A signed-out visitor gets a login redirect
// and the draft is kept for the way back.
//
// @Summary      Submit the order
// @Tags         order
// @Produce      json
// @Success      201  {object}  service.Submission
// @Failure      401  {object}  service.Submission
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Failure      502  {object}  service.Submission
// @Router       /api/order/wizard/submit [post]
func (h *WizardHandler) Submit(c echo.Context) error {
	v, mirror, err := ctxVisitor(c)
	if err != nil {
		return err
	}
	if step := v.Wizard.Step(); step != wizard.TotalSteps {
		return echo.NewHTTPError(http.StatusConflict, fmt.Sprintf("order is on step %d of %d", step, wizard.TotalSteps))
	}

	ctx := c.Request().Context()
	out, err := v.Flow.Submit(ctx, v.Wizard.Draft())
	if err != nil {
		return err
	}
	if out.State != service.StateIdle {
		metrics.SubmissionsTotal.WithLabelValues(string(out.State)).Inc()
	}

	switch out.State {
	case service.StateSucceeded:
		v.Wizard.Reset()
		v.Flow.Reset()
		return c.JSON(http.StatusCreated, out)
	case service.StateAuthRequired:
		if v.Session.Authenticated() {
			v.Session.Expire(ctx, mirror)
		}
		return c.JSON(http.StatusUnauthorized, out)
	case service.StateFailed:
		return c.JSON(failureStatus(out.Err), out)
	default:
		return c.JSON(http.StatusOK, out)
	}
}

// Discard abandons the order. The saved draft survives for signed-out
// visitors who are on their way to log in.
//
// @Summary      Cancel the order
// @Tags         order
// @Produce      json
// @Success      200  {object}  discardResponse
// @Router       /api/order/wizard [delete]
func (h *WizardHandler) Discard(c echo.Context) error {
	v, _, err := ctxVisitor(c)
	if err != nil {
		return err
	}
	v.Wizard.Reset()
	discarded := v.Flow.Discard(c.Request().Context(), v.Session.Authenticated())
	return c.JSON(http.StatusOK, discardResponse{Discarded: discarded, Redirect: service.DefaultDestination})
}

func (h *WizardHandler) view(v *service.Visitor, resumed, reattach bool) wizardResponse {
	return wizardResponse{
		View:          v.Wizard.View(),
		State:         v.Flow.State(),
		Resumed:       resumed,
		ReattachFiles: reattach,
	}
}

// failureStatus picks the HTTP status for a failed submission.
func failureStatus(err error) int {
	var rf *domain.RequestFailedError
	if errors.As(err, &rf) {
		if rf.StatusCode >= http.StatusBadRequest && rf.StatusCode < http.StatusInternalServerError {
			return rf.StatusCode
		}
		if rf.StatusCode == http.StatusGatewayTimeout {
			return http.StatusGatewayTimeout
		}
	}
	return http.StatusBadGateway
}
