package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/bhavanapatidar/goalsaver/internal/advisor"
	"github.com/bhavanapatidar/goalsaver/internal/models"
	"github.com/bhavanapatidar/goalsaver/internal/render"
	"github.com/bhavanapatidar/goalsaver/internal/reqid"
	"github.com/bhavanapatidar/goalsaver/internal/service"
	"github.com/sirupsen/logrus"
)

// maxBodyBytes bounds the size of a request body
const maxBodyBytes = 1 << 20

var errMalformedBody = errors.New("malformed request body")

type errorResponse struct {
	Error  string   `json:"error"`
	Detail []string `json:"detail,omitempty"`
}

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// SavingsPlan handles savings plan generation
func (h *Handler) SavingsPlan(w http.ResponseWriter, r *http.Request) {
	in, err := decodeFinancials(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	plan, err := h.svc.GenerateSavingsPlan(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if wantsXML(r) {
		h.writeXML(w, r, func() ([]byte, error) { return render.SavingsPlanXML(plan) })
		return
	}
	h.respond(w, r, plan)
}

// RiskProfile handles risk profile calculation
func (h *Handler) RiskProfile(w http.ResponseWriter, r *http.Request) {
	in, err := decodeFinancials(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	profile, err := h.svc.ComputeRiskProfile(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if wantsXML(r) {
		h.writeXML(w, r, func() ([]byte, error) { return render.RiskProfileXML(profile) })
		return
	}
	h.respond(w, r, profile)
}

// Health reports that the service is up
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, map[string]string{"status": "healthy"})
}

func decodeFinancials(r *http.Request) (models.UserFinancials, error) {
	var req models.FinancialsRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return models.UserFinancials{}, models.ValidationErrors{{
				Field:  typeErr.Field,
				Reason: "expected " + typeErr.Type.String(),
				Err:    models.ErrInvalidField,
			}}
		}
		return models.UserFinancials{}, errMalformedBody
	}
	return req.UserFinancials()
}

// fail maps an error to a response. Internal details are only logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	entry := h.log.WithFields(logrus.Fields{
		"request_id": reqid.FromContext(r.Context()),
		"path":       r.URL.Path,
	})

	var verrs models.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		entry.Warnf("Rejected invalid input: %v", err)
		_ = writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Detail: verrs.Fields()})
	case errors.Is(err, errMalformedBody):
		entry.Warn("Rejected malformed request body")
		_ = writeJSON(w, http.StatusBadRequest, errorResponse{Error: errMalformedBody.Error()})
	case errors.Is(err, advisor.ErrNonPositiveDivisor):
		entry.Warnf("Rejected degenerate input: %v", err)
		_ = writeJSON(w, http.StatusBadRequest, errorResponse{Error: advisor.ErrNonPositiveDivisor.Error()})
	default:
		entry.Errorf("Request failed: %v", err)
		_ = writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func (h *Handler) writeXML(w http.ResponseWriter, r *http.Request, build func() ([]byte, error)) {
	body, err := build()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// respond writes v as a 200 JSON body. Nothing is sent until v has encoded.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, v any) {
	if err := writeJSON(w, http.StatusOK, v); err != nil {
		h.fail(w, r, fmt.Errorf("encoding response: %w", err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
	return nil
}

// wantsXML reports whether the first acceptable media type is XML
func wantsXML(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mediaType {
		case "application/xml", "text/xml":
			return true
		case "application/json", "*/*":
			return false
		}
	}
	return false
}
