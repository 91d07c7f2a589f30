package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/twofactor/pkg/logger"
	"github.com/dmitrymomot/twofactor/pkg/twofactor"
)

type sendTokenRequest struct {
	Method      string `json:"method"`
	Destination string `json:"destination"`
}

type sendTokenResponse struct {
	ExpiresAt time.Time `json:"expires_at"`
}

// verifyRequest is shared by token and TOTP verification. When Subject is
// set and the code is valid, the session gate is marked passed for Resource.
type verifyRequest struct {
	Code     string `json:"code"`
	Subject  string `json:"subject,omitempty"`
	Resource string `json:"resource,omitempty"`
}

type verifyResponse struct {
	Valid      bool `json:"valid"`
	GatePassed bool `json:"gate_passed"`
}

type enrollRequest struct {
	AccountName string `json:"account_name"`
}

type enrollResponse struct {
	Secret string `json:"secret"`
	URI    string `json:"uri"`
	QRCode string `json:"qr_code"`
}

type gateResponse struct {
	Required bool `json:"required"`
	Passed   bool `json:"passed"`
}

func (a *api) sendToken(w http.ResponseWriter, r *http.Request) {
	var req sendTokenRequest
	if err := bindJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	verr := validationError{}
	method := twofactor.Method(strings.ToLower(strings.TrimSpace(req.Method)))
	if !method.IsPush() {
		verr["method"] = "must be email or sms"
	}
	if strings.TrimSpace(req.Destination) == "" {
		verr["destination"] = "is required"
	}
	if len(verr) > 0 {
		a.fail(w, r, verr)
		return
	}

	expiresAt, err := a.svc.SendToken(r.Context(), chi.URLParam(r, "principalID"), method, req.Destination)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusAccepted, sendTokenResponse{ExpiresAt: expiresAt})
}

func (a *api) verifyToken(w http.ResponseWriter, r *http.Request) {
	a.verify(w, r, a.svc.VerifyToken)
}

func (a *api) verifyTotp(w http.ResponseWriter, r *http.Request) {
	a.verify(w, r, a.svc.VerifyTotp)
}

func (a *api) verify(w http.ResponseWriter, r *http.Request, check func(ctx context.Context, principalID, code string) (bool, error)) {
	var req verifyRequest
	if err := bindJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		a.fail(w, r, validationError{"code": "is required"})
		return
	}

	valid, err := check(r.Context(), chi.URLParam(r, "principalID"), req.Code)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	resp := verifyResponse{Valid: valid}
	if valid && a.limiter != nil {
		if err := a.limiter.Reset(r.Context(), verifyKey(r)); err != nil {
			a.logger.WarnContext(r.Context(), "failed to reset verification rate limit",
				logger.PrincipalID(chi.URLParam(r, "principalID")),
				logger.Error(err),
				logger.Component("httpapi"),
			)
		}
	}
	if valid && req.Subject != "" {
		if err := a.svc.MarkPassed(r.Context(), req.Subject, req.Resource); err != nil {
			a.fail(w, r, err)
			return
		}
		resp.GatePassed = true
	}
	a.ok(w, http.StatusOK, resp)
}

func (a *api) enroll(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	if err := bindJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	e, err := a.svc.Enroll(r.Context(), chi.URLParam(r, "principalID"), req.AccountName)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, http.StatusCreated, enrollResponse{Secret: e.Secret, URI: e.URI, QRCode: e.QRCode})
}

func (a *api) disableTotp(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.DisableTotp(r.Context(), chi.URLParam(r, "principalID")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) gateStatus(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	resource := r.URL.Query().Get("resource")
	if subject == "" {
		a.fail(w, r, validationError{"subject": "is required"})
		return
	}

	resp := gateResponse{Required: a.svc.IsRequired(resource)}
	passed, err := a.svc.HasPassed(r.Context(), subject, resource)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	resp.Passed = passed
	a.ok(w, http.StatusOK, resp)
}
