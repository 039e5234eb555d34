// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"affiliatedesk/internal/dispatch"
	"affiliatedesk/internal/models"
	"affiliatedesk/internal/validate"
)

// broadcastRecipient is an affiliate as listed in the broadcast composer.
type broadcastRecipient struct {
	models.Affiliate
	Selected bool `json:"selected"`
	Sent     bool `json:"sent"`
}

type broadcastView struct {
	Session   dispatch.Snapshot    `json:"session"`
	Available []broadcastRecipient `json:"available"`
}

type broadcastIDRequest struct {
	ID string `json:"id"`
}

type broadcastFilter struct {
	Query     string `json:"q"`
	ProductID string `json:"product"`
}

type broadcastTemplateRequest struct {
	Template  string `json:"template"`
	ProductID string `json:"product_id"`
}

// BroadcastView handles GET /api/broadcast?q=&product=&hide_sent=.
func (a *API) BroadcastView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hideSent, _ := strconv.ParseBool(q.Get("hide_sent"))
	a.writeBroadcast(w, r, broadcastFilter{Query: q.Get("q"), ProductID: q.Get("product")}, hideSent)
}

// BroadcastSelect handles POST /api/broadcast/select. Unknown ids are
// ignored; already-messaged ones are refused with 409.
func (a *API) BroadcastSelect(w http.ResponseWriter, r *http.Request) {
	var req broadcastIDRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if _, ok := a.store.Affiliates.Find(req.ID); ok {
		if err := a.session.Select(r.Context(), req.ID); err != nil {
			a.sessionError(w, err)
			return
		}
	}
	a.writeBroadcast(w, r, broadcastFilter{}, false)
}

// BroadcastDeselect handles POST /api/broadcast/deselect.
func (a *API) BroadcastDeselect(w http.ResponseWriter, r *http.Request) {
	var req broadcastIDRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := a.session.Deselect(req.ID); err != nil {
		a.sessionError(w, err)
		return
	}
	a.writeBroadcast(w, r, broadcastFilter{}, false)
}

// BroadcastSelectAll handles POST /api/broadcast/select-all. It toggles
// every not-yet-messaged affiliate matching the optional filter.
func (a *API) BroadcastSelectAll(w http.ResponseWriter, r *http.Request) {
	var f broadcastFilter
	if err := decodeJSON(w, r, &f); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	var ids []string
	for _, aff := range a.store.Affiliates.Search(f.Query, f.ProductID) {
		ids = append(ids, aff.ID)
	}
	if err := a.session.SelectAll(r.Context(), ids); err != nil {
		a.sessionError(w, err)
		return
	}
	a.writeBroadcast(w, r, f, false)
}

// BroadcastTemplate handles POST /api/broadcast/template.
func (a *API) BroadcastTemplate(w http.ResponseWriter, r *http.Request) {
	var req broadcastTemplateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if msg := validate.Template(req.Template); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if req.ProductID != "" {
		if _, ok := a.store.Products.Find(req.ProductID); !ok {
			writeError(w, http.StatusUnprocessableEntity, msgUnknownProd)
			return
		}
	}
	if err := a.session.SetTemplate(req.Template, req.ProductID); err != nil {
		a.sessionError(w, err)
		return
	}
	a.writeBroadcast(w, r, broadcastFilter{}, false)
}

// BroadcastReset handles POST /api/broadcast/reset, starting a new session
// with an empty sent set.
func (a *API) BroadcastReset(w http.ResponseWriter, r *http.Request) {
	if err := a.session.Reset(r.Context()); err != nil {
		a.sessionError(w, err)
		return
	}
	a.writeBroadcast(w, r, broadcastFilter{}, false)
}

// BroadcastDispatch handles POST /api/broadcast/dispatch. The report's
// outcomes carry the wa.me links for the client to open, each with the
// open_after_ms offset that applies the configured pacing.
func (a *API) BroadcastDispatch(w http.ResponseWriter, r *http.Request) {
	snap, err := a.session.Snapshot(r.Context())
	if err != nil {
		a.sessionError(w, err)
		return
	}
	var product *models.Product
	if snap.ProductID != "" {
		if p, ok := a.store.Products.Find(snap.ProductID); ok {
			product = &p
		}
	}

	resolve := func(id string) (dispatch.Recipient, bool) {
		aff, ok := a.store.Affiliates.Find(id)
		if !ok {
			return dispatch.Recipient{}, false
		}
		return dispatch.RecipientFromAffiliate(aff), true
	}

	report, err := a.session.Dispatch(r.Context(), resolve, product)
	switch {
	case errors.Is(err, dispatch.ErrNothingToSend):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case isConflict(err):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		// Links were produced; only the sent-set bookkeeping failed.
		slog.Warn("broadcast sent set not updated", "error", err)
	}
	report.Outcomes = orEmpty(report.Outcomes)
	writeJSON(w, http.StatusOK, report)
}

func (a *API) writeBroadcast(w http.ResponseWriter, r *http.Request, f broadcastFilter, hideSent bool) {
	snap, err := a.session.Snapshot(r.Context())
	if err != nil {
		a.sessionError(w, err)
		return
	}
	snap.Selected = orEmpty(snap.Selected)
	snap.Sent = orEmpty(snap.Sent)

	view := broadcastView{Session: snap, Available: []broadcastRecipient{}}
	for _, aff := range a.store.Affiliates.Search(f.Query, f.ProductID) {
		sent := slices.Contains(snap.Sent, aff.ID)
		if hideSent && sent {
			continue
		}
		view.Available = append(view.Available, broadcastRecipient{
			Affiliate: aff,
			Selected:  slices.Contains(snap.Selected, aff.ID),
			Sent:      sent,
		})
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) sessionError(w http.ResponseWriter, err error) {
	if isConflict(err) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	slog.Error("broadcast session failed", "error", err)
	writeError(w, http.StatusInternalServerError, msgInternal)
}
