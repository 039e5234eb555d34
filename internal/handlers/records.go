// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"affiliatedesk/internal/compose"
	"affiliatedesk/internal/dispatch"
	"affiliatedesk/internal/models"
	"affiliatedesk/internal/validate"
)

// --- Affiliates ---

// AffiliatesList handles GET /api/affiliates?q=&product=.
func (a *API) AffiliatesList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, orEmpty(a.store.Affiliates.Search(q.Get("q"), q.Get("product"))))
}

// AffiliateCreate handles POST /api/affiliates.
func (a *API) AffiliateCreate(w http.ResponseWriter, r *http.Request) {
	var in models.Affiliate
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if msg := a.checkAffiliate(in); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	created := a.store.Affiliates.Create(r.Context(), in)
	slog.Info("affiliate created", "id", created.ID, "tier", created.Tier)
	writeJSON(w, http.StatusCreated, created)
}

// AffiliateUpdate handles PUT /api/affiliates/{id}.
func (a *API) AffiliateUpdate(w http.ResponseWriter, r *http.Request) {
	var in models.Affiliate
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	in.ID = chi.URLParam(r, "id")
	if msg := a.checkAffiliate(in); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	updated, ok := a.store.Affiliates.Update(r.Context(), in)
	if !ok {
		writeJSON(w, http.StatusOK, updateResponse{})
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{Updated: true, Record: updated})
}

// AffiliateDelete handles DELETE /api/affiliates/{id}. The affiliate's
// content bank goes with it.
func (a *API) AffiliateDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if a.store.DeleteAffiliate(r.Context(), id) {
		slog.Info("affiliate deleted", "id", id)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) checkAffiliate(in models.Affiliate) string {
	if msg := validate.Affiliate(in); msg != "" {
		return msg
	}
	for _, pid := range in.ProductIDs {
		if _, ok := a.store.Products.Find(pid); !ok {
			return msgUnknownProd
		}
	}
	return ""
}

// --- Products ---

// ProductsList handles GET /api/products.
func (a *API) ProductsList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, orEmpty(a.store.Products.List()))
}

// ProductCreate handles POST /api/products.
func (a *API) ProductCreate(w http.ResponseWriter, r *http.Request) {
	var in models.Product
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if msg := validate.Product(in); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	writeJSON(w, http.StatusCreated, a.store.Products.Create(r.Context(), in))
}

// ProductUpdate handles PUT /api/products/{id}.
func (a *API) ProductUpdate(w http.ResponseWriter, r *http.Request) {
	var in models.Product
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	in.ID = chi.URLParam(r, "id")
	if msg := validate.Product(in); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if !a.store.Products.Update(r.Context(), in) {
		writeJSON(w, http.StatusOK, updateResponse{})
		return
	}
	p, _ := a.store.Products.Find(in.ID)
	writeJSON(w, http.StatusOK, updateResponse{Updated: true, Record: p})
}

// ProductDelete handles DELETE /api/products/{id}. Affiliates linked to
// the product are unlinked.
func (a *API) ProductDelete(w http.ResponseWriter, r *http.Request) {
	a.store.DeleteProduct(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// --- Samples ---

// SamplesList handles GET /api/samples.
func (a *API) SamplesList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, orEmpty(a.store.Samples.List()))
}

// SampleCreate handles POST /api/samples. Status defaults to Requested
// and the request date to today.
func (a *API) SampleCreate(w http.ResponseWriter, r *http.Request) {
	var in models.Sample
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if in.Status == "" {
		in.Status = models.SampleRequested
	}
	if in.RequestDate == "" {
		in.RequestDate = models.Today()
	}
	if msg := a.checkSample(in); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	writeJSON(w, http.StatusCreated, a.store.Samples.Create(r.Context(), in))
}

// SampleUpdate handles PUT /api/samples/{id}.
func (a *API) SampleUpdate(w http.ResponseWriter, r *http.Request) {
	var in models.Sample
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	in.ID = chi.URLParam(r, "id")
	if msg := a.checkSample(in); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if !a.store.Samples.Update(r.Context(), in) {
		writeJSON(w, http.StatusOK, updateResponse{})
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{Updated: true, Record: in})
}

// SampleStatus handles PATCH /api/samples/{id}/status.
func (a *API) SampleStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status models.SampleStatus `json:"status"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if !in.Status.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "Unknown sample status.")
		return
	}
	id := chi.URLParam(r, "id")
	if !a.store.Samples.SetStatus(r.Context(), id, in.Status) {
		writeJSON(w, http.StatusOK, updateResponse{})
		return
	}
	sm, _ := a.store.Samples.Find(id)
	writeJSON(w, http.StatusOK, updateResponse{Updated: true, Record: sm})
}

// SampleDelete handles DELETE /api/samples/{id}.
func (a *API) SampleDelete(w http.ResponseWriter, r *http.Request) {
	a.store.Samples.Delete(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// reminderResponse is the follow-up message for one sample. Link is empty
// when the requester is not a known affiliate.
type reminderResponse struct {
	SampleID    string `json:"sample_id"`
	AffiliateID string `json:"affiliate_id,omitempty"`
	Message     string `json:"message"`
	Link        string `json:"link,omitempty"`
}

// SampleReminder handles GET /api/samples/{id}/reminder. The sample's own
// reminder message wins over the built-in follow-up text.
func (a *API) SampleReminder(w http.ResponseWriter, r *http.Request) {
	sm, ok := a.store.Samples.Find(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}

	tmpl := sm.ReminderMessage
	if tmpl == "" {
		tmpl, _ = compose.FlowTemplate(compose.FlowSampleReminder)
	}
	in := compose.Input{Template: tmpl, RecipientName: sm.Name}
	if p, ok := a.store.Products.Find(sm.ProductID); ok {
		in.Product = &p
	}

	resp := reminderResponse{SampleID: sm.ID, Message: compose.Render(in)}
	if aff, ok := a.store.Affiliates.FindByName(sm.Name); ok {
		resp.AffiliateID = aff.ID
		resp.Link = dispatch.Link(aff.WhatsApp, resp.Message)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) checkSample(in models.Sample) string {
	if msg := validate.Sample(in); msg != "" {
		return msg
	}
	if in.ProductID != "" {
		if _, ok := a.store.Products.Find(in.ProductID); !ok {
			return msgUnknownProd
		}
	}
	return ""
}
