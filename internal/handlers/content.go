// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"affiliatedesk/internal/contenttree"
	"affiliatedesk/internal/models"
	"affiliatedesk/internal/store"
	"affiliatedesk/internal/validate"
)

// contentTreeResponse is one content bank scope.
type contentTreeResponse struct {
	AffiliateID string             `json:"affiliate_id,omitempty"`
	Tree        []contenttree.Node `json:"tree"`
	Expanded    []string           `json:"expanded"`
}

// ContentTree handles GET /api/content?affiliate=. Without the parameter
// the internal content bank is returned.
func (a *API) ContentTree(w http.ResponseWriter, r *http.Request) {
	affiliateID := r.URL.Query().Get("affiliate")
	writeJSON(w, http.StatusOK, contentTreeResponse{
		AffiliateID: affiliateID,
		Tree:        orEmpty(a.store.Content.Tree(affiliateID)),
		Expanded:    orEmpty(a.expansion.IDs()),
	})
}

// ContentCreate handles POST /api/content.
func (a *API) ContentCreate(w http.ResponseWriter, r *http.Request) {
	var in models.ContentItem
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if msg := validate.ContentItem(in); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if in.AffiliateID != "" {
		if _, ok := a.store.Affiliates.Find(in.AffiliateID); !ok {
			writeError(w, http.StatusUnprocessableEntity, msgUnknownAff)
			return
		}
	}

	created, err := a.store.Content.Create(r.Context(), in)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, contentErrorMessage(err))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ContentUpdate handles PUT /api/content/{id}. Parent and scope cannot be
// changed through this route.
func (a *API) ContentUpdate(w http.ResponseWriter, r *http.Request) {
	var in models.ContentItem
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	in.ID = chi.URLParam(r, "id")
	if msg := validate.ContentItem(in); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	ok, err := a.store.Content.Update(r.Context(), in)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, contentErrorMessage(err))
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, updateResponse{})
		return
	}
	it, _ := a.store.Content.Find(in.ID)
	writeJSON(w, http.StatusOK, updateResponse{Updated: true, Record: it})
}

// ContentDelete handles DELETE /api/content/{id}, removing the whole
// subtree.
func (a *API) ContentDelete(w http.ResponseWriter, r *http.Request) {
	removed := a.store.Content.Delete(r.Context(), chi.URLParam(r, "id"))
	a.expansion.Forget(removed...)
	if len(removed) > 0 {
		slog.Info("content deleted", "items", len(removed))
	}
	writeJSON(w, http.StatusOK, map[string][]string{"deleted": orEmpty(removed)})
}

// ContentToggle handles POST /api/content/{id}/toggle. Only categories
// expand; anything else reports expanded=false and changes nothing.
func (a *API) ContentToggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	expanded := false
	if it, ok := a.store.Content.Find(id); ok && it.IsCategory() {
		expanded = a.expansion.Toggle(id)
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "expanded": expanded})
}

func contentErrorMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "The parent category no longer exists."
	case errors.Is(err, store.ErrInvalidParent):
		return "Items can only be placed inside a category of the same content bank."
	case errors.Is(err, store.ErrHasChildren):
		return "Empty this category before turning it into a link."
	}
	return msgInternal
}
