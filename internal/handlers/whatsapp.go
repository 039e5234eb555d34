// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"affiliatedesk/internal/compose"
	"affiliatedesk/internal/dispatch"
	"affiliatedesk/internal/validate"
)

// qrSize is the edge length of generated QR PNGs, in pixels.
const qrSize = 256

// Templates handles GET /api/templates.
func (a *API) Templates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, orEmpty(a.catalog))
}

type composeRequest struct {
	AffiliateID string       `json:"affiliate_id"`
	Flow        compose.Flow `json:"flow"`
	Message     string       `json:"message"`
	Link        string       `json:"link"`
	ProductID   string       `json:"product_id"`
}

type composeResponse struct {
	AffiliateID string `json:"affiliate_id"`
	Message     string `json:"message"`
	Link        string `json:"link"`
}

// Compose handles POST /api/whatsapp/compose. It renders one message for
// one affiliate and returns the wa.me link that opens it. Composing
// counts as activity for the affiliate.
func (a *API) Compose(w http.ResponseWriter, r *http.Request) {
	var req composeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	aff, ok := a.store.Affiliates.Find(req.AffiliateID)
	if !ok {
		writeError(w, http.StatusNotFound, msgUnknownAff)
		return
	}

	tmpl := req.Message
	if req.Flow != compose.FlowCustom {
		var err error
		if tmpl, err = compose.FlowTemplate(req.Flow); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Unknown message type.")
			return
		}
	}
	if req.Flow == compose.FlowVideo && !validate.IsAbsoluteURL(req.Link) {
		writeError(w, http.StatusUnprocessableEntity, "Please enter a valid URL.")
		return
	}
	if msg := validate.Template(tmpl); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	in := compose.Input{Template: tmpl, RecipientName: aff.Name}
	if req.Flow == compose.FlowVideo || req.Flow == compose.FlowSampleReminder {
		in.Link = strings.TrimSpace(req.Link)
	}
	if req.ProductID != "" {
		p, ok := a.store.Products.Find(req.ProductID)
		if !ok {
			writeError(w, http.StatusUnprocessableEntity, msgUnknownProd)
			return
		}
		in.Product = &p
	}

	message := compose.Render(in)
	a.store.Affiliates.Touch(r.Context(), aff.ID)

	writeJSON(w, http.StatusOK, composeResponse{
		AffiliateID: aff.ID,
		Message:     message,
		Link:        dispatch.Link(aff.WhatsApp, message),
	})
}

// QR handles GET /api/whatsapp/qr?url=, returning a PNG for a wa.me link.
func (a *API) QR(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if !strings.HasPrefix(url, dispatch.BaseURL) {
		writeError(w, http.StatusUnprocessableEntity, msgInvalidQRURL)
		return
	}
	png, err := dispatch.QRPNG(url, qrSize)
	if err != nil {
		slog.Error("render qr code failed", "error", err)
		writeError(w, http.StatusUnprocessableEntity, msgInvalidQRURL)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
