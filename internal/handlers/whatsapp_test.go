// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"affiliatedesk/internal/compose"
	"affiliatedesk/internal/models"
)

func TestCompose(t *testing.T) {
	env := newTestEnv(t)
	aff := env.seedAffiliate(t, "Ayu Sari", 500)
	p := env.Store.Products.Create(context.Background(), models.Product{Name: "Serum", Link: "https://x.test/serum"})

	tests := []struct {
		name    string
		req     composeRequest
		code    int
		message string
	}{
		{"greeting", composeRequest{AffiliateID: aff.ID, Flow: compose.FlowGreeting}, http.StatusOK, "Halo kak Ayu, semoga sehat selalu ya!"},
		{"video", composeRequest{AffiliateID: aff.ID, Flow: compose.FlowVideo, Link: "https://drive.test/v"}, http.StatusOK,
			"Kak Ayu silahkan download video affiliate kita untuk bahan postingan ya. Berikut link nya : https://drive.test/v"},
		{"custom with product", composeRequest{AffiliateID: aff.ID, Flow: compose.FlowCustom, Message: "Hi {name}, cek [nama produk] di [link produk]", ProductID: p.ID}, http.StatusOK,
			"Hi Ayu, cek Serum di https://x.test/serum"},
		{"custom keeps link placeholder", composeRequest{AffiliateID: aff.ID, Flow: compose.FlowCustom, Message: "Hi {name}, see {link}", Link: "https://drive.test/v"}, http.StatusOK,
			"Hi Ayu, see {link}"},
		{"greeting ignores link", composeRequest{AffiliateID: aff.ID, Flow: compose.FlowGreeting, Link: "https://drive.test/v"}, http.StatusOK,
			"Halo kak Ayu, semoga sehat selalu ya!"},
		{"video without link", composeRequest{AffiliateID: aff.ID, Flow: compose.FlowVideo}, http.StatusUnprocessableEntity, ""},
		{"blank custom", composeRequest{AffiliateID: aff.ID, Flow: compose.FlowCustom, Message: " "}, http.StatusUnprocessableEntity, ""},
		{"blank flow", composeRequest{AffiliateID: aff.ID, Flow: compose.FlowBlank}, http.StatusUnprocessableEntity, ""},
		{"unknown flow", composeRequest{AffiliateID: aff.ID, Flow: "poem"}, http.StatusUnprocessableEntity, ""},
		{"unknown product", composeRequest{AffiliateID: aff.ID, Flow: compose.FlowGreeting, ProductID: "ghost"}, http.StatusUnprocessableEntity, ""},
		{"unknown affiliate", composeRequest{AffiliateID: "ghost", Flow: compose.FlowGreeting}, http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(env.API.Compose, jsonRequest(t, http.MethodPost, "/api/whatsapp/compose", tt.req))
			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.code, rec.Body.String())
			}
			if tt.code != http.StatusOK {
				return
			}
			var resp composeResponse
			decodeBody(t, rec, &resp)
			if resp.Message != tt.message {
				t.Errorf("message = %q, want %q", resp.Message, tt.message)
			}
			want := "https://wa.me/6281234567890?text=" + compose.Encode(tt.message)
			if resp.Link != want {
				t.Errorf("link = %q, want %q", resp.Link, want)
			}
		})
	}
}

func TestComposeStampsActivity(t *testing.T) {
	env := newTestEnv(t)
	aff := env.seedAffiliate(t, "Ayu", 500)
	aff.LastActivity = "2020-01-01"
	env.Store.Affiliates.Update(context.Background(), aff)

	serve(env.API.Compose, jsonRequest(t, http.MethodPost, "/", composeRequest{AffiliateID: aff.ID, Flow: compose.FlowGreeting}))

	got, _ := env.Store.Affiliates.Find(aff.ID)
	if got.LastActivity != models.Today() {
		t.Errorf("LastActivity = %q, want today", got.LastActivity)
	}
}

func TestQR(t *testing.T) {
	env := newTestEnv(t)

	link := "https://wa.me/6281234567890?text=Hi"
	rec := serve(env.API.QR, httptest.NewRequest(http.MethodGet, "/api/whatsapp/qr?url="+url.QueryEscape(link), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}

	rec = serve(env.API.QR, httptest.NewRequest(http.MethodGet, "/api/whatsapp/qr?url="+url.QueryEscape("https://evil.test"), nil))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("foreign url: status = %d", rec.Code)
	}
}

func TestTemplates(t *testing.T) {
	env := newTestEnv(t)
	rec := serve(env.API.Templates, httptest.NewRequest(http.MethodGet, "/api/templates", nil))
	var cat compose.Catalog
	decodeBody(t, rec, &cat)
	if len(cat) == 0 || len(cat[0].Templates) == 0 {
		t.Errorf("catalog = %+v", cat)
	}
}
