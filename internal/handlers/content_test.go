// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"affiliatedesk/internal/models"
)

func createContent(t *testing.T, env *testEnv, it models.ContentItem) models.ContentItem {
	t.Helper()
	rec := serve(env.API.ContentCreate, jsonRequest(t, http.MethodPost, "/api/content", it))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create %q: status = %d, body %s", it.Name, rec.Code, rec.Body.String())
	}
	var got models.ContentItem
	decodeBody(t, rec, &got)
	return got
}

func TestContentTreeAndCascadeDelete(t *testing.T) {
	env := newTestEnv(t)
	a := createContent(t, env, models.ContentItem{Name: "A", Type: models.ContentCategory})
	b := createContent(t, env, models.ContentItem{Name: "B", Type: models.ContentCategory, ParentID: a.ID})
	c := createContent(t, env, models.ContentItem{Name: "C", Type: models.ContentLink, Link: "https://x.test/c", ParentID: b.ID})
	other := createContent(t, env, models.ContentItem{Name: "Other", Type: models.ContentCategory})

	rec := serve(env.API.ContentTree, httptest.NewRequest(http.MethodGet, "/api/content", nil))
	var tree contentTreeResponse
	decodeBody(t, rec, &tree)
	if len(tree.Tree) != 2 || tree.Tree[0].Item.ID != a.ID || tree.Tree[0].Children[0].Children[0].Item.ID != c.ID {
		t.Fatalf("unexpected tree: %+v", tree.Tree)
	}

	rec = serve(env.API.ContentDelete, withChiURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", a.ID))
	var resp map[string][]string
	decodeBody(t, rec, &resp)
	got := resp["deleted"]
	sort.Strings(got)
	want := []string{a.ID, b.ID, c.ID}
	sort.Strings(want)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("deleted (-want +got):\n%s", diff)
	}

	items := env.Store.Content.List()
	if len(items) != 1 || items[0].ID != other.ID {
		t.Errorf("remaining = %+v", items)
	}
}

func TestContentCreateRejects(t *testing.T) {
	env := newTestEnv(t)
	link := createContent(t, env, models.ContentItem{Name: "L", Type: models.ContentLink, Link: "https://x.test"})

	tests := []struct {
		name string
		item models.ContentItem
	}{
		{"link without url", models.ContentItem{Name: "X", Type: models.ContentLink}},
		{"bad type", models.ContentItem{Name: "X", Type: "folder"}},
		{"parent is a link", models.ContentItem{Name: "X", Type: models.ContentCategory, ParentID: link.ID}},
		{"missing parent", models.ContentItem{Name: "X", Type: models.ContentCategory, ParentID: "ghost"}},
		{"unknown affiliate", models.ContentItem{Name: "X", Type: models.ContentCategory, AffiliateID: "ghost"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(env.API.ContentCreate, jsonRequest(t, http.MethodPost, "/api/content", tt.item))
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422", rec.Code)
			}
		})
	}
	if n := len(env.Store.Content.List()); n != 1 {
		t.Errorf("content count = %d, want 1", n)
	}
}

func TestContentScopedToAffiliate(t *testing.T) {
	env := newTestEnv(t)
	aff := env.seedAffiliate(t, "Ayu", 500)
	createContent(t, env, models.ContentItem{Name: "Internal", Type: models.ContentCategory})
	createContent(t, env, models.ContentItem{Name: "Mine", Type: models.ContentCategory, AffiliateID: aff.ID})

	rec := serve(env.API.ContentTree, httptest.NewRequest(http.MethodGet, "/api/content?affiliate="+aff.ID, nil))
	var tree contentTreeResponse
	decodeBody(t, rec, &tree)
	if len(tree.Tree) != 1 || tree.Tree[0].Item.Name != "Mine" {
		t.Errorf("affiliate tree = %+v", tree.Tree)
	}
}

func TestContentUpdateCategoryWithChildren(t *testing.T) {
	env := newTestEnv(t)
	a := createContent(t, env, models.ContentItem{Name: "A", Type: models.ContentCategory})
	createContent(t, env, models.ContentItem{Name: "B", Type: models.ContentCategory, ParentID: a.ID})

	change := models.ContentItem{Name: "A", Type: models.ContentLink, Link: "https://x.test"}
	rec := serve(env.API.ContentUpdate, withChiURLParam(jsonRequest(t, http.MethodPut, "/", change), "id", a.ID))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}

	rename := models.ContentItem{Name: "Hooks", Type: models.ContentCategory}
	rec = serve(env.API.ContentUpdate, withChiURLParam(jsonRequest(t, http.MethodPut, "/", rename), "id", a.ID))
	var resp updateResponse
	decodeBody(t, rec, &resp)
	if !resp.Updated {
		t.Error("rename should succeed")
	}
	got, _ := env.Store.Content.Find(a.ID)
	if got.Name != "Hooks" {
		t.Errorf("Name = %q", got.Name)
	}
}

func TestContentToggle(t *testing.T) {
	env := newTestEnv(t)
	cat := createContent(t, env, models.ContentItem{Name: "A", Type: models.ContentCategory})
	link := createContent(t, env, models.ContentItem{Name: "L", Type: models.ContentLink, Link: "https://x.test"})

	toggle := func(id string) bool {
		rec := serve(env.API.ContentToggle, withChiURLParam(httptest.NewRequest(http.MethodPost, "/", nil), "id", id))
		var resp struct {
			Expanded bool `json:"expanded"`
		}
		decodeBody(t, rec, &resp)
		return resp.Expanded
	}

	if !toggle(cat.ID) {
		t.Error("first toggle should expand")
	}
	if toggle(cat.ID) {
		t.Error("second toggle should collapse")
	}
	if toggle(link.ID) {
		t.Error("links never expand")
	}
	if toggle("ghost") {
		t.Error("unknown ids never expand")
	}
}
