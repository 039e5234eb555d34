// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package contenttree answers structural questions about the content bank
// forest: which nodes are children of which, what a subtree contains, and
// which categories the operator has expanded. It works on the flat slice
// held by the store and never mutates it.
package contenttree

import "affiliatedesk/internal/models"

// Node is one item of a nested tree view.
type Node struct {
	Item     models.ContentItem `json:"item"`
	Depth    int                `json:"depth"`
	Children []Node             `json:"children,omitempty"`
}

// Index groups a flat item slice by parent so child lookups are O(1).
// Children keep the insertion order of the backing slice.
type Index struct {
	items    []models.ContentItem
	byParent map[string][]int
}

// NewIndex builds an index over items. The slice must not be modified
// while the index is in use.
func NewIndex(items []models.ContentItem) *Index {
	ix := &Index{
		items:    items,
		byParent: make(map[string][]int, len(items)),
	}
	for i, it := range items {
		ix.byParent[it.ParentID] = append(ix.byParent[it.ParentID], i)
	}
	return ix
}

// Children returns the direct children of parentID that belong to the
// scope affiliateID. An empty affiliateID selects the internal forest.
func (ix *Index) Children(parentID, affiliateID string) []models.ContentItem {
	var out []models.ContentItem
	for _, i := range ix.byParent[parentID] {
		if ix.items[i].AffiliateID == affiliateID {
			out = append(out, ix.items[i])
		}
	}
	return out
}

// Descendants returns the ids of every transitive child of id, excluding
// id itself.
func (ix *Index) Descendants(id string) map[string]struct{} {
	seen := make(map[string]struct{})
	var walk func(parent string)
	walk = func(parent string) {
		for _, i := range ix.byParent[parent] {
			child := ix.items[i].ID
			if _, ok := seen[child]; ok || child == id {
				continue
			}
			seen[child] = struct{}{}
			walk(child)
		}
	}
	walk(id)
	return seen
}

// Tree returns the nested forest for one scope.
func (ix *Index) Tree(affiliateID string) []Node {
	return ix.build("", affiliateID, 0, map[string]bool{})
}

func (ix *Index) build(parentID, affiliateID string, depth int, visiting map[string]bool) []Node {
	var result []Node
	for _, it := range ix.Children(parentID, affiliateID) {
		if visiting[it.ID] {
			continue
		}
		visiting[it.ID] = true
		n := Node{Item: it, Depth: depth}
		if it.IsCategory() {
			n.Children = ix.build(it.ID, affiliateID, depth+1, visiting)
		}
		delete(visiting, it.ID)
		result = append(result, n)
	}
	return result
}

// Children is a convenience wrapper for a one-off lookup.
func Children(items []models.ContentItem, parentID, affiliateID string) []models.ContentItem {
	return NewIndex(items).Children(parentID, affiliateID)
}

// Roots returns the top-level items of one scope.
func Roots(items []models.ContentItem, affiliateID string) []models.ContentItem {
	return Children(items, "", affiliateID)
}

// Descendants returns the ids of every transitive child of id.
func Descendants(items []models.ContentItem, id string) map[string]struct{} {
	return NewIndex(items).Descendants(id)
}

// Build returns the nested forest for one scope.
func Build(items []models.ContentItem, affiliateID string) []Node {
	return NewIndex(items).Tree(affiliateID)
}

// Flatten walks a forest depth-first and returns the nodes in display
// order with their Depth set. Children are dropped from the copies.
func Flatten(nodes []Node) []Node {
	var result []Node
	flattenInto(nodes, &result)
	return result
}

func flattenInto(nodes []Node, result *[]Node) {
	for _, n := range nodes {
		children := n.Children
		n.Children = nil
		*result = append(*result, n)
		if len(children) > 0 {
			flattenInto(children, result)
		}
	}
}
