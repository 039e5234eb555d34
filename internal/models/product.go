// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Product is an item promoted by affiliates. Link is an absolute URL.
type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Link string `json:"link"`
}
