// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package dispatch turns composed messages into wa.me deep links and hands
// them to the host environment. The host never reports delivery, so every
// outcome recorded here means "attempted", not "delivered".
package dispatch

import (
	"context"
	"fmt"
	"io"
	"sync"

	"affiliatedesk/internal/compose"
	"affiliatedesk/internal/phone"
)

// BaseURL is the WhatsApp click-to-chat endpoint.
const BaseURL = "https://wa.me/"

// Link builds the deep link for a phone number and a plain-text message.
func Link(number, message string) string {
	return BaseURL + phone.Digits(number) + "?text=" + compose.Encode(message)
}

// Opener hands a URL to the host environment. Implementations must not
// block on delivery; there is nothing to wait for.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, url string) error

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, url string) error {
	return f(ctx, url)
}

// Collector records links instead of opening them. The HTTP API returns
// the collected links so the operator's browser can open them.
type Collector struct {
	mu    sync.Mutex
	links []string
}

// Open appends url to the collected links.
func (c *Collector) Open(_ context.Context, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.links = append(c.links, url)
	return nil
}

// Links returns the links collected so far.
func (c *Collector) Links() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.links))
	copy(out, c.links)
	return out
}

// Printer writes each link to w, optionally followed by a terminal QR code
// the operator can scan with their phone.
type Printer struct {
	W  io.Writer
	QR bool
}

// Open prints url.
func (p Printer) Open(_ context.Context, url string) error {
	if _, err := fmt.Fprintln(p.W, url); err != nil {
		return fmt.Errorf("print link: %w", err)
	}
	if !p.QR {
		return nil
	}
	qr, err := TerminalQR(url)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(p.W, qr)
	return err
}
