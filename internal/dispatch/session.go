// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"affiliatedesk/internal/compose"
	"affiliatedesk/internal/models"
)

// State is the phase of a broadcast session.
type State string

const (
	StateIdle        State = "idle"
	StateComposing   State = "composing"
	StateDispatching State = "dispatching"
)

var (
	// ErrAlreadySent is returned when selecting a recipient that was
	// messaged earlier in the session.
	ErrAlreadySent = errors.New("recipient was already messaged in this session")

	// ErrBusy is returned for changes attempted while a dispatch runs.
	ErrBusy = errors.New("a broadcast is being dispatched")

	// ErrNothingToSend is returned when dispatching without recipients
	// or without a message.
	ErrNothingToSend = errors.New("select recipients and write a message first")
)

// Recipient is the part of an affiliate a broadcast needs.
type Recipient struct {
	ID    string
	Name  string
	Phone string
}

// RecipientFromAffiliate extracts a Recipient.
func RecipientFromAffiliate(a models.Affiliate) Recipient {
	return Recipient{ID: a.ID, Name: a.Name, Phone: a.WhatsApp}
}

// Pacing spaces out link opening. After every BatchSize links the
// dispatcher waits Delay before continuing. The zero value opens every
// link back to back. Without an opener the wait is not taken; each
// outcome carries the offset at which the caller should open its link.
type Pacing struct {
	BatchSize int           `json:"batch_size"`
	Delay     time.Duration `json:"delay"`
}

func (p Pacing) enabled() bool {
	return p.BatchSize > 0 && p.Delay > 0
}

// offset is when the link at position n (zero based) should be opened.
func (p Pacing) offset(n int) time.Duration {
	if !p.enabled() {
		return 0
	}
	return time.Duration(n/p.BatchSize) * p.Delay
}

// OutcomeStatus describes what happened to one recipient.
type OutcomeStatus string

const (
	// OutcomeAttempted means the link was handed to the opener. Delivery is
	// never confirmed.
	OutcomeAttempted OutcomeStatus = "attempted"
	OutcomeFailed    OutcomeStatus = "failed"
	OutcomeSkipped   OutcomeStatus = "skipped"
	OutcomeMissing   OutcomeStatus = "missing"
)

// Outcome is the result for one selected recipient.
type Outcome struct {
	RecipientID string        `json:"recipient_id"`
	Name        string        `json:"name,omitempty"`
	Link        string        `json:"link,omitempty"`
	Status      OutcomeStatus `json:"status"`
	Error       string        `json:"error,omitempty"`
	// OpenAfterMS is the delay, from receipt of the report, before the
	// link should be opened. Set only when the session has no opener.
	OpenAfterMS int64 `json:"open_after_ms"`
}

// Report aggregates the outcomes of a dispatch.
type Report struct {
	Outcomes  []Outcome `json:"outcomes"`
	Attempted int       `json:"attempted"`
	Failed    int       `json:"failed"`
	Skipped   int       `json:"skipped"`
	Missing   int       `json:"missing"`
}

func (r *Report) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.Status {
	case OutcomeAttempted:
		r.Attempted++
	case OutcomeFailed:
		r.Failed++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeMissing:
		r.Missing++
	}
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	State     State    `json:"state"`
	Selected  []string `json:"selected"`
	Template  string   `json:"template"`
	ProductID string   `json:"product_id,omitempty"`
	Sent      []string `json:"sent"`
	Pacing    Pacing   `json:"pacing"`
}

// Session holds the state of one broadcast composer: the selected
// recipients, the template, the optional product and the sent set.
// Idle -> Composing -> Dispatching -> Idle.
type Session struct {
	mu        sync.Mutex
	state     State
	selected  []string
	template  string
	productID string
	pacing    Pacing

	sent   SentSet
	opener Opener
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewSession creates an idle session. A nil sent set defaults to an
// in-memory one. A nil opener leaves opening to the caller: Dispatch
// returns the links with their pacing offsets and never waits.
func NewSession(opener Opener, sent SentSet, pacing Pacing) *Session {
	if sent == nil {
		sent = NewMemorySentSet()
	}
	return &Session{
		state:    StateIdle,
		template: compose.DefaultBroadcastTemplate,
		pacing:   pacing,
		sent:     sent,
		opener:   opener,
		sleep:    sleepCtx,
	}
}

// Select adds id to the selection. Ids already messaged in this session
// are refused.
func (s *Session) Select(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDispatching {
		return ErrBusy
	}
	sent, err := s.sent.Contains(ctx, id)
	if err != nil {
		return fmt.Errorf("check sent set: %w", err)
	}
	if sent {
		return ErrAlreadySent
	}
	if !slices.Contains(s.selected, id) {
		s.selected = append(s.selected, id)
	}
	s.touch()
	return nil
}

// Deselect removes id from the selection.
func (s *Session) Deselect(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDispatching {
		return ErrBusy
	}
	s.selected = slices.DeleteFunc(s.selected, func(v string) bool { return v == id })
	s.touch()
	return nil
}

// SelectAll replaces the selection with every id in available that has not
// been messaged yet. When that set is already fully selected the selection
// is cleared instead, mirroring a select-all checkbox.
func (s *Session) SelectAll(ctx context.Context, available []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDispatching {
		return ErrBusy
	}
	var open []string
	for _, id := range available {
		sent, err := s.sent.Contains(ctx, id)
		if err != nil {
			return fmt.Errorf("check sent set: %w", err)
		}
		if !sent && !slices.Contains(open, id) {
			open = append(open, id)
		}
	}

	if len(open) > 0 && sameMembers(open, s.selected) {
		s.selected = nil
	} else {
		s.selected = open
	}
	s.touch()
	return nil
}

// SetTemplate stores the message template and the optional product id.
func (s *Session) SetTemplate(tmpl, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDispatching {
		return ErrBusy
	}
	s.template = tmpl
	s.productID = productID
	s.touch()
	return nil
}

// SetPacing changes the smart-sending parameters.
func (s *Session) SetPacing(p Pacing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pacing = p
}

// Reset clears the selection and the sent set, starting a new session.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDispatching {
		return ErrBusy
	}
	if err := s.sent.Reset(ctx); err != nil {
		return fmt.Errorf("reset sent set: %w", err)
	}
	s.selected = nil
	s.template = compose.DefaultBroadcastTemplate
	s.productID = ""
	s.state = StateIdle
	return nil
}

// Snapshot returns the current session view.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	snap := Snapshot{
		State:     s.state,
		Selected:  slices.Clone(s.selected),
		Template:  s.template,
		ProductID: s.productID,
		Pacing:    s.pacing,
	}
	s.mu.Unlock()

	sent, err := s.sent.Members(ctx)
	if err != nil {
		return snap, fmt.Errorf("list sent set: %w", err)
	}
	snap.Sent = sent
	return snap, nil
}

// IsSent reports whether id was messaged in this session.
func (s *Session) IsSent(ctx context.Context, id string) (bool, error) {
	return s.sent.Contains(ctx, id)
}

// Dispatch opens one personalized link per selected recipient, in
// selection order. resolve looks up recipients by id; product, when
// non-nil, fills the product placeholders.
//
// Recipients whose link was handed to the opener join the sent set and
// leave the selection, as do ids that no longer resolve. If the opener
// fails, that recipient and all remaining ones stay selected.
func (s *Session) Dispatch(ctx context.Context, resolve func(id string) (Recipient, bool), product *models.Product) (Report, error) {
	s.mu.Lock()
	if s.state == StateDispatching {
		s.mu.Unlock()
		return Report{}, ErrBusy
	}
	if len(s.selected) == 0 || strings.TrimSpace(s.template) == "" {
		s.mu.Unlock()
		return Report{}, ErrNothingToSend
	}
	targets := slices.Clone(s.selected)
	tmpl := compose.WithProduct(s.template, product)
	pacing := s.pacing
	s.state = StateDispatching
	s.mu.Unlock()

	var report Report
	var attempted, missing []string
	var abort error
	opened := 0

	for _, id := range targets {
		if abort != nil {
			report.add(Outcome{RecipientID: id, Status: OutcomeSkipped, Error: abort.Error()})
			continue
		}
		r, ok := resolve(id)
		if !ok {
			missing = append(missing, id)
			report.add(Outcome{RecipientID: id, Status: OutcomeMissing})
			continue
		}

		link := Link(r.Phone, compose.Personalize(tmpl, r.Name))
		if s.opener == nil {
			attempted = append(attempted, id)
			report.add(Outcome{
				RecipientID: id, Name: r.Name, Link: link, Status: OutcomeAttempted,
				OpenAfterMS: pacing.offset(opened).Milliseconds(),
			})
			opened++
			continue
		}

		if pacing.enabled() && opened > 0 && opened%pacing.BatchSize == 0 {
			if err := s.sleep(ctx, pacing.Delay); err != nil {
				abort = err
				report.add(Outcome{RecipientID: id, Name: r.Name, Status: OutcomeSkipped, Error: err.Error()})
				continue
			}
		}

		if err := s.opener.Open(ctx, link); err != nil {
			slog.Warn("open broadcast link failed", "recipient", id, "error", err)
			abort = err
			report.add(Outcome{RecipientID: id, Name: r.Name, Link: link, Status: OutcomeFailed, Error: err.Error()})
			continue
		}
		opened++
		attempted = append(attempted, id)
		report.add(Outcome{RecipientID: id, Name: r.Name, Link: link, Status: OutcomeAttempted})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var sentErr error
	if len(attempted) > 0 {
		if err := s.sent.Add(ctx, attempted...); err != nil {
			sentErr = fmt.Errorf("record sent recipients: %w", err)
		}
	}
	s.selected = slices.DeleteFunc(s.selected, func(id string) bool {
		return slices.Contains(attempted, id) || slices.Contains(missing, id)
	})
	s.state = StateIdle
	s.touch()

	slog.Info("broadcast dispatched",
		"attempted", report.Attempted,
		"failed", report.Failed,
		"skipped", report.Skipped,
		"missing", report.Missing,
	)
	return report, sentErr
}

// touch moves an idle session into composing once there is something to
// send, and back to idle when the selection is emptied.
func (s *Session) touch() {
	if s.state == StateDispatching {
		return
	}
	if len(s.selected) > 0 {
		s.state = StateComposing
	} else {
		s.state = StateIdle
	}
}

func sameMembers(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, v := range a {
		if !slices.Contains(b, v) {
			return false
		}
	}
	return true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
