// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"affiliatedesk/internal/models"
	"affiliatedesk/internal/store"
	"affiliatedesk/internal/validate"
)

// ErrInvalid marks a command whose payload failed validation. Nothing is
// written when Apply returns it.
var ErrInvalid = errors.New("invalid command")

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalid, msg)
}

// Result describes what Apply changed.
type Result struct {
	Action     Action             `json:"action"`
	Message    string             `json:"message,omitempty"`
	Affiliates []models.Affiliate `json:"affiliates,omitempty"`
	Samples    []models.Sample    `json:"samples,omitempty"`
	Broadcast  *models.Broadcast  `json:"broadcast,omitempty"`
	Reminder   *models.Reminder   `json:"reminder,omitempty"`
	Treatment  *models.Treatment  `json:"treatment,omitempty"`
	Deleted    []string           `json:"deleted,omitempty"`
}

type samplePayload struct {
	Name            string `json:"name"`
	ProductName     string `json:"product_name"`
	RequestDate     string `json:"request_date"`
	Status          string `json:"status"`
	ReminderMessage string `json:"reminder_message"`
}

type namePayload struct {
	Name string `json:"name"`
}

// Apply performs the store operations for cmd. Every item of a batch is
// validated before the first write, so a rejected command leaves the
// store untouched.
func Apply(ctx context.Context, st *store.Store, cmd Command) (Result, error) {
	res := Result{Action: cmd.Action}

	switch cmd.Action {
	case ActionError:
		res.Message = cmd.Message
		return res, nil

	case ActionAddAffiliate:
		var items []models.Affiliate
		if err := decode(cmd.Data, &items); err != nil {
			return res, err
		}
		for _, a := range items {
			if msg := validate.Affiliate(a); msg != "" {
				return res, invalid(msg)
			}
		}
		for _, a := range items {
			a.ProductIDs = nil
			res.Affiliates = append(res.Affiliates, st.Affiliates.Create(ctx, a))
		}
		res.Message = fmt.Sprintf("Added %d affiliate(s).", len(res.Affiliates))

	case ActionManageSample:
		return applySamples(ctx, st, cmd.Data)

	case ActionBroadcast:
		var b models.Broadcast
		if err := decode(cmd.Data, &b); err != nil {
			return res, err
		}
		if msg := validate.Template(b.MessageTemplate); msg != "" {
			return res, invalid(msg)
		}
		b = st.Broadcasts.Add(ctx, b)
		res.Broadcast = &b
		res.Message = "Broadcast plan saved."

	case ActionSmartReminder:
		var r models.Reminder
		if err := decode(cmd.Data, &r); err != nil {
			return res, err
		}
		if msg := validate.Template(r.MessageTemplate); msg != "" {
			return res, invalid(msg)
		}
		r = st.Reminders.Add(ctx, r)
		res.Reminder = &r
		res.Message = "Reminder saved."

	case ActionTreatment:
		var t models.Treatment
		if err := decode(cmd.Data, &t); err != nil {
			return res, err
		}
		if strings.TrimSpace(t.Name) == "" {
			return res, invalid("Please name the affiliate.")
		}
		t = st.Treatments.Add(ctx, t)
		res.Treatment = &t
		res.Message = "Treatment saved."

	case ActionDeleteAffiliate:
		var p namePayload
		if err := decode(cmd.Data, &p); err != nil {
			return res, err
		}
		a, ok := st.Affiliates.FindByName(p.Name)
		if !ok {
			res.Message = fmt.Sprintf("No affiliate named %q.", strings.TrimSpace(p.Name))
			return res, nil
		}
		st.DeleteAffiliate(ctx, a.ID)
		res.Deleted = []string{a.ID}
		res.Message = fmt.Sprintf("Deleted %s.", a.Name)

	default:
		return res, invalid("unknown action " + string(cmd.Action))
	}
	return res, nil
}

// applySamples updates the latest sample of each named affiliate, or
// requests a new one when none exists yet.
func applySamples(ctx context.Context, st *store.Store, data json.RawMessage) (Result, error) {
	res := Result{Action: ActionManageSample}

	var items []samplePayload
	if err := decode(data, &items); err != nil {
		return res, err
	}

	type plan struct {
		existing *models.Sample
		sample   models.Sample
	}
	plans := make([]plan, 0, len(items))
	for _, p := range items {
		status, ok := parseStatus(p.Status)
		if !ok {
			return res, invalid("Unknown sample status.")
		}
		s := models.Sample{
			Name:            strings.TrimSpace(p.Name),
			ProductName:     strings.TrimSpace(p.ProductName),
			RequestDate:     strings.TrimSpace(p.RequestDate),
			Status:          status,
			ReminderMessage: p.ReminderMessage,
		}
		if prod, ok := st.Products.FindByName(s.ProductName); ok && s.ProductName != "" {
			s.ProductID, s.ProductName = prod.ID, ""
		}

		if existing, ok := latestSample(st, s.Name); ok {
			merged := existing
			merged.Status = s.Status
			if s.RequestDate != "" {
				merged.RequestDate = s.RequestDate
			}
			if s.ReminderMessage != "" {
				merged.ReminderMessage = s.ReminderMessage
			}
			if msg := validate.Sample(merged); msg != "" {
				return res, invalid(msg)
			}
			plans = append(plans, plan{existing: &existing, sample: merged})
			continue
		}

		if s.RequestDate == "" {
			s.RequestDate = models.Today()
		}
		if msg := validate.Sample(s); msg != "" {
			return res, invalid(msg)
		}
		plans = append(plans, plan{sample: s})
	}

	for _, p := range plans {
		if p.existing != nil {
			st.Samples.Update(ctx, p.sample)
			res.Samples = append(res.Samples, p.sample)
			continue
		}
		res.Samples = append(res.Samples, st.Samples.Create(ctx, p.sample))
	}
	res.Message = fmt.Sprintf("Recorded %d sample(s).", len(res.Samples))
	return res, nil
}

func latestSample(st *store.Store, name string) (models.Sample, bool) {
	samples := st.Samples.List()
	for i := len(samples) - 1; i >= 0; i-- {
		if strings.EqualFold(samples[i].Name, name) {
			return samples[i], true
		}
	}
	return models.Sample{}, false
}

func parseStatus(s string) (models.SampleStatus, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.SampleRequested, true
	}
	for _, v := range models.SampleStatuses {
		if strings.EqualFold(string(v), s) {
			return v, true
		}
	}
	return "", false
}

func decode(data json.RawMessage, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return invalid("The assistant returned data in an unexpected shape.")
	}
	return nil
}
