// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// SampleStatus is the shipment state of a product sample. Any status may
// follow any other.
type SampleStatus string

const (
	SampleRequested  SampleStatus = "Requested"
	SampleProcessing SampleStatus = "Processing"
	SampleShipped    SampleStatus = "Shipped"
	SampleReceived   SampleStatus = "Received"
)

// SampleStatuses lists the valid statuses in display order.
var SampleStatuses = []SampleStatus{SampleRequested, SampleProcessing, SampleShipped, SampleReceived}

// Valid reports whether s is a known status.
func (s SampleStatus) Valid() bool {
	for _, v := range SampleStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Sample tracks a product shipment to an affiliate. Name is a snapshot of
// the affiliate's display name at request time, not a foreign key.
// ProductName is only set on records written before samples referenced
// products by id; the store resolves it to ProductID on load when possible.
type Sample struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	ProductID       string       `json:"productId,omitempty"`
	ProductName     string       `json:"product_name,omitempty"`
	RequestDate     string       `json:"request_date"`
	Status          SampleStatus `json:"status"`
	ReminderMessage string       `json:"reminder_message,omitempty"`
}

// Active reports whether the sample has not been received yet.
func (s Sample) Active() bool {
	return s.Status != SampleReceived
}
