// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package compose

import "fmt"

// Flow names a canned single-recipient message.
type Flow string

const (
	FlowBlank          Flow = "blank"
	FlowGreeting       Flow = "greeting"
	FlowVideo          Flow = "video"
	FlowSampleReminder Flow = "sample_reminder"
	FlowCustom         Flow = "custom"
)

// DefaultBroadcastTemplate pre-fills the broadcast composer.
const DefaultBroadcastTemplate = "Hi {name}, yuk semangat posting konten minggu ini! 🎥"

var flowTemplates = map[Flow]string{
	FlowBlank:          "",
	FlowGreeting:       "Halo kak {name}, semoga sehat selalu ya!",
	FlowVideo:          "Kak {name} silahkan download video affiliate kita untuk bahan postingan ya. Berikut link nya : {link}",
	FlowSampleReminder: "Halo kak {name}, mau follow up untuk sample produknya ya. Sesuai kesepakatan, ditunggu 5 video TikTok-nya. Semangat! 💪",
}

// FlowTemplate returns the canned template for f. FlowCustom has none.
func FlowTemplate(f Flow) (string, error) {
	tmpl, ok := flowTemplates[f]
	if !ok {
		return "", fmt.Errorf("compose: unknown flow %q", f)
	}
	return tmpl, nil
}
