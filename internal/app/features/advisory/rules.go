// internal/app/features/advisory/rules.go
package advisory

// Advisory is one actionable recommendation derived from current weather.
type Advisory struct {
	Severity string `json:"severity"` // info | warning | critical
	Message  string `json:"message"`
}

type rule struct {
	match    func(Weather) bool
	severity string
	message  string
}

// rules run in order; every matching rule contributes an advisory.
var rules = []rule{
	{
		match:    func(w Weather) bool { return w.TempC >= 40 },
		severity: "critical",
		message:  "Extreme heat. Irrigate in the early morning or late evening and provide shade for livestock.",
	},
	{
		match:    func(w Weather) bool { return w.TempC >= 35 && w.TempC < 40 },
		severity: "warning",
		message:  "High temperatures expected. Increase irrigation frequency and mulch to retain soil moisture.",
	},
	{
		match:    func(w Weather) bool { return w.TempC <= 5 },
		severity: "critical",
		message:  "Frost risk. Cover sensitive seedlings overnight and delay transplanting.",
	},
	{
		match:    func(w Weather) bool { return w.RainMM >= 20 },
		severity: "warning",
		message:  "Heavy rain in the last hour. Check field drainage and postpone fertilizer application.",
	},
	{
		match:    func(w Weather) bool { return w.RainMM > 0 && w.RainMM < 20 },
		severity: "info",
		message:  "Light rain recorded. Skip scheduled irrigation today.",
	},
	{
		match:    func(w Weather) bool { return w.Humidity >= 85 },
		severity: "warning",
		message:  "Very humid conditions favour fungal disease. Inspect crops and ensure airflow between rows.",
	},
	{
		match:    func(w Weather) bool { return w.WindKph >= 30 },
		severity: "warning",
		message:  "Strong winds. Do not spray pesticides; stake tall crops and young trees.",
	},
}

// Advisories evaluates the rule table against a weather snapshot. A calm
// reading yields a single all-clear entry so the response is never empty.
func Advisories(w Weather) []Advisory {
	var out []Advisory
	for _, r := range rules {
		if r.match(w) {
			out = append(out, Advisory{Severity: r.severity, Message: r.message})
		}
	}
	if len(out) == 0 {
		out = append(out, Advisory{
			Severity: "info",
			Message:  "Conditions look favourable for routine field work.",
		})
	}
	return out
}
