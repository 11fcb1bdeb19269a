package handlers

import "autohub.ng/autohub-web/internal/config"

// Analytics holds client instrumentation configuration surfaced to templates.
type Analytics struct {
	GA4MeasurementID string // e.g. G-XXXXXXXXXX
	GTMContainerID   string // e.g. GTM-XXXXXXX
	Debug            bool
}

// AnalyticsFromConfig copies the analytics identifiers from the loaded configuration.
func AnalyticsFromConfig(c config.AnalyticsConfig) Analytics {
	return Analytics{
		GA4MeasurementID: c.GA4MeasurementID,
		GTMContainerID:   c.GTMContainerID,
		Debug:            c.Debug,
	}
}

// Enabled reports whether any tag should be rendered.
func (a Analytics) Enabled() bool {
	return a.GA4MeasurementID != "" || a.GTMContainerID != ""
}
