package domain

// ExtractedTime is one timestamp pulled out of a JSON document.
type ExtractedTime struct {
	Index int    `json:"index"`
	Raw   string `json:"raw"`

	Instant Instant `json:"instant"`
	Zone    ZoneID  `json:"zone,omitempty"`
	Display string  `json:"display,omitempty"`
	Offset  string  `json:"offset,omitempty"`

	// Message explains why the value could not be used.
	Message string `json:"message,omitempty"`
}

func (e ExtractedTime) OK() bool { return e.Message == "" }
