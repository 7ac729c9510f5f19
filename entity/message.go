package entity

// InboundMessage is a normalized text message received from WhatsApp.
type InboundMessage struct {
	ID   string `json:"id"`
	From string `json:"from"`
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
	Text string `json:"text"`
}
