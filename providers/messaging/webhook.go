package messaging

// WebhookPayload is the inbound envelope from the messaging platform.
// Modeled explicitly; only the fields the pipeline reads are declared.
type WebhookPayload struct {
	Destination string         `json:"destination"`
	Events      []WebhookEvent `json:"events"`
}

type WebhookEvent struct {
	Type       string         `json:"type"`
	ReplyToken string         `json:"replyToken"`
	Source     WebhookSource  `json:"source"`
	Message    WebhookMessage `json:"message"`
}

type WebhookSource struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

type WebhookMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

func (e *WebhookEvent) IsImage() bool {
	return e.Type == "message" && e.Message.Type == "image"
}
