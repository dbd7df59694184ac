package smsgateway

// Message is the payload sent to the SMS gateway.
type Message struct {
	To       string `json:"to"`
	SenderID string `json:"sender_id"`
	Body     string `json:"body"`
}

// SendResponse is the gateway's acknowledgement.
type SendResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

// ErrorResponse is the gateway's error shape.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
