package model

// OutboundMail is one message on the outbound mail queue, serialized as
// JSON between the producer and the mailer worker.
type OutboundMail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
