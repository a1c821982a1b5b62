package domain

import "time"

// SubmissionEvent records one transition of a visitor's submission flow.
type SubmissionEvent struct {
	VisitorID string    `json:"visitorId" bson:"visitor_id"`
	State     string    `json:"state" bson:"state"`
	OrderID   string    `json:"orderId,omitempty" bson:"order_id,omitempty"`
	Message   string    `json:"message,omitempty" bson:"message,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
