package domain

import "time"

// OrderStatus represents the lifecycle state of a song order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderInProgress OrderStatus = "in_progress"
	OrderReview     OrderStatus = "review"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderInProgress, OrderCancelled},
	OrderInProgress: {OrderReview, OrderCancelled},
	OrderReview:     {OrderCompleted, OrderInProgress},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentStatus tracks whether an order has been paid for.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// AttachmentMeta describes a reference file stored with an order.
type AttachmentMeta struct {
	Name        string `json:"name" bson:"name"`
	ContentType string `json:"contentType" bson:"content_type"`
	Size        int64  `json:"size" bson:"size"`
}

// Order is the server-owned record of a submitted draft.
type Order struct {
	ID              string           `json:"id" bson:"_id" validate:"required"`
	CustomerID      string           `json:"customerId,omitempty" bson:"customer_id"`
	Category        string           `json:"category" bson:"category"`
	Occasion        string           `json:"occasion" bson:"occasion"`
	SongLength      string           `json:"songLength" bson:"song_length"`
	Deadline        string           `json:"deadline" bson:"deadline"`
	Tempo           string           `json:"tempo" bson:"tempo"`
	Mood            string           `json:"mood" bson:"mood"`
	References      string           `json:"references,omitempty" bson:"references,omitempty"`
	Lyrics          bool             `json:"lyrics" bson:"lyrics"`
	VocalGender     string           `json:"vocalGender,omitempty" bson:"vocal_gender,omitempty"`
	MusicalStyle    string           `json:"musicalStyle,omitempty" bson:"musical_style,omitempty"`
	Instruments     []string         `json:"instruments,omitempty" bson:"instruments,omitempty"`
	SpecificDetails string           `json:"specificDetails,omitempty" bson:"specific_details,omitempty"`
	Files           []AttachmentMeta `json:"files,omitempty" bson:"files,omitempty"`
	Status          OrderStatus      `json:"status" bson:"status"`
	PaymentStatus   PaymentStatus    `json:"paymentStatus" bson:"payment_status"`
	PaymentID       string           `json:"paymentId,omitempty" bson:"payment_id,omitempty"`
	TotalPrice      float64          `json:"totalPrice" bson:"total_price"`
	IdempotencyKey  string           `json:"-" bson:"idempotency_key,omitempty"`
	CreatedAt       time.Time        `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time        `json:"updatedAt" bson:"updated_at"`
}
