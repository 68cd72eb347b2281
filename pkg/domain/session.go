package domain

// Step identifies the current position of a conversation in the ordering flow.
type Step string

const (
	StepZone     Step = "zone"     // Choosing the delivery zone
	StepMenu     Step = "menu"     // Picking items from the menu
	StepOptions  Step = "options"  // Selecting options for the draft item
	StepQuantity Step = "quantity" // Entering the quantity for the draft item
	StepName     Step = "name"     // Asking the customer name
	StepAddress  Step = "address"  // Asking the delivery address
	StepPayment  Step = "payment"  // Choosing the payment method
	StepChange   Step = "change"   // Asking how much change is needed (cash only)
	StepReceipt  Step = "awaiting_receipt" // Waiting for the PIX receipt attachment
	StepConfirm  Step = "confirm"  // Order complete, summary + confirmation go out
)

// PaymentMethod enumerates the accepted payment methods.
type PaymentMethod string

const (
	PaymentPix            PaymentMethod = "pix"
	PaymentCardOnDelivery PaymentMethod = "card_on_delivery"
	PaymentCash           PaymentMethod = "cash"
)

// SelectedOption is an option the customer attached to a line item.
type SelectedOption struct {
	Label      string  `json:"label"`
	ExtraPrice float64 `json:"extra_price"`
}

// LineItem is a committed entry of the order. Insertion order is the
// display order in the summary.
type LineItem struct {
	Name     string           `json:"name"`
	Options  []SelectedOption `json:"options,omitempty"`
	Quantity int              `json:"quantity"`
	Subtotal float64          `json:"subtotal"`
}

// DraftItem is the item currently being configured, between picking it from
// the menu and committing it with a quantity.
type DraftItem struct {
	Name      string           `json:"name"`
	UnitPrice float64          `json:"unit_price"`
	Groups    []OptionGroup    `json:"groups,omitempty"`
	Selected  []SelectedOption `json:"selected,omitempty"`
}

// Session is the per-conversation mutable state of an order in progress.
// It is only mutated by the flow machine handling a message from its own
// conversation, or reset by the idle watchdog.
type Session struct {
	ConversationID string `json:"conversation_id"`

	// Active reports whether the trigger phrase has been matched since the
	// last reset. While false, Step is inert.
	Active bool `json:"active"`
	Step   Step `json:"step"`

	CustomerName string `json:"customer_name,omitempty"`

	// ZoneName and DeliveryFee are set exactly once per order, at the zone
	// step, and never change until reset.
	ZoneName    string  `json:"zone_name,omitempty"`
	DeliveryFee float64 `json:"delivery_fee"`

	Address string        `json:"address,omitempty"`
	Payment PaymentMethod `json:"payment,omitempty"`

	// ChangeFor is the amount the customer will pay with in cash; zero means
	// no change needed.
	ChangeFor float64 `json:"change_for,omitempty"`

	Items []LineItem `json:"items,omitempty"`
	Draft *DraftItem `json:"draft,omitempty"`

	// AwaitingReceipt is true only while Step == StepReceipt.
	AwaitingReceipt bool `json:"awaiting_receipt,omitempty"`
}

// NewSession creates the inert default session for a conversation.
func NewSession(conversationID string) *Session {
	return &Session{
		ConversationID: conversationID,
		Step:           StepZone,
	}
}

// Reset clears the session back to its inert default, keeping only the
// conversation identity.
func (s *Session) Reset() {
	*s = Session{
		ConversationID: s.ConversationID,
		Step:           StepZone,
	}
}

// Restart clears the order but keeps the session active, ready for a fresh
// order from the same customer without re-triggering.
func (s *Session) Restart() {
	s.Reset()
	s.Active = true
}
