/*
Package flow implements the conversation state machine of the ordering bot.

The machine advances a session exactly one step per inbound message, or
re-prompts without advancing when the input is invalid. It is pure with two
exceptions: it mutates the session it is handed, and it writes receipt
attachments to the configured sink. Delivering the replies is the caller's
job.
*/
package flow

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lumiflux/orderbot/internal/logging"
	"github.com/lumiflux/orderbot/pkg/domain"
	"github.com/lumiflux/orderbot/pkg/ports"
	"github.com/lumiflux/orderbot/pkg/pricing"
	"github.com/lumiflux/orderbot/pkg/textnorm"
)

// Config carries the values the machine quotes in its prompts.
type Config struct {
	BotName        string
	TriggerPhrase  string
	PixKey         string
	SupportContact string
}

// Machine drives one ordering conversation per call.
// Safe for concurrent use across conversations; the caller must serialize
// calls for a single conversation (see session.Manager.WithLock).
type Machine struct {
	cfg     Config
	trigger string // normalized trigger phrase

	catalog  ports.CatalogProvider
	receipts ports.ReceiptSink
	logger   *slog.Logger
}

// Option configures the Machine.
type Option func(*Machine)

// WithLogger configures a logger for the Machine.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// NewMachine creates a Machine with its collaborators.
func NewMachine(cfg Config, catalog ports.CatalogProvider, receipts ports.ReceiptSink, opts ...Option) *Machine {
	m := &Machine{
		cfg:      cfg,
		trigger:  textnorm.Normalize(cfg.TriggerPhrase),
		catalog:  catalog,
		receipts: receipts,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Result is the outcome of one machine step.
type Result struct {
	// Replies to deliver, in order.
	Replies []domain.Outbound

	// Confirmed is true when this step completed an order. The session has
	// already been restarted into a fresh active order at the zone step.
	Confirmed bool
}

func (r *Result) reply(conversationID, format string, args ...any) {
	r.Replies = append(r.Replies, domain.Outbound{
		ConversationID: conversationID,
		Text:           fmt.Sprintf(format, args...),
	})
}

// Step handles one inbound message for the given session, mutating it and
// returning the replies to send. Invalid input never changes the session
// beyond triggering a re-prompt.
func (m *Machine) Step(ctx context.Context, sess *domain.Session, msg domain.Inbound) (Result, error) {
	res := Result{}
	id := sess.ConversationID
	txt := textnorm.Normalize(msg.Text)

	// Entry gating: a dormant session only reacts to the exact trigger
	// phrase; anything else stays fully silent.
	if !sess.Active {
		if txt != m.trigger {
			return res, nil
		}
		sess.Active = true
		sess.Step = domain.StepZone
		res.reply(id, msgGreeting, m.cfg.BotName, zoneList(m.catalog.Zones()))
		return res, nil
	}

	// Global intercepts, only while active.
	switch {
	case strings.Contains(txt, "obrigad") || strings.Contains(txt, "valeu"):
		name := sess.CustomerName
		if name == "" {
			name = "amigo(a)"
		}
		res.reply(id, msgThanks, name)
		return res, nil
	case txt == "novo pedido":
		sess.Restart()
		res.reply(id, msgNewOrder, zoneList(m.catalog.Zones()))
		return res, nil
	case txt == "sair":
		sess.Reset()
		res.reply(id, msgFarewell, m.cfg.TriggerPhrase)
		return res, nil
	}

	switch sess.Step {
	case domain.StepZone:
		m.stepZone(sess, msg, &res)
	case domain.StepMenu:
		m.stepMenu(sess, msg, txt, &res)
	case domain.StepOptions:
		m.stepOptions(sess, msg, &res)
	case domain.StepQuantity:
		m.stepQuantity(sess, msg, &res)
	case domain.StepName:
		m.stepName(sess, msg, &res)
	case domain.StepAddress:
		m.stepAddress(sess, msg, &res)
	case domain.StepPayment:
		m.stepPayment(sess, msg, &res)
	case domain.StepChange:
		m.stepChange(sess, msg, txt, &res)
	case domain.StepReceipt:
		m.stepReceipt(ctx, sess, msg, &res)
	}

	// Any path that lands on confirm completes the order immediately and
	// restarts the session as an already-active fresh order, so a repeat
	// customer never has to re-send the trigger phrase.
	if sess.Step == domain.StepConfirm {
		res.reply(id, "%s", pricing.Summary(sess))
		res.reply(id, msgConfirmed, sess.CustomerName, sess.Address, m.cfg.SupportContact)
		sess.Restart()
		res.Confirmed = true
	}

	return res, nil
}

// ExpiryNotice is the single message sent when the idle watchdog resets a
// conversation.
func (m *Machine) ExpiryNotice(conversationID string) domain.Outbound {
	return domain.Outbound{
		ConversationID: conversationID,
		Text:           fmt.Sprintf(msgExpired, m.cfg.TriggerPhrase),
	}
}

func (m *Machine) stepZone(sess *domain.Session, msg domain.Inbound, res *Result) {
	zones := m.catalog.Zones()
	n, ok := parseIndex(msg.Text)
	if !ok || n < 1 || n > len(zones) {
		res.reply(sess.ConversationID, msgZoneInvalid, zoneList(zones))
		return
	}

	z := zones[n-1]
	sess.ZoneName = z.Name
	sess.DeliveryFee = z.Fee
	sess.Step = domain.StepMenu
	res.reply(sess.ConversationID, msgMenu, m.catalog.Catalog().Category, menuList(m.catalog.Catalog()))
}

func (m *Machine) stepMenu(sess *domain.Session, msg domain.Inbound, txt string, res *Result) {
	cat := m.catalog.Catalog()

	if strings.Contains(txt, "finalizar") || strings.Contains(txt, "finalizado") {
		if len(sess.Items) == 0 {
			res.reply(sess.ConversationID, msgNothingChosen)
			return
		}
		sess.Step = domain.StepName
		res.reply(sess.ConversationID, "%s", pricing.Summary(sess))
		res.reply(sess.ConversationID, msgAskName)
		return
	}

	n, ok := parseIndex(msg.Text)
	var item *domain.Item
	if ok {
		item = cat.ItemByID(n)
	}
	if item == nil {
		res.reply(sess.ConversationID, msgMenuInvalid)
		return
	}

	// Clone into the draft so a catalog reload mid-configuration cannot
	// change what the customer is pricing.
	sess.Draft = &domain.DraftItem{
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		Groups:    append([]domain.OptionGroup(nil), item.Groups...),
	}

	if len(item.Groups) == 0 {
		sess.Step = domain.StepQuantity
		res.reply(sess.ConversationID, msgAskQuantity)
		return
	}

	sess.Step = domain.StepOptions
	res.reply(sess.ConversationID, msgOptions, optionList(item.Groups))
}

func (m *Machine) stepOptions(sess *domain.Session, msg domain.Inbound, res *Result) {
	choice := strings.Join(strings.Fields(msg.Text), "")

	var selected []domain.SelectedOption
	if choice != "0" {
		for _, tok := range strings.Split(choice, ",") {
			i, err := strconv.Atoi(tok)
			if err != nil || i < 1 || i > len(sess.Draft.Groups) {
				continue // out-of-range indices are dropped silently
			}
			g := sess.Draft.Groups[i-1]
			selected = append(selected, domain.SelectedOption{Label: g.Label, ExtraPrice: g.ExtraPrice})
		}
	}

	sess.Draft.Selected = selected
	sess.Step = domain.StepQuantity
	res.reply(sess.ConversationID, msgAskQuantity)
}

func (m *Machine) stepQuantity(sess *domain.Session, msg domain.Inbound, res *Result) {
	q, ok := parseIndex(msg.Text)
	if !ok || q < 1 {
		res.reply(sess.ConversationID, msgQuantityInvalid)
		return
	}

	draft := sess.Draft
	sess.Items = append(sess.Items, domain.LineItem{
		Name:     draft.Name,
		Options:  draft.Selected,
		Quantity: q,
		Subtotal: pricing.Subtotal(draft.UnitPrice, draft.Selected, q),
	})
	sess.Draft = nil
	sess.Step = domain.StepMenu

	res.reply(sess.ConversationID, msgAdded, q, draft.Name)
	res.reply(sess.ConversationID, msgMenuAgain, menuList(m.catalog.Catalog()))
}

func (m *Machine) stepName(sess *domain.Session, msg domain.Inbound, res *Result) {
	name := strings.Join(strings.Fields(msg.Text), " ")
	if name == "" {
		res.reply(sess.ConversationID, msgAskName)
		return
	}
	sess.CustomerName = name
	sess.Step = domain.StepAddress
	res.reply(sess.ConversationID, msgAskAddress, name)
}

func (m *Machine) stepAddress(sess *domain.Session, msg domain.Inbound, res *Result) {
	sess.Address = strings.TrimSpace(msg.Text)
	sess.Step = domain.StepPayment
	res.reply(sess.ConversationID, "%s", pricing.Summary(sess))
	res.reply(sess.ConversationID, msgAskPayment)
}

func (m *Machine) stepPayment(sess *domain.Session, msg domain.Inbound, res *Result) {
	switch n, _ := parseIndex(msg.Text); n {
	case 1:
		sess.Payment = domain.PaymentPix
		sess.Step = domain.StepReceipt
		sess.AwaitingReceipt = true
		res.reply(sess.ConversationID, msgPix, m.cfg.PixKey)
	case 2:
		sess.Payment = domain.PaymentCardOnDelivery
		sess.Step = domain.StepConfirm
		res.reply(sess.ConversationID, msgCard)
	case 3:
		sess.Payment = domain.PaymentCash
		sess.Step = domain.StepChange
		res.reply(sess.ConversationID, msgAskChange)
	default:
		res.reply(sess.ConversationID, msgPaymentInvalid)
	}
}

func (m *Machine) stepChange(sess *domain.Session, msg domain.Inbound, txt string, res *Result) {
	if txt == "n" || strings.HasPrefix(txt, "nao") {
		sess.ChangeFor = 0
		sess.Step = domain.StepConfirm
		res.reply(sess.ConversationID, msgChangeNoted, "não precisa")
		return
	}

	v, ok := parseAmount(msg.Text)
	if !ok {
		res.reply(sess.ConversationID, msgChangeInvalid)
		return
	}
	sess.ChangeFor = v
	sess.Step = domain.StepConfirm
	res.reply(sess.ConversationID, msgChangeNoted, pricing.FormatMoney(v))
}

func (m *Machine) stepReceipt(ctx context.Context, sess *domain.Session, msg domain.Inbound, res *Result) {
	if !msg.HasAttachment {
		return // keep waiting; the watchdog bounds how long
	}

	content := []byte("comprovante")
	if msg.Attachment != nil {
		if len(msg.Attachment.Data) > 0 {
			content = msg.Attachment.Data
		} else if msg.Attachment.Filename != "" {
			content = []byte(msg.Attachment.Filename)
		}
	}

	key := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), sess.ConversationID)
	if err := m.receipts.Write(ctx, key, content); err != nil {
		// Losing a payment receipt silently is not acceptable; ask the
		// customer to resend and stay on this step.
		m.logger.Error("Failed to persist receipt",
			"conversation_id", sess.ConversationID,
			"key", key,
			"err", err,
		)
		res.reply(sess.ConversationID, msgReceiptFailed)
		return
	}

	sess.AwaitingReceipt = false
	sess.Step = domain.StepConfirm
	res.reply(sess.ConversationID, msgReceiptOK)
}

// parseIndex parses a 1-based selection typed by the customer.
func parseIndex(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

var amountRe = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

// parseAmount parses a monetary amount, accepting comma as decimal separator
// and ignoring surrounding text ("uns 50,00 reais" -> 50.00).
func parseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ",", ".")
	match := amountRe.FindString(s)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return v, true
}
