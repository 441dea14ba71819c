package notify

import (
	"fmt"
	"log"

	"github.com/keighl/postmark"
)

// Template names accepted by Send.
const (
	TemplateWelcome         = "welcome"
	TemplateOrderPlaced     = "order-placed"
	TemplateOrderStatus     = "order-status"
	TemplateKitchenDecision = "kitchen-decision"
	TemplateContactReceived = "contact-received"
)

// Mailer wraps the Postmark client. A Mailer built without an API token is
// still usable: sends degrade to log lines, which keeps local development
// working without credentials.
type Mailer struct {
	client *postmark.Client
	from   string
}

func NewMailer(apiToken, from string) *Mailer {
	m := &Mailer{from: from}
	if apiToken != "" {
		m.client = postmark.NewClient(apiToken, "")
	}
	return m
}

// Send renders the named template and delivers it synchronously.
// Callers on a request path should use SendAsync instead.
func (m *Mailer) Send(template string, data map[string]interface{}) error {
	to, _ := data["to"].(string)
	if to == "" {
		return fmt.Errorf("notify: recipient missing for template %q", template)
	}

	subject, htmlBody, err := renderTemplate(template, data)
	if err != nil {
		return err
	}

	if m.client == nil {
		log.Printf("[MAIL] [INFO] (dry-run) to=%s template=%s subject=%q", to, template, subject)
		return nil
	}

	_, err = m.client.SendEmail(postmark.Email{
		From:     m.from,
		To:       to,
		Subject:  subject,
		HtmlBody: htmlBody,
		TextBody: htmlBody,
	})
	if err != nil {
		return fmt.Errorf("notify: send %q failed: %w", template, err)
	}
	return nil
}

// SendAsync dispatches the email off the request path. At-most-once:
// failures are logged and never retried.
func (m *Mailer) SendAsync(template string, data map[string]interface{}) {
	go func() {
		if err := m.Send(template, data); err != nil {
			log.Println("[MAIL] [ERROR] async send failed:", err)
		}
	}()
}

func renderTemplate(template string, data map[string]interface{}) (subject, html string, err error) {
	name, _ := data["name"].(string)

	switch template {
	case TemplateWelcome:
		subject = "Welcome to TifinCart"
		html = fmt.Sprintf("<strong>Hi %s,</strong><br><br>Your TifinCart account is ready. Browse home kitchens near you and order your first tiffin today.", name)
	case TemplateOrderPlaced:
		subject = "Order placed"
		html = fmt.Sprintf(
			"<strong>Hi %s,</strong><br><br>Your order <strong>%v</strong> has been placed with <strong>%v</strong>.<br>Total: <strong>₹%.2f</strong><br>Payment: <strong>%v</strong><br><br>We'll let you know as it progresses.",
			name, data["orderId"], data["kitchenName"], floatValue(data["total"]), data["paymentMethod"],
		)
	case TemplateOrderStatus:
		subject = fmt.Sprintf("Order update: %v", data["status"])
		html = fmt.Sprintf(
			"<strong>Hi %s,</strong><br><br>Your order <strong>%v</strong> is now <strong>%v</strong>.",
			name, data["orderId"], data["status"],
		)
		if note, _ := data["note"].(string); note != "" {
			html += fmt.Sprintf("<br><br>Note: %s", note)
		}
	case TemplateKitchenDecision:
		subject = fmt.Sprintf("Kitchen review decision: %v", data["status"])
		html = fmt.Sprintf(
			"<strong>Hi %s,</strong><br><br>Your kitchen <strong>%v</strong> has been marked <strong>%v</strong>.",
			name, data["kitchenName"], data["status"],
		)
		if remarks, _ := data["remarks"].(string); remarks != "" {
			html += fmt.Sprintf("<br><br>Remarks: %s", remarks)
		}
	case TemplateContactReceived:
		subject = fmt.Sprintf("We received your message (%v)", data["ticketRef"])
		html = fmt.Sprintf(
			"<strong>Hi %s,</strong><br><br>Thanks for reaching out. Your ticket reference is <strong>%v</strong>; we'll get back to you soon.",
			name, data["ticketRef"],
		)
	default:
		return "", "", fmt.Errorf("notify: unknown template %q", template)
	}

	return subject, html, nil
}

func floatValue(v interface{}) float64 {
	switch typed := v.(type) {
	case float64:
		return typed
	case float32:
		return float64(typed)
	case int:
		return float64(typed)
	default:
		return 0
	}
}
