package notify

import (
	"strings"
	"testing"
)

func TestRenderTemplateKnownTemplates(t *testing.T) {
	data := map[string]interface{}{
		"to":            "user@example.com",
		"name":          "Asha",
		"orderId":       "abc123",
		"kitchenName":   "Asha's Kitchen",
		"total":         292.5,
		"paymentMethod": "cod",
		"status":        "confirmed",
		"ticketRef":     "tkt-1",
	}

	for _, template := range []string{
		TemplateWelcome, TemplateOrderPlaced, TemplateOrderStatus,
		TemplateKitchenDecision, TemplateContactReceived,
	} {
		subject, html, err := renderTemplate(template, data)
		if err != nil {
			t.Fatalf("renderTemplate(%s) returned error: %v", template, err)
		}
		if subject == "" || html == "" {
			t.Fatalf("renderTemplate(%s) returned empty content", template)
		}
		if !strings.Contains(html, "Asha") {
			t.Fatalf("renderTemplate(%s) should address the recipient by name", template)
		}
	}
}

func TestRenderTemplateOrderPlacedTotal(t *testing.T) {
	_, html, err := renderTemplate(TemplateOrderPlaced, map[string]interface{}{
		"name":          "Asha",
		"orderId":       "abc123",
		"kitchenName":   "Asha's Kitchen",
		"total":         292.5,
		"paymentMethod": "cod",
	})
	if err != nil {
		t.Fatalf("renderTemplate returned error: %v", err)
	}
	if !strings.Contains(html, "292.50") {
		t.Fatalf("expected formatted total in body, got %s", html)
	}
}

func TestRenderTemplateUnknown(t *testing.T) {
	if _, _, err := renderTemplate("password-reset", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestSendRequiresRecipient(t *testing.T) {
	m := NewMailer("", "noreply@tifincart.test")
	if err := m.Send(TemplateWelcome, map[string]interface{}{"name": "Asha"}); err == nil {
		t.Fatal("expected error when recipient is missing")
	}
}

func TestSendDryRunWithoutToken(t *testing.T) {
	m := NewMailer("", "noreply@tifincart.test")
	err := m.Send(TemplateWelcome, map[string]interface{}{
		"to":   "user@example.com",
		"name": "Asha",
	})
	if err != nil {
		t.Fatalf("expected dry-run send to succeed, got %v", err)
	}
}

func TestFloatValue(t *testing.T) {
	if got := floatValue(292.5); got != 292.5 {
		t.Fatalf("expected 292.5, got %v", got)
	}
	if got := floatValue(30); got != 30 {
		t.Fatalf("expected 30, got %v", got)
	}
	if got := floatValue("nope"); got != 0 {
		t.Fatalf("expected 0 for non-numeric, got %v", got)
	}
}
