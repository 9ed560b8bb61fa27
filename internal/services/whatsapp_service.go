package services

import (
	"context"
	"fmt"
	"log"

	"packing_tracker/pkg/whatsapp"

	"github.com/shopspring/decimal"
)

// NotificationService tells the packing supervisor about finished work.
// Delivery is best-effort; callers never fail because of it.
type NotificationService interface {
	PackingComplete(ctx context.Context, poNumber string, totalItems int64)
	ShipmentCreated(ctx context.Context, poNumber, courier, awb string, cartons int, weight decimal.Decimal)
}

type whatsappService struct {
	client *whatsapp.Client
	phone  string
}

// NewWhatsAppService returns a notifier that does nothing when either the
// client or the supervisor phone is missing.
func NewWhatsAppService(client *whatsapp.Client, phone string) NotificationService {
	return &whatsappService{client: client, phone: phone}
}

func (s *whatsappService) enabled() bool {
	return s.client != nil && s.client.BaseURL != "" && s.phone != ""
}

func (s *whatsappService) send(ctx context.Context, message string) {
	if !s.enabled() {
		return
	}
	if err := s.client.SendTextMessage(ctx, s.phone, message); err != nil {
		log.Printf("Failed to send WhatsApp notification: %v", err)
	}
}

func (s *whatsappService) PackingComplete(ctx context.Context, poNumber string, totalItems int64) {
	s.send(ctx, fmt.Sprintf("✅ PO %s fully packed (%d items). Ready for packing list.", poNumber, totalItems))
}

func (s *whatsappService) ShipmentCreated(ctx context.Context, poNumber, courier, awb string, cartons int, weight decimal.Decimal) {
	s.send(ctx, fmt.Sprintf("🚚 PO %s shipped via %s\nAWB: %s\nCartons: %d\nWeight: %s kg",
		poNumber, courier, awb, cartons, weight.StringFixed(3)))
}

type noopNotifier struct{}

func (noopNotifier) PackingComplete(context.Context, string, int64) {}

func (noopNotifier) ShipmentCreated(context.Context, string, string, string, int, decimal.Decimal) {}
