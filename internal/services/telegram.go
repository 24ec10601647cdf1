package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/example/bikezone/internal/models"
)

var telegramHTTPClient = &http.Client{Timeout: 15 * time.Second}

// TelegramService pushes order notifications to the shop admin chat. When the
// bot token or chat ID is not configured every call is a logged no-op.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := telegramHTTPClient.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		log.Println("[Telegram] Admin chat ID not configured")
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// NotifyNewOrder tells the admins a new order was placed.
func (s *TelegramService) NotifyNewOrder(order models.Order, transactionID string) error {
	var b strings.Builder

	b.WriteString("🏍 <b>New order</b>\n\n")
	fmt.Fprintf(&b, "Bike: <b>%s</b>\n", order.BikeModel)
	fmt.Fprintf(&b, "Amount: <b>%s</b>\n", FormatAmount(order.Price))
	fmt.Fprintf(&b, "Customer: %s (%s)\n", order.CustomerName, order.CustomerPhone)
	fmt.Fprintf(&b, "Delivery: %s\n", order.DeliveryLocation)
	if order.DeliveryNotes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", order.DeliveryNotes)
	}
	fmt.Fprintf(&b, "Payment: %s (%s)\n", order.PaymentMethod, order.PaymentStatus)
	fmt.Fprintf(&b, "Transaction: <code>%s</code>\n", transactionID)
	fmt.Fprintf(&b, "Status: %s", order.Status)

	return s.SendToAdmin(b.String())
}

// FormatAmount formats a BDT amount with thousand separators.
func FormatAmount(amount float64) string {
	whole := fmt.Sprintf("%.0f", amount)

	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteRune(',')
		}
		b.WriteRune(digit)
	}
	return b.String() + " BDT"
}
