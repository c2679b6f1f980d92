package serializer

import "github.com/mdouchement/blinkreg/internal/model"

// Wallet serializes the render of a wallet.
func Wallet(m *model.Wallet) map[string]any {
	return map[string]any{
		"address":  m.ID,
		"locked":   m.Locked,
		"refunded": m.Refunded,
	}
}
