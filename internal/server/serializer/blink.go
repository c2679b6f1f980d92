package serializer

import "github.com/mdouchement/blinkreg/internal/model"

// Blink serializes the render of a blink.
func Blink(m *model.Blink) map[string]any {
	return map[string]any{
		"address":     m.ID,
		"owner":       m.Owner,
		"mint":        m.Mint,
		"name":        m.Name,
		"description": m.Description,
		"blink_type":  m.BlinkType,
		"is_nft":      m.IsNFT,
		"is_donation": m.IsDonation,
		"is_gift":     m.IsGift,
		"is_payment":  m.IsPayment,
		"is_poll":     m.IsPoll,
		"lamports":    m.Lamports,
		"created_at":  m.CreatedAt,
		"updated_at":  m.UpdatedAt,
	}
}

// Blinks serializes the render of blinks.
func Blinks(m []*model.Blink) []map[string]any {
	blinks := make([]map[string]any, len(m))
	for i, b := range m {
		blinks[i] = Blink(b)
	}
	return blinks
}
