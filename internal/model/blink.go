package model

// Blink types accepted in strict mode.
const (
	BlinkTypeStandard = "standard"
	BlinkTypePremium  = "premium"
	BlinkTypeLimited  = "limited"
)

// BlinkTypes lists the blink types accepted in strict mode.
var BlinkTypes = []string{BlinkTypeStandard, BlinkTypePremium, BlinkTypeLimited}

// A Blink represents a blink metadata account.
type Blink struct {
	Base `msgpack:",inline" storm:"inline"`

	Owner       string `msgpack:"owner"       storm:"index"`
	Mint        string `msgpack:"mint"        storm:"index"`
	Name        string `msgpack:"name"`
	Description string `msgpack:"description"`
	BlinkType   string `msgpack:"blink_type"  storm:"index"`
	IsNFT       bool   `msgpack:"is_nft"`
	IsDonation  bool   `msgpack:"is_donation"`
	IsGift      bool   `msgpack:"is_gift"`
	IsPayment   bool   `msgpack:"is_payment"`
	IsPoll      bool   `msgpack:"is_poll"`

	// Rent-exempt deposit locked by the account.
	Lamports uint64 `msgpack:"lamports"`
}
