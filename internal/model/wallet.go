package model

// A Wallet tracks the storage deposits of an address.
type Wallet struct {
	Base `msgpack:",inline" storm:"inline"`

	// Locked is the sum of the deposits of the open accounts owned by the address.
	Locked uint64 `msgpack:"locked"`
	// Refunded is the sum of the deposits returned when accounts were closed.
	Refunded uint64 `msgpack:"refunded"`
}
