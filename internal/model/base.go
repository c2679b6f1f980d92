package model

type (
	// A Model defines an account that can be stored in the ledger database.
	Model interface {
		// GetID returns the account address.
		GetID() string
		// SetID defines the account address.
		SetID(string)
		// GetCreatedAt returns the ledger time of the account creation.
		GetCreatedAt() int64
		// SetCreatedAt defines the ledger time of the account creation.
		SetCreatedAt(int64)
		// GetUpdatedAt returns the ledger time of the account last update.
		GetUpdatedAt() int64
		// SetUpdatedAt defines the ledger time of the account last update.
		SetUpdatedAt(int64)
	}

	// A Base contains the default account fields.
	// ID is a base58 address and timestamps are ledger unix seconds.
	Base struct {
		ID        string `json:"address"    msgpack:"id"         storm:"id"`
		CreatedAt int64  `json:"created_at" msgpack:"created_at" storm:"index"`
		UpdatedAt int64  `json:"updated_at" msgpack:"updated_at" storm:"index"`
	}
)

// GetID returns the account address.
func (m *Base) GetID() string {
	return m.ID
}

// SetID defines the account address.
func (m *Base) SetID(id string) {
	m.ID = id
}

// GetCreatedAt returns the ledger time of the account creation.
func (m *Base) GetCreatedAt() int64 {
	return m.CreatedAt
}

// SetCreatedAt defines the ledger time of the account creation.
func (m *Base) SetCreatedAt(t int64) {
	m.CreatedAt = t
}

// GetUpdatedAt returns the ledger time of the account last update.
func (m *Base) GetUpdatedAt() int64 {
	return m.UpdatedAt
}

// SetUpdatedAt defines the ledger time of the account last update.
func (m *Base) SetUpdatedAt(t int64) {
	m.UpdatedAt = t
}
