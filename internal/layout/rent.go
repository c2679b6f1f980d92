package layout

// Rent parameters of the ledger.
const (
	AccountStorageOverhead = 128
	LamportsPerByteYear    = 3480
	ExemptionThreshold     = 2
)

// RentExemptMinimum returns the deposit needed to keep an account of the given space open.
func RentExemptMinimum(space int) uint64 {
	return uint64(AccountStorageOverhead+space) * LamportsPerByteYear * ExemptionThreshold
}
