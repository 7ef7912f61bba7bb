package domain

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

const (
	IdentityLen = 32
	AddressLen  = 32

	// stock (u64) + price (u64) + owner + initialized sentinel
	EncodedRecordLen = 8 + 8 + IdentityLen + 1
)

// Identity names one principal. It is compared value-wise; proof that a caller
// controls an identity is the hosting environment's job.
type Identity [IdentityLen]byte

func ParseIdentity(s string) (Identity, error) {
	var id Identity

	raw, err := hex.DecodeString(s)
	if err != nil {
		return Identity{}, fmt.Errorf("identity must be hex-encoded: %w", err)
	}
	if len(raw) != IdentityLen {
		return Identity{}, fmt.Errorf("identity must be %d bytes, got %d", IdentityLen, len(raw))
	}

	copy(id[:], raw)
	return id, nil
}

func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

// Address locates one persisted record in the record store.
type Address [AddressLen]byte

func ParseAddress(s string) (Address, error) {
	var addr Address

	raw, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, fmt.Errorf("address must be hex-encoded: %w", err)
	}
	if len(raw) != AddressLen {
		return Address{}, fmt.Errorf("address must be %d bytes, got %d", AddressLen, len(raw))
	}

	copy(addr[:], raw)
	return addr, nil
}

func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// Record is the authoritative ledger entry for one seller: remaining unit
// count, unit price in the smallest currency unit, and the sole identity
// allowed to mutate it.
type Record struct {
	Stock uint64
	Price uint64
	Owner Identity
}

// EncodeRecord serializes a record into its fixed-width storage layout:
// little-endian stock and price, the raw owner bytes, and a sentinel byte
// marking the slot as initialized. A freshly allocated slot is all zeroes, so
// the sentinel is what distinguishes "never created" from "created with zero
// values".
func EncodeRecord(record Record) []byte {
	data := make([]byte, EncodedRecordLen)

	binary.LittleEndian.PutUint64(data[0:8], record.Stock)
	binary.LittleEndian.PutUint64(data[8:16], record.Price)
	copy(data[16:16+IdentityLen], record.Owner[:])
	data[EncodedRecordLen-1] = 1

	return data
}

// DecodeRecord is the exact inverse of EncodeRecord. The second return value
// reports whether the slot holds an initialized record.
func DecodeRecord(data []byte) (Record, bool, error) {
	if len(data) != EncodedRecordLen {
		return Record{}, false, fmt.Errorf("record must be %d bytes, got %d", EncodedRecordLen, len(data))
	}

	var record Record
	record.Stock = binary.LittleEndian.Uint64(data[0:8])
	record.Price = binary.LittleEndian.Uint64(data[8:16])
	copy(record.Owner[:], data[16:16+IdentityLen])

	initialized := data[EncodedRecordLen-1] != 0

	return record, initialized, nil
}

// RecordSummary is the success payload of every operation.
type RecordSummary struct {
	Address Address
	Stock   uint64
	Price   uint64
	Owner   Identity
}

// SaleSummary additionally carries the amount the buyer was debited.
type SaleSummary struct {
	RecordSummary
	TotalDue uint64
}
