// Package wallet provides validation of wallet addresses used as subject and observer ids.
package wallet

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Prefix is a bech32 human readable part of account addresses.
type Prefix string

// DefaultPrefix is decentr account address prefix.
const DefaultPrefix Prefix = "decentr"

// IsValid returns true if address is a well-formed bech32 account address with prefix p.
func (p Prefix) IsValid(address string) bool {
	if address == "" {
		return false
	}

	bz, err := sdk.GetFromBech32(address, string(p))
	if err != nil {
		return false
	}

	return sdk.VerifyAddressFormat(bz) == nil
}

// Address returns bech32 address with prefix p made of raw bytes.
func (p Prefix) Address(bz []byte) (string, error) {
	return sdk.Bech32ifyAddressBytes(string(p), bz)
}
