// Package ledger tracks fungible balances per (account, asset) pair and is
// the only place settlement-asset, coin, bond, and claim units move. Every
// settlement operation is expressed as ledger moves so a single atomic unit
// can commit or roll back an entire plan.
package ledger

import (
	"context"

	id "sovmint/pkg/domain"
)

// Asset identifies a fungible balance class.
type Asset string

// Settlement is the fiat-backed asset every coin is quoted against.
const Settlement Asset = "settlement"

// CoinAsset is the sovereign coin minted for a symbol.
func CoinAsset(symbol id.CoinSymbol) Asset { return Asset("coin:" + symbol.String()) }

// BondAsset is the bond instrument backing a coin's collateral.
func BondAsset(bond id.BondID) Asset { return Asset("bond:" + bond.String()) }

// ClaimAsset is a deferred-redemption claim against a coin's bond holding.
func ClaimAsset(symbol id.CoinSymbol) Asset { return Asset("claim:" + symbol.String()) }

// Account identifies a balance holder.
type Account string

// UserAccount holds a requester's settlement-asset and coin balances.
func UserAccount(requester id.RequesterID) Account {
	return Account("user:" + requester.String())
}

// ReserveAccount holds a coin's liquid settlement-asset reserve.
func ReserveAccount(symbol id.CoinSymbol) Account {
	return Account("reserve:" + symbol.String())
}

// VaultAccount holds the protocol-wide settlement-asset vault that tops up
// redemptions when a coin's liquid reserve runs short.
func VaultAccount() Account { return Account("vault") }

// BondHoldingAccount holds a coin's bond collateral.
func BondHoldingAccount(symbol id.CoinSymbol) Account {
	return Account("bondholding:" + symbol.String())
}

// StagingAccount receives bond-liquidation proceeds before payout so the
// realized amount can be measured as a balance difference.
func StagingAccount(symbol id.CoinSymbol) Account {
	return Account("staging:" + symbol.String())
}

// ProtocolBondAccount accumulates bond equivalents the protocol takes over
// when its vault covers a redemption shortfall.
func ProtocolBondAccount() Account { return Account("protocolbond") }

// Ledger moves balances. Move and BurnFrom fail with ErrInsufficientFunds
// when the source balance is short; no balance ever goes negative.
type Ledger interface {
	Balance(ctx context.Context, account Account, asset Asset) (uint64, error)
	Move(ctx context.Context, from, to Account, asset Asset, amount uint64) error
	MintTo(ctx context.Context, to Account, asset Asset, amount uint64) error
	BurnFrom(ctx context.Context, from Account, asset Asset, amount uint64) error
}

// Store is the full ledger port. InUnit runs fn against a ledger whose moves
// commit together or not at all; fn returning an error discards every move
// it made.
type Store interface {
	Ledger
	InUnit(ctx context.Context, fn func(ctx context.Context, l Ledger) error) error
}
