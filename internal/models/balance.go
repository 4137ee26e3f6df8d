package models

// WalletBalance — срез баланса UNIFIED-аккаунта по USDT.
type WalletBalance struct {
	Total     float64 // totalWalletBalance
	Available float64 // walletBalance по монете
}
