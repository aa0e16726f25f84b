package entity

import "strings"

// Ledger-level asset identifiers on NEO.
const (
	NEOAssetID = "0xc56f33fc6ecfcd0c225c4ab356fee59390af8560be0e930faebe74a6daff7c9b"
	GASAssetID = "0x602c79718b16e442de58778e148d0b1084e3b2dffd5de6b7b16cee7969282de7"

	NEOSymbol = "NEO"
	GASSymbol = "GAS"
)

// NativeAsset describes one of the two system assets of the ledger.
type NativeAsset struct {
	ID     string `json:"assetId"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// NativeAssets lists the system assets, primary coin first.
var NativeAssets = []NativeAsset{
	{ID: NEOAssetID, Symbol: NEOSymbol, Name: NEOSymbol},
	{ID: GASAssetID, Symbol: GASSymbol, Name: GASSymbol},
}

// LookupNativeAsset returns the native asset with the given id.
// The "0x" prefix is optional.
func LookupNativeAsset(id string) (NativeAsset, bool) {
	normalized := normalizeAssetID(id)
	for _, a := range NativeAssets {
		if normalizeAssetID(a.ID) == normalized {
			return a, true
		}
	}
	return NativeAsset{}, false
}

// NativeSymbolForAsset returns NEO or GAS for a system asset id and "" otherwise.
func NativeSymbolForAsset(id string) string {
	if a, ok := LookupNativeAsset(id); ok {
		return a.Symbol
	}
	return ""
}

func normalizeAssetID(id string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(id)), "0x")
}

// AssetKindTag distinguishes ledger assets from contract tokens.
type AssetKindTag int

const (
	// NativeKind is a system asset moved through transaction inputs and outputs.
	NativeKind AssetKindTag = iota
	// TokenKind is a NEP-5 token moved through a contract invocation.
	TokenKind
)

func (t AssetKindTag) String() string {
	if t == TokenKind {
		return "token"
	}
	return "native"
}

// AssetKind identifies the asset a transfer moves.
type AssetKind struct {
	Kind AssetKindTag `json:"kind"`
	ID   string       `json:"assetId"`
}

// Native builds an AssetKind for a system asset id.
func Native(id string) AssetKind {
	return AssetKind{Kind: NativeKind, ID: id}
}

// Token builds an AssetKind for a NEP-5 script hash.
func Token(id string) AssetKind {
	return AssetKind{Kind: TokenKind, ID: id}
}

// IsToken reports whether the asset is a NEP-5 token.
func (a AssetKind) IsToken() bool {
	return a.Kind == TokenKind
}
