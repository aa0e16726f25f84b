package port

import "neo_wallet/internal/domain/entity"

// AssetCatalog is the set of NEP-5 tokens known per network.
type AssetCatalog interface {
	TokensForNetwork(network string) []entity.TokenInfo
	AddToken(token entity.TokenInfo)
	RemoveToken(assetID, network string)
}
