package entity

// DefaultAddressVersion is the version byte of legacy NEO addresses.
const DefaultAddressVersion byte = 0x17

// Network names as used by the catalog and the indexer.
const (
	MainNet = "MainNet"
	TestNet = "TestNet"
)

// NetworkDefinition holds the endpoints of a NEO network.
type NetworkDefinition struct {
	Name            string   `json:"name" yaml:"name"`
	RPCURL          string   `json:"rpcUrl" yaml:"rpcUrl"`
	FallbackRPCURLs []string `json:"fallbackRpcUrls" yaml:"fallbackRpcUrls"`
	IndexerURL      string   `json:"indexerUrl" yaml:"indexerUrl"` // APH indexer: tokens and NEP-5 transfers
	NeoscanURL      string   `json:"neoscanUrl" yaml:"neoscanUrl"` // claimable GAS and address history
	AddressVersion  byte     `json:"addressVersion" yaml:"addressVersion"`
}

// RPCURLs returns the primary node followed by the fallbacks.
func (n NetworkDefinition) RPCURLs() []string {
	urls := make([]string, 0, len(n.FallbackRPCURLs)+1)
	if n.RPCURL != "" {
		urls = append(urls, n.RPCURL)
	}
	return append(urls, n.FallbackRPCURLs...)
}

// Version returns the address version byte, falling back to the legacy default.
func (n NetworkDefinition) Version() byte {
	if n.AddressVersion == 0 {
		return DefaultAddressVersion
	}
	return n.AddressVersion
}
