package networkdefinition

import (
	"fmt"
	"sort"
	"strings"

	"neo_wallet/internal/app/port"
	"neo_wallet/internal/domain/entity"
)

// NetworkDefinitionProvider provides NEO network definitions.
type NetworkDefinitionProvider struct {
	logger  port.Logger
	allDefs map[string]entity.NetworkDefinition
}

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	MainNet = entity.NetworkDefinition{
		Name:   entity.MainNet,
		RPCURL: "https://seed1.cityofzion.io:443",
		FallbackRPCURLs: []string{
			"https://seed2.cityofzion.io:443",
			"http://seed1.neo.org:10332",
		},
		IndexerURL:     "https://mainnet.aphelion-neo.com:62433/api",
		NeoscanURL:     "https://api.neoscan.io/api/main_net",
		AddressVersion: entity.DefaultAddressVersion,
	}
	TestNet = entity.NetworkDefinition{
		Name:   entity.TestNet,
		RPCURL: "https://test1.cityofzion.io:443",
		FallbackRPCURLs: []string{
			"https://test2.cityofzion.io:443",
			"http://seed1.ngd.network:20332",
		},
		IndexerURL:     "https://testnet.aphelion-neo.com:62443/api",
		NeoscanURL:     "https://neoscan-testnet.io/api/test_net",
		AddressVersion: entity.DefaultAddressVersion,
	}
)

var allKnownDefinitions = map[string]entity.NetworkDefinition{ //nolint:gochecknoglobals
	strings.ToLower(MainNet.Name): MainNet,
	strings.ToLower(TestNet.Name): TestNet,
}

// NewNetworkDefinitionProvider creates a provider from the built-in definitions
// with overrides applied. An override for an unknown name adds a new network.
func NewNetworkDefinitionProvider(log port.Logger, overrides []entity.NetworkDefinition) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger:  log,
		allDefs: make(map[string]entity.NetworkDefinition, len(allKnownDefinitions)+len(overrides)),
	}
	for k, v := range allKnownDefinitions {
		p.allDefs[k] = v
	}

	for _, o := range overrides {
		key := strings.ToLower(o.Name)
		base, known := p.allDefs[key]
		if !known {
			p.logger.Info(fmt.Sprintf("Network '%s' is not built in, using configured definition as is.", o.Name))
			p.allDefs[key] = o
			continue
		}
		p.allDefs[key] = merge(base, o)
		p.logger.Debug(fmt.Sprintf("Network '%s' overridden from config.", o.Name))
	}

	p.logger.Info(fmt.Sprintf("NetworkDefinitionProvider initialized. Networks: %d", len(p.allDefs)))
	return p
}

func merge(base, o entity.NetworkDefinition) entity.NetworkDefinition {
	if o.RPCURL != "" {
		base.RPCURL = o.RPCURL
	}
	if len(o.FallbackRPCURLs) > 0 {
		base.FallbackRPCURLs = append([]string(nil), o.FallbackRPCURLs...)
	}
	if o.IndexerURL != "" {
		base.IndexerURL = o.IndexerURL
	}
	if o.NeoscanURL != "" {
		base.NeoscanURL = o.NeoscanURL
	}
	if o.AddressVersion != 0 {
		base.AddressVersion = o.AddressVersion
	}
	return base
}

// GetAllNetworkDefinitions returns all definitions sorted by name.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defs := make([]entity.NetworkDefinition, 0, len(p.allDefs))
	for _, d := range p.allDefs {
		defs = append(defs, d)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// GetNetworkDefinitionByName looks a network up case-insensitively.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(name string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	def, ok := p.allDefs[strings.ToLower(strings.TrimSpace(name))]
	return def, ok
}
