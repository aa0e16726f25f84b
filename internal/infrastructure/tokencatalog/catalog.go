package tokencatalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"neo_wallet/internal/app/port"
	"neo_wallet/internal/domain/entity"
	"neo_wallet/internal/pkg/utils"
)

// DefaultTokens are always present and always displayed.
var DefaultTokens = []entity.TokenInfo{ //nolint:gochecknoglobals
	{AssetID: "591eedcd379a8981edeefe04ef26207e1391904a", Symbol: "APH", Network: entity.TestNet, IsCustom: true},
	{AssetID: "a0777c3ce2b169d4a23bcba4565e3225a0122d95", Symbol: "APH", Network: entity.MainNet, IsCustom: true},
}

// KnownTokenSource lists the tokens an indexer knows on a network.
type KnownTokenSource interface {
	GetKnownTokenList(ctx context.Context, network string) ([]entity.TokenInfo, error)
}

// Catalog implements port.AssetCatalog in memory.
type Catalog struct {
	mu         sync.RWMutex
	byNetwork  map[string]map[string]entity.TokenInfo
	loggerInfo func(msg string, args ...any)
	loggerWarn func(msg string, args ...any)
}

// NewCatalog creates a catalog seeded with DefaultTokens.
func NewCatalog(loggerInfo func(msg string, args ...any), loggerWarn func(msg string, args ...any)) *Catalog {
	c := &Catalog{
		byNetwork:  make(map[string]map[string]entity.TokenInfo),
		loggerInfo: loggerInfo,
		loggerWarn: loggerWarn,
	}
	for _, t := range DefaultTokens {
		c.AddToken(t)
	}
	return c
}

func key(assetID string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(assetID)), "0x")
}

// AddToken implements port.AssetCatalog. A custom entry is never downgraded
// by a non-custom one with the same asset id.
func (c *Catalog) AddToken(token entity.TokenInfo) {
	if token.AssetID == "" || token.Network == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	tokens, ok := c.byNetwork[token.Network]
	if !ok {
		tokens = make(map[string]entity.TokenInfo)
		c.byNetwork[token.Network] = tokens
	}
	k := key(token.AssetID)
	if existing, exists := tokens[k]; exists && existing.IsCustom && !token.IsCustom {
		return
	}
	token.AssetID = k
	tokens[k] = token
}

// RemoveToken implements port.AssetCatalog.
func (c *Catalog) RemoveToken(assetID, network string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tokens, ok := c.byNetwork[network]; ok {
		delete(tokens, key(assetID))
	}
}

// TokensForNetwork implements port.AssetCatalog. The result is sorted by symbol.
func (c *Catalog) TokensForNetwork(network string) []entity.TokenInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tokens := make([]entity.TokenInfo, 0, len(c.byNetwork[network]))
	for _, t := range c.byNetwork[network] {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].Symbol != tokens[j].Symbol {
			return tokens[i].Symbol < tokens[j].Symbol
		}
		return tokens[i].AssetID < tokens[j].AssetID
	})
	return tokens
}

// LoadDirectory reads "<network>.json" token lists from dir. A missing
// directory is not an error.
func (c *Catalog) LoadDirectory(dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			c.loggerInfo("Token directory does not exist, skipping.", "path", dir)
			return nil
		}
		return fmt.Errorf("failed to read token directory %s: %w", dir, err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(strings.ToLower(file.Name()), ".json") {
			continue
		}
		network := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))
		path := filepath.Join(dir, file.Name())

		tokens, err := utils.LoadTokensFromJSON(path)
		if err != nil {
			c.loggerWarn("Failed to load token file, skipping file.", "path", path, "error", err)
			continue
		}
		loaded := 0
		for _, t := range tokens {
			if t.Network == "" {
				t.Network = network
			}
			if !strings.EqualFold(t.Network, network) {
				c.loggerWarn("Token has mismatched network in file, skipping token.",
					"file", path, "token_symbol", t.Symbol, "token_network", t.Network)
				continue
			}
			t.Network = network
			c.AddToken(t)
			loaded++
		}
		c.loggerInfo("Loaded tokens from file", "network", network, "file", file.Name(), "count", loaded)
	}
	return nil
}

// SyncKnownTokens adds the indexer's token list for network as non-custom
// entries. Default tokens keep their custom flag.
func (c *Catalog) SyncKnownTokens(ctx context.Context, source KnownTokenSource, network string) error {
	for _, t := range DefaultTokens {
		c.AddToken(t)
	}

	known, err := source.GetKnownTokenList(ctx, network)
	if err != nil {
		return fmt.Errorf("APH API Error: %w", err)
	}

	defaults := make(map[string]struct{}, len(DefaultTokens))
	for _, t := range DefaultTokens {
		defaults[key(t.AssetID)] = struct{}{}
	}
	added := 0
	for _, t := range known {
		if _, isDefault := defaults[key(t.AssetID)]; isDefault {
			continue
		}
		t.Network = network
		t.IsCustom = false
		c.AddToken(t)
		added++
	}
	c.loggerInfo("Known token list synchronized", "network", network, "count", added)
	return nil
}

var _ port.AssetCatalog = (*Catalog)(nil)
