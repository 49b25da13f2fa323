package unleash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aelys/aelys/internal/classify"
)

// ErrUnknownCapability is returned when a capability name is not in the
// dispatch table. LLM plans naming unknown capabilities are treated as
// unparsable by the orchestrators.
var ErrUnknownCapability = errors.New("unknown capability")

// PortfolioCapabilities enumerates the wallet-bound capability family, in
// the order presented to the planning prompt.
var PortfolioCapabilities = []string{
	"defi_balance", "nft_balance", "token_balance", "wallet_label",
	"wallet_profile", "wallet_score", "wallet_metrics", "nft_analytics",
	"nft_scores", "nft_traders", "nft_washtrade",
}

// MarketCapabilities enumerates capabilities available to market-level
// planning.
var MarketCapabilities = []string{
	"analytics", "holders", "scores", "traders", "washtrade",
	"collection_whales", "collection_metadata", "floor_price",
	"nft_analytics", "nft_listings", "token_balance",
	"marketplace_metadata", "marketplace_analytics", "marketplace_washtrade",
}

// IsKnownCapability reports whether name appears in the given capability
// set.
func IsKnownCapability(name string, set []string) bool {
	for _, c := range set {
		if c == name {
			return true
		}
	}
	return false
}

// CallPortfolio dispatches one wallet-bound capability. The user query is
// consulted for sort preference where the endpoint supports it.
func (c *Client) CallPortfolio(ctx context.Context, capability, wallet, blockchain, userQuery string) (json.RawMessage, error) {
	switch capability {
	case "defi_balance":
		return c.GetWalletDefiBalance(ctx, wallet, blockchain)
	case "nft_balance":
		return c.GetWalletNftBalance(ctx, wallet, blockchain)
	case "token_balance":
		return c.GetWalletTokenBalance(ctx, wallet, blockchain)
	case "wallet_label":
		return c.GetWalletLabel(ctx, wallet, blockchain)
	case "wallet_profile":
		return c.GetNftWalletProfile(ctx, wallet)
	case "wallet_score":
		return c.GetWalletScore(ctx, wallet, "all")
	case "wallet_metrics":
		return c.GetWalletMetrics(ctx, wallet, blockchain, "all")
	case "nft_analytics":
		return c.GetNftWalletAnalytics(ctx, wallet, blockchain, "all", classify.DetectSortBy(userQuery, "nft_analytics"))
	case "nft_scores":
		return c.GetNftWalletScores(ctx, wallet, blockchain, "24h", classify.DetectSortBy(userQuery, "nft_scores"))
	case "nft_traders":
		return c.GetNftWalletTraders(ctx, wallet, blockchain, "24h", classify.DetectSortBy(userQuery, "nft_traders"))
	case "nft_washtrade":
		return c.GetNftWalletWashtrade(ctx, wallet, blockchain, "24h", classify.DetectSortBy(userQuery, "nft_washtrade"))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCapability, capability)
	}
}

// CallMarket dispatches one market-level capability with parameters from an
// LLM plan. Missing parameters fall back to the family defaults.
func (c *Client) CallMarket(ctx context.Context, capability string, params map[string]any) (json.RawMessage, error) {
	blockchain := stringParam(params, "blockchain")
	timeRange := stringParam(params, "time_range")

	switch capability {
	case "analytics":
		return c.GetMarketAnalytics(ctx, blockchain, timeRange)
	case "holders":
		return c.GetHolderInsights(ctx, blockchain, timeRange)
	case "scores":
		return c.GetScoresInsights(ctx, blockchain, timeRange)
	case "traders":
		return c.GetTradersInsights(ctx, blockchain, timeRange)
	case "washtrade":
		return c.GetMarketWashtrade(ctx, blockchain, timeRange)
	case "collection_whales":
		return c.GetCollectionWhales(ctx, blockchain, timeRange,
			sliceParam(params, "contract_address"), stringParam(params, "sort_by"))
	case "collection_metadata":
		return c.GetCollectionMetadata(ctx, blockchain,
			sliceParam(params, "contract_address"), sliceParam(params, "slug_name"))
	case "floor_price":
		return c.GetNftFloorPrice(ctx, blockchain, sliceParam(params, "contract_address"))
	case "nft_analytics":
		return c.GetNftAnalytics(ctx, sliceParam(params, "contract_address"),
			blockchain, timeRange, sliceParam(params, "token_id"), stringParam(params, "sort_by"))
	case "nft_listings":
		return c.GetNftListing(ctx, blockchain,
			sliceParam(params, "contract_address"), sliceParam(params, "token_id"))
	case "token_balance":
		return c.GetTokenBalance(ctx, sliceParam(params, "blockchain"),
			sliceParam(params, "token_address"), sliceParam(params, "address"))
	case "marketplace_metadata":
		return c.GetNftMarketplaceMetadata(ctx)
	case "marketplace_analytics":
		return c.GetNftMarketplaceAnalytics(ctx, blockchain, timeRange, sliceParam(params, "name"))
	case "marketplace_washtrade":
		return c.GetNftMarketplaceWashtrade(ctx, blockchain, timeRange, sliceParam(params, "name"))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCapability, capability)
	}
}

func stringParam(params map[string]any, key string) string {
	if params == nil {
		return ""
	}
	if s, ok := params[key].(string); ok {
		return s
	}
	return ""
}

// sliceParam tolerates both a JSON array and a bare string for list-valued
// parameters, since LLM plans emit either shape.
func sliceParam(params map[string]any, key string) []string {
	if params == nil {
		return nil
	}
	switch v := params[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case []string:
		return v
	}
	return nil
}
