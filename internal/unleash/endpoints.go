package unleash

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/aelys/aelys/internal/cache"
	"github.com/aelys/aelys/internal/models"
)

// normalizeChain lowercases the blockchain name and applies the default.
func normalizeChain(blockchain string) string {
	if blockchain == "" {
		return models.DefaultBlockchain
	}
	return strings.ToLower(blockchain)
}

// baseParams returns the pagination and ordering defaults shared by nearly
// every endpoint.
func baseParams() url.Values {
	params := url.Values{}
	params.Set("offset", "0")
	params.Set("limit", "30")
	return params
}

func addAll(params url.Values, key string, values []string) {
	for _, v := range values {
		params.Add(key, v)
	}
}

// --- Wallet balance endpoints ---

func (c *Client) GetWalletDefiBalance(ctx context.Context, address, blockchain string) (json.RawMessage, error) {
	params := baseParams()
	params.Set("address", address)
	params.Set("blockchain", normalizeChain(blockchain))
	params.Set("time_range", "all")
	return c.get(ctx, "/wallet/balance/defi", params, cache.InsightTTL)
}

func (c *Client) GetWalletNftBalance(ctx context.Context, wallet, blockchain string) (json.RawMessage, error) {
	params := baseParams()
	params.Set("wallet", wallet)
	params.Set("blockchain", normalizeChain(blockchain))
	params.Set("time_range", "all")
	return c.get(ctx, "/wallet/balance/nft", params, cache.InsightTTL)
}

func (c *Client) GetWalletTokenBalance(ctx context.Context, address, blockchain string) (json.RawMessage, error) {
	params := baseParams()
	params.Set("address", address)
	params.Set("blockchain", normalizeChain(blockchain))
	params.Set("time_range", "all")
	return c.get(ctx, "/wallet/balance/token", params, cache.InsightTTL)
}

// --- Wallet identity endpoints ---

func (c *Client) GetWalletLabel(ctx context.Context, address, blockchain string) (json.RawMessage, error) {
	params := baseParams()
	params.Set("address", address)
	params.Set("blockchain", normalizeChain(blockchain))
	return c.get(ctx, "/wallet/label", params, cache.InsightTTL)
}

func (c *Client) GetNftWalletProfile(ctx context.Context, wallet string) (json.RawMessage, error) {
	params := baseParams()
	params.Set("wallet", wallet)
	return c.get(ctx, "/nft/wallet/profile", params, cache.InsightTTL)
}

func (c *Client) GetWalletScore(ctx context.Context, walletAddress, timeRange string) (json.RawMessage, error) {
	if timeRange == "" {
		timeRange = "all"
	}
	params := baseParams()
	params.Set("wallet_address", walletAddress)
	params.Set("time_range", timeRange)
	return c.get(ctx, "/wallet/score", params, cache.InsightTTL)
}

// GetWalletMetrics supports only a reduced blockchain set; anything else is
// rejected before the network call.
func (c *Client) GetWalletMetrics(ctx context.Context, wallet, blockchain, timeRange string) (json.RawMessage, error) {
	blockchain = normalizeChain(blockchain)
	if err := validateWalletMetricsChain(blockchain); err != nil {
		return nil, err
	}
	if timeRange == "" {
		timeRange = "all"
	}
	params := baseParams()
	params.Set("blockchain", blockchain)
	params.Set("wallet", wallet)
	params.Set("time_range", timeRange)
	return c.get(ctx, "/wallet/metrics", params, cache.InsightTTL)
}

// --- NFT portfolio analytics endpoints ---

func (c *Client) GetNftWalletAnalytics(ctx context.Context, wallet, blockchain, timeRange, sortBy string) (json.RawMessage, error) {
	if sortBy == "" {
		sortBy = "volume"
	}
	if timeRange == "" {
		timeRange = "all"
	}
	params := baseParams()
	params.Set("wallet", wallet)
	params.Set("blockchain", normalizeChain(blockchain))
	params.Set("time_range", timeRange)
	params.Set("sort_by", sortBy)
	params.Set("sort_order", "desc")
	return c.get(ctx, "/nft/wallet/analytics", params, cache.InsightTTL)
}

func (c *Client) GetNftWalletScores(ctx context.Context, wallet, blockchain, timeRange, sortBy string) (json.RawMessage, error) {
	if sortBy == "" {
		sortBy = "portfolio_value"
	}
	if timeRange == "" {
		timeRange = "24h"
	}
	params := baseParams()
	params.Set("wallet", wallet)
	params.Set("blockchain", normalizeChain(blockchain))
	params.Set("sort_by", sortBy)
	params.Set("sort_order", "desc")
	params.Set("time_range", timeRange)
	return c.get(ctx, "/nft/wallet/scores", params, cache.InsightTTL)
}

func (c *Client) GetNftWalletTraders(ctx context.Context, wallet, blockchain, timeRange, sortBy string) (json.RawMessage, error) {
	if sortBy == "" {
		sortBy = "traders"
	}
	if timeRange == "" {
		timeRange = "24h"
	}
	params := baseParams()
	params.Set("wallet", wallet)
	params.Set("blockchain", normalizeChain(blockchain))
	params.Set("time_range", timeRange)
	params.Set("sort_by", sortBy)
	params.Set("sort_order", "desc")
	return c.get(ctx, "/nft/wallet/traders", params, cache.InsightTTL)
}

// GetNftWalletWashtrade serves both wallet-scoped and market-level
// washtrade queries: an empty wallet omits the wallet parameter, which
// turns the call into a market-wide scan.
func (c *Client) GetNftWalletWashtrade(ctx context.Context, wallet, blockchain, timeRange, sortBy string) (json.RawMessage, error) {
	blockchain = normalizeChain(blockchain)
	if err := validateChain(blockchain, models.AllChains); err != nil {
		return nil, err
	}
	if sortBy == "" {
		sortBy = "washtrade_volume"
	}
	if timeRange == "" {
		timeRange = "24h"
	}
	params := baseParams()
	params.Set("blockchain", blockchain)
	params.Set("sort_by", sortBy)
	params.Set("sort_order", "desc")
	params.Set("time_range", timeRange)
	if wallet != "" {
		params.Set("wallet", wallet)
	}
	return c.get(ctx, "/nft/wallet/washtrade", params, cache.InsightTTL)
}

// GetNFTWashtrade analyzes specific NFTs by contract address and token id.
func (c *Client) GetNFTWashtrade(ctx context.Context, contractAddresses, tokenIDs []string, blockchain, timeRange, sortBy string) (json.RawMessage, error) {
	blockchain = normalizeChain(blockchain)
	if err := validateChain(blockchain, models.AllChains); err != nil {
		return nil, err
	}
	if sortBy == "" {
		sortBy = "washtrade_volume"
	}
	if timeRange == "" {
		timeRange = "24h"
	}
	params := baseParams()
	params.Set("blockchain", blockchain)
	params.Set("time_range", timeRange)
	params.Set("sort_by", sortBy)
	params.Set("sort_order", "desc")
	addAll(params, "contract_address", contractAddresses)
	addAll(params, "token_id", tokenIDs)
	return c.get(ctx, "/nft/washtrade", params, cache.InsightTTL)
}

// --- Collection endpoints ---

func (c *Client) GetCollectionWhales(ctx context.Context, blockchain, timeRange string, contractAddresses []string, sortBy string) (json.RawMessage, error) {
	blockchain = normalizeChain(blockchain)
	if err := validateChain(blockchain, models.AllChains); err != nil {
		return nil, err
	}
	if sortBy == "" {
		sortBy = "nft_count"
	}
	if timeRange == "" {
		timeRange = "24h"
	}
	params := baseParams()
	params.Set("blockchain", blockchain)
	params.Set("time_range", timeRange)
	params.Set("sort_by", sortBy)
	params.Set("sort_order", "desc")
	addAll(params, "contract_address", contractAddresses)
	return c.get(ctx, "/nft/collection/whales", params, cache.InsightTTL)
}

func (c *Client) GetCollectionMetadata(ctx context.Context, blockchain string, contractAddresses, slugNames []string) (json.RawMessage, error) {
	blockchain = normalizeChain(blockchain)
	if err := validateChain(blockchain, models.AllChains); err != nil {
		return nil, err
	}
	params := baseParams()
	params.Set("blockchain", blockchain)
	params.Set("time_range", "all")
	params.Set("sort_order", "desc")
	addAll(params, "contract_address", contractAddresses)
	addAll(params, "slug_name", slugNames)
	return c.get(ctx, "/nft/collection/metadata", params, cache.MetadataTTL)
}

func (c *Client) GetNftFloorPrice(ctx context.Context, blockchain string, contractAddresses []string) (json.RawMessage, error) {
	blockchain = normalizeChain(blockchain)
	if err := validateChain(blockchain, models.AllChains); err != nil {
		return nil, err
	}
	params := baseParams()
	params.Set("blockchain", blockchain)
	params.Set("time_range", "all")
	params.Set("sort_by", "floor_price_usd")
	params.Set("sort_order", "desc")
	addAll(params, "contract_address", contractAddresses)
	return c.get(ctx, "/nft/floor_price", params, cache.InsightTTL)
}

func (c *Client) GetNftAnalytics(ctx context.Context, contractAddresses []string, blockchain, timeRange string, tokenIDs []string, sortBy string) (json.RawMessage, error) {
	blockchain = normalizeChain(blockchain)
	if err := validateChain(blockchain, models.AllChains); err != nil {
		return nil, err
	}
	if sortBy == "" {
		sortBy = "sales"
	}
	if timeRange == "" {
		timeRange = "24h"
	}
	params := baseParams()
	params.Set("blockchain", blockchain)
	params.Set("time_range", timeRange)
	params.Set("sort_by", sortBy)
	params.Set("sort_order", "desc")
	addAll(params, "contract_address", contractAddresses)
	addAll(params, "token_id", tokenIDs)
	return c.get(ctx, "/nft/analytics", params, cache.InsightTTL)
}

func (c *Client) GetNftListing(ctx context.Context, blockchain string, contractAddresses, tokenIDs []string) (json.RawMessage, error) {
	blockchain = normalizeChain(blockchain)
	if err := validateChain(blockchain, models.AllChains); err != nil {
		return nil, err
	}
	params := baseParams()
	params.Set("blockchain", blockchain)
	params.Set("time_range", "24h")
	params.Set("sort_by", "listing_timestamp")
	params.Set("sort_order", "desc")
	addAll(params, "contract_address", contractAddresses)
	addAll(params, "token_id", tokenIDs)
	return c.get(ctx, "/nft/listing", params, cache.InsightTTL)
}

// GetTokenBalance queries ERC20 balances across chains; all filters are
// optional.
func (c *Client) GetTokenBalance(ctx context.Context, blockchains, tokenAddresses, addresses []string) (json.RawMessage, error) {
	params := baseParams()
	addAll(params, "blockchain", blockchains)
	addAll(params, "token_address", tokenAddresses)
	addAll(params, "address", addresses)
	return c.get(ctx, "/token/balance", params, cache.InsightTTL)
}

// --- Marketplace endpoints ---

func (c *Client) GetNftMarketplaceMetadata(ctx context.Context) (json.RawMessage, error) {
	params := baseParams()
	params.Set("sort_order", "desc")
	return c.get(ctx, "/nft/marketplace/metadata", params, cache.MetadataTTL)
}

func (c *Client) GetNftMarketplaceAnalytics(ctx context.Context, blockchain, timeRange string, names []string) (json.RawMessage, error) {
	blockchain = normalizeChain(blockchain)
	if err := validateChain(blockchain, models.AllChains); err != nil {
		return nil, err
	}
	if timeRange == "" {
		timeRange = "24h"
	}
	params := baseParams()
	params.Set("blockchain", blockchain)
	params.Set("time_range", timeRange)
	params.Set("sort_by", "volume")
	params.Set("sort_order", "desc")
	addAll(params, "name", names)
	return c.get(ctx, "/nft/marketplace/analytics", params, cache.InsightTTL)
}

func (c *Client) GetNftMarketplaceWashtrade(ctx context.Context, blockchain, timeRange string, names []string) (json.RawMessage, error) {
	blockchain = normalizeChain(blockchain)
	if err := validateChain(blockchain, models.AllChains); err != nil {
		return nil, err
	}
	if timeRange == "" {
		timeRange = "24h"
	}
	params := baseParams()
	params.Set("blockchain", blockchain)
	params.Set("time_range", timeRange)
	params.Set("sort_by", "washtrade_volume")
	params.Set("sort_order", "desc")
	addAll(params, "name", names)
	return c.get(ctx, "/nft/marketplace/washtrade", params, cache.InsightTTL)
}

// --- Market insight endpoints ---

func (c *Client) marketInsight(ctx context.Context, path, blockchain, timeRange string) (json.RawMessage, error) {
	blockchain = normalizeChain(blockchain)
	if err := validateChain(blockchain, models.AllChains); err != nil {
		return nil, err
	}
	if timeRange == "" {
		timeRange = "24h"
	}
	params := url.Values{}
	params.Set("blockchain", blockchain)
	params.Set("time_range", timeRange)
	return c.get(ctx, path, params, cache.InsightTTL)
}

func (c *Client) GetMarketAnalytics(ctx context.Context, blockchain, timeRange string) (json.RawMessage, error) {
	return c.marketInsight(ctx, "/nft/market-insights/analytics", blockchain, timeRange)
}

func (c *Client) GetHolderInsights(ctx context.Context, blockchain, timeRange string) (json.RawMessage, error) {
	return c.marketInsight(ctx, "/nft/market-insights/holders", blockchain, timeRange)
}

func (c *Client) GetScoresInsights(ctx context.Context, blockchain, timeRange string) (json.RawMessage, error) {
	return c.marketInsight(ctx, "/nft/market-insights/scores", blockchain, timeRange)
}

func (c *Client) GetTradersInsights(ctx context.Context, blockchain, timeRange string) (json.RawMessage, error) {
	return c.marketInsight(ctx, "/nft/market-insights/traders", blockchain, timeRange)
}

func (c *Client) GetMarketWashtrade(ctx context.Context, blockchain, timeRange string) (json.RawMessage, error) {
	return c.marketInsight(ctx, "/nft/market-insights/washtrade", blockchain, timeRange)
}
