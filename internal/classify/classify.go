// Package classify holds the keyword heuristics that decide how a query is
// routed before any language model or analytics call is made. The tests
// pin the exact matching behavior: several keyword sets deliberately
// overlap (whale queries are a subset of market insight queries, for
// example) and the evaluation order in the orchestrators is load-bearing.
package classify

import (
	"regexp"
	"strings"

	"github.com/aelys/aelys/internal/models"
)

var (
	tokenIDPattern = regexp.MustCompile(`(?i)(?:token\s*(?:id\s*)?|#)(\d+)`)
	slugPattern    = regexp.MustCompile(`(?i)(?:collection:|slug:)([a-zA-Z0-9-_]+)`)
	singleQuoted   = regexp.MustCompile(`'([^']+)'`)
	doubleQuoted   = regexp.MustCompile(`"([^"]+)"`)
	collectionName = regexp.MustCompile(`(?i)(?:collection\s+|about\s+(?:the\s+)?collection\s+)([a-zA-Z0-9-_]+)`)
)

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var generalKeywords = []string{
	"what is", "explain", "how do", "tell me about", "define", "difference between",
	"what are", "how to", "basics", "educational", "onboarding", "learn about",
	"understand", "concept of", "meaning of", "introduction to",
}

// IsGeneralQuery reports whether the query is educational and can be
// answered without touching the analytics provider.
func IsGeneralQuery(query string) bool {
	return containsAny(strings.ToLower(query), generalKeywords)
}

var walletRelatedKeywords = []string{
	"my wallet", "my portfolio", "my holdings", "my balance", "my tokens", "my nfts",
	"my defi", "my score", "my risk", "my trading", "my activity", "what do i own",
	"show me my", "analyze my", "check my", "my exposure", "my nft holdings",
	"my token balance", "my defi holdings", "my collection", "my assets",
}

// IsWalletRelatedQuery detects personal-possessive phrasing that asks about
// the caller's own wallet.
func IsWalletRelatedQuery(query string) bool {
	return containsAny(strings.ToLower(query), walletRelatedKeywords)
}

var marketKeywords = []string{
	"market", "ethereum", "polygon", "solana", "binance", "avalanche", "linea",
	"blockchain", "network", "overall", "general", "activity on", "trading on",
	"volume on", "trends", "what's the", "show me", "any suspicious",
	"wash trading volume", "nft market", "defi market", "trading volume",
	"market analytics", "market insights", "market data", "chain activity",
	"network activity", "protocol activity", "nft whales on", "whales on",
	"collection whales", "ethereum whales", "polygon whales", "solana whales",
	"top holders", "whale activity", "nft volume", "market volume",
}

var walletIntentKeywords = []string{
	"my wallet", "my portfolio", "my holdings", "my balance", "my nfts",
	"my tokens", "my defi", "my score", "wallet address", "this wallet",
	"connected wallet", "my nft holdings", "my token balance", "my defi holdings",
	"my whales", "my collection",
}

// IsMarketLevelQuery decides whether a query asks about the market at large
// rather than a specific wallet. Wallet phrasing or an embedded address
// always wins; otherwise any market keyword qualifies, and short ambiguous
// queries default to market-level unless they contain "my " or "wallet".
// The default branch is known to be imprecise for queries like "NFT volume"
// with a connected wallet, but the routing behavior is intentional.
func IsMarketLevelQuery(query string) bool {
	lower := strings.ToLower(query)

	if containsAny(lower, walletIntentKeywords) || models.WalletAddressPattern.MatchString(query) {
		return false
	}
	if containsAny(lower, marketKeywords) {
		return true
	}
	return !strings.Contains(lower, "my ") && !strings.Contains(lower, "wallet")
}

var washtradeMarketKeywords = []string{
	"market", "ethereum", "polygon", "solana", "binance", "avalanche",
	"blockchain", "network", "overall", "general", "activity on",
	"trading on", "volume on", "trends", "what's the", "show me",
	"any suspicious", "wash trading volume",
}

// IsWashtradeMarketLevel is the narrower market test used inside the
// washtrade cascade: market keywords must be present AND no wallet
// phrasing or embedded address.
func IsWashtradeMarketLevel(query string) bool {
	lower := strings.ToLower(query)
	return containsAny(lower, washtradeMarketKeywords) &&
		!strings.Contains(lower, "wallet") &&
		!strings.Contains(lower, "my ") &&
		!models.WalletAddressPattern.MatchString(query)
}

var whaleKeywords = []string{
	"collection whales", "whale activity", "whale metrics", "whale holders",
	"whale trading", "whale volume", "whale analysis", "collections with whales",
	"which collections have whales", "whale buyers", "whale sellers",
	"collections ranked by whale", "collections sorted by whale",
	"mint whales", "trading whales", "collections with most whales",
}

// IsWhaleQuery detects collection-whale phrasing for routing to the market
// insight agent.
func IsWhaleQuery(query string) bool {
	lower := strings.ToLower(query)
	if containsAny(lower, whaleKeywords) {
		return true
	}
	if strings.Contains(lower, "whale") &&
		(strings.Contains(lower, "collection") || strings.Contains(lower, "collections")) {
		return true
	}
	return strings.Contains(lower, "whale") &&
		(strings.Contains(lower, "ethereum") || strings.Contains(lower, "polygon") ||
			strings.Contains(lower, "solana") || strings.Contains(lower, "binance") ||
			strings.Contains(lower, "avalanche") || strings.Contains(lower, "show me") ||
			strings.Contains(lower, "which") || strings.Contains(lower, "display"))
}

var marketInsightKeywords = []string{
	"market analytics", "market insights", "market data", "market trends",
	"trading analytics", "trading insights", "volume analytics", "sales analytics",
	"nft market", "defi market", "market overview", "market summary",
	"holder analytics", "trader analytics", "market scores", "market sentiment",
	"whale analytics", "whale insights",
}

var analyticsContextWords = []string{
	"analytics", "insights", "trends", "volume", "trading", "holders",
	"traders", "scores", "whales",
}

// IsMarketInsightQuery decides whether a market-level query should be
// served by the market insight endpoints. Whale queries always qualify.
func IsMarketInsightQuery(query string) bool {
	if IsWhaleQuery(query) {
		return true
	}
	lower := strings.ToLower(query)
	if containsAny(lower, marketInsightKeywords) {
		return true
	}
	return IsMarketLevelQuery(query) && containsAny(lower, analyticsContextWords)
}

// IsWashtradeQuery detects fraud and wash trading phrasing.
func IsWashtradeQuery(query string) bool {
	lower := strings.ToLower(query)
	return strings.Contains(lower, "wash") || strings.Contains(lower, "washtrade") ||
		strings.Contains(lower, "fraud") || strings.Contains(lower, "suspicious") ||
		strings.Contains(lower, "suspect") || strings.Contains(lower, "manipulation")
}

// IsNFTWashtradeQuery detects washtrade analysis of specific NFTs or
// contracts rather than wallets or the market.
func IsNFTWashtradeQuery(query string) bool {
	lower := strings.ToLower(query)
	hasWashtrade := strings.Contains(lower, "wash") || strings.Contains(lower, "washtrade") ||
		strings.Contains(lower, "fraud") || strings.Contains(lower, "suspicious")
	hasNFTSpecific := strings.Contains(lower, "token") || strings.Contains(lower, "contract") ||
		strings.Contains(lower, "nft") || models.WalletAddressPattern.MatchString(query)
	return hasWashtrade && hasNFTSpecific
}

var collectionMetadataKeywords = []string{
	"collection info", "collection details", "collection metadata", "about collection",
	"collection description", "collection information", "what is this collection",
	"tell me about collection", "collection data", "collection properties",
	"collection attributes", "collection characteristics", "nft collection info",
}

// IsCollectionMetadataQuery matches several independent sub-rules; any one
// firing is sufficient.
func IsCollectionMetadataQuery(query string) bool {
	lower := strings.ToLower(query)
	quoted := strings.Contains(lower, "'") || strings.Contains(lower, `"`)

	if (strings.Contains(lower, "tell me about") || strings.Contains(lower, "about")) &&
		strings.Contains(lower, "collection") && quoted {
		return true
	}
	if quoted && (strings.Contains(lower, "collection") || strings.Contains(lower, "nft") ||
		strings.Contains(lower, "tell me about") || strings.Contains(lower, "about")) {
		return true
	}
	if containsAny(lower, collectionMetadataKeywords) {
		return true
	}
	if strings.Contains(lower, "collection") &&
		(strings.Contains(lower, "info") || strings.Contains(lower, "details") ||
			strings.Contains(lower, "metadata") || strings.Contains(lower, "description") ||
			strings.Contains(lower, "about") || strings.Contains(lower, "what is") ||
			strings.Contains(lower, "tell me")) {
		return true
	}
	if models.WalletAddressPattern.MatchString(query) &&
		(strings.Contains(lower, "collection") || strings.Contains(lower, "metadata") ||
			strings.Contains(lower, "info") || strings.Contains(lower, "about")) {
		return true
	}
	if (strings.Contains(lower, "collection:") || strings.Contains(lower, "slug:")) &&
		strings.Contains(lower, "details") {
		return true
	}
	return false
}

// IsFloorPriceQuery detects floor price questions.
func IsFloorPriceQuery(query string) bool {
	lower := strings.ToLower(query)
	return strings.Contains(lower, "floor price") || strings.Contains(lower, "floor") ||
		strings.Contains(lower, "minimum price") || strings.Contains(lower, "cheapest") ||
		strings.Contains(lower, "lowest price")
}

// IsNftAnalyticsQuery detects performance questions about specific NFTs.
func IsNftAnalyticsQuery(query string) bool {
	lower := strings.ToLower(query)
	hasNFT := strings.Contains(lower, "nft") || models.WalletAddressPattern.MatchString(query)
	hasAnalytics := strings.Contains(lower, "analytics") || strings.Contains(lower, "performance") ||
		strings.Contains(lower, "sales") || strings.Contains(lower, "volume") ||
		strings.Contains(lower, "transactions")
	return hasNFT && hasAnalytics
}

// IsNftListingQuery detects listing and for-sale questions.
func IsNftListingQuery(query string) bool {
	lower := strings.ToLower(query)
	return strings.Contains(lower, "listing") || strings.Contains(lower, "listed") ||
		strings.Contains(lower, "for sale") || strings.Contains(lower, "on sale") ||
		strings.Contains(lower, "marketplace listing")
}

// IsTokenBalanceQuery detects ERC20 balance questions.
func IsTokenBalanceQuery(query string) bool {
	lower := strings.ToLower(query)
	return strings.Contains(lower, "token balance") || strings.Contains(lower, "token holdings") ||
		strings.Contains(lower, "erc20") || strings.Contains(lower, "token portfolio") ||
		(strings.Contains(lower, "token") &&
			(strings.Contains(lower, "balance") || strings.Contains(lower, "hold")))
}

// IsMarketplaceQuery detects questions about NFT marketplaces.
func IsMarketplaceQuery(query string) bool {
	lower := strings.ToLower(query)
	return strings.Contains(lower, "marketplace") || strings.Contains(lower, "opensea") ||
		strings.Contains(lower, "blur") || strings.Contains(lower, "magiceden") ||
		strings.Contains(lower, "rarible") || strings.Contains(lower, "marketplace analytics") ||
		strings.Contains(lower, "marketplace data") || strings.Contains(lower, "marketplace metadata")
}

// IsWalletMetricsQuery detects metric requests about a wallet or address.
func IsWalletMetricsQuery(query string) bool {
	lower := strings.ToLower(query)
	return (strings.Contains(lower, "metric") || strings.Contains(lower, "analytics") ||
		strings.Contains(lower, "show") || strings.Contains(lower, "get")) &&
		(strings.Contains(lower, "wallet") || strings.Contains(lower, "address") ||
			models.WalletAddressPattern.MatchString(query))
}

// IsDetailedQuery decides between the detailed and concise prompt variant.
func IsDetailedQuery(query string) bool {
	lower := strings.ToLower(query)
	return strings.Contains(lower, "detailed") || strings.Contains(lower, "full") ||
		strings.Contains(lower, "complete") || strings.Contains(lower, "breakdown") ||
		strings.Contains(lower, "analysis") || strings.Contains(lower, "deep") ||
		strings.Contains(lower, "comprehensive") || strings.Contains(lower, "all")
}

var chartKeywords = []string{
	"chart", "graph", "visualization", "plot", "trend", "visualize",
	"show me", "display", "trends", "over time", "time series",
}

// IsChartQuery reports whether the user explicitly asked for a chart.
func IsChartQuery(query string) bool {
	return containsAny(strings.ToLower(query), chartKeywords)
}

// ExtractWalletAddress returns the first 0x-prefixed 40-hex address in the
// query, or "" if none.
func ExtractWalletAddress(query string) string {
	return models.WalletAddressPattern.FindString(query)
}

// ExtractContractAddresses returns all 0x addresses in the query, nil if
// none.
func ExtractContractAddresses(query string) []string {
	return models.WalletAddressPattern.FindAllString(query, -1)
}

// ExtractTokenIDs returns the numeric portions of token id references like
// "token 123", "token id 456" or "#789".
func ExtractTokenIDs(query string) []string {
	matches := tokenIDPattern.FindAllStringSubmatch(query, -1)
	if matches == nil {
		return nil
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}
	return ids
}

// ExtractBlockchain returns the first whitelisted chain name found in the
// query text, or the default chain.
func ExtractBlockchain(query string) string {
	lower := strings.ToLower(query)
	for _, chain := range models.AllChains {
		if strings.Contains(lower, chain) {
			return chain
		}
	}
	return models.DefaultBlockchain
}

// ExtractSlugNames tries, in order: collection:/slug: prefixes, single
// quotes, double quotes, then a bare name following "collection". Quoted
// names are slugified (lowercased, spaces to dashes).
func ExtractSlugNames(query string) []string {
	if matches := slugPattern.FindAllStringSubmatch(query, -1); matches != nil {
		slugs := make([]string, 0, len(matches))
		for _, m := range matches {
			slugs = append(slugs, strings.TrimSpace(m[1]))
		}
		return slugs
	}
	if matches := singleQuoted.FindAllStringSubmatch(query, -1); matches != nil {
		return slugify(matches)
	}
	if matches := doubleQuoted.FindAllStringSubmatch(query, -1); matches != nil {
		return slugify(matches)
	}
	if m := collectionName.FindStringSubmatch(query); m != nil {
		return []string{strings.ToLower(m[1])}
	}
	return nil
}

func slugify(matches [][]string) []string {
	slugs := make([]string, 0, len(matches))
	for _, m := range matches {
		slug := strings.ToLower(m[1])
		slug = strings.Join(strings.Fields(slug), "-")
		slugs = append(slugs, slug)
	}
	return slugs
}

// DetectSortBy maps query phrasing to a sort key for the given endpoint
// family, with a family-specific default.
func DetectSortBy(query, family string) string {
	lower := strings.ToLower(query)

	switch family {
	case "nft_analytics":
		switch {
		case strings.Contains(lower, "sales") || strings.Contains(lower, "sold"):
			return "sales"
		case strings.Contains(lower, "mint"):
			return "nft_mint"
		case strings.Contains(lower, "bought") || strings.Contains(lower, "purchase"):
			return "nft_bought"
		case strings.Contains(lower, "burn"):
			return "nft_burn"
		case strings.Contains(lower, "transfer"):
			return "nft_transfer"
		case strings.Contains(lower, "transactions"):
			return "transactions"
		case strings.Contains(lower, "change") || strings.Contains(lower, "trend"):
			return "volume_change"
		}
		return "volume"

	case "nft_scores":
		switch {
		case strings.Contains(lower, "profit") && strings.Contains(lower, "unrealized"):
			return "unrealized_profit"
		case strings.Contains(lower, "profit") && strings.Contains(lower, "realized"):
			return "realized_profit"
		case strings.Contains(lower, "collection"):
			return "collection_count"
		case strings.Contains(lower, "nft count") || strings.Contains(lower, "number of nft"):
			return "nft_count"
		case strings.Contains(lower, "washtrade") || strings.Contains(lower, "wash trade"):
			return "washtrade_nft_count"
		case strings.Contains(lower, "estimated"):
			return "estimated_portfolio_value"
		}
		return "portfolio_value"

	case "nft_traders":
		switch {
		case strings.Contains(lower, "buyer"):
			return "traders_buyers"
		case strings.Contains(lower, "seller"):
			return "traders_sellers"
		case strings.Contains(lower, "change") || strings.Contains(lower, "trend"):
			return "traders_change"
		}
		return "traders"

	case "nft_washtrade":
		switch {
		case strings.Contains(lower, "suspect") || strings.Contains(lower, "suspicious"):
			return "washtrade_suspect_sales"
		case strings.Contains(lower, "change") || strings.Contains(lower, "trend"):
			return "washtrade_volume_change"
		}
		return "washtrade_volume"

	case "nft_specific_washtrade":
		switch {
		case strings.Contains(lower, "assets"):
			return "washtrade_assets"
		case strings.Contains(lower, "wallets"):
			return "washtrade_wallets"
		case strings.Contains(lower, "transactions"):
			return "washtrade_suspect_transactions"
		case strings.Contains(lower, "suspect") || strings.Contains(lower, "suspicious"):
			return "washtrade_suspect_sales"
		case strings.Contains(lower, "change") || strings.Contains(lower, "trend"):
			return "washtrade_volume_change"
		}
		return "washtrade_volume"
	}

	return "default"
}
