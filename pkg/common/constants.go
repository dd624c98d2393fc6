package common

const (
	ProviderFinnhub      = "Finnhub"
	ProviderAlphaVantage = "Alpha Vantage"
	ProviderYahooFinance = "Yahoo Finance"

	RedisKeyQuotePrefix = "tracker.quote."
	RedisKeySweeperLock = "tracker.sweeper.lock"
)
