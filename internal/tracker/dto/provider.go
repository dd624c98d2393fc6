package dto

import "time"

// FinnhubSearchResponse is the body of GET /search.
type FinnhubSearchResponse struct {
	Count  int                   `json:"count"`
	Result []FinnhubSearchResult `json:"result"`
}

type FinnhubSearchResult struct {
	Description   string `json:"description"`
	DisplaySymbol string `json:"displaySymbol"`
	Symbol        string `json:"symbol"`
	Type          string `json:"type"`
}

// FinnhubProfileResponse is the body of GET /stock/profile2. An empty struct
// means the symbol is unknown to Finnhub.
type FinnhubProfileResponse struct {
	Name     string `json:"name"`
	Ticker   string `json:"ticker"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
}

// FinnhubErrorResponse is the error envelope Finnhub returns on failures.
type FinnhubErrorResponse struct {
	Error string `json:"error"`
}

// AlphaVantageSearchResponse is the body of function=SYMBOL_SEARCH. The
// numeric key prefixes are part of the wire format.
type AlphaVantageSearchResponse struct {
	BestMatches []AlphaVantageMatch `json:"bestMatches"`
}

type AlphaVantageMatch struct {
	Symbol string `json:"1. symbol"`
	Name   string `json:"2. name"`
	Type   string `json:"3. type"`
	Region string `json:"4. region"`
}

// AlphaVantageStatusResponse carries the soft failure keys Alpha Vantage
// embeds in 200 responses. Any non-empty field marks the call as failed,
// Information and Note indicate a rate limit.
type AlphaVantageStatusResponse struct {
	Information  string `json:"Information"`
	Note         string `json:"Note"`
	ErrorMessage string `json:"Error Message"`
}

// AlphaVantageDividendsResponse is the body of function=DIVIDENDS.
type AlphaVantageDividendsResponse struct {
	Symbol string                 `json:"symbol"`
	Data   []AlphaVantageDividend `json:"data"`
}

type AlphaVantageDividend struct {
	ExDividendDate  string `json:"ex_dividend_date"`
	DeclarationDate string `json:"declaration_date"`
	RecordDate      string `json:"record_date"`
	PaymentDate     string `json:"payment_date"`
	Amount          string `json:"amount"`
}

// AlphaVantageSplitsResponse is the body of function=SPLITS.
type AlphaVantageSplitsResponse struct {
	Symbol string              `json:"symbol"`
	Data   []AlphaVantageSplit `json:"data"`
}

type AlphaVantageSplit struct {
	EffectiveDate string `json:"effective_date"`
	SplitFactor   string `json:"split_factor"`
}

// YahooChartResponse is the body of GET /v8/finance/chart/{symbol}.
type YahooChartResponse struct {
	Chart struct {
		Result []YahooChartResult `json:"result"`
		Error  *YahooChartError   `json:"error"`
	} `json:"chart"`
}

type YahooChartResult struct {
	Meta YahooChartMeta `json:"meta"`
}

type YahooChartMeta struct {
	Symbol             string  `json:"symbol"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	ChartPreviousClose float64 `json:"chartPreviousClose"`
	RegularMarketHigh  float64 `json:"regularMarketDayHigh"`
	RegularMarketLow   float64 `json:"regularMarketDayLow"`
	RegularMarketTime  int64   `json:"regularMarketTime"`
}

type YahooChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Quote is a point-in-time market quote for a symbol.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Current       float64   `json:"current"`
	Change        float64   `json:"change"`
	PercentChange float64   `json:"percent_change"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	PreviousClose float64   `json:"previous_close"`
	Timestamp     time.Time `json:"timestamp"`
}
