// Package dto defines the wire shapes of the Alpha Vantage API.
package dto

// GlobalQuoteResponse is the body of function=GLOBAL_QUOTE. All numeric
// fields arrive as strings.
type GlobalQuoteResponse struct {
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Open          string `json:"02. open"`
		High          string `json:"03. high"`
		Low           string `json:"04. low"`
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		PreviousClose string `json:"08. previous close"`
		Change        string `json:"09. change"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
	Note         string `json:"Note"`
	ErrorMessage string `json:"Error Message"`
}

// OverviewResponse is the body of function=OVERVIEW.
type OverviewResponse struct {
	Symbol           string `json:"Symbol"`
	Name             string `json:"Name"`
	Description      string `json:"Description"`
	Sector           string `json:"Sector"`
	Exchange         string `json:"Exchange"`
	Currency         string `json:"Currency"`
	MarketCap        string `json:"MarketCapitalization"`
	PERatio          string `json:"PERatio"`
	Week52High       string `json:"52WeekHigh"`
	Week52Low        string `json:"52WeekLow"`
	DividendPerShare string `json:"DividendPerShare"`
	Note             string `json:"Note"`
	ErrorMessage     string `json:"Error Message"`
}

// DailyBar is one day in a TIME_SERIES_DAILY response.
type DailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// TimeSeriesDailyResponse is the body of function=TIME_SERIES_DAILY,
// keyed by date string.
type TimeSeriesDailyResponse struct {
	Series       map[string]DailyBar `json:"Time Series (Daily)"`
	Note         string              `json:"Note"`
	ErrorMessage string              `json:"Error Message"`
}
