// Package dto defines data transfer objects for the Yahoo Finance chart API.
package dto

// ChartResponse represents the JSON response from the v8 chart endpoint.
// Close entries are pointers because Yahoo emits nulls for non-trading days.
type ChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}
