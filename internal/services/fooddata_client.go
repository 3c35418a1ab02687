package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Food data types in preference order: survey and legacy foods describe plain
// ingredients better than branded products.
var dataTypePriority = map[string]int{
	"Survey (FNDDS)":   0,
	"SR Legacy":        1,
	"Foundation":       2,
	"Branded":          3,
	"Experimental":     4,
}

// FoodDataClient queries FoodData Central for ingredient nutrition. Requests
// are paced with a client-side limiter so bulk recipe ingestion stays inside
// the API quota.
type FoodDataClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewFoodDataClient creates a client with the given pacing budget.
func NewFoodDataClient(apiKey, baseURL string, requestsPerMinute int, timeout time.Duration) *FoodDataClient {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	return &FoodDataClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), 1),
	}
}

// searchResponse mirrors the /foods/search payload fields we consume.
type searchResponse struct {
	Foods []searchFood `json:"foods"`
}

type searchFood struct {
	FdcID         int64          `json:"fdcId"`
	Description   string         `json:"description"`
	DataType      string         `json:"dataType"`
	FoodNutrients []FoodNutrient `json:"foodNutrients"`
}

// Lookup searches for an ingredient by canonical name and returns the best
// match as a cacheable entry, or (nil, nil) when nothing matches.
func (c *FoodDataClient) Lookup(ctx context.Context, canonicalName string) (*CachedLookup, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/foods/search?%s", c.baseURL, url.Values{
		"api_key":  []string{c.apiKey},
		"query":    []string{canonicalName},
		"pageSize": []string{"10"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build food-data request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("food-data request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("food-data API rate limited (status %d)", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("food-data API returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode food-data response: %w", err)
	}
	if len(parsed.Foods) == 0 {
		return nil, nil
	}

	best := selectBestMatch(parsed.Foods)
	return &CachedLookup{
		CanonicalName: canonicalName,
		FdcID:         best.FdcID,
		Description:   best.Description,
		DataType:      best.DataType,
		Nutrition:     MapNutrients(best.FoodNutrients),
	}, nil
}

// selectBestMatch prefers higher-priority data types; the API's own relevance
// order breaks ties.
func selectBestMatch(foods []searchFood) searchFood {
	best := foods[0]
	bestPriority := priorityOf(best.DataType)
	for _, f := range foods[1:] {
		if p := priorityOf(f.DataType); p < bestPriority {
			best = f
			bestPriority = p
		}
	}
	return best
}

func priorityOf(dataType string) int {
	if p, ok := dataTypePriority[dataType]; ok {
		return p
	}
	return len(dataTypePriority)
}
