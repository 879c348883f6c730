package esclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pthm/quarry"
)

const maxResultWindowSetting = "index.max_result_window"

// IndexExists reports whether index (or alias) exists.
func (c *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	res, err := c.es.Indices.Exists(
		splitIndex(index),
		c.es.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, err
	}
	defer func() { _ = res.Body.Close() }()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return false, nil
	case res.IsError():
		return false, newResponseError(res)
	default:
		return true, nil
	}
}

type indexSettings struct {
	Settings map[string]any `json:"settings"`
	Defaults map[string]any `json:"defaults"`
}

// MaxResultWindow returns index.max_result_window for index. For aliases
// and patterns spanning several indices the smallest window is returned,
// since a search across them fails past it.
func (c *Client) MaxResultWindow(ctx context.Context, index string) (int, error) {
	res, err := c.es.Indices.GetSettings(
		c.es.Indices.GetSettings.WithContext(ctx),
		c.es.Indices.GetSettings.WithIndex(splitIndex(index)...),
		c.es.Indices.GetSettings.WithName(maxResultWindowSetting),
		c.es.Indices.GetSettings.WithIncludeDefaults(true),
		c.es.Indices.GetSettings.WithFlatSettings(true),
	)
	if err != nil {
		return 0, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return 0, newResponseError(res)
	}

	var byIndex map[string]indexSettings
	if err := json.NewDecoder(res.Body).Decode(&byIndex); err != nil {
		return 0, fmt.Errorf("decoding settings: %w", err)
	}

	window := 0
	for name, s := range byIndex {
		raw, ok := s.Settings[maxResultWindowSetting]
		if !ok {
			raw, ok = s.Defaults[maxResultWindowSetting]
		}
		if !ok {
			continue
		}
		n, err := strconv.Atoi(fmt.Sprint(raw))
		if err != nil {
			return 0, fmt.Errorf("%s: %s %q: %w", name, maxResultWindowSetting, raw, err)
		}
		if window == 0 || n < window {
			window = n
		}
	}
	if window == 0 {
		window = quarry.DefaultMaxResultWindow
	}
	return window, nil
}
