package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ratiofeed/internal/model"
)

const defaultSheetsBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// SheetsStore writes the latest snapshot to a Google Sheets worksheet via
// the values API: header in A1:D1, single data row in A2:D2, both
// overwritten in place.
type SheetsStore struct {
	BaseURL       string
	SpreadsheetID string
	Worksheet     string
	Token         string
	Client        *http.Client
}

// NewSheetsStore creates a store over the Sheets values API with optional
// proxy support. The token is an OAuth bearer token with spreadsheets scope.
func NewSheetsStore(spreadsheetID, worksheet, token, proxyURL string) *SheetsStore {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &SheetsStore{
		BaseURL:       defaultSheetsBaseURL,
		SpreadsheetID: spreadsheetID,
		Worksheet:     worksheet,
		Token:         token,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// Write ensures the header row exists, then overwrites the data row. A
// failure on either update surfaces as an error; there is no retry.
func (s *SheetsStore) Write(ctx context.Context, snap model.Snapshot) error {
	if err := s.updateRange(ctx, "A1:D1", Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := s.updateRange(ctx, "A2:D2", EncodeRow(snap)); err != nil {
		return fmt.Errorf("write data row: %w", err)
	}
	return nil
}

// ReadLatest fetches A1:D2 and decodes the data row. A response without a
// second row, or with fewer than four populated cells, is absent data.
func (s *SheetsStore) ReadLatest(ctx context.Context) (*model.Snapshot, error) {
	u := fmt.Sprintf("%s/%s/values/%s", s.BaseURL, s.SpreadsheetID, url.PathEscape(s.rangeRef("A1:D2")))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get values: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("sheets API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Values [][]string `json:"values"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode values response: %w", err)
	}
	if len(payload.Values) < 2 {
		return nil, nil
	}
	return DecodeRow(payload.Values[1])
}

func (s *SheetsStore) Close() error { return nil }

func (s *SheetsStore) updateRange(ctx context.Context, cells string, row []string) error {
	ref := s.rangeRef(cells)
	u := fmt.Sprintf("%s/%s/values/%s?valueInputOption=RAW", s.BaseURL, s.SpreadsheetID, url.PathEscape(ref))

	body, err := json.Marshal(map[string]any{
		"range":  ref,
		"values": [][]string{row},
	})
	if err != nil {
		return fmt.Errorf("marshal values: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("update %s: %w", cells, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sheets API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (s *SheetsStore) rangeRef(cells string) string {
	return fmt.Sprintf("%s!%s", s.Worksheet, cells)
}
