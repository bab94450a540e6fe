// Package sheets is a thin wrapper over the Google Sheets values API.
package sheets

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const valueInputOption = "RAW"

type Client struct {
	service *sheets.Service
}

// Config selects credentials. Endpoint and HTTPClient point the client at a
// non-Google server and skip authentication.
type Config struct {
	CredentialsPath string
	CredentialsJSON []byte
	Endpoint        string
	HTTPClient      *http.Client
}

func (c Config) options() ([]option.ClientOption, error) {
	switch {
	case c.Endpoint != "":
		opts := []option.ClientOption{option.WithEndpoint(c.Endpoint), option.WithoutAuthentication()}
		if c.HTTPClient != nil {
			opts = append(opts, option.WithHTTPClient(c.HTTPClient))
		}
		return opts, nil
	case c.CredentialsPath != "":
		return []option.ClientOption{option.WithCredentialsFile(c.CredentialsPath)}, nil
	case len(c.CredentialsJSON) > 0:
		return []option.ClientOption{option.WithCredentialsJSON(c.CredentialsJSON)}, nil
	default:
		return nil, fmt.Errorf("sheets: credentials path or JSON is required")
	}
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	opts, err := cfg.options()
	if err != nil {
		return nil, err
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to create service: %w", err)
	}

	return &Client{service: service}, nil
}

// AppendValues inserts rows after the last table row found in rng
func (c *Client) AppendValues(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error {
	if c.service == nil {
		return fmt.Errorf("sheets: service is nil")
	}

	_, err := c.service.Spreadsheets.Values.Append(spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption(valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append %s: %w", rng, err)
	}
	return nil
}

// UpdateValues overwrites cells starting at rng
func (c *Client) UpdateValues(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error {
	if c.service == nil {
		return fmt.Errorf("sheets: service is nil")
	}

	_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: update %s: %w", rng, err)
	}
	return nil
}

func (c *Client) ClearValues(ctx context.Context, spreadsheetID, rng string) error {
	if c.service == nil {
		return fmt.Errorf("sheets: service is nil")
	}

	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: clear %s: %w", rng, err)
	}
	return nil
}
