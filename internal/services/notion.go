package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"milgapo/scholarship-matcher/internal/models"
)

const (
	notionVersion  = "2022-06-28"
	notionQueryURL = "https://api.notion.com/v1/databases/%s/query"
	notionPageSize = 100
)

// User-facing catalog errors. Handlers surface these verbatim.
var (
	ErrCatalogUnavailable   = errors.New("לא הצלחנו לטעון את המלגות כרגע.")
	ErrCatalogNotConfigured = errors.New("חסרים פרטי חיבור למערכת המלגות.")
)

// NotionService fetches the scholarship catalog. The result is always the
// complete, already-paginated list.
type NotionService interface {
	FetchCatalog(ctx context.Context) ([]models.CatalogRecord, error)
}

type notionService struct {
	token      string
	databaseID string
	client     *retryablehttp.Client
}

func NewNotionService(token, databaseID string) NotionService {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.HTTPClient.Timeout = 10 * time.Second
	client.Logger = nil

	return &notionService{
		token:      token,
		databaseID: databaseID,
		client:     client,
	}
}

// FetchCatalog implements NotionService. Any transport or non-200 response is
// collapsed into ErrCatalogUnavailable; a malformed row never aborts the rest
// of the batch.
func (n *notionService) FetchCatalog(ctx context.Context) ([]models.CatalogRecord, error) {
	if n.token == "" || n.databaseID == "" {
		return nil, ErrCatalogNotConfigured
	}

	url := fmt.Sprintf(notionQueryURL, n.databaseID)
	records := []models.CatalogRecord{}
	nextCursor := ""

	for {
		body, err := n.queryPage(ctx, url, nextCursor)
		if err != nil {
			return nil, err
		}

		body.Get("results").ForEach(func(_, page gjson.Result) bool {
			record := buildCatalogRecord(page)
			if record.ID == "" {
				return true
			}
			records = append(records, record)
			return true
		})

		if !body.Get("has_more").Bool() {
			break
		}
		nextCursor = body.Get("next_cursor").String()
	}

	return records, nil
}

func (n *notionService) queryPage(ctx context.Context, url, cursor string) (gjson.Result, error) {
	payload := map[string]interface{}{"page_size": notionPageSize}
	if cursor != "" {
		payload["start_cursor"] = cursor
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to encode catalog query: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.token)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		log.Printf("⚠️  Notion request error: %v\n", err)
		return gjson.Result{}, ErrCatalogUnavailable
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("⚠️  Notion response read error: %v\n", err)
		return gjson.Result{}, ErrCatalogUnavailable
	}

	if resp.StatusCode != http.StatusOK {
		preview := raw
		if len(preview) > 200 {
			preview = preview[:200]
		}
		log.Printf("⚠️  Notion response status %d: %s\n", resp.StatusCode, preview)
		return gjson.Result{}, ErrCatalogUnavailable
	}

	return gjson.ParseBytes(raw), nil
}
