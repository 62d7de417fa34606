package notion

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/imroc/req/v3"

	ferrors "git.home.luguber.info/inful/notionsync/internal/foundation/errors"
	"git.home.luguber.info/inful/notionsync/internal/logfields"
	"git.home.luguber.info/inful/notionsync/internal/retry"
)

const (
	// APIVersion is sent as the Notion-Version header on every request.
	APIVersion = "2022-06-28"

	pathPage          = "/v1/pages/{id}"
	pathPages         = "/v1/pages"
	pathBlock         = "/v1/blocks/{id}"
	pathBlockChildren = "/v1/blocks/{id}/children"
)

// ClientOptions configures a Client.
type ClientOptions struct {
	Token     string
	BaseURL   string
	Retry     retry.Policy
	UserAgent string
}

// Client is a Store backed by the Notion public API.
type Client struct {
	http *req.Client
}

var _ Store = (*Client)(nil)

// NewClient builds an API client. A missing token is a configuration error.
func NewClient(opts ClientOptions) (*Client, error) {
	if strings.TrimSpace(opts.Token) == "" {
		return nil, ferrors.ConfigError("notion token is required").
			WithContext("env", "NOTION_TOKEN").
			Build()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.notion.com"
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "notionsync"
	}
	policy := opts.Retry

	c := req.C().
		SetBaseURL(strings.TrimSuffix(opts.BaseURL, "/")).
		SetUserAgent(opts.UserAgent).
		SetCommonBearerAuthToken(opts.Token).
		SetCommonHeader("Notion-Version", APIVersion).
		SetCommonRetryCount(policy.MaxRetries).
		SetCommonRetryInterval(func(resp *req.Response, attempt int) time.Duration {
			return policy.DelayWithHint(attempt, retryAfter(resp))
		}).
		SetCommonRetryCondition(func(resp *req.Response, err error) bool {
			if err != nil {
				return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
			}
			return resp != nil && retry.RetryableStatus(resp.GetStatusCode())
		}).
		SetCommonRetryHook(func(resp *req.Response, err error) {
			var attrs []any
			if resp != nil && resp.Request != nil {
				attrs = append(attrs,
					logfields.Attempt(resp.Request.RetryAttempt),
					logfields.Method(resp.Request.Method),
					logfields.URL(resp.Request.RawURL),
					logfields.Status(strconv.Itoa(resp.GetStatusCode())))
			}
			if err != nil {
				attrs = append(attrs, logfields.Error(err))
			}
			slog.Debug("Retrying notion request", attrs...)
		})
	return &Client{http: c}, nil
}

// ResolvePage fetches a page by id or page URL.
func (c *Client) ResolvePage(ctx context.Context, ref string) (*Page, error) {
	id := ExtractID(ref)
	var page wirePage
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetSuccessResult(&page).
		SetErrorResult(&apiErr).
		Get(pathPage)
	if err := handleAPIError(resp, err, &apiErr, "resolve page"); err != nil {
		return nil, withRef(err, ref)
	}
	return &Page{ID: page.ID, Title: page.title()}, nil
}

// ListChildPages returns parent's child pages in the order the API lists them.
func (c *Client) ListChildPages(ctx context.Context, parent *Page) ([]*Page, error) {
	raw, err := c.listChildren(ctx, parent)
	if err != nil {
		return nil, err
	}
	var pages []*Page
	for _, w := range raw {
		if w.Type != string(KindChildPage) {
			continue
		}
		var p wirePayload
		if len(w.payload) > 0 {
			if err := json.Unmarshal(w.payload, &p); err != nil {
				return nil, decodeError(err, w.ID)
			}
		}
		pages = append(pages, &Page{ID: w.ID, Title: p.Title})
	}
	return pages, nil
}

// CreateChildPage creates a page titled title under parent.
func (c *Client) CreateChildPage(ctx context.Context, parent *Page, title string) (*Page, error) {
	body := map[string]any{
		"parent": map[string]string{"page_id": parent.ID},
		"properties": map[string]any{
			"title": map[string]any{
				"title": encodeSpans([]Span{{Text: title}}),
			},
		},
	}
	var page wirePage
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetSuccessResult(&page).
		SetErrorResult(&apiErr).
		Post(pathPages)
	if err := handleAPIError(resp, err, &apiErr, "create page"); err != nil {
		return nil, withRef(err, parent.ID)
	}
	return &Page{ID: page.ID, Title: title}, nil
}

// ListBlocks returns page's top-level content blocks, child pages excluded.
func (c *Client) ListBlocks(ctx context.Context, page *Page) ([]Block, error) {
	raw, err := c.listChildren(ctx, page)
	if err != nil {
		return nil, err
	}
	var blocks []Block
	for _, w := range raw {
		if w.Type == string(KindChildPage) {
			continue
		}
		b, err := decodeBlock(w)
		if err != nil {
			return nil, decodeError(err, w.ID)
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// RemoveBlock archives a block.
func (c *Client) RemoveBlock(ctx context.Context, _ *Page, blockID string) error {
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", blockID).
		SetErrorResult(&apiErr).
		Delete(pathBlock)
	return withRef(handleAPIError(resp, err, &apiErr, "remove block"), blockID)
}

// AppendBlocks appends blocks to page in batches the API accepts.
func (c *Client) AppendBlocks(ctx context.Context, page *Page, blocks []Block) error {
	encoded := encodeBlocks(blocks, 0)
	for start := 0; start < len(encoded); start += maxAppendBatch {
		end := min(start+maxAppendBatch, len(encoded))
		var apiErr apiError
		resp, err := c.http.R().
			SetContext(ctx).
			SetPathParam("id", page.ID).
			SetBody(map[string]any{"children": encoded[start:end]}).
			SetErrorResult(&apiErr).
			Patch(pathBlockChildren)
		if err := handleAPIError(resp, err, &apiErr, "append blocks"); err != nil {
			return withRef(err, page.ID)
		}
	}
	return nil
}

func (c *Client) listChildren(ctx context.Context, page *Page) ([]wireBlock, error) {
	var out []wireBlock
	cursor := ""
	for {
		var list wireList
		var apiErr apiError
		r := c.http.R().
			SetContext(ctx).
			SetPathParam("id", page.ID).
			SetQueryParam("page_size", "100").
			SetSuccessResult(&list).
			SetErrorResult(&apiErr)
		if cursor != "" {
			r.SetQueryParam("start_cursor", cursor)
		}
		resp, err := r.Get(pathBlockChildren)
		if err := handleAPIError(resp, err, &apiErr, "list children"); err != nil {
			return nil, withRef(err, page.ID)
		}
		out = append(out, list.Results...)
		if !list.HasMore || list.NextCursor == nil || *list.NextCursor == "" {
			return out, nil
		}
		cursor = *list.NextCursor
	}
}

// handleAPIError turns a transport failure or an error response into a
// classified remote store error.
func handleAPIError(resp *req.Response, requestErr error, body *apiError, operation string) error {
	if requestErr != nil {
		if errors.Is(requestErr, context.Canceled) || errors.Is(requestErr, context.DeadlineExceeded) {
			return ferrors.WrapError(requestErr, ferrors.CategoryRemote, operation+" cancelled").Build()
		}
		return ferrors.WrapError(requestErr, ferrors.CategoryRemote, operation+" failed").
			Retryable().
			Build()
	}
	if !resp.IsErrorState() {
		return nil
	}

	status := resp.GetStatusCode()
	msg := operation + ": " + http.StatusText(status)
	if body != nil && body.Message != "" {
		msg = operation + ": " + body.Message
	}
	b := ferrors.RemoteStoreError(msg).WithContext("status", status)
	if body != nil && body.Code != "" {
		b = b.WithContext("code", body.Code)
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		b = b.UserAction()
	case status == http.StatusTooManyRequests:
		b = b.RateLimit()
	case retry.RetryableStatus(status):
		b = b.Retryable()
	}
	return b.Build()
}

func withRef(err error, ref string) error {
	if err == nil {
		return nil
	}
	if ce, ok := ferrors.AsClassified(err); ok {
		return ce.WithContext("ref", ref)
	}
	return err
}

func decodeError(err error, id string) error {
	return ferrors.WrapError(err, ferrors.CategoryRemote, "decode block").
		WithContext("ref", id).
		Build()
}

// retryAfter reads the Retry-After header in seconds, zero when absent.
func retryAfter(resp *req.Response) time.Duration {
	if resp == nil || resp.Response == nil {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(resp.GetHeader("Retry-After")))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
