// Package datasource fetches sale records from the remote sales API.
package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

const maxBodyBytes = 256 << 20

type Client struct {
	endpoint    string
	regionParam string
	yearParam   string
	httpClient  *http.Client
	logger      *slog.Logger
	group       singleflight.Group
	latency     *LatencyRecorder
}

func NewClient(cfg config.DataSourceConfig, logger *slog.Logger) *Client {
	return &Client{
		endpoint:    cfg.URL,
		regionParam: cfg.RegionParam,
		yearParam:   cfg.YearParam,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      logger,
		latency:     NewLatencyRecorder(),
	}
}

// Fetch issues one request for q and returns every matching record.
// Concurrent calls with an equivalent query share a single upstream request
// and the returned slice, which callers must not modify. A caller whose ctx
// ends stops waiting without cancelling the request for the others.
func (c *Client) Fetch(ctx context.Context, q models.Query) ([]models.SaleRecord, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	// The shared request outlives any single caller; the http.Client timeout bounds it.
	ch := c.group.DoChan(q.Key(), func() (any, error) {
		return c.fetch(context.WithoutCancel(ctx), q)
	})
	select {
	case <-ctx.Done():
		return nil, errors.FetchWrap(ctx.Err(), "request data source")
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug("shared in-flight fetch", "region", q.Region, "year", q.Year)
		}
		return res.Val.([]models.SaleRecord), nil
	}
}

func (c *Client) fetch(ctx context.Context, q models.Query) ([]models.SaleRecord, error) {
	ctx, span := observability.StartSpan(ctx, "datasource.fetch")
	defer span.Finish()
	span.SetTag("region", q.RegionParam())
	span.SetTag("year", q.Year)

	start := time.Now()
	records, err := c.do(ctx, q)
	c.latency.Record(time.Since(start), err)
	if err != nil {
		span.SetError(err)
		c.logger.Error("fetch failed",
			"region", q.Region,
			"year", q.Year,
			"error", err,
			"request_id", observability.GetRequestID(ctx),
		)
		return nil, err
	}

	span.SetTag("records", fmt.Sprint(len(records)))
	c.logger.Info("fetched sales",
		"region", q.Region,
		"year", q.Year,
		"records", len(records),
		"duration", time.Since(start),
		"request_id", observability.GetRequestID(ctx),
	)
	return records, nil
}

func (c *Client) do(ctx context.Context, q models.Query) ([]models.SaleRecord, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errors.FetchWrap(err, "invalid data source url")
	}
	params := u.Query()
	params.Set(c.regionParam, q.RegionParam())
	params.Set(c.yearParam, q.Year)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.FetchWrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.FetchWrap(err, "request data source")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, errors.Fetch(fmt.Sprintf("data source returned status %d", resp.StatusCode))
	}

	var raw []rawSale
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&raw); err != nil {
		return nil, errors.FetchWrap(err, "decode data source response")
	}

	records := make([]models.SaleRecord, 0, len(raw))
	for i, r := range raw {
		rec, err := r.toRecord()
		if err != nil {
			return nil, errors.FetchWrap(err, fmt.Sprintf("invalid record at index %d", i))
		}
		records = append(records, rec)
	}
	return records, nil
}

func (c *Client) Stats() LatencyStats {
	return c.latency.Snapshot()
}
