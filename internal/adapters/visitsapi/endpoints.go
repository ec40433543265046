package visitsapi

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strconv"

	perr "visitsdash/internal/platform/errors"
	"visitsdash/internal/services/dashboard/domain"
)

// Categories fetches the POI category list
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.getJSON(ctx, "/categories", nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DMAs fetches the DMA list
func (c *Client) DMAs(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.getJSON(ctx, "/dmas", nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Visits fetches one page of visit records. Empty filters are left off the query
func (c *Client) Visits(ctx context.Context, q domain.Query) (domain.VisitPage, error) {
	var out domain.VisitPage
	if err := c.getJSON(ctx, "/visits", visitsQuery(q), q.RequestID, &out); err != nil {
		return domain.VisitPage{}, err
	}
	if out.Rows == nil {
		out.Rows = []domain.VisitRecord{}
	}
	return out, nil
}

// Ping checks the source answers; used by readiness
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.Do(ctx, "/categories", nil, "")
	if err != nil {
		return err
	}
	return drainAndClose(resp.Body)
}

func visitsQuery(q domain.Query) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(max(q.Page, 1)))
	v.Set("per_page", strconv.Itoa(max(q.PerPage, 1)))
	q.Filters.Each(func(f domain.FilterField, val string) {
		v.Set(string(f), val)
	})
	return v
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, reqID string, out any) error {
	resp, err := c.Do(ctx, path, q, reqID)
	if err != nil {
		if s := StatusOf(err); s != 0 {
			c.log.Warn().Str("path", path).Str("request_id", reqID).Int("status", s).Msg("visits api rejected request")
		}
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("visits api close body failed")
		}
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		if timedOut(err) {
			return perr.Wrapf(err, perr.ErrorCodeTimeout, "visits api %s read body timed out", path)
		}
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "visits api %s read body", path)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "visits api %s bad body", path)
	}
	return nil
}
