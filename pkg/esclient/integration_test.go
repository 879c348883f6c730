//go:build integration

package esclient_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/quarry"
	"github.com/pthm/quarry/internal/testutil"
	"github.com/pthm/quarry/pkg/esclient"
)

func seedTickets(t *testing.T, c *esclient.Client, n int) {
	t.Helper()
	es := c.Elasticsearch()

	var buf bytes.Buffer
	for i := 1; i <= n; i++ {
		status := "open"
		if i%3 == 0 {
			status = "closed"
		}
		meta := map[string]any{"index": map[string]any{"_index": "tickets", "_id": fmt.Sprint(i)}}
		doc := map[string]any{
			"title":    fmt.Sprintf("ticket %d", i),
			"status":   status,
			"priority": i % 10,
			"created":  fmt.Sprintf("2020-03-%02d", i%28+1),
		}
		require.NoError(t, json.NewEncoder(&buf).Encode(meta))
		require.NoError(t, json.NewEncoder(&buf).Encode(doc))
	}

	res, err := es.Bulk(&buf, es.Bulk.WithRefresh("true"), es.Bulk.WithContext(context.Background()))
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()
	require.False(t, res.IsError(), res.String())
}

func TestIntegration_QueryAgainstCluster(t *testing.T) {
	settings := testutil.Elastic(t)

	c, err := esclient.New(esclient.Config{
		Addresses: []string{settings.Address},
		Username:  settings.Username,
		Password:  settings.Password,
		CACert:    settings.CACert,
	})
	require.NoError(t, err)
	require.NoError(t, c.Ping(context.Background()))

	seedTickets(t, c, 60)
	client := quarry.NewClient(c, quarry.WithTracer(quarry.NopTracer{}))
	ctx := context.Background()

	t.Run("get", func(t *testing.T) {
		rows, err := client.Query("tickets").
			WhereEquals("status.keyword", "closed").
			OrderBy("priority", quarry.Asc).
			Limit(100).
			Get(ctx)
		require.NoError(t, err)
		assert.Len(t, rows, 20)
	})

	t.Run("paginate", func(t *testing.T) {
		p, err := client.Query("tickets").WhereRange("priority", ">=", 5).Paginate(ctx, 7, 1)
		require.NoError(t, err)
		assert.Equal(t, 30, p.Total)
		assert.Equal(t, 5, p.LastPage)
	})

	t.Run("pluck ids", func(t *testing.T) {
		ids, err := client.Query("tickets").WhereIn("_id", []string{"3", "7"}).PluckIDs(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"3", "7"}, ids)
	})

	t.Run("scroll", func(t *testing.T) {
		q := client.Query("tickets")
		page, err := q.Scroll(ctx, "1m", 25)
		require.NoError(t, err)

		seen := len(page.Items)
		for !page.Done() {
			page, err = q.ContinueScroll(ctx, page.ScrollID)
			require.NoError(t, err)
			seen += len(page.Items)
		}
		assert.Equal(t, 60, seen)
	})

	t.Run("distinct", func(t *testing.T) {
		res, err := client.Query("tickets").Distinct("status.keyword", 10).Limit(0).Search(ctx)
		require.NoError(t, err)
		assert.Equal(t, []any{"open", "closed"}, res.DistinctValues("status.keyword"))
	})

	t.Run("missing index", func(t *testing.T) {
		_, err := client.Query("nope").Get(ctx)
		require.Error(t, err)
		assert.True(t, quarry.IsTransportErr(err))
		assert.True(t, esclient.IsStatus(err, 404))
	})
}
