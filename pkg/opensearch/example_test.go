package opensearch_test

import (
	"context"
	"log"
	"time"

	"github.com/dmitrymomot/geoindex/pkg/config"
	"github.com/dmitrymomot/geoindex/pkg/opensearch"
)

func Example() {
	cfg := config.MustLoad[opensearch.Config]()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := opensearch.Connect(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	if _, err := client.EnsureIndex(ctx).Await(); err != nil {
		log.Fatal(err)
	}

	_, err = client.BulkInsert(ctx, "object", []opensearch.IndexDocument{
		{ID: "chunk-1", Source: opensearch.Document{"layer": "/roads", "tags": []string{"osm"}}},
	}).Await()
	if err != nil {
		log.Fatal(err)
	}

	n, err := client.Count(ctx, "object", opensearch.Document{
		"term": opensearch.Document{"layer": "/roads"},
	}).Await()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%d chunks in layer", n)
}

func ExampleClient_BeginScroll() {
	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{"http://localhost:9200"},
		Index:     "georocket",
	})
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	ctx := context.Background()
	page, err := client.BeginScroll(ctx, "object", opensearch.SearchRequest{
		Query:  opensearch.Document{"match_all": opensearch.Document{}},
		Params: opensearch.Document{"size": 100},
	}, "1m").Await()

	for err == nil {
		hits, _ := page.Object("hits")
		if list, _ := hits["hits"].([]any); len(list) == 0 {
			break
		}
		id, _ := page.String("_scroll_id")
		page, err = client.ContinueScroll(ctx, id, "1m").Await()
	}
	if err != nil {
		log.Fatal(err)
	}

	if id, ok := page.String("_scroll_id"); ok {
		_, _ = client.ClearScroll(ctx, id).Await()
	}
}
