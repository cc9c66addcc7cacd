package client_test

import (
	"context"
	"fmt"

	"github.com/Sternrassler/unpaginated/internal/testutil"
	"github.com/Sternrassler/unpaginated/pkg/client"
	"github.com/Sternrassler/unpaginated/pkg/pagination"
	"github.com/rs/zerolog"
)

func ExampleAll() {
	api := testutil.NewMockAPI(testutil.Items(45), testutil.ModeCounted, 10)
	defer api.Close()

	c, err := client.New(client.DefaultConfig(api.URL(), "unpaginated-example/1.0"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer c.Close()

	items, err := client.All[testutil.Item](context.Background(), c, "/items", nil,
		pagination.WithMaxConcurrency(2), pagination.WithLogger(zerolog.Nop()))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(len(items), items[0].ID, items[len(items)-1].ID, api.GetRequestCount())
	// Output: 45 1 45 5
}
