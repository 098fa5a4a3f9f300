package docstore

import (
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"
)

// Connect builds the low-level client and pings the cluster once so a bad
// address fails at startup instead of on the first query.
func Connect(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("docstore connect: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("docstore connect: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("docstore connect: %s: %s", res.Status(), string(body))
	}
	return client, nil
}
