package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// pollInterval is how long to sleep between health probes.
const pollInterval = 5 * time.Second

// healthResponse mirrors the body of the /api/health endpoint.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Blocks until the service and its database report healthy. Used by
// deployment scripts before running migrations or smoke tests.
//
// Usage example on the command line:
// > HEALTH_URL=http://localhost:8080/api/health go run main.go
func main() {
	url := os.Getenv("HEALTH_URL")
	if url == "" {
		url = "http://localhost:8080/api/health"
	}
	totalWaitTime := 0
	for {
		if probe(url) {
			break
		}
		totalWaitTime += int(pollInterval.Seconds())
		fmt.Printf("waited %d seconds so far\n", totalWaitTime)
		time.Sleep(pollInterval)
	}
}

// probe runs one health check and reports whether the service answered
// healthy.
func probe(url string) bool {
	res, err := http.Get(url)
	if err != nil {
		fmt.Println(err)
		return false
	}
	defer res.Body.Close()
	var health healthResponse
	if err := json.NewDecoder(res.Body).Decode(&health); err != nil {
		fmt.Println(err)
		return false
	}
	fmt.Printf("status %d, service %q, database %q\n", res.StatusCode, health.Status, health.Database)
	return res.StatusCode == http.StatusOK && health.Status == "ok"
}
