// Package main runs a demo client: seeds fleet data, submits a dispatch
// job, and watches it over WebSocket until it finishes.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"

	"github.com/gorilla/websocket"
)

func post(base, path string, body any, out any) {
	b, _ := json.Marshal(body)
	resp, err := http.Post(base+path, "application/json", bytes.NewReader(b))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		log.Fatalf("POST %s: %s", path, resp.Status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Fatal(err)
		}
	}
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	var depot struct {
		ID string `json:"id"`
	}
	post(base, "/v1/depots", map[string]any{"name": "demo-hub", "x": 0, "y": 0}, &depot)

	var vehicle struct {
		ID string `json:"id"`
	}
	post(base, "/v1/vehicles", map[string]any{"name": "demo-van", "capacity": 100}, &vehicle)

	orderIDs := []string{}
	for i := 0; i < 5; i++ {
		var cust struct {
			ID string `json:"id"`
		}
		post(base, "/v1/customers", map[string]any{"name": fmt.Sprintf("c%d", i), "x": float64(i + 1), "y": float64(i % 3)}, &cust)
		var ord struct {
			ID string `json:"id"`
		}
		post(base, "/v1/orders", map[string]any{"customerId": cust.ID, "demand": 10}, &ord)
		orderIDs = append(orderIDs, ord.ID)
	}

	var sub struct {
		JobID string `json:"jobId"`
	}
	post(base, "/v1/dispatch", map[string]any{
		"orderIds":   orderIDs,
		"vehicleIds": []string{vehicle.ID},
		"depotId":    depot.ID,
	}, &sub)
	log.Printf("Job ID: %s", sub.JobID)

	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/jobs/" + sub.JobID + "/watch"}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = c.Close() }()

	for {
		var evt struct {
			JobID  string `json:"jobId"`
			Status string `json:"status"`
			Error  string `json:"error"`
		}
		if err := c.ReadJSON(&evt); err != nil {
			log.Printf("stream closed: %v", err)
			return
		}
		log.Printf("job %s -> %s", evt.JobID, evt.Status)
		if evt.Status == "SUCCEEDED" || evt.Status == "FAILED" {
			if evt.Error != "" {
				log.Printf("error: %s", evt.Error)
			}
			return
		}
	}
}
