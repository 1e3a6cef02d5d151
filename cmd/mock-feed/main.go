package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"
)

type rawCat struct {
	ID        string   `json:"id"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"createdAt"`
	Mimetype  string   `json:"mimetype"`
}

func main() {
	tags := [][]string{
		{"orange", "sleepy"},
		{"tabby"},
		{"black", "grumpy"},
		{"calico", "playful"},
	}

	dataset := make([]rawCat, 57)
	for i := range dataset {
		dataset[i] = rawCat{
			ID:        fmt.Sprintf("mock-cat-%03d", i),
			Tags:      tags[i%len(tags)],
			CreatedAt: time.Now().Add(-time.Duration(i) * time.Hour).Format(time.RFC3339),
			Mimetype:  "image/jpeg",
		}
	}

	http.HandleFunc("/api/cats", func(w http.ResponseWriter, r *http.Request) {
		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if skip < 0 {
			skip = 0
		}
		if limit <= 0 {
			limit = 10
		}

		page := []rawCat{}
		if skip < len(dataset) {
			end := skip + limit
			if end > len(dataset) {
				end = len(dataset)
			}
			page = dataset[skip:end]
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(page); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	})

	http.HandleFunc("/cat/", func(w http.ResponseWriter, r *http.Request) {
		// 1x1 stand-in so warm-up requests have something to drain
		w.Header().Set("Content-Type", "image/jpeg")
		w.WriteHeader(http.StatusOK)
	})

	slog.Info("Mock cat feed running on :8081")
	if err := http.ListenAndServe(":8081", nil); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
