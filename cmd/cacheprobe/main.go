// Command cacheprobe calls the cached read endpoints of a running server twice
// and reports whether the expected Redis key was filled by the first call.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"boletamaster/internal/shared/config"
	"boletamaster/internal/shared/constants"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type ProbeResult struct {
	Endpoint   string        `json:"endpoint"`
	CacheKey   string        `json:"cache_key"`
	FirstCall  time.Duration `json:"first_call"`
	SecondCall time.Duration `json:"second_call"`
	Cached     bool          `json:"cached"`
	Error      string        `json:"error,omitempty"`
}

type Prober struct {
	baseURL string
	http    *http.Client
	redis   *redis.Client
	results []ProbeResult
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	baseURL := fmt.Sprintf("http://localhost:%s%s", cfg.Port, cfg.GetAPIBasePath())
	if len(os.Args) > 1 {
		baseURL = os.Args[1]
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer rdb.Close()

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}

	p := &Prober{baseURL: baseURL, http: &http.Client{Timeout: 10 * time.Second}, redis: rdb}

	p.probe(ctx, "/events", constants.BuildEventListKey(""))
	p.probe(ctx, "/marketplace/offers", constants.CACHE_KEY_MARKET_ACTIVE_OFFERS)

	if eventID, err := p.firstEventID(); err == nil && eventID != "" {
		p.probe(ctx, "/events/"+eventID+"/sections", constants.BuildEventAvailabilityKey(eventID))
	} else {
		fmt.Println("No events published, skipping availability probe")
	}

	p.report()
}

func (p *Prober) probe(ctx context.Context, endpoint, key string) {
	result := ProbeResult{Endpoint: endpoint, CacheKey: key}
	p.redis.Del(ctx, key)

	first, err := p.timedGet(endpoint)
	if err != nil {
		result.Error = err.Error()
		p.results = append(p.results, result)
		return
	}
	result.FirstCall = first

	exists, err := p.redis.Exists(ctx, key).Result()
	if err != nil {
		result.Error = err.Error()
	}
	result.Cached = exists == 1

	second, err := p.timedGet(endpoint)
	if err != nil {
		result.Error = err.Error()
	}
	result.SecondCall = second

	p.results = append(p.results, result)
}

func (p *Prober) timedGet(endpoint string) (time.Duration, error) {
	start := time.Now()
	resp, err := p.http.Get(p.baseURL + endpoint)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return 0, err
	}
	if resp.StatusCode >= 400 {
		return time.Since(start), fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return time.Since(start), nil
}

func (p *Prober) firstEventID() (string, error) {
	resp, err := p.http.Get(p.baseURL + "/events")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if len(body.Data) == 0 {
		return "", nil
	}
	return body.Data[0].ID, nil
}

func (p *Prober) report() {
	fmt.Println("\nCACHE PROBE REPORT")
	fmt.Println("==================")
	cached := 0
	for _, r := range p.results {
		status := "MISS"
		if r.Cached {
			status = "CACHED"
			cached++
		}
		if r.Error != "" {
			status = "ERROR " + r.Error
		}
		fmt.Printf("%-40s %-8s %v -> %v\n", r.Endpoint, status, r.FirstCall, r.SecondCall)
	}
	fmt.Printf("\n%d of %d endpoints filled their cache key\n", cached, len(p.results))

	out, _ := json.MarshalIndent(p.results, "", "  ")
	if err := os.WriteFile("cache_probe_results.json", out, 0o644); err != nil {
		log.Printf("Failed to write results: %v", err)
	}
}
