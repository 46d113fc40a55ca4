package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"police_fines/platform/logger"
)

// SelectBaseURL probes all candidates concurrently and returns the first one,
// in configured order, that answers HTTP at all. When none answers, the first
// candidate is returned so requests still go somewhere predictable.
func SelectBaseURL(ctx context.Context, candidates []string, timeout time.Duration, log *logger.Logger) string {
	if len(candidates) == 0 {
		return ""
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	httpClient := &http.Client{Timeout: timeout}
	reachable := make([]bool, len(candidates))

	var g errgroup.Group
	for i, candidate := range candidates {
		g.Go(func() error {
			reachable[i] = ping(ctx, httpClient, candidate, timeout)
			return nil
		})
	}
	_ = g.Wait()

	for i, candidate := range candidates {
		if reachable[i] {
			log.Info("fines api base url selected", "base_url", candidate)
			return candidate
		}
	}

	log.Warn("no fines api candidate reachable, using first", "base_url", candidates[0])
	return candidates[0]
}

func ping(ctx context.Context, httpClient *http.Client, baseURL string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, strings.TrimRight(baseURL, "/")+"/", nil)
	if err != nil {
		return false
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
