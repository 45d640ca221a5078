package services

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"starpost/pkg/logger"
)

// Verifier polls a URL until it returns a successful response, used to
// confirm an uploaded image is servable before handing it to the
// social platform.
type Verifier struct {
	http   *resty.Client
	logger *logger.Logger

	Attempts int
	Delay    time.Duration
}

func NewVerifier(l *logger.Logger) *Verifier {
	return &Verifier{
		http:     resty.New().SetTimeout(15 * time.Second),
		logger:   l,
		Attempts: 5,
		Delay:    2 * time.Second,
	}
}

func (v *Verifier) WaitReachable(ctx context.Context, url string) bool {
	for i := 0; i < v.Attempts; i++ {
		if i > 0 {
			time.Sleep(v.Delay)
		}
		resp, err := v.http.R().SetContext(ctx).Get(url)
		if err == nil && resp.IsSuccess() {
			return true
		}
		if err != nil {
			v.logger.Warnf("verifier: attempt %d for %s: %s", i+1, url, err)
		} else {
			v.logger.Warnf("verifier: attempt %d for %s: status %d", i+1, url, resp.StatusCode())
		}
	}
	return false
}
