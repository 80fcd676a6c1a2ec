package keepalive

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/akozhevin/video-fetch-bot/internal/logutils"
)

const (
	pingInterval = 5 * time.Minute
	pingTimeout  = 10 * time.Second
)

// Pinger periodically requests the bot's own public health endpoint so
// free-tier hosting does not idle the process out.
type Pinger struct {
	client    *resty.Client
	healthURL string
}

func NewPinger(publicURL string) *Pinger {
	return &Pinger{
		client:    resty.New().SetTimeout(pingTimeout),
		healthURL: publicURL + "/health",
	}
}

// Run pings until ctx is canceled. Failures are logged and ignored; the next
// tick tries again.
func (p *Pinger) Run(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	logutils.Log.WithField("url", p.healthURL).Info("Keep-alive pinger started")
	for {
		select {
		case <-ctx.Done():
			logutils.Log.Info("Keep-alive pinger stopped")
			return
		case <-ticker.C:
			resp, err := p.client.R().SetContext(ctx).Get(p.healthURL)
			if err != nil {
				logutils.Log.WithError(err).Debug("Keep-alive ping failed")
				continue
			}
			if resp.IsError() {
				logutils.Log.WithField("status", resp.StatusCode()).Debug("Keep-alive ping returned error status")
			}
		}
	}
}
