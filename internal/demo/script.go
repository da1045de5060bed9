package demo

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/call-blitz/tui/internal/client"
)

// scriptedCall describes one simulated call: its business, how the call
// plays out, and the transcript fragments delivered while it is live.
type scriptedCall struct {
	business client.BusinessPayload
	answers  bool
	result   string
	ringFor  time.Duration
	talkFor  time.Duration
	lines    []scriptedLine
}

type scriptedLine struct {
	speaker string
	text    string
}

func rating(v float64) *float64 { return &v }

// defaultScript mirrors a realistic three-business campaign: two priced
// quotes and one no-answer.
func defaultScript(service string) []scriptedCall {
	return []scriptedCall{
		{
			business: client.BusinessPayload{
				Name:    "Apex " + service + " Co",
				Phone:   "+442012340001",
				Address: "14 Iron Works Rd, London",
				Rating:  rating(4.7),
			},
			answers: true,
			result:  "Available tomorrow morning, £85 call-out fee",
			ringFor: 2 * time.Second,
			talkFor: 4 * time.Second,
			lines: []scriptedLine{
				{"ai", "Hi, I'm calling to check availability and your call-out fee."},
				{"human", "We can do tomorrow morning. Call-out is eighty-five pounds."},
				{"ai", "Great, I'll pass that on. Thank you!"},
			},
		},
		{
			business: client.BusinessPayload{
				Name:    "Budget " + service + " Services",
				Phone:   "+442012340002",
				Address: "3 Canal St, London",
				Rating:  rating(4.1),
			},
			answers: true,
			result:  "Available today, £75 including first hour",
			ringFor: 3 * time.Second,
			talkFor: 5 * time.Second,
			lines: []scriptedLine{
				{"ai", "Hello, do you have availability today?"},
				{"human", "We do - seventy-five pounds including the first hour."},
			},
		},
		{
			business: client.BusinessPayload{
				Name:    "Citywide " + service,
				Phone:   "+442012340003",
				Address: "221 High Rd, London",
				Rating:  rating(3.9),
			},
			answers: false,
			ringFor: 6 * time.Second,
		},
	}
}

// run plays the campaign script: searching, calling, each call in parallel,
// then the terminal summary. Pacing scales every delay so tests can run the
// whole script in milliseconds.
func (c *campaign) run(ctx context.Context) {
	c.emit(client.EventStatus, map[string]interface{}{
		"status":  "searching",
		"message": fmt.Sprintf("Finding %s near you...", c.service),
	})
	c.sleep(ctx, 1500*time.Millisecond)

	businesses := make([]client.BusinessPayload, len(c.script))
	for i, sc := range c.script {
		businesses[i] = sc.business
	}
	c.setBusinesses(businesses)

	c.emit(client.EventStatus, map[string]interface{}{
		"status":     "calling",
		"message":    fmt.Sprintf("Calling %d businesses...", len(businesses)),
		"businesses": businesses,
	})

	g, ctx := errgroup.WithContext(ctx)
	for i, sc := range c.script {
		g.Go(func() error {
			return c.runCall(ctx, i, sc)
		})
	}
	if err := g.Wait(); err != nil {
		c.emit(client.EventError, map[string]interface{}{"message": err.Error()})
		c.finish("error", "")
		return
	}

	summary := c.buildSummary()
	c.emit(client.EventSessionComplete, map[string]interface{}{
		"summary": summary,
		"results": c.results(),
	})
	c.finish("complete", summary)
}

func (c *campaign) runCall(ctx context.Context, idx int, sc scriptedCall) error {
	// Stagger the dials slightly, like a real dialer spinning up.
	c.sleep(ctx, time.Duration(idx)*500*time.Millisecond)

	c.setCallStatus(idx, "ringing", "", "")
	c.emit(client.EventCallStarted, map[string]interface{}{
		"business": sc.business.Name,
		"phone":    sc.business.Phone,
		"status":   "ringing",
	})
	c.sleep(ctx, sc.ringFor)

	if !sc.answers {
		c.setCallStatus(idx, "no_answer", "", "No answer")
		c.emit(client.EventCallFailed, map[string]interface{}{
			"business": sc.business.Name,
		})
		return ctx.Err()
	}

	c.setCallStatus(idx, "connected", "", "")
	c.emit(client.EventCallConnected, map[string]interface{}{
		"business": sc.business.Name,
		"status":   "connected",
	})

	callID := fmt.Sprintf("%s-call-%d", c.id, idx)
	for _, l := range sc.lines {
		c.sleep(ctx, sc.talkFor/time.Duration(len(sc.lines)+1))
		c.emit(client.EventTranscript, map[string]interface{}{
			"call_id": callID,
			"speaker": l.speaker,
			"text":    l.text,
		})
	}
	c.sleep(ctx, sc.talkFor/time.Duration(len(sc.lines)+1))

	c.setCallStatus(idx, "complete", sc.result, "")
	c.emit(client.EventCallResult, map[string]interface{}{
		"business": sc.business.Name,
		"status":   "complete",
		"result":   sc.result,
	})
	return ctx.Err()
}

func (c *campaign) buildSummary() string {
	summary := fmt.Sprintf("## %s results\n\n", c.service)
	for _, r := range c.results() {
		if r["result"] != "" {
			summary += fmt.Sprintf("- **%s**: %s\n", r["business"], r["result"])
		} else {
			summary += fmt.Sprintf("- **%s**: no answer\n", r["business"])
		}
	}
	return summary
}

func (c *campaign) sleep(ctx context.Context, d time.Duration) {
	d = time.Duration(float64(d) * c.pacing)
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
