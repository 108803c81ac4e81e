package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/danielpatrickdp/persona-harness/internal/replay"
)

// #region subjects

// Subjects the harness publishes on.
const (
	SubjectReport  = "persona.harness.report"
	SubjectVerdict = "persona.chat.verdict"
)

// #endregion subjects

// #region events

// ReportEvent announces a finished regression run.
type ReportEvent struct {
	RunID     string              `json:"run_id"`
	Generator string              `json:"generator"`
	Report    replay.Report       `json:"report"`
	Devlog    *replay.DevlogEntry `json:"devlog,omitempty"`
}

// VerdictEvent announces one scored chat turn.
type VerdictEvent struct {
	TurnID    string   `json:"turn_id"`
	Session   string   `json:"session,omitempty"`
	Category  string   `json:"category"`
	Score     int      `json:"score"`
	FinalPass bool     `json:"final_pass"`
	Failures  []string `json:"failures,omitempty"`
}

// #endregion events

// #region publisher

// Publisher sends harness events. Nop satisfies it when no broker is configured.
type Publisher interface {
	PublishReport(ReportEvent) error
	PublishVerdict(VerdictEvent) error
	Close()
}

// Nop drops every event.
type Nop struct{}

func (Nop) PublishReport(ReportEvent) error   { return nil }
func (Nop) PublishVerdict(VerdictEvent) error { return nil }
func (Nop) Close()                            {}

// #endregion publisher

// #region client

// conn is the slice of *nats.Conn the client uses.
type conn interface {
	Publish(subject string, data []byte) error
	Close()
}

// Client publishes events to NATS as JSON.
type Client struct {
	conn conn
}

// NewClient connects to url. The connection keeps retrying in the background
// so a broker that starts late still receives events.
func NewClient(ctx context.Context, url, token string) (*Client, error) {
	opts := []nats.Option{
		nats.Name("persona-harness"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("[BUS] nats disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("[BUS] nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Client{conn: nc}, nil
}

// Connect returns a NATS client for url, or Nop when url is empty.
func Connect(ctx context.Context, url, token string) (Publisher, error) {
	if url == "" {
		return Nop{}, nil
	}
	c, err := NewClient(ctx, url, token)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := c.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// PublishReport sends a run report on SubjectReport.
func (c *Client) PublishReport(ev ReportEvent) error {
	log.Printf("[BUS] report run=%s status=%s", ev.RunID, ev.Report.Status)
	return c.publish(SubjectReport, ev)
}

// PublishVerdict sends a scored turn on SubjectVerdict.
func (c *Client) PublishVerdict(ev VerdictEvent) error {
	return c.publish(SubjectVerdict, ev)
}

// Close drains nothing and closes the connection.
func (c *Client) Close() {
	c.conn.Close()
}

// #endregion client
