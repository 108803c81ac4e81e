package bus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/persona-harness/internal/replay"
)

type message struct {
	subject string
	data    []byte
}

type fakeConn struct {
	sent   []message
	err    error
	closed bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, message{subject, data})
	return nil
}

func (f *fakeConn) Close() { f.closed = true }

func TestClient_PublishReport(t *testing.T) {
	fc := &fakeConn{}
	c := &Client{conn: fc}

	rep := replay.Summarize(nil, nil, replay.DefaultThresholds())
	require.NoError(t, c.PublishReport(ReportEvent{RunID: "run-1", Generator: "openai:llama3", Report: rep}))
	require.Len(t, fc.sent, 1)
	require.Equal(t, SubjectReport, fc.sent[0].subject)

	var got ReportEvent
	require.NoError(t, json.Unmarshal(fc.sent[0].data, &got))
	require.Equal(t, "run-1", got.RunID)
	require.Equal(t, replay.StatusRegression, got.Report.Status)
	require.Nil(t, got.Devlog)
}

func TestClient_PublishVerdict(t *testing.T) {
	fc := &fakeConn{}
	c := &Client{conn: fc}

	require.NoError(t, c.PublishVerdict(VerdictEvent{TurnID: "t1", Category: "pushback", Score: 70, FinalPass: true}))
	require.Equal(t, SubjectVerdict, fc.sent[0].subject)
	require.JSONEq(t, `{"turn_id":"t1","category":"pushback","score":70,"final_pass":true}`, string(fc.sent[0].data))

	c.Close()
	require.True(t, fc.closed)
}

func TestClient_PublishError(t *testing.T) {
	c := &Client{conn: &fakeConn{err: errors.New("connection closed")}}
	err := c.PublishVerdict(VerdictEvent{TurnID: "t1"})
	require.ErrorContains(t, err, "publish persona.chat.verdict")
}

func TestConnect_EmptyURL(t *testing.T) {
	p, err := Connect(context.Background(), "", "")
	require.NoError(t, err)
	require.IsType(t, Nop{}, p)
	require.NoError(t, p.PublishReport(ReportEvent{}))
	require.NoError(t, p.PublishVerdict(VerdictEvent{}))
	p.Close()
}
