package statsd

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricName(t *testing.T) {
	tests := []struct {
		prefix, name, want string
	}{
		{"attractions_admin", "session.login", "attractions_admin.session.login"},
		{" .app. ", "guard decision", "app.guard_decision"},
		{"", "reaper/purge", "reaper_purge"},
		{"app", "a..b", "app.a.b"},
		{"app", "  ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, metricName(tt.prefix, tt.name), "prefix=%q name=%q", tt.prefix, tt.name)
	}
}

func TestFormatLine(t *testing.T) {
	line, ok := formatLine("app", "session.login", "1", "c",
		map[string]string{"env": "prod", " service ": " admin "},
		map[string]string{"result": "success", "env": "stage", "": "dropped"},
	)
	require.True(t, ok)
	assert.Equal(t, "app.session.login:1|c|#env:stage,result:success,service:admin", line)

	line, ok = formatLine("", "reaper.purge_duration", "12.5", "ms", nil, nil)
	require.True(t, ok)
	assert.Equal(t, "reaper.purge_duration:12.5|ms", line)

	_, ok = formatLine("app", "", "1", "c", nil, nil)
	assert.False(t, ok)
}

func TestDial_RequiresAddress(t *testing.T) {
	_, err := Dial(context.Background(), Config{})
	require.Error(t, err)
}

func TestClient_WritesOverUDP(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pc.Close() })

	client, err := Dial(context.Background(), Config{
		Address:    pc.LocalAddr().String(),
		Prefix:     "attractions_admin",
		GlobalTags: map[string]string{"service": "admin"},
	})
	require.NoError(t, err)

	client.Count("session.login", 1, map[string]string{"result": "success"})

	buf := make([]byte, 512)
	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, _, err := pc.ReadFrom(buf)
	require.NoError(t, err)
	assert.Equal(t, "attractions_admin.session.login:1|c|#result:success,service:admin", string(buf[:n]))

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
	// Dropped once closed.
	client.Gauge("reaper.last_success_epoch", 1, nil)
}

func TestClient_NilIsSafe(t *testing.T) {
	var c *Client
	c.Count("x", 1, nil)
	c.Timing("x", time.Second, nil)
	assert.NoError(t, c.Close())
}
