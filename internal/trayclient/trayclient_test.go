package trayclient

import (
	"encoding/gob"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lineage-mcp/lineage-mcp/internal/session"
	"github.com/lineage-mcp/lineage-mcp/internal/traypipe"
)

// pipeDialer returns a Dialer wired to one end of an in-memory net.Pipe,
// handing the other end to the test via the returned channel.
func pipeDialer(t *testing.T) (Dialer, <-chan net.Conn) {
	t.Helper()
	serverSide := make(chan net.Conn, 4)
	dialer := func() (net.Conn, error) {
		client, server := net.Pipe()
		serverSide <- server
		return client, nil
	}
	return dialer, serverSide
}

func TestConnectSendsRegister(t *testing.T) {
	dialer, serverSide := pipeDialer(t)
	st := session.New(time.Minute)
	c := New("s1", "/proj", dialer, st)

	done := make(chan traypipe.Message, 1)
	go func() {
		conn := <-serverSide
		var msg traypipe.Message
		_ = gob.NewDecoder(conn).Decode(&msg)
		done <- msg
	}()

	require.True(t, c.Connect())
	msg := <-done
	require.Equal(t, traypipe.TypeRegister, msg.Type)
	require.Equal(t, traypipe.PresharedKey, msg.PresharedKey)
	require.Equal(t, "s1", msg.SessionID)
	require.Equal(t, "/proj", msg.BaseDir)
}

func TestHandleCommandClearCacheTriggersTryNewSession(t *testing.T) {
	dialer, serverSide := pipeDialer(t)
	st := session.New(0) // zero cooldown, always clears
	c := New("s1", "/proj", dialer, st)

	var serverConn net.Conn
	go func() {
		serverConn = <-serverSide
		var msg traypipe.Message
		_ = gob.NewDecoder(serverConn).Decode(&msg) // consume register
	}()

	require.True(t, c.Connect())
	time.Sleep(20 * time.Millisecond)

	st.TrackFile("a.txt", 1, "hi")
	require.Equal(t, 1, st.TrackedCount())

	require.NoError(t, gob.NewEncoder(serverConn).Encode(traypipe.Message{Type: traypipe.TypeClearCache}))

	require.Eventually(t, func() bool {
		return st.TrackedCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHandleCommandInterruptAndResume(t *testing.T) {
	dialer, serverSide := pipeDialer(t)
	st := session.New(time.Minute)
	c := New("s1", "/proj", dialer, st)

	var serverConn net.Conn
	go func() {
		serverConn = <-serverSide
		var msg traypipe.Message
		_ = gob.NewDecoder(serverConn).Decode(&msg)
	}()

	require.True(t, c.Connect())
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, gob.NewEncoder(serverConn).Encode(traypipe.Message{Type: traypipe.TypeInterrupt}))
	require.Eventually(t, func() bool { return st.CheckInterrupted() }, time.Second, 10*time.Millisecond)

	require.NoError(t, gob.NewEncoder(serverConn).Encode(traypipe.Message{Type: traypipe.TypeResume}))
	require.Eventually(t, func() bool { return !st.CheckInterrupted() }, time.Second, 10*time.Millisecond)
}

func TestDisconnectSendsUnregister(t *testing.T) {
	dialer, serverSide := pipeDialer(t)
	st := session.New(time.Minute)
	c := New("s1", "/proj", dialer, st)

	done := make(chan traypipe.Message, 2)
	var serverConn net.Conn
	go func() {
		serverConn = <-serverSide
		dec := gob.NewDecoder(serverConn)
		for i := 0; i < 2; i++ {
			var msg traypipe.Message
			if err := dec.Decode(&msg); err != nil {
				return
			}
			done <- msg
		}
	}()

	require.True(t, c.Connect())
	<-done // register

	c.Disconnect()
	msg := <-done
	require.Equal(t, traypipe.TypeUnregister, msg.Type)
	require.False(t, c.Connected())
	_ = serverConn
}

func TestUpdateNoopWhenNeverConnected(t *testing.T) {
	dialer := func() (net.Conn, error) { return nil, net.ErrClosed }
	st := session.New(time.Minute)
	c := New("s1", "/proj", dialer, st)

	c.Update(traypipe.Message{ClientName: "Claude Code"})
	require.False(t, c.Connected())
}

func TestConnectionGenerationStartsAtZero(t *testing.T) {
	dialer, serverSide := pipeDialer(t)
	st := session.New(time.Minute)
	c := New("s1", "/proj", dialer, st)
	go func() {
		conn := <-serverSide
		var msg traypipe.Message
		_ = gob.NewDecoder(conn).Decode(&msg)
	}()
	require.True(t, c.Connect())
	require.Equal(t, 0, c.ConnectionGeneration())
}
