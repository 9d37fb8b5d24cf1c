package traypipe

import (
	"encoding/gob"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeRegistry struct {
	mu        sync.Mutex
	registers []Message
	updates   []Message
	unregs    []string
	matchIDs  []string
}

func (f *fakeRegistry) Register(msg Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registers = append(f.registers, msg)
}

func (f *fakeRegistry) Update(msg Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, msg)
}

func (f *fakeRegistry) Unregister(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unregs = append(f.unregs, sessionID)
}

func (f *fakeRegistry) MatchSessionIDs(baseDir, clientName string, ancestorPids []int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.matchIDs
}

func newTestServer(t *testing.T, reg *fakeRegistry) (*Server, net.Addr, func()) {
	t.Helper()
	ln, err := net.Listen("unix", t.TempDir()+"/test.sock")
	require.NoError(t, err)

	s := NewServer(ln, reg)
	go s.Serve()

	return s, ln.Addr(), func() { s.Close() }
}

func dial(t *testing.T, addr net.Addr) (net.Conn, *gob.Encoder, *gob.Decoder) {
	t.Helper()
	conn, err := net.Dial(addr.Network(), addr.String())
	require.NoError(t, err)
	return conn, gob.NewEncoder(conn), gob.NewDecoder(conn)
}

func TestRegisterThenClearByFilterReachesSession(t *testing.T) {
	reg := &fakeRegistry{matchIDs: []string{"s1"}}
	s, addr, cleanup := newTestServer(t, reg)
	defer cleanup()

	sessConn, sessEnc, sessDec := dial(t, addr)
	defer sessConn.Close()
	require.NoError(t, sessEnc.Encode(&Message{
		Type: TypeRegister, PresharedKey: PresharedKey, SessionID: "s1", BaseDir: "/proj",
	}))

	require.Eventually(t, func() bool {
		ids := s.ConnectedSessionIDs()
		return len(ids) == 1 && ids[0] == "s1"
	}, time.Second, 10*time.Millisecond)

	hookConn, hookEnc, hookDec := dial(t, addr)
	defer hookConn.Close()
	require.NoError(t, hookEnc.Encode(&Message{
		Type: TypeClearByFilter, PresharedKey: PresharedKey, BaseDir: "/proj",
	}))

	var reply Message
	require.NoError(t, hookDec.Decode(&reply))
	require.Equal(t, 1, reply.SessionsCleared)

	var cmd Message
	require.NoError(t, sessDec.Decode(&cmd))
	require.Equal(t, TypeClearCache, cmd.Type)
}

func TestHandshakeRejectsWrongKey(t *testing.T) {
	reg := &fakeRegistry{}
	_, addr, cleanup := newTestServer(t, reg)
	defer cleanup()

	conn, enc, dec := dial(t, addr)
	defer conn.Close()
	require.NoError(t, enc.Encode(&Message{Type: TypeRegister, PresharedKey: "wrong", SessionID: "s1"}))

	var msg Message
	require.Error(t, dec.Decode(&msg))
}

func TestUpdateMergesAndUnregisterRemoves(t *testing.T) {
	reg := &fakeRegistry{}
	s, addr, cleanup := newTestServer(t, reg)
	defer cleanup()

	conn, enc, _ := dial(t, addr)
	require.NoError(t, enc.Encode(&Message{Type: TypeRegister, PresharedKey: PresharedKey, SessionID: "s1"}))
	require.Eventually(t, func() bool { return len(s.ConnectedSessionIDs()) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, enc.Encode(&Message{Type: TypeUpdate, FilesTracked: 5}))
	require.Eventually(t, func() bool {
		reg.mu.Lock()
		defer reg.mu.Unlock()
		return len(reg.updates) == 1 && reg.updates[0].FilesTracked == 5
	}, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return len(s.ConnectedSessionIDs()) == 0 }, time.Second, 10*time.Millisecond)

	reg.mu.Lock()
	defer reg.mu.Unlock()
	require.Contains(t, reg.unregs, "s1")
}
