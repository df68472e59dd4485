package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/airsketch/internal/store"
	"github.com/ayusman/airsketch/internal/tracking"
	"github.com/ayusman/airsketch/testdata"
)

func newStoreApp(t *testing.T) (*App, *store.Store) {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	cfg := DefaultConfig()
	cfg.Store = s
	a := New(cfg)
	t.Cleanup(func() { a.Close() })
	return a, s
}

// replay runs a recorded sequence through the app the way the binary does.
func replay(t *testing.T, a *App, name string) {
	t.Helper()
	frames, err := testdata.LoadSequence(name)
	if err != nil {
		t.Fatalf("LoadSequence() error = %v", err)
	}

	if err := a.Start(context.Background(), tracking.NewReplay(frames, 0, false)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	select {
	case <-a.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("replay did not finish")
	}
	a.Stop()
}

func TestApp_ReplayPinchStroke(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, s := newStoreApp(t)
	replay(t, a, testdata.PinchStroke)

	if got := a.CumulativeDrawMs(); got != 144 {
		t.Errorf("CumulativeDrawMs() = %d, want 144", got)
	}
	if a.Drawing() {
		t.Error("stroke should have ended when the hand opened")
	}

	strokes, err := s.Strokes().List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(strokes) != 1 {
		t.Fatalf("journal has %d strokes, want 1", len(strokes))
	}
	if st := strokes[0]; st.Segments != 9 || st.DrawMs != 144 || st.Reason != store.EndReleased {
		t.Errorf("stroke = %+v, want 9 segments, 144 ms, released", st)
	}
}

func TestApp_ReplayFistClear(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, s := newStoreApp(t)
	replay(t, a, testdata.FistClear)

	if got := a.CumulativeDrawMs(); got != 0 {
		t.Errorf("CumulativeDrawMs() = %d, want 0 after a fist", got)
	}
	if inkPixels(a) != 0 {
		t.Error("canvas should be blank after a fist")
	}

	clears, err := s.Clears().List()
	if err != nil {
		t.Fatalf("Clears().List() error = %v", err)
	}
	if len(clears) != 1 || clears[0].DiscardedMs != 64 || clears[0].Source != store.ClearGesture {
		t.Fatalf("clears = %+v, want one gesture clear discarding 64 ms", clears)
	}

	strokes, err := s.Strokes().List(0)
	if err != nil {
		t.Fatalf("Strokes().List() error = %v", err)
	}
	if len(strokes) != 1 {
		t.Fatalf("journal has %d strokes, want 1", len(strokes))
	}
	if st := strokes[0]; st.Reason != store.EndCleared || st.ClearID != clears[0].ID || st.Segments != 4 {
		t.Errorf("stroke = %+v, want 4 segments cleared by %s", st, clears[0].ID)
	}
}

func TestApp_ReplayLostHand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, s := newStoreApp(t)
	replay(t, a, testdata.LostHand)

	if got := a.CumulativeDrawMs(); got != 80 {
		t.Errorf("CumulativeDrawMs() = %d, want 80", got)
	}

	strokes, err := s.Strokes().List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(strokes) != 2 {
		t.Fatalf("journal has %d strokes, want 2", len(strokes))
	}

	reasons := map[store.EndReason]int{}
	for _, st := range strokes {
		reasons[st.Reason] = st.Segments
	}
	if reasons[store.EndLost] != 3 || reasons[store.EndReleased] != 2 {
		t.Errorf("strokes by reason = %v, want lost:3 released:2", reasons)
	}
}

func TestApp_ResetAllJournal(t *testing.T) {
	a, s := newStoreApp(t)

	a.ResetAll()

	clears, err := s.Clears().List()
	if err != nil {
		t.Fatal(err)
	}
	if len(clears) != 1 || clears[0].Source != store.ClearReset {
		t.Errorf("clears = %+v, want one reset", clears)
	}
}

func TestApp_EnabledPersists(t *testing.T) {
	a, s := newStoreApp(t)
	a.SetEnabled(false)

	again := New(Config{Store: s})
	defer again.Close()
	if again.IsEnabled() {
		t.Error("disabled setting should survive a restart")
	}
}

func TestApp_StartTwice(t *testing.T) {
	a := New(DefaultConfig())
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := tracking.NewReplay(nil, 0, false)
	if err := a.Start(ctx, src); err != nil {
		t.Fatal(err)
	}
	if err := a.Start(ctx, src); err != nil {
		t.Errorf("second Start() error = %v", err)
	}
	a.Stop()
	a.Stop()
	if a.Done() != nil {
		t.Error("Done() should be nil after Stop")
	}
}

func TestApp_RestartAfterSourceEnds(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, _ := newStoreApp(t)
	frames, err := testdata.LoadSequence(testdata.PinchStroke)
	if err != nil {
		t.Fatalf("LoadSequence() error = %v", err)
	}

	for round := 1; round <= 2; round++ {
		if err := a.Start(context.Background(), tracking.NewReplay(frames, 0, false)); err != nil {
			t.Fatalf("Start() round %d error = %v", round, err)
		}
		select {
		case <-a.Done():
		case <-time.After(5 * time.Second):
			t.Fatalf("replay round %d did not finish", round)
		}
	}
	a.Stop()

	if got := a.CumulativeDrawMs(); got != 288 {
		t.Errorf("CumulativeDrawMs() = %d, want 288 after two replays", got)
	}
	if got := a.Strokes(); got != 2 {
		t.Errorf("Strokes() = %d, want 2", got)
	}
}
