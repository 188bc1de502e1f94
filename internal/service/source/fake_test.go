package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"trafficflow/internal/logger"
)

// eventLog records open/close calls in order across fakes.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

func (l *eventLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func (l *eventLog) index(event string) int {
	for i, e := range l.list() {
		if e == event {
			return i
		}
	}
	return -1
}

// fakeCapture serves frames filled with the listed pixel values. A live
// capture repeats its first value forever.
type fakeCapture struct {
	name      string
	frames    []float64
	live      bool
	opened    bool
	broken    bool
	readDelay time.Duration
	closeErr  error
	events    *eventLog

	mu     sync.Mutex
	pos    int
	closes int
	props  map[gocv.VideoCaptureProperties]float64
}

func (c *fakeCapture) Read(m *gocv.Mat) bool {
	if c.readDelay > 0 {
		time.Sleep(c.readDelay)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.opened || c.closes > 0 || c.broken || len(c.frames) == 0 {
		return false
	}

	var v float64
	if c.live {
		v = c.frames[0]
	} else {
		if c.pos >= len(c.frames) {
			return false
		}
		v = c.frames[c.pos]
		c.pos++
	}

	src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, v, v, 0), 8, 8, gocv.MatTypeCV8UC3)
	defer src.Close()
	src.CopyTo(m)
	return true
}

func (c *fakeCapture) Set(prop gocv.VideoCaptureProperties, param float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.props == nil {
		c.props = make(map[gocv.VideoCaptureProperties]float64)
	}
	c.props[prop] = param
	if prop == gocv.VideoCapturePosFrames {
		c.pos = int(param)
	}
}

func (c *fakeCapture) prop(prop gocv.VideoCaptureProperties) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.props[prop]
	return v, ok
}

func (c *fakeCapture) IsOpened() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened && c.closes == 0
}

func (c *fakeCapture) Close() error {
	c.mu.Lock()
	c.closes++
	c.mu.Unlock()
	if c.events != nil {
		c.events.add("close %s", c.name)
	}
	return c.closeErr
}

func (c *fakeCapture) closeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

func (c *fakeCapture) setBroken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.broken = true
}

// fakeOpener hands out fakes registered by candidate or path. A fake added
// with addDevice/addFile is returned on every open, so it is meant to be
// opened once per test. Factories build a fresh fake per open.
type fakeOpener struct {
	events        *eventLog
	devices       map[string]*fakeCapture
	files         map[string]*fakeCapture
	deviceFactory map[string]func() *fakeCapture
	fileFactory   map[string]func() *fakeCapture
}

func newFakeOpener() *fakeOpener {
	return &fakeOpener{
		events:        &eventLog{},
		devices:       make(map[string]*fakeCapture),
		files:         make(map[string]*fakeCapture),
		deviceFactory: make(map[string]func() *fakeCapture),
		fileFactory:   make(map[string]func() *fakeCapture),
	}
}

func deviceKey(api gocv.VideoCaptureAPI, index int) string {
	return fmt.Sprintf("%d:%d", int(api), index)
}

func (o *fakeOpener) addDevice(c Candidate, fake *fakeCapture) *fakeCapture {
	fake.name = c.String()
	fake.events = o.events
	o.devices[deviceKey(c.API, c.Index)] = fake
	return fake
}

func (o *fakeOpener) addFile(path string, fake *fakeCapture) *fakeCapture {
	fake.name = filepath.Base(path)
	fake.events = o.events
	o.files[path] = fake
	return fake
}

func (o *fakeOpener) addDeviceFactory(c Candidate, build func() *fakeCapture) {
	o.deviceFactory[deviceKey(c.API, c.Index)] = func() *fakeCapture {
		fake := build()
		fake.name = c.String()
		fake.events = o.events
		return fake
	}
}

func (o *fakeOpener) addFileFactory(path string, build func() *fakeCapture) {
	o.fileFactory[path] = func() *fakeCapture {
		fake := build()
		fake.name = filepath.Base(path)
		fake.events = o.events
		return fake
	}
}

func (o *fakeOpener) OpenDevice(index int, api gocv.VideoCaptureAPI) (Capture, error) {
	key := deviceKey(api, index)
	if build, ok := o.deviceFactory[key]; ok {
		fake := build()
		o.events.add("open %s", fake.name)
		return fake, nil
	}
	fake, ok := o.devices[key]
	if !ok {
		o.events.add("open device %s failed", key)
		return nil, errors.New("no such device")
	}
	o.events.add("open %s", fake.name)
	return fake, nil
}

func (o *fakeOpener) OpenFile(path string) (Capture, error) {
	if build, ok := o.fileFactory[path]; ok {
		fake := build()
		o.events.add("open %s", fake.name)
		return fake, nil
	}
	fake, ok := o.files[path]
	if !ok {
		o.events.add("open file %s failed", path)
		return nil, errors.New("cannot open file")
	}
	o.events.add("open %s", fake.name)
	return fake, nil
}

func mustCandidate(t *testing.T, backend string, index int) Candidate {
	t.Helper()
	c, err := NewCandidate(backend, index)
	if err != nil {
		t.Fatalf("NewCandidate(%q, %d): %v", backend, index, err)
	}
	return c
}

func touchFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("not really a video"), 0644); err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	return path
}

func newTestManager(opener Opener, candidates ...Candidate) *Manager {
	return NewManager(opener, Options{
		Width:      640,
		Height:     480,
		Candidates: candidates,
	}, logger.NewWriterLogger(io.Discard))
}

func pixel(t *testing.T, frame gocv.Mat) uint8 {
	t.Helper()
	if frame.Empty() {
		t.Fatal("frame is empty")
	}
	return frame.GetUCharAt(0, 0)
}
