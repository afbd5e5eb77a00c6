// Package statefile watches the agent-written state file and delivers each
// new version as a parsed patch. Polling is the source of truth; fsnotify
// only shortens the latency between a write and the next read.
package statefile

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/BSchoolland/excalibur-v3/pkg/diag"
	"github.com/BSchoolland/excalibur-v3/pkg/protocol"
)

// Poller reads the state file whenever its mtime or size changes and hands
// the parsed patch to a delivery callback. A malformed file is skipped whole;
// the previous state stays in effect until the next good write.
type Poller struct {
	path     string
	interval time.Duration
	grace    time.Duration

	lastMod  time.Time
	lastSize int64
	seen     bool
}

func New(path string, interval, grace time.Duration) *Poller {
	return &Poller{path: path, interval: interval, grace: grace}
}

// Run blocks until ctx is cancelled, calling deliver for each state file
// version it picks up. The grace delay holds back only content already on
// disk at startup, giving the agent time to overwrite a stale file from a
// previous run; fresh writes are delivered immediately.
func (p *Poller) Run(ctx context.Context, deliver func(protocol.Patch)) {
	defer diag.RecoverAndLog("statefile.Poller.Run")

	var graceCh <-chan time.Time
	var startMod time.Time
	var startSize int64
	if p.grace > 0 {
		if info, err := os.Stat(p.path); err == nil {
			startMod = info.ModTime()
			startSize = info.Size()
			p.lastMod = startMod
			p.lastSize = startSize
			p.seen = true
			graceCh = time.After(p.grace)
		}
	}

	wake := p.watch(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.check(deliver)
	for {
		select {
		case <-graceCh:
			graceCh = nil
			// Release the held-back startup content unless a fresh write
			// already replaced and delivered it.
			if p.seen && p.lastMod.Equal(startMod) && p.lastSize == startSize {
				p.seen = false
			}
			p.check(deliver)
		case <-ticker.C:
			p.check(deliver)
		case <-wake:
			p.check(deliver)
		case <-ctx.Done():
			return
		}
	}
}

// watch sets up an fsnotify fast path on the state file's directory. The
// directory is watched rather than the file so the watch survives the file
// not existing yet and editors that replace instead of rewrite. Returns a
// nil channel (never ready) when the watcher cannot be created.
func (p *Poller) watch(ctx context.Context) <-chan struct{} {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		diag.Event("fsnotify unavailable, polling only: %v", err)
		return nil
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		diag.Event("fsnotify watch failed, polling only: %v", err)
		watcher.Close()
		return nil
	}

	wake := make(chan struct{}, 1)
	go func() {
		defer diag.RecoverAndLog("statefile.Poller.watch")
		defer watcher.Close()
		for {
			select {
			case event := <-watcher.Events:
				if event.Name != p.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				select {
				case wake <- struct{}{}:
				default:
				}
			case <-watcher.Errors:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return wake
}

// check reads the file if it changed since the last read. A failed read
// leaves the change markers untouched so the version is retried next tick;
// a successful read that fails to parse advances them, so a bad write is
// logged once, not every tick.
func (p *Poller) check(deliver func(protocol.Patch)) {
	t := diag.Start("statefile.check")
	defer t.Stop()

	info, err := os.Stat(p.path)
	if err != nil {
		return
	}
	if p.seen && info.ModTime().Equal(p.lastMod) && info.Size() == p.lastSize {
		return
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		diag.Event("read state file: %v", err)
		return
	}
	p.lastMod = info.ModTime()
	p.lastSize = info.Size()
	p.seen = true

	patch, err := protocol.ParsePatch(data)
	if err != nil {
		diag.Event("skip malformed state file: %v", err)
		return
	}
	deliver(patch)
}
