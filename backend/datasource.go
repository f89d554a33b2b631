package backend

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gioui.org/x/explorer"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"git.sr.ht/~whereswaldon/areaplot/chart"
)

// Status describes the dataset currently offered by a Datasource.
type Status struct {
	// Path is the file being displayed, empty for one-shot streams.
	Path string
	// Data is nil until the first successful load.
	Data *chart.Dataset
	// Err is the most recent load failure. Data keeps the last good load.
	Err error
	// Reloads counts rereads of Path after it changed on disk.
	Reloads int
}

// Loaded reports whether s carries a dataset.
func (s Status) Loaded() bool {
	return s.Data != nil
}

type RWBox[T any] struct {
	t    T
	lock sync.RWMutex
}

func (r *RWBox[T]) Read(f func(*T)) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	f(&r.t)
}

func (r *RWBox[T]) Write(f func(*T)) {
	r.lock.Lock()
	defer r.lock.Unlock()
	f(&r.t)
}

type sourceState struct {
	status Status
	// gen increases with every Open so that slow loads of a previous file
	// cannot overwrite the current one.
	gen  int
	dir  string
	subs map[chan Status]struct{}
}

// Datasource loads CSV files into datasets and rereads them whenever they
// are written to.
type Datasource struct {
	watcher *fsnotify.Watcher
	log     zerolog.Logger
	state   RWBox[sourceState]
	loads   sync.WaitGroup
	// loadMu keeps reloads of the same file from interleaving.
	loadMu sync.Mutex
}

func NewDatasource(appCtx context.Context, log zerolog.Logger) (*Datasource, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed creating file watcher: %w", err)
	}
	d := &Datasource{
		watcher: watcher,
		log:     log.With().Str("component", "datasource").Logger(),
	}
	d.state.Write(func(s *sourceState) {
		s.subs = make(map[chan Status]struct{})
	})
	go d.watch(appCtx)
	return d, nil
}

// Status streams the current status followed by every change to it. The
// channel only ever holds the newest status; slow readers skip
// intermediate ones.
func (d *Datasource) Status(ctx context.Context) <-chan Status {
	out := make(chan Status, 1)
	d.state.Write(func(s *sourceState) {
		out <- s.status
		s.subs[out] = struct{}{}
	})
	go func() {
		<-ctx.Done()
		d.state.Write(func(s *sourceState) {
			delete(s.subs, out)
			close(out)
		})
	}()
	return out
}

// Current returns the latest status.
func (d *Datasource) Current() Status {
	var st Status
	d.state.Read(func(s *sourceState) {
		st = s.status
	})
	return st
}

// publish applies update to the status if gen is still current and fans the
// result out to subscribers.
func (d *Datasource) publish(gen int, update func(*Status)) {
	d.state.Write(func(s *sourceState) {
		if gen != s.gen {
			return
		}
		update(&s.status)
		for ch := range s.subs {
			select {
			case <-ch:
			default:
			}
			ch <- s.status
		}
	})
}

// Open displays the CSV file at path and watches it for changes.
func (d *Datasource) Open(path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed resolving %q: %w", path, err)
	}
	// Editors often replace files instead of writing them in place, which
	// drops watches on the file itself. Watching the directory survives
	// that.
	dir := filepath.Dir(path)
	var gen int
	var oldDir string
	d.state.Write(func(s *sourceState) {
		s.gen++
		gen = s.gen
		oldDir = s.dir
		s.dir = dir
	})
	if oldDir != "" && oldDir != dir {
		if err := d.watcher.Remove(oldDir); err != nil {
			d.log.Debug().Err(err).Str("dir", oldDir).Msg("failed removing watch")
		}
	}
	if err := d.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed watching %q: %w", dir, err)
	}
	d.publish(gen, func(st *Status) {
		*st = Status{Path: path}
	})
	d.loads.Add(1)
	go d.load(gen, path, false)
	return nil
}

// LoadFromFile asks the user for a file. Files with a name on disk are
// opened and watched; other streams are read once.
func (d *Datasource) LoadFromFile(expl *explorer.Explorer) error {
	file, err := expl.ChooseFile("csv")
	if err != nil {
		return err
	}
	if f, ok := file.(interface{ Name() string }); ok {
		if _, err := os.Stat(f.Name()); err == nil {
			file.Close()
			return d.Open(f.Name())
		}
	}
	d.LoadFromStream(file)
	return nil
}

// LoadFromStream displays the CSV read from r and closes it.
func (d *Datasource) LoadFromStream(r io.ReadCloser) {
	var gen int
	d.state.Write(func(s *sourceState) {
		s.gen++
		gen = s.gen
	})
	d.publish(gen, func(st *Status) {
		*st = Status{}
	})
	d.loads.Add(1)
	go func() {
		defer d.loads.Done()
		defer r.Close()
		ds, err := LoadCSV(r)
		d.publish(gen, func(st *Status) {
			st.Data, st.Err = ds, err
		})
	}()
}

func (d *Datasource) load(gen int, path string, reload bool) {
	defer d.loads.Done()
	d.loadMu.Lock()
	defer d.loadMu.Unlock()
	f, err := os.Open(path)
	if err != nil {
		d.log.Warn().Err(err).Str("path", path).Msg("failed opening dataset")
		d.publish(gen, func(st *Status) { st.Err = err })
		return
	}
	defer f.Close()
	ds, err := loadSettled(f, d.log)
	if err != nil {
		d.log.Warn().Err(err).Str("path", path).Msg("failed loading dataset")
		d.publish(gen, func(st *Status) { st.Err = err })
		return
	}
	d.log.Debug().Str("path", path).Int("records", ds.Len()).Bool("reload", reload).Msg("loaded dataset")
	d.publish(gen, func(st *Status) {
		st.Data = ds
		st.Err = nil
		if reload {
			st.Reloads++
		}
	})
}

func (d *Datasource) watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.log.Warn().Err(err).Msg("file watcher error")
		case ev, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			var gen int
			var path string
			d.state.Read(func(s *sourceState) {
				gen, path = s.gen, s.status.Path
			})
			if path == "" || filepath.Clean(ev.Name) != path {
				continue
			}
			d.loads.Add(1)
			go d.load(gen, path, true)
		}
	}
}

// Close stops watching files and waits for pending loads.
func (d *Datasource) Close() error {
	err := d.watcher.Close()
	d.loads.Wait()
	return err
}
