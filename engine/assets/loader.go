package assets

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

const resultBuffer = 32

// Loader decodes textures on a worker pool and delivers them on Results.
type Loader struct {
	dir  string
	pool worker.DynamicWorkerPool

	workers        int
	maxTextureSize int
	heightBlur     float32
	procedural     bool
	proceduralSize int
	seed           int64
	logger         *slog.Logger

	results   chan TextureResult
	done      chan struct{}
	pending   sync.WaitGroup
	nextID    atomic.Int64
	closeOnce sync.Once
}

// NewLoader creates a loader reading files from dir.
//
// Parameters:
//   - dir: the asset directory
//   - opts: functional options configuring the loader
//
// Returns:
//   - *Loader: the loader, its workers are running
func NewLoader(dir string, opts ...LoaderBuilderOption) *Loader {
	l := &Loader{
		dir:            dir,
		workers:        2,
		maxTextureSize: 2048,
		proceduralSize: 512,
		seed:           1,
		logger:         slog.Default(),
		results:        make(chan TextureResult, resultBuffer),
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	return l
}

// LoadTexture queues a decode. It returns immediately; the result arrives on Results.
//
// Parameters:
//   - slot: the slot the texture is for
//   - name: the file name relative to the asset directory
//   - kind: how the texture is decoded
func (l *Loader) LoadTexture(slot Slot, name string, kind Kind) {
	select {
	case <-l.done:
		return
	default:
	}

	l.pending.Add(1)
	id := int(l.nextID.Add(1))
	l.pool.SubmitTask(worker.Task{
		ID:      id,
		Payload: name,
		Do: func() (any, error) {
			defer l.pending.Done()
			res := l.load(slot, name, kind)
			select {
			case l.results <- res:
			case <-l.done:
			}
			return res, res.Err
		},
	})
}

// LoadAll queues every request with its slot's kind.
func (l *Loader) LoadAll(requests []TextureRequest) {
	for _, req := range requests {
		l.LoadTexture(req.Slot, req.Name, req.Slot.Kind())
	}
}

// Results delivers finished loads. It is never closed.
func (l *Loader) Results() <-chan TextureResult {
	return l.results
}

// Wait blocks until every queued load has been delivered or dropped by Close.
func (l *Loader) Wait() {
	l.pending.Wait()
}

// Close drops undelivered results and stops the workers.
func (l *Loader) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
		l.pending.Wait()
		l.pool.Stop()
	})
}

func (l *Loader) load(slot Slot, name string, kind Kind) TextureResult {
	res := TextureResult{Slot: slot, Name: name}
	path := filepath.Join(l.dir, name)

	f, err := os.Open(path)
	if err != nil {
		if kind == KindHeight && l.procedural && errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("height map missing, using procedural terrain", "path", path)
			res.Data = ProceduralHeightMap(l.proceduralSize, l.proceduralSize, float64(l.proceduralSize)/8, l.seed)
			return res
		}
		res.Err = fmt.Errorf("open %s: %w", path, err)
		l.logger.Warn("asset load failed, keeping fallback", "slot", slot.String(), "error", res.Err)
		return res
	}
	defer f.Close()

	data, err := DecodeTexture(f, kind, DecodeOptions{MaxSize: l.maxTextureSize, HeightBlur: l.heightBlur})
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		l.logger.Warn("asset load failed, keeping fallback", "slot", slot.String(), "error", res.Err)
		return res
	}

	l.logger.Debug("asset loaded", "slot", slot.String(), "path", path, "width", data.Width, "height", data.Height)
	res.Data = data
	return res
}
