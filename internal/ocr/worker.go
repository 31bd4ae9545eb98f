package ocr

import (
	"context"
	"image"
	"sync"

	"github.com/example/snapmark/internal/geometry"
)

// Result is delivered on the Recognizer's result channel when a
// request finishes. Region is the request's source region, echoed
// back so the consumer places the text where the job was started,
// not where the latest drag landed.
type Result struct {
	Region geometry.Bounds
	Text   string
	Err    error
}

// Recognizer runs recognition requests one at a time on a background
// goroutine. The engine is taken out of the recognizer while a
// request runs and put back when it completes, so a slow recognition
// never races engine reuse.
type Recognizer struct {
	factory  EngineFactory
	language Language
	results  chan Result

	mu       sync.Mutex
	engine   Engine
	inFlight bool
}

func NewRecognizer(factory EngineFactory, language Language) *Recognizer {
	return &Recognizer{
		factory:  factory,
		language: language,
		results:  make(chan Result, 1),
	}
}

// Results delivers one Result per accepted Start call.
func (r *Recognizer) Results() <-chan Result {
	return r.results
}

// Busy reports whether a request is currently in flight.
func (r *Recognizer) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inFlight
}

// EngineReady reports whether the engine has been initialized, which
// callers use to pick the right status message.
func (r *Recognizer) EngineReady() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine != nil
}

// Start begins recognizing img, which was extracted from region. It
// returns ErrBusy while an earlier request is still running. The
// result is delivered on Results even when ctx is cancelled first, so
// the worker state always settles.
func (r *Recognizer) Start(ctx context.Context, img image.Image, region geometry.Bounds) error {
	r.mu.Lock()
	if r.inFlight {
		r.mu.Unlock()
		return ErrBusy
	}
	r.inFlight = true
	engine := r.engine
	r.engine = nil
	r.mu.Unlock()

	go r.run(ctx, engine, img, region)
	return nil
}

func (r *Recognizer) run(ctx context.Context, engine Engine, img image.Image, region geometry.Bounds) {
	text, engine, err := r.recognize(ctx, engine, img)

	r.mu.Lock()
	r.engine = engine
	r.inFlight = false
	r.mu.Unlock()

	r.results <- Result{Region: region, Text: text, Err: err}
}

func (r *Recognizer) recognize(ctx context.Context, engine Engine, img image.Image) (string, Engine, error) {
	if err := ctx.Err(); err != nil {
		return "", engine, err
	}
	if engine == nil {
		modelDir, ok := ResolveModelDir()
		if !ok {
			return "", nil, ErrModelDirNotFound
		}
		created, err := r.factory(modelDir, r.language)
		if err != nil {
			return "", nil, err
		}
		engine = created
	}
	lines, err := engine.Recognize(img)
	if err != nil {
		return "", engine, err
	}
	return JoinLines(lines), engine, nil
}

// Close releases the engine. It must not be called while a request is
// in flight.
func (r *Recognizer) Close() error {
	r.mu.Lock()
	engine := r.engine
	r.engine = nil
	r.mu.Unlock()
	if engine == nil {
		return nil
	}
	return engine.Close()
}
