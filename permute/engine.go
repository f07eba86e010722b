package permute

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/djeday123/subperm/dims"
	"github.com/djeday123/subperm/pkg/config"
	"github.com/djeday123/subperm/tensor"
)

// Engine reinterprets arrays under a different grouping and ordering of
// the same named sub-dimensions. An Engine holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	cfg config.PermuteConfig
	log *zap.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithClone overrides config.PermuteConfig.Clone.
func WithClone(clone bool) Option {
	return func(e *Engine) { e.cfg.Clone = clone }
}

// New creates an Engine from cfg.
func New(cfg config.PermuteConfig, opts ...Option) *Engine {
	e := &Engine{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = New(config.DefaultConfig().Permute)

// Permute reshapes t, laid out as in, into the grouping and order of out
// using the default engine.
func Permute(t *tensor.Tensor, in, out dims.Spec) (*tensor.Tensor, error) {
	return defaultEngine.Permute(t, in, out)
}

// Rearrange is Permute with both specs given as an "in -> out" pattern,
// e.g. "a b c -> a (c b)", using the default engine.
func Rearrange(t *tensor.Tensor, pattern string, vocab ...dims.SubDim) (*tensor.Tensor, error) {
	return defaultEngine.Rearrange(t, pattern, vocab...)
}

// Permute reshapes t, whose row-major layout is described by in, into the
// compact shape of out. Each output position holds the input element with
// the same sub-dimension coordinates.
//
// in and out must name the same set of SubDims, otherwise a
// *dims.DimensionMismatchError is returned before t is touched. If t does
// not hold exactly as many elements as in describes, the error is a
// *dims.ShapeArityError.
//
// Unless the engine clones, the result may share storage with t.
func (e *Engine) Permute(t *tensor.Tensor, in, out dims.Spec) (*tensor.Tensor, error) {
	p, err := NewPlan(in, out)
	if err != nil {
		return nil, err
	}
	return e.Apply(p, t)
}

// Apply runs a prepared plan on t.
func (e *Engine) Apply(p *Plan, t *tensor.Tensor) (*tensor.Tensor, error) {
	skip := e.cfg.SkipIdentity && p.Identity()
	if skip {
		e.log.Debug("no transpose", zap.Stringer("in", p.in), zap.Stringer("out", p.out))
	} else {
		e.log.Debug("transpose",
			zap.Stringer("in", p.in),
			zap.Stringer("out", p.out),
			zap.Ints("perm", p.perm))
	}

	result, err := p.apply(t, e.cfg.SkipIdentity)
	if err != nil {
		return nil, err
	}
	if e.cfg.Clone {
		if result, err = result.Clone(); err != nil {
			return nil, errors.Wrap(err, "clone result")
		}
	}
	e.log.Debug("permuted",
		zap.Stringer("from", t.Shape()),
		zap.Stringer("to", result.Shape()),
		zap.Bool("contiguous", result.IsContiguous()))
	return result, nil
}

// Rearrange is Permute with both specs given as an "in -> out" pattern.
func (e *Engine) Rearrange(t *tensor.Tensor, pattern string, vocab ...dims.SubDim) (*tensor.Tensor, error) {
	in, out, err := dims.ParsePattern(pattern, vocab...)
	if err != nil {
		return nil, err
	}
	return e.Permute(t, in, out)
}
