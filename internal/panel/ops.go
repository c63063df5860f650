package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrUnknownPanel is returned when an operation names a panel that does not exist.
var ErrUnknownPanel = errors.New("panel: unknown panel")

// ErrUnsupported is returned when a panel lacks the capability an operation needs.
var ErrUnsupported = errors.New("panel: operation not supported")

// RemoveOptions tunes removal. CaptureUndo records a reversal on the undo stack.
type RemoveOptions struct {
	CaptureUndo bool
}

// Ops is the per-panel API every dashboard provides.
type Ops interface {
	DuplicatePanel(ctx context.Context, id string) (string, error)
	RemovePanel(ctx context.Context, id string, opts RemoveOptions) error
}

// BatchDuplicator duplicates several panels as a single operation.
type BatchDuplicator interface {
	DuplicatePanels(ctx context.Context, ids []string) ([]string, error)
}

// BatchRemover removes several panels as a single operation.
type BatchRemover interface {
	RemovePanels(ctx context.Context, ids []string, opts RemoveOptions) error
}

// AttributeStore reads and writes full panel attributes.
type AttributeStore interface {
	Capabilities(id string) (Capabilities, bool)
	Attributes(ctx context.Context, id string) (*Attributes, error)
	UpdateAttributes(ctx context.Context, id string, attrs *Attributes) error
}

// Failure records a skipped item of a per-panel fallback loop.
type Failure struct {
	ID  string
	Err error
}

// Result summarizes a batch call. Created holds new panel IDs for duplicates.
type Result struct {
	Created []string
	Failed  []Failure
}

// BatchOps is the single surface bulk callers use.
type BatchOps interface {
	Duplicate(ctx context.Context, ids []string) (Result, error)
	Remove(ctx context.Context, ids []string, opts RemoveOptions) (Result, error)
}

// Batch wraps ops. A native batch implementation is preferred and its error
// propagates. Otherwise panels are handled one by one: a single ID propagates
// its error, while longer lists log and skip failures.
func Batch(ops Ops, logger *slog.Logger) BatchOps {
	if logger == nil {
		logger = slog.Default()
	}
	return batch{ops: ops, logger: logger}
}

type batch struct {
	ops    Ops
	logger *slog.Logger
}

func (b batch) Duplicate(ctx context.Context, ids []string) (Result, error) {
	if len(ids) == 0 {
		return Result{}, nil
	}
	if native, ok := b.ops.(BatchDuplicator); ok {
		created, err := native.DuplicatePanels(ctx, ids)
		if err != nil {
			return Result{}, fmt.Errorf("duplicate panels: %w", err)
		}
		return Result{Created: created}, nil
	}
	if len(ids) == 1 {
		created, err := b.ops.DuplicatePanel(ctx, ids[0])
		if err != nil {
			return Result{}, fmt.Errorf("duplicate panel %q: %w", ids[0], err)
		}
		return Result{Created: []string{created}}, nil
	}
	var res Result
	for _, id := range ids {
		created, err := b.ops.DuplicatePanel(ctx, id)
		if err != nil {
			b.logger.Warn("panel: duplicate failed", slog.String("panel_id", id), slog.Any("err", err))
			res.Failed = append(res.Failed, Failure{ID: id, Err: err})
			continue
		}
		res.Created = append(res.Created, created)
	}
	return res, nil
}

func (b batch) Remove(ctx context.Context, ids []string, opts RemoveOptions) (Result, error) {
	if len(ids) == 0 {
		return Result{}, nil
	}
	if native, ok := b.ops.(BatchRemover); ok {
		if err := native.RemovePanels(ctx, ids, opts); err != nil {
			return Result{}, fmt.Errorf("remove panels: %w", err)
		}
		return Result{}, nil
	}
	if len(ids) == 1 {
		if err := b.ops.RemovePanel(ctx, ids[0], opts); err != nil {
			return Result{}, fmt.Errorf("remove panel %q: %w", ids[0], err)
		}
		return Result{}, nil
	}
	var res Result
	for _, id := range ids {
		if err := b.ops.RemovePanel(ctx, id, opts); err != nil {
			b.logger.Warn("panel: remove failed", slog.String("panel_id", id), slog.Any("err", err))
			res.Failed = append(res.Failed, Failure{ID: id, Err: err})
		}
	}
	return res, nil
}
