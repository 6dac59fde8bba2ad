package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"edudash_backend/internals/features/principal_hub/dto"
	helper "edudash_backend/internals/helpers"
)

/* ===================== RESULT ===================== */

// Kind tells an empty answer apart from a failed query.
type Kind string

const (
	KindOK     Kind = "ok"
	KindEmpty  Kind = "empty"
	KindFailed Kind = "failed"
)

// Result holds one query outcome. Value is the zero value when Kind is failed.
type Result[T any] struct {
	Value T
	Kind  Kind
	Err   error
}

func (r Result[T]) Failed() bool { return r.Kind == KindFailed }

func (r Result[T]) OK() bool { return r.Kind == KindOK }

func (r Result[T]) Message() string {
	if r.Err == nil {
		return ""
	}
	return helper.ErrorMessage(r.Err)
}

func failed[T any](err error) Result[T] {
	return Result[T]{Kind: KindFailed, Err: err}
}

// fetch runs one query and classifies it. A panic in fn degrades like an error.
func fetch[T any](ctx context.Context, fn func(context.Context) (T, error), empty func(T) bool) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = failed[T](fmt.Errorf("panic: %v", r))
		}
	}()

	v, err := fn(ctx)
	if err != nil {
		return failed[T](err)
	}
	if empty != nil && empty(v) {
		return Result[T]{Value: v, Kind: KindEmpty}
	}
	return Result[T]{Value: v, Kind: KindOK}
}

func zeroCount(n int64) bool { return n == 0 }

func noRows[T any](rows []T) bool { return len(rows) == 0 }

/* ===================== FAILURES ===================== */

// failures collects degraded queries across goroutines of one run.
type failures struct {
	mu   sync.Mutex
	list []dto.QueryFailure
}

func (f *failures) add(query string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list = append(f.list, dto.QueryFailure{Query: query, Message: helper.ErrorMessage(err)})
}

func (f *failures) merge(list []dto.QueryFailure) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list = append(f.list, list...)
}

// sorted returns a copy ordered by query name.
func (f *failures) sorted() []dto.QueryFailure {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]dto.QueryFailure, len(f.list))
	copy(out, f.list)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Query < out[j].Query })
	return out
}

/* ===================== BATCH ===================== */

// batch is one fan-out/fan-in barrier. Member queries never fail the group;
// they land in fails instead.
type batch struct {
	ctx   context.Context
	g     errgroup.Group
	fails *failures
	log   zerolog.Logger
	size  int
}

func newBatch(ctx context.Context, fails *failures, log zerolog.Logger) *batch {
	return &batch{ctx: ctx, fails: fails, log: log}
}

func (b *batch) wait() {
	_ = b.g.Wait()
}

// goFetch schedules fn on b and stores its classified result in dst.
func goFetch[T any](b *batch, name string, dst *Result[T], fn func(context.Context) (T, error), empty func(T) bool) {
	b.size++
	b.g.Go(func() error {
		res := fetch(b.ctx, fn, empty)
		if res.Failed() {
			b.fails.add(name, res.Err)
			logQueryFailure(b.log, name, res.Err)
		}
		*dst = res
		return nil
	})
}

func logQueryFailure(log zerolog.Logger, name string, err error) {
	if helper.IsMissingRelation(err) {
		log.Warn().Str("query", name).Str("pg_code", helper.PGErrorCode(err)).Msg("legacy source missing, using empty result")
		return
	}
	log.Warn().Err(err).Str("query", name).Msg("query degraded to empty result")
}
