package analysis

import (
	"log/slog"
	"sync"

	"github.com/Myriad-Dreamin/tinymist-sub003/foundations"
	ilog "github.com/Myriad-Dreamin/tinymist-sub003/internal/log"
	"github.com/Myriad-Dreamin/tinymist-sub003/ty"
)

// Context is the shared analysis session: one type-information table plus
// the caches built over it. It is safe for concurrent readers.
type Context struct {
	Info   *ty.TypeInfo
	logger *slog.Logger

	sigMu sync.Mutex
	sigs  map[*foundations.Func]Signature
}

func NewContext(info *ty.TypeInfo) *Context {
	return &Context{
		Info:   info,
		logger: ilog.DefaultLogger.With(slog.String("section", "analysis")),
		sigs:   map[*foundations.Func]Signature{},
	}
}

// SignatureOf resolves and caches the signature of a function value. The
// cache is keyed by function identity; the first computed signature wins,
// so concurrent resolutions of the same function agree.
func (ctx *Context) SignatureOf(fn *foundations.Func) Signature {
	ctx.sigMu.Lock()
	cached, ok := ctx.sigs[fn]
	ctx.sigMu.Unlock()
	if ok {
		return cached
	}

	sig := FuncSignature(fn)
	ctx.logger.Debug("resolved signature", slog.String("func", fn.Repr()))

	ctx.sigMu.Lock()
	defer ctx.sigMu.Unlock()
	if won, ok := ctx.sigs[fn]; ok {
		return won
	}
	ctx.sigs[fn] = sig
	return sig
}

// TypeOfFunc is the signature type of a function value. It makes Context a
// ty.FuncResolver for signature surface traversals.
func (ctx *Context) TypeOfFunc(fn *foundations.Func) *ty.SigTy {
	return ctx.SignatureOf(fn).Primary().SigTy
}

var _ ty.FuncResolver = (*Context)(nil)
