package analysis

import (
	"context"
	"fmt"
)

// ErrorKind 分析失败的分类
// ErrorKind classifies a failed analysis
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindMissingCredential
	KindNetworkFailure
	KindRemoteError
	KindMalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindMissingCredential:
		return "missing credential"
	case KindNetworkFailure:
		return "network failure"
	case KindRemoteError:
		return "remote error"
	case KindMalformedResponse:
		return "malformed response"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Result 一次分析的结果：成功文档或分类失败
// Result is either Success(document) or Failure(kind, detail)
type Result struct {
	kind     ErrorKind
	document string
	detail   string
}

func Success(document string) Result {
	return Result{kind: KindNone, document: document}
}

func Failure(kind ErrorKind, detail string) Result {
	if kind == KindNone {
		kind = KindMalformedResponse
	}
	return Result{kind: kind, detail: detail}
}

func (r Result) OK() bool { return r.kind == KindNone }
func (r Result) Document() string { return r.document }
func (r Result) Kind() ErrorKind { return r.kind }
func (r Result) Detail() string { return r.detail }

func (r Result) String() string {
	if r.OK() {
		return fmt.Sprintf("Success(%d bytes)", len(r.document))
	}
	return fmt.Sprintf("Failure(%s: %s)", r.kind, r.detail)
}

// Analyzer 执行一次远程分析；所有失败都以 Result 返回
// Analyzer performs one remote round-trip. Failures come back as a Result, never as a panic or error.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) Result
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(ctx context.Context, prompt string) Result

func (f AnalyzerFunc) Analyze(ctx context.Context, prompt string) Result {
	return f(ctx, prompt)
}
