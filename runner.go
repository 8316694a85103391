package tilerlib

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/alessio/shellescape"
)

// 外部命令执行接口。命令以参数向量形式传入，不经过shell，
// 非零退出码返回ProcessError，不做任何重试
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// 基于os/exec的默认Runner，可选的Timeout为单条命令的最长执行时间
type ExecRunner struct {
	Timeout time.Duration
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (err error) {
	_, err = r.exec(ctx, name, args)
	return
}

func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return r.exec(ctx, name, args)
}

func (r *ExecRunner) exec(ctx context.Context, name string, args []string) (out []byte, err error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err = cmd.Run()
	out = stdout.Bytes()
	if err == nil {
		return
	}
	if ctx.Err() != nil {
		err = ctx.Err()
		return
	}
	code := -1
	if exitErr, ok := err.(*exec.ExitError); ok {
		code = exitErr.ExitCode()
	}
	err = &ProcessError{
		Tool:     name,
		Args:     args,
		ExitCode: code,
		Stderr:   strings.TrimSpace(stderr.String()),
	}
	return
}

func cmdLine(name string, args []string) string {
	return shellescape.QuoteCommand(append([]string{name}, args...))
}
