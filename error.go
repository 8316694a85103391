package tilerlib

import (
	"errors"
	"fmt"

	"github.com/alessio/shellescape"
)

var (
	ErrProcessExecution     = errors.New("external process failed")
	ErrInvalidBandCount     = errors.New("nodata length must be same as datasource bands")
	ErrCornerCoordinates    = errors.New("corner coordinates unavailable")
	ErrMoveFailed           = errors.New("move of staged output failed")
	ErrImageNotFound        = errors.New("input image not found")
	ErrRasterOpen           = errors.New("image is not a valid datasource")
	ErrConvertInPlace       = errors.New("convert output would overwrite input image")
	ErrInvalidContrastRange = errors.New("contrast range must be within [0,1] with low < high")
	ErrUnknownPalette       = errors.New("unknown color palette")
	ErrEmptyFootprint       = errors.New("footprint polygonize output is empty")
)

// 外部命令非零退出错误，携带完整命令及退出码
type ProcessError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Tool, e.ExitCode, e.Stderr)
}

func (e *ProcessError) Unwrap() error {
	return ErrProcessExecution
}

// 可打印的完整命令行（仅用于日志展示）
func (e *ProcessError) Command() string {
	return shellescape.QuoteCommand(append([]string{e.Tool}, e.Args...))
}
