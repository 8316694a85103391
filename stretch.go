package tilerlib

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/wgdzlh/tilerlib/log"
	"github.com/wgdzlh/tilerlib/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 对影像做百分位窗口内的直方图线性拉伸并重新量化为8位。
// output为空时在临时目录分配输出路径；拉伸失败说明输入本身有问题，不应重试
func (g *TilerToolbox) ContrastStretch(ctx context.Context, input, output string,
	contrastRange ContrastRange, nodata float64) (out string, err error) {
	if contrastRange[0] == 0 && contrastRange[1] == 0 {
		contrastRange = ContrastRange{DEFAULT_CONTRAST_LOW, DEFAULT_CONTRAST_HIGH}
	}
	if output == "" {
		output = filepath.Join(g.tmpDir, fmt.Sprintf(TMP_STRETCHED, uuid.NewString()))
	}
	args := []string{
		"-ndv", utils.FloatToStr(nodata),
		"-percentile-range", utils.FloatToStr(contrastRange[0]), utils.FloatToStr(contrastRange[1]),
		input, output,
	}
	log.Info(g.logTag+"stretching image", zap.String("cmd", cmdLine(g.tools.ContrastStretch, args)))
	if err = g.runner.Run(ctx, g.tools.ContrastStretch, args...); err != nil {
		log.Error(g.logTag+"contrast stretch process failed", zap.String("input", input), zap.Error(err))
		return
	}
	out = output
	return
}
