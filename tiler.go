package tilerlib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wgdzlh/tilerlib/log"
	"github.com/wgdzlh/tilerlib/utils"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// TMS切片工具箱。封装对外部栅格处理与切片工具的编排调用，
// 自身不做像素级运算，仅负责命令组装、临时文件流转与错误转译
type TilerToolbox struct {
	runner    Runner
	tools     ToolSet
	tmpDir    string
	tilerArgs []string
	scaleSrc  [2]int
	scaleDst  [2]int
	logTag    string
}

type Option func(*TilerToolbox)

// 指定临时目录（默认为系统临时目录）
func WithTmpDir(tmpDir string) Option {
	return func(g *TilerToolbox) {
		g.tmpDir = tmpDir
	}
}

// 注入外部工具路径，未指定的字段回落到PATH中的常规命名
func WithTools(tools ToolSet) Option {
	return func(g *TilerToolbox) {
		g.tools = tools
	}
}

// 替换命令执行器（如测试伪实现）
func WithRunner(runner Runner) Option {
	return func(g *TilerToolbox) {
		g.runner = runner
	}
}

// 限制单条外部命令的最长执行时间（仅对默认ExecRunner生效）
func WithTimeout(timeout time.Duration) Option {
	return func(g *TilerToolbox) {
		if r, ok := g.runner.(*ExecRunner); ok {
			r.Timeout = timeout
		}
	}
}

// 附加传给切片工具的额外参数
func WithTilerArgs(args []string) Option {
	return func(g *TilerToolbox) {
		g.tilerArgs = args
	}
}

// 自定义转8位时的量程映射（默认16位全量程映射到8位全量程）
func WithByteScale(src, dst [2]int) Option {
	return func(g *TilerToolbox) {
		g.scaleSrc = src
		g.scaleDst = dst
	}
}

// 初始化切片工具箱
func NewTilerToolbox(opts ...Option) *TilerToolbox {
	g := &TilerToolbox{
		runner:   &ExecRunner{},
		tmpDir:   os.TempDir(),
		scaleSrc: [2]int{DEFAULT_SCALE_SRC_MIN, DEFAULT_SCALE_SRC_MAX},
		scaleDst: [2]int{DEFAULT_SCALE_DST_MIN, DEFAULT_SCALE_DST_MAX},
		logTag:   "TilerToolbox:",
	}
	for _, opt := range opts {
		opt(g)
	}
	g.tools.fillDefaults()
	return g
}

// 为影像生成TMS金字塔。先做波段校验，失败则不会触发任何外部命令；
// 切片结果位于 {outputFolder}/{影像名}.tms/{级别}/... 下
func (g *TilerToolbox) GenerateTms(ctx context.Context, imagePath, outputFolder string,
	nodata NoDataSpec, zoom ZoomRange, quiet bool) (out string, err error) {
	if !quiet {
		log.Info(g.logTag+"validating image bands with nodata info", zap.String("image", imagePath))
	}
	if err = g.ValidateBands(ctx, imagePath, nodata); err != nil {
		return
	}
	minZoom, maxZoom := normalizeZoom(zoom)
	args := make([]string, 0, 10+len(g.tilerArgs))
	if quiet {
		args = append(args, "-q")
	}
	args = append(args,
		"-p", "tms",
		"--src-nodata", utils.FloatsToStr(nodata, ','),
		fmt.Sprintf("--zoom=%d:%d", minZoom, maxZoom),
		"-t", outputFolder,
	)
	args = append(args, g.tilerArgs...)
	args = append(args, imagePath)
	if !quiet {
		log.Info(g.logTag+"generating tiles", zap.String("cmd", cmdLine(g.tools.GdalTiler, args)))
	}
	if err = g.runner.Run(ctx, g.tools.GdalTiler, args...); err != nil {
		log.Error(g.logTag+"tiler process failed", zap.String("image", imagePath), zap.Error(err))
		return
	}
	if !quiet {
		log.Info(g.logTag+"tiler process finished", zap.String("out", outputFolder))
	}
	out = outputFolder
	return
}

// 执行完整切片流程：可选转8位 → 可选直方图拉伸 → 生成金字塔 → 生成XML描述
// → 清理中间产物 → 可选从暂存目录迁入最终输出目录。
// 返回TMS目录路径与XML文件路径
func (g *TilerToolbox) MakeTiles(ctx context.Context, job TileJob) (tmsPath, xmlPath string, err error) {
	if job.Contrast {
		if job.ContrastRange[0] < 0 || job.ContrastRange[1] > 1 ||
			job.ContrastRange[0] >= job.ContrastRange[1] {
			err = ErrInvalidContrastRange
			return
		}
	}
	img, err := NewImage(job.ImagePath)
	if err != nil {
		return
	}
	outputFolder, err := utils.CheckCreationFolder(job.OutputFolder)
	if err != nil {
		return
	}
	// 中间产物清单，所有退出路径上统一清理；清理失败只记日志，不掩盖主错误
	var trash []string
	defer func() {
		var e error
		for _, path := range trash {
			e = multierr.Append(e, os.RemoveAll(path))
		}
		if e != nil {
			log.Warn(g.logTag+"cleanup of intermediate files failed", zap.Error(e))
		}
	}()
	workDir := outputFolder
	if job.Move {
		if workDir, err = utils.GetUniqSubDir(g.tmpDir); err != nil {
			return
		}
		trash = append(trash, workDir)
	}
	working := img
	if job.Convert {
		if working, err = g.ConvertToByteScale(ctx, img, workDir, job.Quiet); err != nil {
			return
		}
		trash = append(trash, working.Path)
	}
	if job.Contrast {
		// 拉伸结果放入独立临时子目录并沿用原影像名，保证金字塔与XML的命名不变
		var stDir, stretched string
		if stDir, err = utils.GetUniqSubDir(g.tmpDir); err != nil {
			return
		}
		trash = append(trash, stDir)
		output := filepath.Join(stDir, img.Name+FILE_EXT_TIF)
		if stretched, err = g.ContrastStretch(ctx, working.Path, output, job.ContrastRange, DEFAULT_NODATA); err != nil {
			return
		}
		if working, err = NewImage(stretched); err != nil {
			return
		}
	}
	if _, err = g.GenerateTms(ctx, working.Path, workDir, job.NoData, job.Zoom, job.Quiet); err != nil {
		return
	}
	_, maxZoom := normalizeZoom(job.Zoom)
	xmlName, err := g.GenerateXml(ctx, working.Path, img, job.BaseLink, maxZoom, workDir, job.Quiet)
	if err != nil {
		return
	}
	tmsPath = filepath.Join(workDir, img.Name+FILE_EXT_TMS)
	xmlPath = filepath.Join(workDir, xmlName)
	if job.Move {
		if !job.Quiet {
			log.Info(g.logTag+"moving staged files", zap.String("tms", tmsPath),
				zap.String("xml", xmlPath), zap.String("dest", outputFolder))
		}
		// 迁移是多步操作且无回滚，中途失败会留下部分迁移的状态
		if err = utils.MovePathFiles(tmsPath, outputFolder); err == nil {
			err = utils.MovePathFiles(xmlPath, outputFolder)
		}
		if err != nil {
			log.Error(g.logTag+"move process failed", zap.Error(err))
			err = fmt.Errorf("%w: %v", ErrMoveFailed, err)
			return
		}
		tmsPath = filepath.Join(outputFolder, img.Name+FILE_EXT_TMS)
		xmlPath = filepath.Join(outputFolder, xmlName)
	}
	if !job.Quiet {
		log.Info(g.logTag+"make tiles done", zap.String("tms", tmsPath), zap.String("xml", xmlPath))
	}
	return
}

func normalizeZoom(zoom ZoomRange) (minZoom, maxZoom int) {
	minZoom, maxZoom = zoom[0], zoom[1]
	if minZoom > maxZoom {
		minZoom, maxZoom = maxZoom, minZoom
	}
	return
}
