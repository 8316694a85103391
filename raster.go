package tilerlib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wgdzlh/tilerlib/log"
	"github.com/wgdzlh/tilerlib/utils"

	"go.uber.org/zap"
)

// 将影像转为8位，输出 {outputFolder}/{影像名}.TIF，返回新句柄。
// outputFolder为空时落在临时目录；量程映射取自工具箱配置，不删除输入影像
func (g *TilerToolbox) ConvertToByteScale(ctx context.Context, input *Image,
	outputFolder string, quiet bool) (output *Image, err error) {
	if outputFolder == "" {
		outputFolder = g.tmpDir
	}
	outputPath := filepath.Join(outputFolder, input.Name+FILE_EXT_TIF)
	if abs, e := filepath.Abs(outputPath); e == nil && abs == input.Path {
		log.Error(g.logTag+"convert output clashes with input", zap.String("image", input.Path))
		err = ErrConvertInPlace
		return
	}
	args := make([]string, 0, 10)
	if quiet {
		args = append(args, "-q")
	}
	args = append(args,
		"-ot", "Byte",
		"-scale",
		strconv.Itoa(g.scaleSrc[0]), strconv.Itoa(g.scaleSrc[1]),
		strconv.Itoa(g.scaleDst[0]), strconv.Itoa(g.scaleDst[1]),
		input.Path, outputPath,
	)
	if !quiet {
		log.Info(g.logTag+"converting image", zap.String("cmd", cmdLine(g.tools.GdalTranslate, args)))
	}
	if err = g.runner.Run(ctx, g.tools.GdalTranslate, args...); err != nil {
		log.Error(g.logTag+"convert process failed", zap.String("image", input.Path), zap.Error(err))
		return
	}
	if !quiet {
		log.Info(g.logTag+"translate finished", zap.String("out", outputPath))
	}
	return NewImage(outputPath)
}

// 将多个单波段影像按给定次序合成RGB影像。
// 合成类型取自波段号（如6,5,4 -> r6g5b4），filename不带tif后缀时输出名为 {filename}_{类型}.TIF；
// 合成结果会按输入列表做波段数校验
func (g *TilerToolbox) CreateComposition(ctx context.Context, filename string, orderedBands []string,
	outputFolder string, bandNumbers [3]int, quiet bool) (comp Composition, err error) {
	for _, band := range orderedBands {
		if _, err = os.Stat(band); err != nil {
			log.Error(g.logTag+"composition band file missing", zap.String("band", band))
			err = ErrImageNotFound
			return
		}
	}
	typeName := fmt.Sprintf("r%dg%db%d", bandNumbers[0], bandNumbers[1], bandNumbers[2])
	outputPath := compositionOutputPath(filename, outputFolder, typeName)
	args := make([]string, 0, 7+len(orderedBands))
	if quiet {
		args = append(args, "-q")
	}
	args = append(args, "-separate", "-co", "PHOTOMETRIC=RGB", "-o", outputPath)
	args = append(args, orderedBands...)
	if !quiet {
		log.Info(g.logTag+"creating composition", zap.String("cmd", cmdLine(g.tools.GdalMerge, args)))
	}
	if err = g.runner.Run(ctx, g.tools.GdalMerge, args...); err != nil {
		log.Error(g.logTag+"merge process failed", zap.String("out", outputPath), zap.Error(err))
		return
	}
	if err = g.validateBandCount(ctx, outputPath, len(orderedBands)); err != nil {
		log.Error(g.logTag+"merged image validation failed", zap.String("out", outputPath), zap.Error(err))
		return
	}
	comp = Composition{
		Name: filepath.Base(outputPath),
		Path: outputPath,
		Type: typeName,
	}
	return
}

func compositionOutputPath(filename, outputFolder, typeName string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tif", ".tiff":
		return filepath.Join(outputFolder, filename)
	}
	return filepath.Join(outputFolder, fmt.Sprintf("%s_%s"+FILE_EXT_TIF, filename, typeName))
}

// 按百分比缩放生成影像缩略图，默认5%x5%的JPEG
func (g *TilerToolbox) Thumbs(ctx context.Context, input, output string,
	sizePct [2]int, format string, scale, quiet bool) (out string, err error) {
	if _, err = os.Stat(input); err != nil {
		log.Error(g.logTag+"thumbs input missing", zap.String("input", input))
		err = ErrImageNotFound
		return
	}
	if sizePct[0] <= 0 || sizePct[1] <= 0 {
		sizePct = [2]int{DEFAULT_THUMBS_SIZE_PCT, DEFAULT_THUMBS_SIZE_PCT}
	}
	if format == "" {
		format = DEFAULT_THUMBS_FORMAT
	}
	args := make([]string, 0, 12)
	args = append(args,
		"-ot", "Byte",
		"-outsize", strconv.Itoa(sizePct[0])+"%", strconv.Itoa(sizePct[1])+"%",
		"-of", format,
	)
	if scale {
		args = append(args, "-scale")
	}
	if quiet {
		args = append(args, "-q")
	}
	args = append(args, input, output)
	if !quiet {
		log.Info(g.logTag+"creating thumbs", zap.String("cmd", cmdLine(g.tools.GdalTranslate, args)))
	}
	if err = g.runner.Run(ctx, g.tools.GdalTranslate, args...); err != nil {
		log.Error(g.logTag+"thumbs process failed", zap.String("input", input), zap.Error(err))
		return
	}
	out = output
	return
}

// 为波段合成生成缩略图：各波段先按百分比缩小成临时GTiff，
// 再合成缩小后的波段，最后输出合成结果的JPEG缩略图
func (g *TilerToolbox) CompositionThumbs(ctx context.Context, orderedBands []string,
	output string, sizePct [2]int, quiet bool) (out string, err error) {
	tmpDir, err := utils.GetUniqSubDir(g.tmpDir)
	if err != nil {
		return
	}
	defer os.RemoveAll(tmpDir)
	shrunken := make([]string, 0, len(orderedBands))
	var part string
	for i, band := range orderedBands {
		part = filepath.Join(tmpDir, fmt.Sprintf("cmp_%d"+FILE_EXT_TIF, i))
		if part, err = g.Thumbs(ctx, band, part, sizePct, "GTiff", true, quiet); err != nil {
			return
		}
		shrunken = append(shrunken, part)
	}
	comp, err := g.CreateComposition(ctx, "thumbs", shrunken, tmpDir, [3]int{9, 9, 9}, quiet)
	if err != nil {
		return
	}
	return g.Thumbs(ctx, comp.Path, output, [2]int{100, 100}, DEFAULT_THUMBS_FORMAT, true, quiet)
}
