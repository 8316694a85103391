package tilerlib

import (
	"context"
	"encoding/json"
	"os"

	"github.com/wgdzlh/tilerlib/log"

	"go.uber.org/zap"
)

// gdalinfo -json 输出中本库用到的字段
type RasterInfo struct {
	Bands []struct {
		Band int `json:"band"`
	} `json:"bands"`
	CornerCoordinates struct {
		UpperLeft  []float64 `json:"upperLeft"`
		LowerRight []float64 `json:"lowerRight"`
	} `json:"cornerCoordinates"`
}

// 查询影像元信息（波段数、四角坐标）
func (g *TilerToolbox) GetImageInfo(ctx context.Context, imagePath string) (info RasterInfo, err error) {
	out, err := g.runner.Output(ctx, g.tools.GdalInfo, "-json", imagePath)
	if err != nil {
		log.Error(g.logTag+"gdalinfo failed", zap.String("image", imagePath), zap.Error(err))
		return
	}
	if err = json.Unmarshal(out, &info); err != nil {
		log.Error(g.logTag+"parse gdalinfo output failed", zap.String("image", imagePath), zap.Error(err))
	}
	return
}

// 校验影像波段数与无效值列表长度一致。失败必须发生在调用切片工具之前，
// 否则逐波段的无效值掩膜行为未定义
func (g *TilerToolbox) ValidateBands(ctx context.Context, imagePath string, nodata NoDataSpec) (err error) {
	if err = g.validateBandCount(ctx, imagePath, len(nodata)); err != nil {
		log.Error(g.logTag+"band validation failed", zap.String("image", imagePath),
			zap.Int("nodata", len(nodata)), zap.Error(err))
	}
	return
}

func (g *TilerToolbox) validateBandCount(ctx context.Context, imagePath string, expected int) (err error) {
	fi, err := os.Stat(imagePath)
	if err != nil || fi.IsDir() {
		err = ErrImageNotFound
		return
	}
	info, err := g.GetImageInfo(ctx, imagePath)
	if err != nil {
		err = ErrRasterOpen
		return
	}
	if len(info.Bands) != expected {
		err = ErrInvalidBandCount
	}
	return
}
