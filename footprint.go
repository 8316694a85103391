package tilerlib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wgdzlh/tilerlib/log"
	"github.com/wgdzlh/tilerlib/utils"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/simplify"
	"go.uber.org/zap"
)

// 提取影像有效区轮廓。链路：warp生成带alpha的影像 → 掩膜波段转VRT →
// 第1波段转VRT → 矢量化为GeoJSON，之后可选按容差化简（化简在原生投影下、
// 重投影之前进行），再经矢量转换工具重投影到目标坐标系。
// outType为wkt或json，epsg非正时默认4674
func (g *TilerToolbox) GenerateFootprint(ctx context.Context, imagePath string,
	simplifyT float64, outType string, epsg int) (out string, err error) {
	if _, err = os.Stat(imagePath); err != nil {
		err = ErrImageNotFound
		return
	}
	if epsg <= 0 {
		epsg = FOOTPRINT_SRID
	}
	tmpDir, err := utils.GetUniqSubDir(g.tmpDir)
	if err != nil {
		return
	}
	defer os.RemoveAll(tmpDir)
	var (
		warped    = filepath.Join(tmpDir, "fp"+FILE_EXT_TIF)
		maskVrt   = filepath.Join(tmpDir, "fp_mask"+FILE_EXT_VRT)
		bandVrt   = filepath.Join(tmpDir, "fp_band"+FILE_EXT_VRT)
		footprint = filepath.Join(tmpDir, "fp"+FILE_EXT_JSON)
	)
	log.Info(g.logTag+"generating footprint", zap.String("image", imagePath),
		zap.Float64("simplify", simplifyT), zap.Int("epsg", epsg))
	steps := []struct {
		tool string
		args []string
	}{
		{g.tools.GdalWarp, []string{"-dstnodata", "0", "-dstalpha", "-of", "GTiff", imagePath, warped}},
		{g.tools.GdalTranslate, []string{"-b", "mask", "-of", "vrt", "-a_nodata", "0", warped, maskVrt}},
		{g.tools.GdalTranslate, []string{"-b", "1", "-of", "vrt", "-a_nodata", "0", maskVrt, bandVrt}},
		{g.tools.GdalPolygonize, []string{"-8", bandVrt, "-b", "1", "-f", "GeoJSON", footprint}},
	}
	for _, step := range steps {
		if err = g.runner.Run(ctx, step.tool, step.args...); err != nil {
			log.Error(g.logTag+"footprint step failed", zap.String("cmd", cmdLine(step.tool, step.args)), zap.Error(err))
			return
		}
	}
	geom, err := readFootprintGeom(footprint)
	if err != nil {
		log.Error(g.logTag+"parse footprint geojson failed", zap.Error(err))
		return
	}
	if simplifyT > 0 {
		geom = simplify.DouglasPeucker(simplifyT).Simplify(geom)
	}
	if geom, err = g.transformGeom(ctx, geom, tmpDir, epsg); err != nil {
		return
	}
	if outType == FP_OUT_JSON {
		var data []byte
		if data, err = geojson.NewGeometry(geom).MarshalJSON(); err != nil {
			return
		}
		out = string(data)
	} else {
		out = wkt.MarshalString(geom)
	}
	return
}

// 重投影委托给矢量转换工具，经由临时GeoJSON文件往返
func (g *TilerToolbox) transformGeom(ctx context.Context, geom orb.Geometry,
	tmpDir string, epsg int) (ret orb.Geometry, err error) {
	src := filepath.Join(tmpDir, "fp_src"+FILE_EXT_JSON)
	dst := filepath.Join(tmpDir, "fp_dst"+FILE_EXT_JSON)
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(geom))
	data, err := fc.MarshalJSON()
	if err != nil {
		return
	}
	if err = os.WriteFile(src, data, os.ModePerm); err != nil {
		return
	}
	args := []string{"-f", "GeoJSON", "-t_srs", fmt.Sprintf("epsg:%d", epsg), dst, src}
	if err = g.runner.Run(ctx, g.tools.Ogr2Ogr, args...); err != nil {
		log.Error(g.logTag+"footprint reprojection failed", zap.Error(err))
		return
	}
	return readFootprintGeom(dst)
}

func readFootprintGeom(path string) (geom orb.Geometry, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return
	}
	if len(fc.Features) == 0 || fc.Features[0].Geometry == nil {
		err = ErrEmptyFootprint
		return
	}
	geom = fc.Features[0].Geometry
	return
}
