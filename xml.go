package tilerlib

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wgdzlh/tilerlib/log"

	"go.uber.org/zap"
)

// 生成TMS服务描述XML，写入 {outputFolder}/{影像名}.xml，返回文件名。
// 命名取naming句柄（调用方的原始影像名），四角坐标取imagePath（实际参与切片的影像），
// 坐标为影像原生投影下的数值，此处不做任何重投影
func (g *TilerToolbox) GenerateXml(ctx context.Context, imagePath string, naming *Image,
	baseLink string, maxZoom int, outputFolder string, quiet bool) (xmlName string, err error) {
	if !strings.HasSuffix(baseLink, "/") {
		baseLink += "/"
	}
	if !quiet {
		log.Info(g.logTag+"getting info from image", zap.String("image", imagePath))
	}
	info, err := g.GetImageInfo(ctx, imagePath)
	if err != nil {
		// 元信息查询输出不可解析同样视为四角坐标不可用；进程级失败原样上抛
		if !errors.Is(err, ErrProcessExecution) {
			err = fmt.Errorf("%w: %v", ErrCornerCoordinates, err)
		}
		return
	}
	upperLeft := info.CornerCoordinates.UpperLeft
	lowerRight := info.CornerCoordinates.LowerRight
	if len(upperLeft) < 2 || len(lowerRight) < 2 {
		log.Error(g.logTag+"corner coordinates missing in gdalinfo output", zap.String("image", imagePath))
		err = ErrCornerCoordinates
		return
	}
	content := fmt.Sprintf(TMS_XML_TEMPLATE,
		baseLink,
		naming.Name,
		maxZoom,
		formatCorner(upperLeft[0]),
		formatCorner(upperLeft[1]),
		formatCorner(lowerRight[0]),
		formatCorner(lowerRight[1]),
	)
	xmlName = naming.Name + FILE_EXT_XML
	if !quiet {
		log.Info(g.logTag+"creating xml file", zap.String("name", xmlName))
	}
	err = os.WriteFile(filepath.Join(outputFolder, xmlName), []byte(content), os.ModePerm)
	return
}

// 四角坐标转字符串，整数值保留.0后缀，与既有描述文件格式保持一致
func formatCorner(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
