package tilerlib

const (
	BIN_GDALINFO         = "gdalinfo"
	BIN_GDAL_TRANSLATE   = "gdal_translate"
	BIN_GDAL_TILER       = "gdal_tiler.py"
	BIN_CONTRAST_STRETCH = "gdal_contrast_stretch"
	BIN_GDAL_MERGE       = "gdal_merge.py"
	BIN_GDALDEM          = "gdaldem"
	BIN_GDALWARP         = "gdalwarp"
	BIN_GDAL_POLYGONIZE  = "gdal_polygonize.py"
	BIN_OGR2OGR          = "ogr2ogr"

	FILE_EXT_TIF  = ".TIF"
	FILE_EXT_XML  = ".xml"
	FILE_EXT_TMS  = ".tms"
	FILE_EXT_VRT  = ".vrt"
	FILE_EXT_JSON = ".json"

	DEFAULT_MIN_ZOOM = 2
	DEFAULT_MAX_ZOOM = 15

	// 16位全量程转8位全量程
	DEFAULT_SCALE_SRC_MIN = 0
	DEFAULT_SCALE_SRC_MAX = 65535
	DEFAULT_SCALE_DST_MIN = 0
	DEFAULT_SCALE_DST_MAX = 255

	DEFAULT_CONTRAST_LOW  = 0.02
	DEFAULT_CONTRAST_HIGH = 0.98
	DEFAULT_NODATA        = 0

	DEFAULT_THUMBS_SIZE_PCT = 5
	DEFAULT_THUMBS_FORMAT   = "JPEG"

	FOOTPRINT_SRID = 4674

	FP_OUT_WKT  = "wkt"
	FP_OUT_JSON = "json"

	// Web墨卡托全幅边界
	WEB_MERCATOR_BOUND = 20037508.34

	TMP_COLOR_TABLE = "color_%s.txt"
	TMP_STRETCHED   = "st_%s" + FILE_EXT_TIF

	// TMS服务描述XML模板。标签次序、缩进与末尾无换行均为下游消费方依赖的固定格式，
	// 参数依次为：服务链接前缀（以/结尾）、影像名、最大级别、目标窗口四角坐标
	TMS_XML_TEMPLATE = `<GDAL_WMS>
            <Service name="TMS">
                <ServerUrl>%[1]s%[2]s.tms/${z}/${x}/${y}.png</ServerUrl>
                <SRS>EPSG:3857</SRS>
                <ImageFormat>image/png</ImageFormat>
            </Service>
            <DataWindow>
                <UpperLeftX>-20037508.34</UpperLeftX>
                <UpperLeftY>20037508.34</UpperLeftY>
                <LowerRightX>20037508.34</LowerRightX>
                <LowerRightY>-20037508.34</LowerRightY>
                <TileLevel>%[3]d</TileLevel>
                <TileCountX>1</TileCountX>
                <TileCountY>1</TileCountY>
                <YOrigin>bottom</YOrigin>
            </DataWindow>
            <TargetWindow>
            <UpperLeftX>%[4]s</UpperLeftX>
            <UpperLeftY>%[5]s</UpperLeftY>
            <LowerRightX>%[6]s</LowerRightX>
            <LowerRightY>%[7]s</LowerRightY>
        </TargetWindow>
            <Projection>EPSG:3857</Projection>
            <BlockSizeX>256</BlockSizeX>
            <BlockSizeY>256</BlockSizeY>
            <BandsCount>4</BandsCount>
            <ZeroBlockHttpCodes>204,303,400,404,500,501</ZeroBlockHttpCodes>
            <ZeroBlockOnServerException>true</ZeroBlockOnServerException>
            <Cache>
                <Path>./gdalwmscache/cache_%[2]s.tms</Path>
            </Cache>
        </GDAL_WMS>`
)

// 外部工具可执行文件路径，零值字段回落到PATH中的常规命名
type ToolSet struct {
	GdalInfo        string `json:"gdalinfo" yaml:"gdalinfo"`
	GdalTranslate   string `json:"gdal_translate" yaml:"gdal_translate"`
	GdalTiler       string `json:"gdal_tiler" yaml:"gdal_tiler"`
	ContrastStretch string `json:"contrast_stretch" yaml:"contrast_stretch"`
	GdalMerge       string `json:"gdal_merge" yaml:"gdal_merge"`
	GdalDem         string `json:"gdaldem" yaml:"gdaldem"`
	GdalWarp        string `json:"gdalwarp" yaml:"gdalwarp"`
	GdalPolygonize  string `json:"gdal_polygonize" yaml:"gdal_polygonize"`
	Ogr2Ogr         string `json:"ogr2ogr" yaml:"ogr2ogr"`
}

func (t *ToolSet) fillDefaults() {
	if t.GdalInfo == "" {
		t.GdalInfo = BIN_GDALINFO
	}
	if t.GdalTranslate == "" {
		t.GdalTranslate = BIN_GDAL_TRANSLATE
	}
	if t.GdalTiler == "" {
		t.GdalTiler = BIN_GDAL_TILER
	}
	if t.ContrastStretch == "" {
		t.ContrastStretch = BIN_CONTRAST_STRETCH
	}
	if t.GdalMerge == "" {
		t.GdalMerge = BIN_GDAL_MERGE
	}
	if t.GdalDem == "" {
		t.GdalDem = BIN_GDALDEM
	}
	if t.GdalWarp == "" {
		t.GdalWarp = BIN_GDALWARP
	}
	if t.GdalPolygonize == "" {
		t.GdalPolygonize = BIN_GDAL_POLYGONIZE
	}
	if t.Ogr2Ogr == "" {
		t.Ogr2Ogr = BIN_OGR2OGR
	}
}
