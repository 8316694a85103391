package tilerlib

// 金字塔缩放级别范围 [级别A,级别B]，次序不敏感，实际使用时取min/max
type ZoomRange = [2]int

// 各波段无效值列表，长度必须与影像实际波段数一致
type NoDataSpec = []float64

// 直方图拉伸的百分位窗口 [低,高]，取值范围[0,1]
type ContrastRange = [2]float64

// 波段合成结果
type Composition struct {
	Name string `json:"name"` // 输出文件名
	Path string `json:"path"` // 输出文件完整路径
	Type string `json:"type"` // 合成类型，如r6g5b4
}

// 单次切片任务参数
type TileJob struct {
	ImagePath     string        `json:"image_path" yaml:"image_path"`
	BaseLink      string        `json:"base_link" yaml:"base_link"`
	OutputFolder  string        `json:"output_folder" yaml:"output_folder"`
	Zoom          ZoomRange     `json:"zoom" yaml:"zoom,flow"`
	NoData        NoDataSpec    `json:"nodata" yaml:"nodata,flow"`
	Convert       bool          `json:"convert" yaml:"convert"`
	Contrast      bool          `json:"contrast" yaml:"contrast"`
	ContrastRange ContrastRange `json:"contrast_range" yaml:"contrast_range,flow"`
	Move          bool          `json:"move" yaml:"move"`
	Quiet         bool          `json:"quiet" yaml:"quiet"`
}

// 创建带默认参数的切片任务：转8位开启、拉伸关闭、不经暂存目录中转
func NewTileJob(imagePath, baseLink, outputFolder string) TileJob {
	return TileJob{
		ImagePath:     imagePath,
		BaseLink:      baseLink,
		OutputFolder:  outputFolder,
		Zoom:          ZoomRange{DEFAULT_MIN_ZOOM, DEFAULT_MAX_ZOOM},
		NoData:        NoDataSpec{0, 0, 0},
		Convert:       true,
		ContrastRange: ContrastRange{DEFAULT_CONTRAST_LOW, DEFAULT_CONTRAST_HIGH},
		Quiet:         true,
	}
}
