package tilerlib

import (
	"os"
	"path/filepath"

	"github.com/wgdzlh/tilerlib/utils"
)

// 影像文件句柄：绝对路径、所在目录及不含扩展名的影像名。
// Remove之后句柄即失效，不应继续使用
type Image struct {
	Path string // 绝对路径
	Dir  string // 所在目录
	Name string // 文件名中第一个.之前的部分
}

func NewImage(imagePath string) (img *Image, err error) {
	path, err := filepath.Abs(imagePath)
	if err != nil {
		return
	}
	img = &Image{}
	img.setAttributes(path)
	return
}

func (m *Image) setAttributes(path string) {
	m.Path = path
	m.Dir = filepath.Dir(path)
	m.Name = utils.GetFilenameWithoutExt(path)
}

// 在原目录内重命名文件，并同步更新句柄字段
func (m *Image) Rename(newFilename string) (err error) {
	newPath := filepath.Join(m.Dir, newFilename)
	if err = os.Rename(m.Path, newPath); err != nil {
		return
	}
	m.setAttributes(newPath)
	return
}

// 删除文件本体
func (m *Image) Remove() error {
	return os.Remove(m.Path)
}
