package utils

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// 在parentPath下创建uuid命名的唯一子目录（parentPath为空时使用系统临时目录）
func GetUniqSubDir(parentPath string) (path string, err error) {
	if parentPath == "" {
		parentPath = os.TempDir()
	}
	path = filepath.Join(parentPath, uuid.NewString())
	err = os.Mkdir(path, os.ModePerm)
	return
}

// 确保目录存在
func CheckCreationFolder(folder string) (path string, err error) {
	path = folder
	err = os.MkdirAll(folder, os.ModePerm)
	return
}

// 获取文件名中第一个.之前的部分
func GetFilenameWithoutExt(path string) (name string) {
	name = filepath.Base(path)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return
}

// 将src文件或目录移入dest目录，同名的已有子树会被覆盖；
// 优先rename，跨文件系统时退化为复制+删除源
func MovePathFiles(src, dest string) (err error) {
	target := filepath.Join(dest, filepath.Base(src))
	if target != src {
		if err = os.RemoveAll(target); err != nil {
			return
		}
	}
	if err = os.Rename(src, target); err == nil {
		return
	}
	fi, err := os.Stat(src)
	if err != nil {
		return
	}
	if fi.IsDir() {
		err = CopyDir(src, target)
	} else {
		err = CopyFile(src, target)
	}
	if err != nil {
		return
	}
	err = os.RemoveAll(src)
	return
}

func CopyFile(src, dest string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return
	}
	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return
	}
	err = out.Close()
	return
}

func CopyDir(src, dest string) (err error) {
	return filepath.Walk(src, func(path string, info os.FileInfo, e error) error {
		if e != nil {
			return e
		}
		rel, e := filepath.Rel(src, path)
		if e != nil {
			return e
		}
		target := filepath.Join(dest, rel)
		if info.IsDir() {
			return os.MkdirAll(target, os.ModePerm)
		}
		return CopyFile(path, target)
	})
}
