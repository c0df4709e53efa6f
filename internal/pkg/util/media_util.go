package util

import (
	"io"
	"net/http"
)

// GetSafeContentType 嗅探文件头判断真实 MIME 类型，并把读取位置重置回开头
func GetSafeContentType(file io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err = file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}
